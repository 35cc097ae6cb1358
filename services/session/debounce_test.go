package session

import (
	"sync"
	"testing"
	"time"
)

type settleRecorder struct {
	mu    sync.Mutex
	terms []string
}

func (r *settleRecorder) settle(term string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.terms = append(r.terms, term)
}

func (r *settleRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.terms...)
}

func TestDebouncerOnlyFinalValueSettles(t *testing.T) {
	rec := &settleRecorder{}
	d := newDebouncer(50*time.Millisecond, rec.settle)
	defer d.Stop()

	// Rapid updates well inside the quiet interval.
	d.Update("bat")
	time.Sleep(10 * time.Millisecond)
	d.Update("batm")
	time.Sleep(10 * time.Millisecond)
	d.Update("batman")

	time.Sleep(120 * time.Millisecond)

	got := rec.snapshot()
	if len(got) != 1 {
		t.Fatalf("expected exactly one settle, got %v", got)
	}
	if got[0] != "batman" {
		t.Fatalf("expected final term to settle, got %q", got[0])
	}
}

func TestDebouncerSettlesOncePerQuietPeriod(t *testing.T) {
	rec := &settleRecorder{}
	d := newDebouncer(30*time.Millisecond, rec.settle)
	defer d.Stop()

	d.Update("first")
	time.Sleep(80 * time.Millisecond)
	d.Update("second")
	time.Sleep(80 * time.Millisecond)

	got := rec.snapshot()
	if len(got) != 2 {
		t.Fatalf("expected two settles across two quiet periods, got %v", got)
	}
	if got[0] != "first" || got[1] != "second" {
		t.Fatalf("expected settles in input order, got %v", got)
	}
}

func TestDebouncerStopPreventsPendingSettle(t *testing.T) {
	rec := &settleRecorder{}
	d := newDebouncer(30*time.Millisecond, rec.settle)

	d.Update("doomed")
	d.Stop()
	time.Sleep(80 * time.Millisecond)

	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("expected no settles after stop, got %v", got)
	}

	// Updates after stop are ignored too.
	d.Update("late")
	time.Sleep(80 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("expected no settles after stop, got %v", got)
	}
}
