package session

import "testing"

func TestNavigatorDetailRemembersReturnView(t *testing.T) {
	var n navigator

	if n.Mode() != ViewHome {
		t.Fatalf("expected initial mode home, got %v", n.Mode())
	}

	n.EnterDetail(7)
	if n.Mode() != ViewDetail || n.MovieID() != 7 {
		t.Fatalf("expected detail view for movie 7, got %v/%d", n.Mode(), n.MovieID())
	}

	if !n.Back() {
		t.Fatalf("expected back to transition")
	}
	if n.Mode() != ViewHome {
		t.Fatalf("expected back to return home, got %v", n.Mode())
	}

	if !n.EnterWatchlist() {
		t.Fatalf("expected home -> watchlist transition")
	}
	n.EnterDetail(11)
	if !n.Back() {
		t.Fatalf("expected back to transition")
	}
	if n.Mode() != ViewWatchlist {
		t.Fatalf("expected back to return to watchlist, got %v", n.Mode())
	}
}

func TestNavigatorWatchlistEntryIsGuarded(t *testing.T) {
	var n navigator

	if !n.EnterWatchlist() {
		t.Fatalf("expected first entry to transition")
	}
	if n.EnterWatchlist() {
		t.Fatalf("expected second entry to be a no-op")
	}

	n.EnterDetail(3)
	if n.EnterWatchlist() {
		t.Fatalf("expected entry from detail to be a no-op")
	}
	if n.LeaveWatchlist() {
		t.Fatalf("expected leave from detail to be a no-op")
	}

	n.Back()
	if !n.LeaveWatchlist() {
		t.Fatalf("expected watchlist -> home transition")
	}
	if n.LeaveWatchlist() {
		t.Fatalf("expected leave from home to be a no-op")
	}
}

func TestNavigatorReselectInDetailKeepsReturnView(t *testing.T) {
	var n navigator

	n.EnterWatchlist()
	n.EnterDetail(1)
	n.EnterDetail(2)
	if n.MovieID() != 2 {
		t.Fatalf("expected reselect to update movie id, got %d", n.MovieID())
	}
	n.Back()
	if n.Mode() != ViewWatchlist {
		t.Fatalf("expected return view preserved across reselect, got %v", n.Mode())
	}

	if n.Back() {
		t.Fatalf("expected back outside detail to be a no-op")
	}
}
