// Package session implements the asynchronous state orchestration for a
// movie-discovery session: debounced query handling, fetch lifecycle
// management with stale-response suppression, session bootstrap, view
// navigation and watchlist mirror maintenance.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"reelfinder/internal/events"
	"reelfinder/metrics"
	"reelfinder/models"
	"reelfinder/services/aggregate"
	"reelfinder/services/catalog"
)

// CatalogClient is the read-only movie catalog the orchestrator fetches
// listings and details from.
type CatalogClient interface {
	SearchMovies(ctx context.Context, query string) ([]models.Movie, error)
	DiscoverMovies(ctx context.Context) ([]models.Movie, error)
	MovieDetail(ctx context.Context, movieID int) (*models.MovieDetail, error)
}

// BackendClient is the aggregation backend owning trending counters,
// recommendations and watchlist persistence.
type BackendClient interface {
	Trending(ctx context.Context) ([]models.TrendingEntry, error)
	Recommendations(ctx context.Context, userID string) ([]models.SuggestionGroup, error)
	Watchlist(ctx context.Context, userID string) ([]models.WatchlistEntry, error)
	AddToWatchlist(ctx context.Context, userID string, movieID int) error
	RemoveFromWatchlist(ctx context.Context, userID string, movieID int) error
	ReportSearch(ctx context.Context, occurrence models.SearchOccurrence) error
}

var (
	_ CatalogClient = (*catalog.Client)(nil)
	_ BackendClient = (*aggregate.Client)(nil)
)

// ErrIdentityRequired blocks watchlist mutations attempted without a
// signed-in user, before any network call is made.
var ErrIdentityRequired = errors.New("a signed-in user is required for watchlist actions")

// User-facing messages. The transport message and the application fallback
// mirror what the UI has always shown.
const (
	msgFetchTransport   = "Error fetching movies. Please try again."
	msgFetchApplication = "Error fetching movies."
	msgDetailFailed     = "Failed to fetch movie details"
	msgAddFailed        = "Failed to add movie to the watchlist."
	msgAdded            = "Added To Watchlist."
)

// Pulse is a transient confirmation or error shown near the triggering
// control. It auto-clears after the configured duration.
type Pulse struct {
	Message string `json:"message"`
	Error   bool   `json:"error"`
}

// Options tunes controller timings. Zero values fall back to the defaults
// the UI was built around.
type Options struct {
	DebounceInterval time.Duration
	PulseDuration    time.Duration
}

// Controller owns one user session's orchestration state. All state lives
// behind a single mutex; asynchronous fetch results are applied only when
// their generation is still the latest for their category.
type Controller struct {
	catalog  CatalogClient
	backend  BackendClient
	bus      *events.Bus
	debounce *debouncer
	pulseTTL time.Duration

	bg conc.WaitGroup

	mu           sync.Mutex
	closed       bool
	identity     models.Identity
	rawTerm      string
	settledTerm  string
	listGen      uint64
	detailGen    uint64
	watchlistGen uint64
	loading      bool
	movies       []models.Movie
	errorMessage string
	trending     []models.TrendingEntry
	suggestions  []models.SuggestionGroup
	trendingOnce bool
	suggestOnce  bool
	view         navigator
	watchlist    []models.WatchlistEntry
	detail       *models.MovieDetail
	detailError  string
	pulse        *Pulse
	pulseSeq     uint64
	busSubID     string
}

// NewController wires a controller to its collaborators. Start must be
// called before the controller reacts to input.
func NewController(catalogClient CatalogClient, backendClient BackendClient, bus *events.Bus, opts Options) *Controller {
	if opts.DebounceInterval <= 0 {
		opts.DebounceInterval = 500 * time.Millisecond
	}
	if opts.PulseDuration <= 0 {
		opts.PulseDuration = time.Second
	}

	c := &Controller{
		catalog:  catalogClient,
		backend:  backendClient,
		bus:      bus,
		pulseTTL: opts.PulseDuration,
	}
	c.debounce = newDebouncer(opts.DebounceInterval, c.onSettled)
	return c
}

// Start subscribes the controller to watchlist removal notifications and
// kicks off the bootstrap fetches: trending data unconditionally, plus the
// initial discover listing for the empty settled term.
func (c *Controller) Start() {
	c.mu.Lock()
	c.busSubID = c.bus.Subscribe(events.TopicWatchlistRemoved, c.onWatchlistRemoved)
	alreadyLoaded := c.trendingOnce
	c.trendingOnce = true
	c.mu.Unlock()

	if !alreadyLoaded {
		c.bg.Go(c.loadTrending)
	}
	c.resolveAsync("")
}

// Close tears down the bus subscription, stops the debounce timer and
// waits for background work to finish.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	subID := c.busSubID
	c.mu.Unlock()

	c.debounce.Stop()
	if subID != "" {
		if err := c.bus.Unsubscribe(events.TopicWatchlistRemoved, subID); err != nil {
			log.Printf("[session] unsubscribe failed: %v", err)
		}
	}
	c.bg.Wait()
}

// SetIdentity records the identity reported by the auth provider. The
// absent -> present transition triggers the one-time suggestions fetch.
func (c *Controller) SetIdentity(identity models.Identity) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.identity = identity
	shouldFetch := identity.Present() && !c.suggestOnce
	if shouldFetch {
		c.suggestOnce = true
	}
	userID := identity.UserID
	c.mu.Unlock()

	if shouldFetch {
		c.bg.Go(func() { c.loadSuggestions(userID) })
	}
}

// SetSearchTerm records a raw keystroke-level term update. Only after the
// term has been quiet for the debounce interval does it settle and drive a
// fetch.
func (c *Controller) SetSearchTerm(term string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.rawTerm = term
	c.mu.Unlock()

	c.debounce.Update(term)
}

// onSettled runs on the debounce timer once the raw term has been quiet
// for the full interval.
func (c *Controller) onSettled(term string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.settledTerm = term
	inWatchlist := c.view.Mode() == ViewWatchlist
	c.mu.Unlock()

	// The watchlist view owns its own collection; the Home listing is
	// re-resolved when the user leaves the watchlist.
	if !inWatchlist {
		c.resolveAsync(term)
	}
}

// resolveAsync issues the next generation of the Home listing fetch:
// search for a non-empty term, discover otherwise.
func (c *Controller) resolveAsync(term string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.listGen++
	gen := c.listGen
	c.loading = true
	c.mu.Unlock()

	c.bg.Go(func() { c.resolveMovies(gen, term) })
}

func (c *Controller) resolveMovies(gen uint64, term string) {
	ctx := context.Background()
	category := "discover"

	var (
		result   []models.Movie
		fetchErr error
	)
	if term != "" {
		category = "search"
		result, fetchErr = c.catalog.SearchMovies(ctx, term)
	} else {
		result, fetchErr = c.catalog.DiscoverMovies(ctx)
	}

	c.mu.Lock()
	if gen != c.listGen {
		c.mu.Unlock()
		metrics.StaleResponses.WithLabelValues(category).Inc()
		return
	}
	c.loading = false

	var apiErr *catalog.APIError
	switch {
	case fetchErr == nil:
		c.movies = result
		c.errorMessage = ""
		metrics.Fetches.WithLabelValues(category, metrics.OutcomeOK).Inc()
	case errors.As(fetchErr, &apiErr):
		c.movies = nil
		c.errorMessage = apiErr.StatusMessage
		if c.errorMessage == "" {
			c.errorMessage = msgFetchApplication
		}
		metrics.Fetches.WithLabelValues(category, metrics.OutcomeAppError).Inc()
	default:
		c.movies = nil
		c.errorMessage = msgFetchTransport
		metrics.Fetches.WithLabelValues(category, metrics.OutcomeTransportError).Inc()
		log.Printf("[session] %s fetch failed: %v", category, fetchErr)
	}
	identity := c.identity
	c.mu.Unlock()

	// Best effort: feed the trending counters when a search produced
	// results for a signed-in user. Failures are logged, never retried.
	if fetchErr == nil && term != "" && len(result) > 0 && identity.Present() {
		occurrence := searchOccurrence(term, result[0], identity.UserID)
		c.bg.Go(func() { c.reportSearch(occurrence) })
	}
}

func (c *Controller) reportSearch(occurrence models.SearchOccurrence) {
	if err := c.backend.ReportSearch(context.Background(), occurrence); err != nil {
		metrics.SearchReports.WithLabelValues(metrics.OutcomeTransportError).Inc()
		log.Printf("[session] search report failed: %v", err)
		return
	}
	metrics.SearchReports.WithLabelValues(metrics.OutcomeOK).Inc()
}

// searchOccurrence builds the trending-update payload from the top search
// result, the way the UI has always reported it.
func searchOccurrence(term string, top models.Movie, userID string) models.SearchOccurrence {
	return models.SearchOccurrence{
		SearchTerm:  term,
		MovieID:     top.ID,
		MovieName:   top.Title,
		PosterPath:  top.PosterURL(),
		UserID:      userID,
		GenreIDs:    top.GenreIDs,
		VoteAverage: top.VoteAverage,
	}
}

func (c *Controller) loadTrending() {
	entries, err := c.backend.Trending(context.Background())
	if err != nil {
		// Non-fatal: the page stays usable without trending data.
		metrics.Fetches.WithLabelValues("trending", metrics.OutcomeTransportError).Inc()
		log.Printf("[session] trending fetch failed: %v", err)
		return
	}
	metrics.Fetches.WithLabelValues("trending", metrics.OutcomeOK).Inc()

	c.mu.Lock()
	c.trending = entries
	c.mu.Unlock()
}

func (c *Controller) loadSuggestions(userID string) {
	groups, err := c.backend.Recommendations(context.Background(), userID)
	if err != nil {
		metrics.Fetches.WithLabelValues("suggestions", metrics.OutcomeTransportError).Inc()
		log.Printf("[session] suggestions fetch failed: %v", err)
		return
	}
	metrics.Fetches.WithLabelValues("suggestions", metrics.OutcomeOK).Inc()

	c.mu.Lock()
	c.suggestions = groups
	c.mu.Unlock()
}

// SelectMovie navigates to the detail view and fetches the full record.
func (c *Controller) SelectMovie(movieID int) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.view.EnterDetail(movieID)
	c.detail = nil
	c.detailError = ""
	c.detailGen++
	gen := c.detailGen
	c.mu.Unlock()

	c.bg.Go(func() { c.fetchDetail(gen, movieID) })
}

func (c *Controller) fetchDetail(gen uint64, movieID int) {
	detail, err := c.catalog.MovieDetail(context.Background(), movieID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.detailGen {
		metrics.StaleResponses.WithLabelValues("detail").Inc()
		return
	}
	if err != nil {
		c.detailError = msgDetailFailed
		metrics.Fetches.WithLabelValues("detail", metrics.OutcomeTransportError).Inc()
		log.Printf("[session] detail fetch failed movieID=%d: %v", movieID, err)
		return
	}
	c.detail = detail
	metrics.Fetches.WithLabelValues("detail", metrics.OutcomeOK).Inc()
}

// Back leaves the detail view and returns to the view it was entered from.
// Any in-flight detail response is invalidated.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.view.Back() {
		return
	}
	c.detail = nil
	c.detailError = ""
	c.detailGen++
}

// EnterWatchlist switches to the watchlist view and fetches the backend
// watchlist. Without identity the navigation is a no-op. Entering while
// already in the watchlist issues no duplicate fetch.
func (c *Controller) EnterWatchlist(ctx context.Context) error {
	c.mu.Lock()
	if c.closed || !c.identity.Present() || !c.view.EnterWatchlist() {
		c.mu.Unlock()
		return nil
	}
	c.watchlistGen++
	gen := c.watchlistGen
	userID := c.identity.UserID
	c.mu.Unlock()

	entries, err := c.backend.Watchlist(ctx, userID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.watchlistGen || c.view.Mode() != ViewWatchlist {
		metrics.StaleResponses.WithLabelValues("watchlist").Inc()
		return nil
	}
	if err != nil {
		metrics.Fetches.WithLabelValues("watchlist", metrics.OutcomeTransportError).Inc()
		log.Printf("[session] watchlist fetch failed: %v", err)
		return err
	}
	c.watchlist = entries
	metrics.Fetches.WithLabelValues("watchlist", metrics.OutcomeOK).Inc()
	return nil
}

// LeaveWatchlist returns to the Home view. The mirror is cleared so the
// next entry always re-fetches, and the Home listing is re-resolved for
// the current settled term.
func (c *Controller) LeaveWatchlist() {
	c.mu.Lock()
	if c.closed || !c.view.LeaveWatchlist() {
		c.mu.Unlock()
		return
	}
	c.watchlist = nil
	c.watchlistGen++
	term := c.settledTerm
	c.mu.Unlock()

	c.resolveAsync(term)
}

// ToggleWatchlist flips between Home and Watchlist, matching the single
// navbar control the UI exposes.
func (c *Controller) ToggleWatchlist(ctx context.Context) error {
	c.mu.Lock()
	mode := c.view.Mode()
	c.mu.Unlock()

	if mode == ViewWatchlist {
		c.LeaveWatchlist()
		return nil
	}
	return c.EnterWatchlist(ctx)
}

// AddToWatchlist saves a movie to the backend watchlist and raises the
// transient confirmation pulse. Without identity the action fails fast
// before any network call.
func (c *Controller) AddToWatchlist(ctx context.Context, movieID int) error {
	c.mu.Lock()
	identity := c.identity
	c.mu.Unlock()

	if !identity.Present() {
		return ErrIdentityRequired
	}

	if err := c.backend.AddToWatchlist(ctx, identity.UserID, movieID); err != nil {
		c.setPulse(msgAddFailed, true)
		return err
	}
	c.setPulse(msgAdded, false)
	return nil
}

// RemoveFromWatchlist removes a movie server-side and, on confirmation,
// publishes the removal on the event bus. The mirror update happens in the
// bus subscriber, never here.
func (c *Controller) RemoveFromWatchlist(ctx context.Context, movieID int) error {
	c.mu.Lock()
	identity := c.identity
	c.mu.Unlock()

	if !identity.Present() {
		return ErrIdentityRequired
	}

	if err := c.backend.RemoveFromWatchlist(ctx, identity.UserID, movieID); err != nil {
		return err
	}

	c.bus.Publish(events.TopicWatchlistRemoved, events.WatchlistRemoved{MovieID: movieID})
	return nil
}

// onWatchlistRemoved is the bus subscriber owning the mirror: it drops the
// removed id in place, preserving the relative order of the rest.
func (c *Controller) onWatchlistRemoved(payload any) {
	removed, ok := payload.(events.WatchlistRemoved)
	if !ok {
		log.Printf("[session] unexpected payload on %q: %T", events.TopicWatchlistRemoved, payload)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.watchlist[:0]
	for _, entry := range c.watchlist {
		if entry.ID != removed.MovieID {
			kept = append(kept, entry)
		}
	}
	c.watchlist = kept
}

// setPulse raises a transient pulse that auto-clears after the configured
// duration. A newer pulse supersedes the pending clear of an older one.
func (c *Controller) setPulse(message string, isError bool) {
	c.mu.Lock()
	c.pulseSeq++
	seq := c.pulseSeq
	c.pulse = &Pulse{Message: message, Error: isError}
	ttl := c.pulseTTL
	c.mu.Unlock()

	time.AfterFunc(ttl, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if seq == c.pulseSeq {
			c.pulse = nil
		}
	})
}
