package session

// ViewMode identifies which of the mutually exclusive views is active.
type ViewMode int

const (
	ViewHome ViewMode = iota
	ViewWatchlist
	ViewDetail
)

func (m ViewMode) String() string {
	switch m {
	case ViewHome:
		return "home"
	case ViewWatchlist:
		return "watchlist"
	case ViewDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// navigator is the view state machine. Exactly one view is active at a
// time; Detail carries the selected movie id and remembers the single view
// to return to, so one level of back-navigation needs no history stack.
type navigator struct {
	mode     ViewMode
	movieID  int
	returnTo ViewMode
}

func (n *navigator) Mode() ViewMode { return n.mode }

// MovieID returns the selected movie id; meaningful only in ViewDetail.
func (n *navigator) MovieID() int { return n.movieID }

// EnterDetail switches to the detail view for the given movie. Selecting
// another movie while already in Detail keeps the original return view.
func (n *navigator) EnterDetail(movieID int) {
	if n.mode != ViewDetail {
		n.returnTo = n.mode
	}
	n.mode = ViewDetail
	n.movieID = movieID
}

// Back leaves the detail view and restores the view it was entered from.
// It reports whether a transition happened.
func (n *navigator) Back() bool {
	if n.mode != ViewDetail {
		return false
	}
	n.mode = n.returnTo
	n.movieID = 0
	return true
}

// EnterWatchlist switches Home -> Watchlist. It reports whether a
// transition happened; entering while already in Watchlist (or while a
// detail view is open) is a no-op so no duplicate fetch can be triggered.
func (n *navigator) EnterWatchlist() bool {
	if n.mode != ViewHome {
		return false
	}
	n.mode = ViewWatchlist
	return true
}

// LeaveWatchlist switches Watchlist -> Home. It reports whether a
// transition happened.
func (n *navigator) LeaveWatchlist() bool {
	if n.mode != ViewWatchlist {
		return false
	}
	n.mode = ViewHome
	return true
}
