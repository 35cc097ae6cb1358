package models

// Identity is the opaque user identity supplied by the external auth
// provider. The session layer only cares whether a user is identified and
// what their id is.
type Identity struct {
	UserID string `json:"userId"`
}

// Present reports whether a signed-in user is identified. Mutating
// watchlist actions and suggestion fetches require a present identity.
func (i Identity) Present() bool {
	return i.UserID != ""
}
