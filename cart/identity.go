package cart

// Identity is the logical owner of a cart. SessionID identifies the browsing
// session and is always set; UserKey is empty for guests and holds the
// account email once the auth layer has identified the user.
type Identity struct {
	SessionID string
	UserKey   string
}

// Authenticated reports whether the identity belongs to a signed-in user.
func (id Identity) Authenticated() bool {
	return id.UserKey != ""
}

// SlotKey derives the storage key for this identity. User keys must not
// collide across distinct users; guest keys carry the session ID because,
// unlike browser localStorage, the slot table is shared by every visitor.
func (id Identity) SlotKey() string {
	if id.Authenticated() {
		return "cart_user_" + id.UserKey
	}
	return "cart_guest_" + id.SessionID
}
