package views

// Messages crossing the view/root boundary.

// AuthSuccessMsg indicates login or registration succeeded and the initial
// sync ran.
type AuthSuccessMsg struct {
	Username string
}

// SessionExpiredMsg indicates the server rejected the credential. The
// session store has already been invalidated; the root model returns to
// the login view without a separate error dialog.
type SessionExpiredMsg struct{}
