package session

// Route targets used by the gating decisions.
const (
	LoginPath = "/login"
	HomePath  = "/dashboard"
)

// Action tells the caller what to render for a gated view.
type Action int

const (
	// ActionRender shows the wrapped content.
	ActionRender Action = iota
	// ActionWait shows a loading indicator while the initial check runs.
	ActionWait
	// ActionRedirect navigates to Target instead of rendering.
	ActionRedirect
)

// Decision is the outcome of gating a view against the current state.
type Decision struct {
	Action Action
	Target string
	// ReturnTo preserves the originally requested location so a successful
	// login can navigate back.
	ReturnTo string
}

// GateProtected decides access to a view that requires a session: wait while
// the initial check is unresolved, redirect anonymous visitors to the login
// entry point (remembering where they were headed), render otherwise.
func (s *Store) GateProtected(location string) Decision {
	if s.IsLoading() {
		return Decision{Action: ActionWait}
	}
	if s.CurrentSession() == nil {
		return Decision{Action: ActionRedirect, Target: LoginPath, ReturnTo: location}
	}
	return Decision{Action: ActionRender}
}

// GatePublicOnly decides access to a view for signed-out visitors only
// (login, register): an existing session bounces to the authenticated
// landing view.
func (s *Store) GatePublicOnly() Decision {
	if s.CurrentSession() != nil {
		return Decision{Action: ActionRedirect, Target: HomePath}
	}
	return Decision{Action: ActionRender}
}
