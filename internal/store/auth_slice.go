package store

// reduceAuth is the transition function of the auth slice. It is pure: state
// in, state out, no validation. Preconditions (credential match, email
// uniqueness) are the caller's job and must be checked before dispatch.
func reduceAuth(s AuthState, a Action) AuthState {
	switch a := a.(type) {
	case LoginAction:
		u := a.User
		s.User = &u
		s.IsAuthenticated = true
	case LogoutAction:
		s.User = nil
		s.IsAuthenticated = false
	case RegisterAction:
		users := make([]User, len(s.Users), len(s.Users)+1)
		copy(users, s.Users)
		s.Users = append(users, a.User)
	case LoadUsersAction:
		s.Users = a.Users
	}
	return s
}
