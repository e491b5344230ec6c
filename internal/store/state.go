package store

// AuthState is the authentication slice. IsAuthenticated is true exactly when
// User is non-nil.
type AuthState struct {
	User            *User
	IsAuthenticated bool
	Users           []User
}

// TaskState is the tasks slice.
type TaskState struct {
	Tasks  []Task
	Filter Filter
}
