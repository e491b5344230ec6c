package store

// User is a registered account. Records are append-only: a user is never
// mutated or deleted after registration. The password is stored as an opaque
// cleartext string in this design.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func ParsePriority(s string) (Priority, bool) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), true
	}
	return "", false
}

// Filter narrows the derived task view; it never touches the collection.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

func ParseFilter(s string) (Filter, bool) {
	switch Filter(s) {
	case FilterAll, FilterCompleted, FilterPending:
		return Filter(s), true
	}
	return "", false
}

// Task belongs to exactly one user for its lifetime. ID, CreatedAt and UserID
// are set at creation and never change afterwards.
type Task struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Completed   bool     `json:"completed"`
	CreatedAt   string   `json:"createdAt"`
	UserID      int64    `json:"userId"`
}
