package store

// Action is a request to mutate store state. The set of actions is closed:
// each slice handles its own variants in a single transition function and
// ignores the rest.
type Action interface {
	isAction()
}

// Auth slice actions.

type LoginAction struct {
	User User
}

type LogoutAction struct{}

type RegisterAction struct {
	User User
}

type LoadUsersAction struct {
	Users []User
}

// Task slice actions.

type AddTaskAction struct {
	Task Task
}

type ToggleTaskAction struct {
	ID int64
}

type DeleteTaskAction struct {
	ID int64
}

// UpdateTaskAction merges the non-nil fields into the task with matching ID.
// There is deliberately no way to touch ID, CreatedAt or UserID.
type UpdateTaskAction struct {
	ID          int64
	Title       *string
	Description *string
	Priority    *Priority
	Completed   *bool
}

type SetFilterAction struct {
	Filter Filter
}

type LoadTasksAction struct {
	Tasks []Task
}

func (LoginAction) isAction()      {}
func (LogoutAction) isAction()     {}
func (RegisterAction) isAction()   {}
func (LoadUsersAction) isAction()  {}
func (AddTaskAction) isAction()    {}
func (ToggleTaskAction) isAction() {}
func (DeleteTaskAction) isAction() {}
func (UpdateTaskAction) isAction() {}
func (SetFilterAction) isAction()  {}
func (LoadTasksAction) isAction()  {}
