package store

import (
	"sync"
	"time"
)

// CommitFunc is invoked synchronously inside dispatch, after the transition
// has been applied, with the action that caused it and the resulting state.
// A non-nil error is surfaced to the caller of the mutating operation; the
// in-memory transition is never rolled back.
type CommitFunc func(a Action, auth AuthState, tasks TaskState) error

// Store holds both state slices and applies actions through the slice
// transition functions. There is exactly one logical writer: every operation
// runs to completion, commit included, before the next is accepted. The mutex
// only guards against accidental concurrent callers; it introduces no
// reordering.
type Store struct {
	mu     sync.Mutex
	auth   AuthState
	tasks  TaskState
	lastID int64
	commit CommitFunc
	now    func() time.Time
}

func New() *Store {
	return &Store{
		tasks: TaskState{Filter: FilterAll},
		now:   time.Now,
	}
}

// SetCommitHook installs the persistence hook. Install it after rehydration
// so restored state is not immediately written back.
func (s *Store) SetCommitHook(fn CommitFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit = fn
}

// nextID returns a unique monotonic id. Seeded from the wall clock so ids
// stay comparable to previously persisted ones, but never reused within a
// process even when two creations land on the same clock tick.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// dispatch applies a to both slice transition functions; each slice ignores
// the variants it does not own. Caller must hold the lock.
func (s *Store) dispatch(a Action) error {
	s.auth = reduceAuth(s.auth, a)
	s.tasks = reduceTasks(s.tasks, a)
	if s.commit != nil {
		return s.commit(a, s.auth, s.tasks)
	}
	return nil
}

// Register appends a new user with a fresh id. Email uniqueness is a
// caller-enforced precondition; check FindByEmail before calling.
func (s *Store) Register(name, email, password string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := User{
		ID:       s.nextID(),
		Name:     name,
		Email:    email,
		Password: password,
	}
	return u, s.dispatch(RegisterAction{User: u})
}

// Login sets the current session. Credential checking is the caller's job;
// see Authenticate.
func (s *Store) Login(u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(LoginAction{User: u})
}

// Logout clears the current session. Always succeeds in memory.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(LogoutAction{})
}

// LoadUsers replaces the user collection wholesale. Rehydration only;
// the input is trusted.
func (s *Store) LoadUsers(users []User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		if u.ID > s.lastID {
			s.lastID = u.ID
		}
	}
	return s.dispatch(LoadUsersAction{Users: users})
}

// AddTask constructs a task with a fresh id, completed=false and the current
// time, and appends it. Title/description presence is caller-enforced.
func (s *Store) AddTask(title, description string, priority Priority, userID int64) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if priority == "" {
		priority = PriorityMedium
	}
	t := Task{
		ID:          s.nextID(),
		Title:       title,
		Description: description,
		Priority:    priority,
		Completed:   false,
		CreatedAt:   s.now().UTC().Format(time.RFC3339),
		UserID:      userID,
	}
	return t, s.dispatch(AddTaskAction{Task: t})
}

// ToggleTask flips completion on the task with the given id. Unknown ids are
// a no-op; found reports whether the task existed.
func (s *Store) ToggleTask(id int64) (Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findTask(id); !ok {
		return Task{}, false, nil
	}
	err := s.dispatch(ToggleTaskAction{ID: id})
	t, _ := s.findTask(id)
	return t, true, err
}

// UpdateTask merges the action's non-nil fields into the matching task.
// ID, CreatedAt and UserID are never altered.
func (s *Store) UpdateTask(a UpdateTaskAction) (Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findTask(a.ID); !ok {
		return Task{}, false, nil
	}
	err := s.dispatch(a)
	t, _ := s.findTask(a.ID)
	return t, true, err
}

// DeleteTask removes the task with the given id; unknown ids are a no-op.
func (s *Store) DeleteTask(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findTask(id); !ok {
		return false, nil
	}
	return true, s.dispatch(DeleteTaskAction{ID: id})
}

// SetFilter replaces the view filter. The value must already be a valid
// Filter; parsing is the caller's job.
func (s *Store) SetFilter(f Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(SetFilterAction{Filter: f})
}

// LoadTasks replaces the task collection wholesale. Rehydration only.
func (s *Store) LoadTasks(tasks []Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tasks {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
	return s.dispatch(LoadTasksAction{Tasks: tasks})
}

// FindTask looks a task up by id.
func (s *Store) FindTask(id int64) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findTask(id)
}

func (s *Store) findTask(id int64) (Task, bool) {
	for _, t := range s.tasks.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Auth returns a copy of the auth slice.
func (s *Store) Auth() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.auth
	st.Users = append([]User(nil), s.auth.Users...)
	if s.auth.User != nil {
		u := *s.auth.User
		st.User = &u
	}
	return st
}

// Tasks returns a copy of the tasks slice.
func (s *Store) Tasks() TaskState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.tasks
	st.Tasks = append([]Task(nil), s.tasks.Tasks...)
	return st
}

// Session returns the currently logged-in user, if any.
func (s *Store) Session() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsAuthenticated || s.auth.User == nil {
		return User{}, false
	}
	return *s.auth.User, true
}

// FindByEmail looks a user up by email.
func (s *Store) FindByEmail(email string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.auth.Users {
		if u.Email == email {
			return u, true
		}
	}
	return User{}, false
}

// Authenticate checks submitted credentials against the user collection.
// Returns ErrInvalidCredentials on any mismatch; it does not distinguish an
// unknown email from a wrong password.
func (s *Store) Authenticate(email, password string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.auth.Users {
		if u.Email == email && u.Password == password {
			return u, nil
		}
	}
	return User{}, ErrInvalidCredentials
}
