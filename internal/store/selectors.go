package store

// VisibleTasks filters the collection down to the given user's tasks and
// applies the view filter. Insertion order is preserved; no sort is applied.
func VisibleTasks(s TaskState, userID int64) []Task {
	out := make([]Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if t.UserID != userID {
			continue
		}
		switch s.Filter {
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		case FilterPending:
			if t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// TaskStats aggregates completion counts over a task list. Recomputed on
// every read, never cached.
func TaskStats(tasks []Task) Stats {
	st := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			st.Completed++
		} else {
			st.Pending++
		}
	}
	return st
}

// VisibleTasks on the store applies the selector to the current state.
func (s *Store) VisibleTasks(userID int64) []Task {
	return VisibleTasks(s.Tasks(), userID)
}
