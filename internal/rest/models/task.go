package models

import "github.com/taskboard/taskboard_server/internal/store"

type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at"`
	UserID      int64  `json:"user_id"`
}

func TaskFromStore(t store.Task) Task {
	return Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UserID:      t.UserID,
	}
}

type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// TaskList is the derived view for one user under the active filter,
// with completion counts alongside.
type TaskList struct {
	Tasks  []Task `json:"tasks"`
	Filter string `json:"filter"`
	Stats  Stats  `json:"stats"`
}

func TaskListFromStore(tasks []store.Task, filter store.Filter) TaskList {
	st := store.TaskStats(tasks)

	list := TaskList{
		Tasks:  make([]Task, 0, len(tasks)),
		Filter: string(filter),
		Stats: Stats{
			Total:     st.Total,
			Completed: st.Completed,
			Pending:   st.Pending,
		},
	}
	for _, t := range tasks {
		list.Tasks = append(list.Tasks, TaskFromStore(t))
	}
	return list
}
