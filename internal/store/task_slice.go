package store

// reduceTasks is the transition function of the tasks slice. Toggle, delete
// and update are no-ops on an unknown id, not errors.
func reduceTasks(s TaskState, a Action) TaskState {
	switch a := a.(type) {
	case AddTaskAction:
		tasks := make([]Task, len(s.Tasks), len(s.Tasks)+1)
		copy(tasks, s.Tasks)
		s.Tasks = append(tasks, a.Task)
	case ToggleTaskAction:
		tasks := make([]Task, len(s.Tasks))
		copy(tasks, s.Tasks)
		for i := range tasks {
			if tasks[i].ID == a.ID {
				tasks[i].Completed = !tasks[i].Completed
				break
			}
		}
		s.Tasks = tasks
	case DeleteTaskAction:
		tasks := make([]Task, 0, len(s.Tasks))
		for _, t := range s.Tasks {
			if t.ID != a.ID {
				tasks = append(tasks, t)
			}
		}
		s.Tasks = tasks
	case UpdateTaskAction:
		tasks := make([]Task, len(s.Tasks))
		copy(tasks, s.Tasks)
		for i := range tasks {
			if tasks[i].ID != a.ID {
				continue
			}
			if a.Title != nil {
				tasks[i].Title = *a.Title
			}
			if a.Description != nil {
				tasks[i].Description = *a.Description
			}
			if a.Priority != nil {
				tasks[i].Priority = *a.Priority
			}
			if a.Completed != nil {
				tasks[i].Completed = *a.Completed
			}
			break
		}
		s.Tasks = tasks
	case SetFilterAction:
		s.Filter = a.Filter
	case LoadTasksAction:
		s.Tasks = a.Tasks
	}
	return s
}
