package models

import "github.com/taskboard/taskboard_server/internal/store"

// User is the public view of an account. The stored password never crosses
// the HTTP boundary.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func UserFromStore(u store.User) User {
	return User{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

type Session struct {
	User            *User `json:"user"`
	IsAuthenticated bool  `json:"is_authenticated"`
}
