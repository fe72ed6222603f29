package inbox

import "time"

// User is a person who can author or receive messages. Admins handle conversations.
type User struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	Admin     bool      `db:"admin"`
	CreatedAt time.Time `db:"created_at"`
}

// IsAdmin reports whether the user may act on the admin inbox.
func (u *User) IsAdmin() bool {
	return u != nil && u.Admin
}
