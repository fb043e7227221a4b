package user

import "strings"

// User is a pool participant. Accounts and sessions live in the external auth
// service; the core only needs the roster for draft ordering.
type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
