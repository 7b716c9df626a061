package user

import "errors"

var ErrNotFound = errors.New("user not found")

type User struct {
	ID    string
	Email string
	Name  string
	Role  string
}
