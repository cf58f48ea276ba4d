package users

import "errors"

var (
	ErrNotFound        = errors.New("user not found")
	ErrEmailTaken      = errors.New("user already exists with this email")
	ErrEmployeeIDTaken = errors.New("employee id already in use")
)
