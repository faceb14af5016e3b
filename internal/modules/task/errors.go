package task

import "errors"

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrTagNotFound   = errors.New("one or more tags not found")
	ErrDueDateInPast = errors.New("due date cannot be in the past")
)
