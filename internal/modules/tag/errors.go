package tag

import "errors"

var (
	ErrTagNotFound = errors.New("tag not found")
	ErrNameTaken   = errors.New("tag name already in use")
)
