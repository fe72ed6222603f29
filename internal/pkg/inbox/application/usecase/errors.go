package usecase

import "errors"

// ErrPersistence indicates a repository or cache failure inside a use case.
var ErrPersistence = errors.New("inbox use case persistence error")
