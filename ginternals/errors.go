package ginternals

import "errors"

// ErrObjectNotFound is an error corresponding to a git object not being
// found
var ErrObjectNotFound = errors.New("object not found")

// ErrRepositoryAlreadyInitialized is returned by Init when a
// repository already exists at the target path.
var ErrRepositoryAlreadyInitialized = errors.New("repository is already initialized")

// ErrRepositoryNotFound is returned when no repository can be found at
// the target path.
var ErrRepositoryNotFound = errors.New("repository not found")
