package jsonupdate

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned before any I/O when a call is missing its
	// store, path or updater.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNilFuture is returned when an asynchronous updater hands back no future.
	ErrNilFuture = errors.New("updater returned a nil future")
)

// LoadError reports that the document could not be loaded and no default was
// configured. Err is the load failure as returned by the store.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// DefaultFactoryError reports that the default value factory failed.
type DefaultFactoryError struct {
	Path string
	Err  error
}

func (e *DefaultFactoryError) Error() string {
	return fmt.Sprintf("resolve default for %s: %v", e.Path, e.Err)
}

func (e *DefaultFactoryError) Unwrap() error { return e.Err }

// UpdateError reports that the updater failed or its future was rejected.
type UpdateError struct {
	Path string
	Err  error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("update %s: %v", e.Path, e.Err)
}

func (e *UpdateError) Unwrap() error { return e.Err }

// PersistError reports that serializing or writing the result failed.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
