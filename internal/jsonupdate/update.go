// Package jsonupdate reads a JSON document, passes it through an updater and
// writes the result back to the same file.
//
// The three steps run strictly in order and stop at the first failure:
//
//	load -> (default on load failure) -> update -> persist
//
// Nothing is written unless loading (or default resolution) and the updater
// both succeed. There is no locking: two updates of the same file that
// overlap in time race, and the last persist wins.
package jsonupdate

import (
	"context"
	"fmt"

	"github.com/bassista/go_jsonupdate/internal/jsonfile"
)

// Updater maps the current document to the document to persist.
type Updater[T any] func(ctx context.Context, doc T) (T, error)

// Func adapts a pure function to an Updater.
func Func[T any](fn func(T) T) Updater[T] {
	if fn == nil {
		return nil
	}
	return func(_ context.Context, doc T) (T, error) {
		return fn(doc), nil
	}
}

// Async adapts an updater that produces its result as a Future.
// The update waits for the future to settle before persisting.
func Async[T any](fn func(ctx context.Context, doc T) *Future[T]) Updater[T] {
	if fn == nil {
		return nil
	}
	return func(ctx context.Context, doc T) (T, error) {
		future := fn(ctx, doc)
		if future == nil {
			var zero T
			return zero, ErrNilFuture
		}
		return future.Await(ctx)
	}
}

// Options configures one update. The zero value and nil both mean no default
// and default write formatting.
type Options[T any] struct {
	// Default is used in place of the document when loading fails for any reason.
	Default Default[T]
	// Write is forwarded unchanged to Store.Save.
	Write jsonfile.WriteOptions
}

// Store loads and persists documents. jsonfile.FileStore implements it.
type Store interface {
	Load(ctx context.Context, path string, out any) error
	Save(ctx context.Context, path string, v any, opts jsonfile.WriteOptions) error
}

// Update loads path from store, applies fn and saves the result to path.
//
// Load, fn and Save are each called exactly once on the success path, and the
// default (if any) is resolved at most once. Failures are returned as
// *LoadError, *DefaultFactoryError, *UpdateError or *PersistError wrapping the
// original error.
func Update[T any](ctx context.Context, store Store, path string, fn Updater[T], opts *Options[T]) error {
	return run(ctx, store, path, fn, opts, nil)
}

// UpdateFile is Update on the real filesystem with a dynamic document: objects
// decode to *orderedmap.OrderedMap (file key order is kept), arrays to []any
// and numbers to json.Number.
func UpdateFile(ctx context.Context, path string, fn Updater[any], opts *Options[any]) error {
	return Update(ctx, jsonfile.NewOSStore(), path, fn, opts)
}

func run[T any](ctx context.Context, store Store, path string, fn Updater[T], opts *Options[T], observe func(State)) error {
	if observe == nil {
		observe = func(State) {}
	}
	if store == nil {
		return fmt.Errorf("%w: store is nil", ErrInvalidArgument)
	}
	if path == "" {
		return fmt.Errorf("%w: file path is required", ErrInvalidArgument)
	}
	if fn == nil {
		return fmt.Errorf("%w: updater is nil", ErrInvalidArgument)
	}
	if opts == nil {
		opts = &Options[T]{}
	}

	observe(StateLoading)
	var doc T
	if loadErr := store.Load(ctx, path, &doc); loadErr != nil {
		if opts.Default == nil {
			observe(StateLoadFailed)
			return &LoadError{Path: path, Err: loadErr}
		}

		observe(StateDefaulting)
		fallback, err := resolveDefault(opts.Default)
		if err != nil {
			observe(StateDefaultFailed)
			return &DefaultFactoryError{Path: path, Err: err}
		}
		doc = fallback
		observe(StateDefaulted)
	} else {
		observe(StateLoaded)
	}

	observe(StateUpdating)
	var result T
	err := catch(func() error {
		var inner error
		result, inner = fn(ctx, doc)
		return inner
	})
	if err != nil {
		observe(StateUpdateFailed)
		return &UpdateError{Path: path, Err: err}
	}
	observe(StateUpdated)

	observe(StatePersisting)
	if err := store.Save(ctx, path, result, opts.Write); err != nil {
		observe(StatePersistFailed)
		return &PersistError{Path: path, Err: err}
	}
	observe(StateDone)
	return nil
}
