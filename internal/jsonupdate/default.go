package jsonupdate

// Default is the fallback document used when loading fails.
// It has exactly two forms, built with Literal and Factory; a nil Default
// means the load error is returned to the caller.
type Default[T any] interface {
	resolve() (T, error)
}

type literalDefault[T any] struct {
	value T
}

func (d literalDefault[T]) resolve() (T, error) {
	return d.value, nil
}

// Literal uses v as the fallback document.
// v is handed to the updater as is; when the updater mutates it and the same
// Options are reused across calls, use Factory instead.
func Literal[T any](v T) Default[T] {
	return literalDefault[T]{value: v}
}

type factoryDefault[T any] struct {
	fn func() (T, error)
}

func (d factoryDefault[T]) resolve() (T, error) {
	return d.fn()
}

// Factory calls fn to produce the fallback document, only when loading fails
// and at most once per update. A nil fn yields no default.
func Factory[T any](fn func() (T, error)) Default[T] {
	if fn == nil {
		return nil
	}
	return factoryDefault[T]{fn: fn}
}

// FactoryOf is Factory for a function that cannot fail.
func FactoryOf[T any](fn func() T) Default[T] {
	if fn == nil {
		return nil
	}
	return factoryDefault[T]{fn: func() (T, error) { return fn(), nil }}
}

func resolveDefault[T any](d Default[T]) (value T, err error) {
	err = catch(func() error {
		var inner error
		value, inner = d.resolve()
		return inner
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return value, nil
}
