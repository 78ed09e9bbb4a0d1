package document

import (
	"context"

	"github.com/bassista/go_jsonupdate/internal/jsonfile"
	"github.com/bassista/go_jsonupdate/internal/jsonupdate"
)

// Set returns an updater that sets value at path.
func Set(path string, value any) jsonupdate.Updater[any] {
	return func(_ context.Context, doc any) (any, error) {
		return SetPath(doc, path, value)
	}
}

// Unset returns an updater that removes path.
func Unset(path string) jsonupdate.Updater[any] {
	return func(_ context.Context, doc any) (any, error) {
		return DeletePath(doc, path)
	}
}

// Merge returns an updater that applies patch as a JSON merge patch.
func Merge(patch any) jsonupdate.Updater[any] {
	return func(_ context.Context, doc any) (any, error) {
		return MergePatch(doc, patch)
	}
}

// Replace returns an updater that ignores the current document.
func Replace(value any) jsonupdate.Updater[any] {
	return jsonupdate.Func(func(any) any {
		return value
	})
}

// EmptyObject is a default that yields a fresh {} on every call.
func EmptyObject() jsonupdate.Default[any] {
	return jsonupdate.FactoryOf(func() any { return jsonfile.NewObject() })
}
