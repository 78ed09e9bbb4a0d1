package cache

import "context"

// Reader loads a document from disk. jsonupdate.Orchestrator implements it.
type Reader interface {
	Read(ctx context.Context, path string) (any, error)
}

// Invalidator drops cached documents. The file watcher only needs this.
type Invalidator interface {
	Invalidate(path string)
	InvalidateAll()
}

// DocumentCache is the cache contract the application container exposes.
type DocumentCache interface {
	Invalidator
	Get(path string) (any, bool)
	Put(path string, doc any) error
	Load(ctx context.Context, path string, reader Reader) (any, error)
	Len() int
}
