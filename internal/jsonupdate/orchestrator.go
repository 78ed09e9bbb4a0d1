package jsonupdate

import (
	"context"
	"errors"
	"time"

	"github.com/bassista/go_jsonupdate/internal/logger"
	"github.com/sirupsen/logrus"
)

// Orchestrator runs updates of dynamic documents against one Store and logs
// each step. It keeps no per-path state and is safe for concurrent use.
type Orchestrator struct {
	store Store
	log   *logrus.Entry
}

// NewOrchestrator creates an orchestrator over store.
func NewOrchestrator(store Store) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	return &Orchestrator{store: store, log: logger.WithComponent("jsonupdate")}, nil
}

// Store returns the store updates are run against.
func (o *Orchestrator) Store() Store {
	return o.store
}

// Update runs Update for path and logs the outcome.
func (o *Orchestrator) Update(ctx context.Context, path string, fn Updater[any], opts *Options[any]) error {
	start := time.Now()
	entry := o.log.WithField("path", path)

	err := run(ctx, o.store, path, fn, opts, func(s State) {
		entry.Tracef("state: %s", s)
		if s == StateDefaulting {
			entry.Debug("load failed, resolving default document")
		}
	})
	if err != nil {
		entry.WithError(err).Warn("update failed")
		return err
	}

	entry.WithField("elapsed", time.Since(start)).Debug("document updated")
	return nil
}

// Read loads the document at path without modifying it.
func (o *Orchestrator) Read(ctx context.Context, path string) (any, error) {
	if path == "" {
		return nil, ErrInvalidArgument
	}
	var doc any
	if err := o.store.Load(ctx, path, &doc); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return doc, nil
}
