// Package service implements the recipe service's use cases on top of the
// store. Every method takes the acting principal, runs validation and
// policy checks before any write, and returns *errors.Error values.
package service

import (
	"context"
	"errors"
	"log/slog"

	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
	"github.com/foodgramapp/foodgram-server/internal/store"
	"github.com/foodgramapp/foodgram-server/internal/validation"
)

// validate is shared by all services; the underlying validator caches
// struct metadata and is safe for concurrent use.
var validate = validation.New()

// storeErr translates store sentinels into domain errors. notFoundMsg is
// used for store.ErrNotFound. Unknown errors pass through and surface as
// internal errors.
func storeErr(err error, notFoundMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFound(notFoundMsg).WithCause(err)
	case errors.Is(err, store.ErrAlreadyExists), errors.Is(err, store.ErrInUse):
		return domainerrors.Conflict(storeMessage(err)).WithCause(err)
	case errors.Is(err, store.ErrInvalidReference), errors.Is(err, store.ErrInvalidInput):
		return domainerrors.Validation(storeMessage(err)).WithCause(err)
	default:
		return err
	}
}

func storeMessage(err error) string {
	var se *store.Error
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}

func discardIfNil(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

func pageParams(page, limit int) store.PageParams {
	p := store.PageParams{Page: page, Limit: limit}
	p.Normalize()
	return p
}

// alive returns ctx.Err() so cancelled requests stop before touching the store.
func alive(ctx context.Context) error {
	return ctx.Err()
}
