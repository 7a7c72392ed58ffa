// Package service holds the application workflows that sit between the HTTP layer
// and the repositories.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/deliverlabs/food-ordering-service/internal/events"
	"github.com/deliverlabs/food-ordering-service/internal/repository"
	apperrors "github.com/deliverlabs/food-ordering-service/pkg/util"
)

// Clock returns the current time. Tests replace it to pin timestamps.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return utcNow
	}
	return c
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, now Clock, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = now()
	}
	_ = dispatcher.Publish(ctx, event)
}

// notFoundOr maps a missing row to a NotFound error for resource and passes other errors through.
func notFoundOr(err error, resource string, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func isDuplicate(err error) bool {
	return errors.Is(err, repository.ErrDuplicate)
}
