package orders

import (
	"context"

	"github.com/ariefcatur/go-econstore/internal/logging"
)

type StatusStore interface {
	GetStatus(ctx context.Context, orderID int64) (Status, error)
	UpdateStatus(ctx context.Context, orderID int64, from, to Status) (bool, error)
}

type StatusCache interface {
	Get(ctx context.Context, orderID int64) (string, bool, error)
	Set(ctx context.Context, orderID int64, status string) error
}

// StatusService reads order status cache-first and applies checked
// transitions. The database stays the source of truth; cache errors are only
// logged.
type StatusService struct {
	Store StatusStore
	Cache StatusCache
}

func (s *StatusService) Get(ctx context.Context, orderID int64) (Status, error) {
	l := logging.FromContext(ctx)
	if v, ok, err := s.Cache.Get(ctx, orderID); err == nil && ok {
		return Status(v), nil
	} else if err != nil {
		l.Warn("status cache read failed", "order_id", orderID, "error", err)
	}

	st, err := s.Store.GetStatus(ctx, orderID)
	if err != nil {
		return "", err
	}
	if err := s.Cache.Set(ctx, orderID, string(st)); err != nil {
		l.Warn("status cache write failed", "order_id", orderID, "error", err)
	}
	return st, nil
}

func (s *StatusService) Update(ctx context.Context, orderID int64, to Status) (Status, error) {
	from, err := s.Store.GetStatus(ctx, orderID)
	if err != nil {
		return "", err
	}
	if !CanTransition(from, to) {
		return from, ErrInvalidTransition
	}
	ok, err := s.Store.UpdateStatus(ctx, orderID, from, to)
	if err != nil {
		return "", err
	}
	if !ok {
		return from, ErrInvalidTransition
	}
	if err := s.Cache.Set(ctx, orderID, string(to)); err != nil {
		logging.FromContext(ctx).Warn("status cache write failed", "order_id", orderID, "error", err)
	}
	return to, nil
}
