// README: Delivery service mirrors tracker transitions to Postgres and serves history.
package delivery

import (
	"context"
	"log/slog"
	"time"

	"courier/internal/observability"
	"courier/internal/types"
)

type Service struct {
	store *Store
	log   *slog.Logger
}

func NewService(store *Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, log: log}
}

// Record persists a freshly accepted order. Persistence is best-effort from
// the session's point of view; the in-memory tracker stays authoritative.
func (s *Service) Record(ctx context.Context, o *Order) {
	if s.store == nil || s.store.db == nil {
		return
	}
	if err := s.store.Create(ctx, o); err != nil {
		s.log.Error("persist order", "order_id", string(o.ID), "err", err)
		return
	}
	driverID := o.DriverID
	_ = s.store.AppendEvent(ctx, &Event{
		OrderID:    o.ID,
		FromStatus: StatusNone,
		ToStatus:   StatusAccepted,
		ActorType:  "driver",
		ActorID:    &driverID,
		CreatedAt:  o.CreatedAt,
	})
}

// RecordTransition mirrors a tracker transition to the backend record.
func (s *Service) RecordTransition(ctx context.Context, o *Order, from Status, version int, actorType string) {
	if s.store == nil || s.store.db == nil {
		return
	}
	ok, err := s.store.UpdateStatus(ctx, o, from, version)
	if err != nil {
		s.log.Error("persist transition", "order_id", string(o.ID), "to", string(o.Status), "err", err)
		return
	}
	if !ok {
		s.log.Warn("transition conflict on backend record", "order_id", string(o.ID), "from", string(from))
	}
	driverID := o.DriverID
	_ = s.store.AppendEvent(ctx, &Event{
		OrderID:    o.ID,
		FromStatus: from,
		ToStatus:   o.Status,
		ActorType:  actorType,
		ActorID:    &driverID,
		CreatedAt:  time.Now(),
	})
	if o.Status == StatusDelivered {
		observability.DeliveriesCompleted.Inc()
	}
}

func (s *Service) History(ctx context.Context, driverID types.ID, limit int) ([]Order, error) {
	if s.store == nil || s.store.db == nil {
		return nil, nil
	}
	return s.store.ListByDriver(ctx, driverID, limit)
}

func (s *Service) Daily(ctx context.Context, driverID types.ID, day time.Time) (DailyStats, error) {
	if s.store == nil || s.store.db == nil {
		return DailyStats{Day: day, TotalEarnings: types.Money{Currency: "EUR"}}, nil
	}
	return s.store.DailyStatsByDriver(ctx, driverID, day)
}
