package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/vicinity-social/vicinity/internal/domain"
)

type NotificationUsecase struct {
	repo      NotificationRepository
	presence  Presence
	publisher EventPublisher
	now       func() time.Time
}

// NewNotificationUsecase builds the dispatcher. publisher may be nil
// on single-node deployments.
func NewNotificationUsecase(repo NotificationRepository, presence Presence, publisher EventPublisher) *NotificationUsecase {
	return &NotificationUsecase{
		repo:      repo,
		presence:  presence,
		publisher: publisher,
		now:       time.Now,
	}
}

// Dispatch persists a notification record and pushes it to every live
// connection of userID. Persistence is authoritative: its failure
// aborts the call. Pushes are fire-and-forget, at most once per
// connection; a failed push is logged and never rolls anything back.
// Missing userID or message makes the call a no-op returning nil, nil.
func (uc *NotificationUsecase) Dispatch(ctx context.Context, userID, message, link string, meta *domain.NotificationMeta) (*domain.Notification, error) {
	ctx, span := tracer.Start(ctx, "Notification.Usecase.Dispatch")
	defer span.End()

	if userID == "" || message == "" {
		return nil, nil
	}

	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		Link:      link,
		Meta:      meta,
		Read:      false,
		CreatedAt: uc.now().UTC(),
	}

	if err := uc.repo.Create(ctx, n); err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "notification: persist")
	}

	event := domain.Event{Type: domain.EventTypeNotification, Payload: *n}
	for _, conn := range uc.presence.ConnectionsFor(userID) {
		if err := conn.WriteJSON(event); err != nil {
			slog.WarnContext(ctx, "notification push failed",
				slog.String("user", userID),
				slog.String("notification", n.ID),
				slog.String("error", err.Error()),
				slog.String("module", "notification"),
			)
		}
	}

	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, event); err != nil {
			slog.WarnContext(ctx, "notification relay failed",
				slog.String("notification", n.ID),
				slog.String("error", err.Error()),
				slog.String("module", "notification"),
			)
		}
	}

	return n, nil
}

// ListByUser is the pull-based fetch for clients catching up after a
// reconnect. Newest first.
func (uc *NotificationUsecase) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	ctx, span := tracer.Start(ctx, "Notification.Usecase.ListByUser")
	defer span.End()

	if userID == "" {
		return nil, domain.InvalidArgumentError{Reason: "missing user id"}
	}
	return uc.repo.ListByUser(ctx, userID, limit)
}

// MarkRead flips the read flag of a persisted record.
func (uc *NotificationUsecase) MarkRead(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Notification.Usecase.MarkRead")
	defer span.End()

	if id == "" {
		return domain.InvalidArgumentError{Reason: "missing notification id"}
	}
	return uc.repo.MarkRead(ctx, id)
}
