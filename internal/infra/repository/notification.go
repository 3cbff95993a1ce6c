package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vicinity-social/vicinity/internal/domain"
	"github.com/vicinity-social/vicinity/internal/infra/database/models"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return r.db.WithContext(ctx).Create(toNotificationModel(n)).Error
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	var rows []models.Notification
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Notification, 0, len(rows))
	for i := range rows {
		out = append(out, fromNotificationModel(&rows[i]))
	}
	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "notification"}
	}
	return nil
}

func toNotificationModel(n *domain.Notification) *models.Notification {
	m := &models.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Message:   n.Message,
		Link:      n.Link,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	if n.Meta != nil {
		m.MetaKind = n.Meta.Kind
		m.MetaEntityID = n.Meta.EntityID
		m.MetaActorID = n.Meta.ActorID
	}
	return m
}

func fromNotificationModel(m *models.Notification) domain.Notification {
	n := domain.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Message:   m.Message,
		Link:      m.Link,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
	if m.MetaKind != "" || m.MetaEntityID != "" || m.MetaActorID != "" {
		n.Meta = &domain.NotificationMeta{
			Kind:     m.MetaKind,
			EntityID: m.MetaEntityID,
			ActorID:  m.MetaActorID,
		}
	}
	return n
}
