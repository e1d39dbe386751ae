package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rodamarket/backend/internal/logger"
	"github.com/rodamarket/backend/internal/types"
)

// RecentNotificationFilter describes the dedup-gate lookup: same recipient,
// same category, same referenced entity, title containing the category
// label, created inside the trailing window.
type RecentNotificationFilter struct {
	UserID        uuid.UUID
	Category      string
	ReferenceID   uuid.UUID
	TitleContains string
	Since         time.Time
}

type NotificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, notifications []*types.Notification) ([]*types.Notification, error)
	ExistsRecent(ctx context.Context, tx *gorm.DB, filter RecentNotificationFilter) (bool, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Notification, error)
	MarkRead(ctx context.Context, tx *gorm.DB, notificationID, userID uuid.UUID) error
	DeleteOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	repoLog := baseLog.With("repo", "NotificationRepo")
	return &notificationRepo{db: db, log: repoLog}
}

func (nr *notificationRepo) Create(ctx context.Context, tx *gorm.DB, notifications []*types.Notification) ([]*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	if len(notifications) == 0 {
		return []*types.Notification{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&notifications).Error; err != nil {
		return nil, err
	}

	return notifications, nil
}

func (nr *notificationRepo) ExistsRecent(ctx context.Context, tx *gorm.DB, filter RecentNotificationFilter) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("user_id = ?", filter.UserID).
		Where("category = ?", filter.Category).
		Where("created_at >= ?", filter.Since)
	if filter.ReferenceID != uuid.Nil {
		query = query.Where("reference_id = ?", filter.ReferenceID)
	}
	if filter.TitleContains != "" {
		query = query.Where("title ILIKE ?", "%"+filter.TitleContains+"%")
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (nr *notificationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var results []*types.Notification

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (nr *notificationRepo) MarkRead(ctx context.Context, tx *gorm.DB, notificationID, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true).Error
}

// DeleteOlderThan hard-deletes every notification created before the
// cutoff, read or unread.
func (nr *notificationRepo) DeleteOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	result := transaction.WithContext(ctx).
		Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&types.Notification{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
