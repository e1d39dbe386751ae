package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rodamarket/backend/internal/logger"
	"github.com/rodamarket/backend/internal/maintenance"
	"github.com/rodamarket/backend/internal/realtime"
	"github.com/rodamarket/backend/internal/repos"
	"github.com/rodamarket/backend/internal/types"
)

// NotificationService owns the dedup gate: a notification equivalent to one
// already created inside the trailing window is suppressed. The read-then-
// write is not atomic; two interleaved passes can produce a duplicate
// reminder, which is accepted.
type NotificationService interface {
	TryNotifyMaintenance(ctx context.Context, userID, vehicleID uuid.UUID, rec maintenance.Recommendation) (bool, error)
	TryNotifyMileage(ctx context.Context, userID, vehicleID uuid.UUID, rung maintenance.MileageRung, sinceServiceKm int) (bool, error)
	TryNotifyDocumentAlert(ctx context.Context, userID, vehicleID uuid.UUID, alert maintenance.AlertRecord) (bool, error)
	NotifyDocumentExpiry(ctx context.Context, userID uuid.UUID, doc *types.VehicleDocument, plate string) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type notificationService struct {
	db          *gorm.DB
	log         *logger.Logger
	repo        repos.NotificationRepo
	bus         realtime.Bus
	dedupWindow time.Duration
	now         func() time.Time
}

func NewNotificationService(db *gorm.DB, baseLog *logger.Logger, repo repos.NotificationRepo, bus realtime.Bus, dedupWindow time.Duration) NotificationService {
	serviceLog := baseLog.With("service", "NotificationService")
	if bus == nil {
		bus = realtime.NewNoopBus()
	}
	return &notificationService{
		db:          db,
		log:         serviceLog,
		repo:        repo,
		bus:         bus,
		dedupWindow: dedupWindow,
		now:         time.Now,
	}
}

func (ns *notificationService) TryNotifyMaintenance(ctx context.Context, userID, vehicleID uuid.UUID, rec maintenance.Recommendation) (bool, error) {
	message := rec.Message + remainingSuffix(rec)
	return ns.tryCreate(ctx, userID, vehicleID, types.NotificationCategoryMaintenance, string(rec.Category), labelFor(rec), rec.Title, message)
}

func (ns *notificationService) TryNotifyMileage(ctx context.Context, userID, vehicleID uuid.UUID, rung maintenance.MileageRung, sinceServiceKm int) (bool, error) {
	message := fmt.Sprintf("Your vehicle has covered %d km since its last recorded service; a %s is recommended.", sinceServiceKm, rung.Label)
	return ns.tryCreate(ctx, userID, vehicleID, types.NotificationCategoryMaintenance, rung.Label, rung.Label, rung.Title, message)
}

func (ns *notificationService) TryNotifyDocumentAlert(ctx context.Context, userID, vehicleID uuid.UUID, alert maintenance.AlertRecord) (bool, error) {
	title := fmt.Sprintf("%s expiring for %s", documentLabel(alert.Type), alert.VehiclePlate)
	return ns.tryCreate(ctx, userID, vehicleID, types.NotificationCategoryDocument, string(alert.Type), documentLabel(alert.Type), title, alert.Message)
}

// NotifyDocumentExpiry creates the one-shot explicit-document notification.
// The at-most-once guarantee lives in the document's notified_of_expiry
// flag, not in the trailing-window gate, so this creates unconditionally.
func (ns *notificationService) NotifyDocumentExpiry(ctx context.Context, userID uuid.UUID, doc *types.VehicleDocument, plate string) error {
	title := fmt.Sprintf("%s about to expire for %s", documentLabel(doc.Type), plate)
	message := fmt.Sprintf("Your %s expires on %s. Renew it to keep the vehicle road-legal.", documentLabel(doc.Type), doc.ExpiryDate.Format("2006-01-02"))
	notification := &types.Notification{
		UserID:      userID,
		Title:       title,
		Message:     message,
		Category:    types.NotificationCategoryDocument,
		ReferenceID: doc.ID,
	}
	if _, err := ns.repo.Create(ctx, nil, []*types.Notification{notification}); err != nil {
		return fmt.Errorf("create document expiry notification: %w", err)
	}
	ns.publish(ctx, notification)
	return nil
}

func (ns *notificationService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Notification, error) {
	return ns.repo.ListByUser(ctx, nil, userID)
}

func (ns *notificationService) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	return ns.repo.MarkRead(ctx, nil, notificationID, userID)
}

func (ns *notificationService) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return ns.repo.DeleteOlderThan(ctx, nil, cutoff)
}

func (ns *notificationService) tryCreate(ctx context.Context, userID, referenceID uuid.UUID, category, categoryKey, titleSubstring, title, message string) (bool, error) {
	exists, err := ns.repo.ExistsRecent(ctx, nil, repos.RecentNotificationFilter{
		UserID:        userID,
		Category:      category,
		ReferenceID:   referenceID,
		TitleContains: titleSubstring,
		Since:         ns.now().Add(-ns.dedupWindow),
	})
	if err != nil {
		return false, fmt.Errorf("dedup lookup: %w", err)
	}
	if exists {
		ns.log.Debug("Notification suppressed by dedup window",
			"category", categoryKey,
			"reference_id", referenceID,
		)
		return false, nil
	}

	notification := &types.Notification{
		UserID:      userID,
		Title:       title,
		Message:     message,
		Category:    category,
		ReferenceID: referenceID,
	}
	if _, err := ns.repo.Create(ctx, nil, []*types.Notification{notification}); err != nil {
		return false, fmt.Errorf("create notification: %w", err)
	}
	ns.publish(ctx, notification)
	return true, nil
}

func (ns *notificationService) publish(ctx context.Context, notification *types.Notification) {
	err := ns.bus.Publish(ctx, realtime.Message{
		Channel: notification.UserID.String(),
		Event:   realtime.EventNotificationCreated,
		Data:    notification,
	})
	if err != nil {
		ns.log.Warn("Realtime publish failed", "error", err)
	}
}

// remainingSuffix renders the "how soon" hint; distance takes priority over
// months when both dimensions remain, and nothing is appended when the
// threshold is already met.
func remainingSuffix(rec maintenance.Recommendation) string {
	switch {
	case rec.RemainingKm > 0:
		return fmt.Sprintf(" (in approximately %d km)", rec.RemainingKm)
	case rec.RemainingMonths > 0:
		return fmt.Sprintf(" (in approximately %d months)", rec.RemainingMonths)
	case rec.RemainingDays > 0:
		return fmt.Sprintf(" (next check in %d days)", rec.RemainingDays)
	default:
		return ""
	}
}

// labelFor is the case-insensitive substring the dedup gate matches inside
// stored titles for this recommendation's category.
func labelFor(rec maintenance.Recommendation) string {
	for _, rule := range maintenance.RulesFor(types.UsageProfileDaily) {
		if rule.Category == rec.Category {
			return rule.Label
		}
	}
	return string(rec.Category)
}

func documentLabel(t types.DocumentType) string {
	switch t {
	case types.DocumentTypeSOAT:
		return "SOAT"
	case types.DocumentTypeTecno:
		return "Technical inspection"
	default:
		return "Document"
	}
}
