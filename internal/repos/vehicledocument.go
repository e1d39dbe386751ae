package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rodamarket/backend/internal/logger"
	"github.com/rodamarket/backend/internal/types"
)

type VehicleDocumentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, documents []*types.VehicleDocument) ([]*types.VehicleDocument, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, documentIDs []uuid.UUID) ([]*types.VehicleDocument, error)
	ListByVehicleIDs(ctx context.Context, tx *gorm.DB, vehicleIDs []uuid.UUID) ([]*types.VehicleDocument, error)
	ListExpiringWithin(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]*types.VehicleDocument, error)
	MarkNotified(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) error
}

type vehicleDocumentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVehicleDocumentRepo(db *gorm.DB, baseLog *logger.Logger) VehicleDocumentRepo {
	repoLog := baseLog.With("repo", "VehicleDocumentRepo")
	return &vehicleDocumentRepo{db: db, log: repoLog}
}

func (dr *vehicleDocumentRepo) Create(ctx context.Context, tx *gorm.DB, documents []*types.VehicleDocument) ([]*types.VehicleDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if len(documents) == 0 {
		return []*types.VehicleDocument{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&documents).Error; err != nil {
		return nil, err
	}

	return documents, nil
}

func (dr *vehicleDocumentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, documentIDs []uuid.UUID) ([]*types.VehicleDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var results []*types.VehicleDocument

	if len(documentIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", documentIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *vehicleDocumentRepo) ListByVehicleIDs(ctx context.Context, tx *gorm.DB, vehicleIDs []uuid.UUID) ([]*types.VehicleDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var results []*types.VehicleDocument

	if len(vehicleIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("vehicle_id IN ?", vehicleIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListExpiringWithin returns documents whose expiry date falls inside
// [from, to] and that have not had their one-shot expiry notification yet,
// with the owning vehicle (and its owner) populated.
func (dr *vehicleDocumentRepo) ListExpiringWithin(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]*types.VehicleDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var results []*types.VehicleDocument

	if err := transaction.WithContext(ctx).
		Preload("Vehicle").
		Preload("Vehicle.Owner").
		Where("expiry_date >= ? AND expiry_date <= ? AND notified_of_expiry = ?", from, to, false).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *vehicleDocumentRepo) MarkNotified(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.VehicleDocument{}).
		Where("id = ?", documentID).
		Update("notified_of_expiry", true).Error
}
