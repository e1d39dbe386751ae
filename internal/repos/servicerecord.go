package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rodamarket/backend/internal/logger"
	"github.com/rodamarket/backend/internal/types"
)

type ServiceRecordRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.ServiceRecord) ([]*types.ServiceRecord, error)
	ListByVehicle(ctx context.Context, tx *gorm.DB, vehicleID uuid.UUID) ([]*types.ServiceRecord, error)
	LatestForVehicle(ctx context.Context, tx *gorm.DB, vehicleID uuid.UUID) (*types.ServiceRecord, error)
}

type serviceRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewServiceRecordRepo(db *gorm.DB, baseLog *logger.Logger) ServiceRecordRepo {
	repoLog := baseLog.With("repo", "ServiceRecordRepo")
	return &serviceRecordRepo{db: db, log: repoLog}
}

func (sr *serviceRecordRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.ServiceRecord) ([]*types.ServiceRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if len(records) == 0 {
		return []*types.ServiceRecord{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (sr *serviceRecordRepo) ListByVehicle(ctx context.Context, tx *gorm.DB, vehicleID uuid.UUID) ([]*types.ServiceRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.ServiceRecord

	if err := transaction.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("performed_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// LatestForVehicle returns the most recent entry by performed date, or nil
// when the vehicle has no service history yet.
func (sr *serviceRecordRepo) LatestForVehicle(ctx context.Context, tx *gorm.DB, vehicleID uuid.UUID) (*types.ServiceRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var result types.ServiceRecord

	err := transaction.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("performed_at DESC").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
