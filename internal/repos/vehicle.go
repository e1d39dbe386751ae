package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rodamarket/backend/internal/logger"
	"github.com/rodamarket/backend/internal/types"
)

type VehicleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, vehicles []*types.Vehicle) ([]*types.Vehicle, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, vehicleIDs []uuid.UUID) ([]*types.Vehicle, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Vehicle, error)
	ListAllWithOwner(ctx context.Context, tx *gorm.DB) ([]*types.Vehicle, error)
	Update(ctx context.Context, tx *gorm.DB, vehicle *types.Vehicle) error
}

type vehicleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVehicleRepo(db *gorm.DB, baseLog *logger.Logger) VehicleRepo {
	repoLog := baseLog.With("repo", "VehicleRepo")
	return &vehicleRepo{db: db, log: repoLog}
}

func (vr *vehicleRepo) Create(ctx context.Context, tx *gorm.DB, vehicles []*types.Vehicle) ([]*types.Vehicle, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	if len(vehicles) == 0 {
		return []*types.Vehicle{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&vehicles).Error; err != nil {
		return nil, err
	}

	return vehicles, nil
}

func (vr *vehicleRepo) GetByIDs(ctx context.Context, tx *gorm.DB, vehicleIDs []uuid.UUID) ([]*types.Vehicle, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	var results []*types.Vehicle

	if len(vehicleIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", vehicleIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (vr *vehicleRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Vehicle, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	var results []*types.Vehicle

	if err := transaction.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListAllWithOwner feeds the scheduler passes; the owner must be populated
// because notifications are addressed to the owning user.
func (vr *vehicleRepo) ListAllWithOwner(ctx context.Context, tx *gorm.DB) ([]*types.Vehicle, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	var results []*types.Vehicle

	if err := transaction.WithContext(ctx).
		Preload("Owner").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (vr *vehicleRepo) Update(ctx context.Context, tx *gorm.DB, vehicle *types.Vehicle) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	if vehicle == nil {
		return nil
	}

	return transaction.WithContext(ctx).Save(vehicle).Error
}
