package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rodamarket/backend/internal/logger"
	"github.com/rodamarket/backend/internal/maintenance"
	"github.com/rodamarket/backend/internal/repos"
	"github.com/rodamarket/backend/internal/types"
)

type VehicleService interface {
	Create(ctx context.Context, vehicle *types.Vehicle) error
	ListMine(ctx context.Context, ownerID uuid.UUID) ([]*types.Vehicle, error)
	GetOwned(ctx context.Context, ownerID, vehicleID uuid.UUID) (*types.Vehicle, error)
	Recommendations(ctx context.Context, ownerID, vehicleID uuid.UUID) ([]maintenance.Recommendation, error)
	MyDocumentAlerts(ctx context.Context, ownerID uuid.UUID) ([]maintenance.AlertRecord, error)
	AddServiceRecord(ctx context.Context, ownerID uuid.UUID, record *types.ServiceRecord) error
}

type vehicleService struct {
	db                 *gorm.DB
	log                *logger.Logger
	vehicleRepo        repos.VehicleRepo
	serviceRecordRepo  repos.ServiceRecordRepo
	maintenanceService MaintenanceService
}

func NewVehicleService(db *gorm.DB, baseLog *logger.Logger, vehicleRepo repos.VehicleRepo, serviceRecordRepo repos.ServiceRecordRepo, maintenanceService MaintenanceService) VehicleService {
	serviceLog := baseLog.With("service", "VehicleService")
	return &vehicleService{
		db:                 db,
		log:                serviceLog,
		vehicleRepo:        vehicleRepo,
		serviceRecordRepo:  serviceRecordRepo,
		maintenanceService: maintenanceService,
	}
}

func (vs *vehicleService) Create(ctx context.Context, vehicle *types.Vehicle) error {
	if vehicle == nil {
		return fmt.Errorf("vehicle required")
	}
	if vehicle.Plate == "" {
		return fmt.Errorf("plate required")
	}
	vehicle.ID = uuid.New()
	if _, err := vs.vehicleRepo.Create(ctx, nil, []*types.Vehicle{vehicle}); err != nil {
		return fmt.Errorf("create vehicle: %w", err)
	}
	return nil
}

func (vs *vehicleService) ListMine(ctx context.Context, ownerID uuid.UUID) ([]*types.Vehicle, error) {
	return vs.vehicleRepo.ListByOwner(ctx, nil, ownerID)
}

func (vs *vehicleService) GetOwned(ctx context.Context, ownerID, vehicleID uuid.UUID) (*types.Vehicle, error) {
	vehicles, err := vs.vehicleRepo.GetByIDs(ctx, nil, []uuid.UUID{vehicleID})
	if err != nil {
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	if len(vehicles) == 0 || vehicles[0] == nil {
		return nil, fmt.Errorf("vehicle not found")
	}
	if vehicles[0].OwnerID != ownerID {
		return nil, fmt.Errorf("vehicle not found")
	}
	return vehicles[0], nil
}

func (vs *vehicleService) Recommendations(ctx context.Context, ownerID, vehicleID uuid.UUID) ([]maintenance.Recommendation, error) {
	vehicle, err := vs.GetOwned(ctx, ownerID, vehicleID)
	if err != nil {
		return nil, err
	}
	return vs.maintenanceService.EvaluatePendingRecommendations(vehicle), nil
}

func (vs *vehicleService) MyDocumentAlerts(ctx context.Context, ownerID uuid.UUID) ([]maintenance.AlertRecord, error) {
	vehicles, err := vs.vehicleRepo.ListByOwner(ctx, nil, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return vs.maintenanceService.ComputeDocumentAlerts(vehicles), nil
}

func (vs *vehicleService) AddServiceRecord(ctx context.Context, ownerID uuid.UUID, record *types.ServiceRecord) error {
	if record == nil {
		return fmt.Errorf("record required")
	}
	vehicle, err := vs.GetOwned(ctx, ownerID, record.VehicleID)
	if err != nil {
		return err
	}
	record.ID = uuid.New()
	return vs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := vs.serviceRecordRepo.Create(ctx, tx, []*types.ServiceRecord{record}); err != nil {
			return fmt.Errorf("create service record: %w", err)
		}
		// A newer odometer reading on the record advances the vehicle.
		if record.Odometer > vehicle.Odometer {
			vehicle.Odometer = record.Odometer
			if err := vs.vehicleRepo.Update(ctx, tx, vehicle); err != nil {
				return fmt.Errorf("update vehicle odometer: %w", err)
			}
		}
		return nil
	})
}
