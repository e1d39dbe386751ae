package services

import (
	"time"

	"github.com/rodamarket/backend/internal/logger"
	"github.com/rodamarket/backend/internal/maintenance"
	"github.com/rodamarket/backend/internal/types"
)

// MaintenanceService is the host-facing façade over the pure engine; both
// calls are synchronous and side-effect free so the HTTP layer and the
// scheduler share the same code path.
type MaintenanceService interface {
	EvaluatePendingRecommendations(vehicle *types.Vehicle) []maintenance.Recommendation
	ComputeDocumentAlerts(vehicles []*types.Vehicle) []maintenance.AlertRecord
	DocumentStatus(vehicle *types.Vehicle) map[types.DocumentType]maintenance.DocumentStatus
}

type maintenanceService struct {
	log *logger.Logger
	now func() time.Time
}

func NewMaintenanceService(baseLog *logger.Logger) MaintenanceService {
	serviceLog := baseLog.With("service", "MaintenanceService")
	return &maintenanceService{log: serviceLog, now: time.Now}
}

func (ms *maintenanceService) EvaluatePendingRecommendations(vehicle *types.Vehicle) []maintenance.Recommendation {
	if vehicle == nil {
		return nil
	}
	return maintenance.Evaluate(vehicle, ms.now())
}

func (ms *maintenanceService) ComputeDocumentAlerts(vehicles []*types.Vehicle) []maintenance.AlertRecord {
	return maintenance.CollectAlerts(vehicles, ms.now())
}

func (ms *maintenanceService) DocumentStatus(vehicle *types.Vehicle) map[types.DocumentType]maintenance.DocumentStatus {
	if vehicle == nil {
		return nil
	}
	now := ms.now()
	return map[types.DocumentType]maintenance.DocumentStatus{
		types.DocumentTypeSOAT:  maintenance.StatusFor(vehicle.SOATPurchaseDate, "SOAT", now),
		types.DocumentTypeTecno: maintenance.StatusFor(vehicle.TecnoPurchaseDate, "Technical inspection", now),
	}
}
