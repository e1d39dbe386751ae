package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rodamarket/backend/internal/middleware"
	"github.com/rodamarket/backend/internal/services"
	"github.com/rodamarket/backend/internal/types"
)

type VehicleHandler struct {
	vehicleService services.VehicleService
}

func NewVehicleHandler(vehicleService services.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

type createVehicleRequest struct {
	Plate          string     `json:"plate" binding:"required"`
	Brand          string     `json:"brand"`
	Line           string     `json:"line"`
	Year           int        `json:"year"`
	Odometer       int        `json:"odometer"`
	UsageProfile   string     `json:"usage_profile"`
	OilType        string     `json:"oil_type"`
	UsageIntensity string     `json:"usage_intensity"`
	SOATPurchase   *time.Time `json:"soat_purchase_date"`
	TecnoPurchase  *time.Time `json:"tecno_purchase_date"`
}

func (vh *VehicleHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		RespondError(c, http.StatusForbidden, "forbidden", nil)
		return
	}
	var req createVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	vehicle := &types.Vehicle{
		OwnerID:           userID,
		Plate:             req.Plate,
		Brand:             req.Brand,
		Line:              req.Line,
		Year:              req.Year,
		Odometer:          req.Odometer,
		UsageProfile:      types.UsageProfile(req.UsageProfile),
		OilType:           types.OilType(req.OilType),
		UsageIntensity:    types.UsageIntensity(req.UsageIntensity),
		SOATPurchaseDate:  req.SOATPurchase,
		TecnoPurchaseDate: req.TecnoPurchase,
	}
	if vehicle.UsageProfile == "" {
		vehicle.UsageProfile = types.UsageProfileDaily
	}
	if vehicle.OilType == "" {
		vehicle.OilType = types.OilTypeMineral
	}
	if vehicle.UsageIntensity == "" {
		vehicle.UsageIntensity = types.UsageIntensityNormal
	}
	if err := vh.vehicleService.Create(c.Request.Context(), vehicle); err != nil {
		RespondError(c, http.StatusBadRequest, "create_failed", err)
		return
	}
	RespondOK(c, gin.H{"vehicle": vehicle})
}

func (vh *VehicleHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		RespondError(c, http.StatusForbidden, "forbidden", nil)
		return
	}
	vehicles, err := vh.vehicleService.ListMine(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"vehicles": vehicles})
}

// Recommendations runs the evaluator on demand for one owned vehicle.
func (vh *VehicleHandler) Recommendations(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		RespondError(c, http.StatusForbidden, "forbidden", nil)
		return
	}
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_vehicle_id", err)
		return
	}
	recommendations, err := vh.vehicleService.Recommendations(c.Request.Context(), userID, vehicleID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "recommendations_failed", err)
		return
	}
	RespondOK(c, gin.H{"recommendations": recommendations})
}

// DocumentAlerts is the on-demand "my expiring documents" query over the
// pure expiry calculator.
func (vh *VehicleHandler) DocumentAlerts(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		RespondError(c, http.StatusForbidden, "forbidden", nil)
		return
	}
	alerts, err := vh.vehicleService.MyDocumentAlerts(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "alerts_failed", err)
		return
	}
	RespondOK(c, gin.H{"alerts": alerts})
}

type addServiceRecordRequest struct {
	PerformedAt time.Time `json:"performed_at" binding:"required"`
	Odometer    int       `json:"odometer" binding:"required"`
	Description string    `json:"description"`
}

func (vh *VehicleHandler) AddServiceRecord(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		RespondError(c, http.StatusForbidden, "forbidden", nil)
		return
	}
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_vehicle_id", err)
		return
	}
	var req addServiceRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	record := &types.ServiceRecord{
		VehicleID:   vehicleID,
		PerformedAt: req.PerformedAt,
		Odometer:    req.Odometer,
		Description: req.Description,
	}
	if err := vh.vehicleService.AddServiceRecord(c.Request.Context(), userID, record); err != nil {
		RespondError(c, http.StatusBadRequest, "service_record_failed", err)
		return
	}
	RespondOK(c, gin.H{"service_record": record})
}
