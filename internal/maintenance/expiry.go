package maintenance

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rodamarket/backend/internal/types"
)

// SOAT and the technical inspection are both valid for exactly one calendar
// year from their purchase date.
const documentValidityYears = 1

type ExpiryStatus string

const (
	ExpiryStatusNoDate   ExpiryStatus = "no-date"
	ExpiryStatusExpired  ExpiryStatus = "expired"
	ExpiryStatusCritical ExpiryStatus = "critical"
	ExpiryStatusUpcoming ExpiryStatus = "upcoming"
	ExpiryStatusOK       ExpiryStatus = "ok"
)

type DocumentStatus struct {
	Status        ExpiryStatus `json:"status"`
	Message       string       `json:"message"`
	Alert         bool         `json:"alert"`
	DaysRemaining int          `json:"days_remaining"`
	ExpiryDate    *time.Time   `json:"expiry_date"`
}

type AlertRecord struct {
	Type          types.DocumentType `json:"type"`
	VehicleID     uuid.UUID          `json:"vehicle_id"`
	VehiclePlate  string             `json:"vehicle_plate"`
	Status        ExpiryStatus       `json:"status"`
	Message       string             `json:"message"`
	DaysRemaining int                `json:"days_remaining"`
	ExpiryDate    time.Time          `json:"expiry_date"`
}

// ExpiryDate returns the purchase date plus one year, or nil for a nil
// purchase date.
func ExpiryDate(purchase *time.Time) *time.Time {
	if purchase == nil {
		return nil
	}
	e := purchase.AddDate(documentValidityYears, 0, 0)
	return &e
}

// DaysRemaining counts whole days until expiry at day granularity: both
// dates are normalized to midnight before subtracting. The second return is
// false when there is no purchase date.
func DaysRemaining(purchase *time.Time, now time.Time) (int, bool) {
	expiry := ExpiryDate(purchase)
	if expiry == nil {
		return 0, false
	}
	e := midnight(*expiry)
	n := midnight(now)
	return int(e.Sub(n).Hours() / 24), true
}

// StatusFor maps days-remaining onto the five categorical states. label is
// the human document name used in the message ("SOAT", "Technical
// inspection").
func StatusFor(purchase *time.Time, label string, now time.Time) DocumentStatus {
	days, ok := DaysRemaining(purchase, now)
	if !ok {
		return DocumentStatus{
			Status:  ExpiryStatusNoDate,
			Message: fmt.Sprintf("No purchase date registered for %s.", label),
		}
	}
	expiry := ExpiryDate(purchase)
	st := DocumentStatus{DaysRemaining: days, ExpiryDate: expiry}
	switch {
	case days <= 0:
		st.Status = ExpiryStatusExpired
		st.Alert = true
		st.Message = fmt.Sprintf("%s is expired. Renew it as soon as possible.", label)
	case days <= 3:
		st.Status = ExpiryStatusCritical
		st.Alert = true
		st.Message = fmt.Sprintf("%s expires in %d day(s).", label, days)
	case days <= 7:
		st.Status = ExpiryStatusUpcoming
		st.Alert = true
		st.Message = fmt.Sprintf("%s expires in %d days.", label, days)
	default:
		st.Status = ExpiryStatusOK
		st.Message = fmt.Sprintf("%s is up to date.", label)
	}
	return st
}

// CollectAlerts evaluates SOAT and technical inspection for every vehicle
// and returns the entries that are in an alerting state. Shared by the
// scheduler's daily pass and the on-demand "my alerts" endpoint.
func CollectAlerts(vehicles []*types.Vehicle, now time.Time) []AlertRecord {
	var out []AlertRecord
	for _, v := range vehicles {
		if v == nil {
			continue
		}
		if rec, ok := alertFor(v, types.DocumentTypeSOAT, "SOAT", v.SOATPurchaseDate, now); ok {
			out = append(out, rec)
		}
		if rec, ok := alertFor(v, types.DocumentTypeTecno, "Technical inspection", v.TecnoPurchaseDate, now); ok {
			out = append(out, rec)
		}
	}
	return out
}

func alertFor(v *types.Vehicle, docType types.DocumentType, label string, purchase *time.Time, now time.Time) (AlertRecord, bool) {
	st := StatusFor(purchase, label, now)
	if !st.Alert || st.ExpiryDate == nil {
		return AlertRecord{}, false
	}
	return AlertRecord{
		Type:          docType,
		VehicleID:     v.ID,
		VehiclePlate:  v.Plate,
		Status:        st.Status,
		Message:       st.Message,
		DaysRemaining: st.DaysRemaining,
		ExpiryDate:    *st.ExpiryDate,
	}, true
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
