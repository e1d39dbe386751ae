package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/rodamarket/backend/internal/config"
	"github.com/rodamarket/backend/internal/logger"
	"github.com/rodamarket/backend/internal/maintenance"
	"github.com/rodamarket/backend/internal/repos"
	"github.com/rodamarket/backend/internal/services"
)

// Scheduler drives the four periodic maintenance tasks. The tasks share no
// mutable state; each pass processes entities one at a time and a failure on
// one entity is logged and skipped. A task-level failure abandons the pass
// and the next cron firing retries from scratch.
type Scheduler struct {
	log               *logger.Logger
	cfg               config.SchedulerConfig
	vehicleRepo       repos.VehicleRepo
	serviceRecordRepo repos.ServiceRecordRepo
	documentRepo      repos.VehicleDocumentRepo
	notifications     services.NotificationService

	cron    *cron.Cron
	started atomic.Bool
	now     func() time.Time
}

func New(
	baseLog *logger.Logger,
	cfg config.SchedulerConfig,
	vehicleRepo repos.VehicleRepo,
	serviceRecordRepo repos.ServiceRecordRepo,
	documentRepo repos.VehicleDocumentRepo,
	notifications services.NotificationService,
) *Scheduler {
	return &Scheduler{
		log:               baseLog.With("component", "Scheduler"),
		cfg:               cfg,
		vehicleRepo:       vehicleRepo,
		serviceRecordRepo: serviceRecordRepo,
		documentRepo:      documentRepo,
		notifications:     notifications,
		now:               time.Now,
	}
}

// Start registers the four tasks and launches the cron driver. Calling it
// again is a logged no-op so a double-wired caller cannot double-register
// the timers.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		s.log.Warn("Scheduler already started, ignoring second Start")
		return nil
	}

	docSpec, err := dailyAtSpec(s.cfg.DocumentCheckAt)
	if err != nil {
		return fmt.Errorf("document check time: %w", err)
	}
	purgeSpec, err := dailyAtSpec(s.cfg.RetentionPurgeAt)
	if err != nil {
		return fmt.Errorf("retention purge time: %w", err)
	}

	// A task slower than its period must not run concurrently with its
	// successor; the skipped firing is logged and the next one retries.
	s.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{log: s.log})))
	entries := []struct {
		spec string
		name string
		run  func(context.Context)
	}{
		{fmt.Sprintf("@every %s", s.cfg.MileageCheckEvery), "mileage_check", s.RunMileagePass},
		{fmt.Sprintf("@every %s", s.cfg.RuleCheckEvery), "rule_table_check", s.RunRuleTablePass},
		{docSpec, "document_expiry_check", s.RunDocumentPass},
		{purgeSpec, "notification_purge", s.RunRetentionPurge},
	}
	for _, e := range entries {
		name := e.name
		run := e.run
		if _, err := s.cron.AddFunc(e.spec, func() {
			defer func() {
				if r := recover(); r != nil {
					s.log.Error("Scheduler task panic", "task", name, "panic", r)
				}
			}()
			run(ctx)
		}); err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
		s.log.Info("Scheduler task registered", "task", name, "spec", e.spec)
	}

	s.cron.Start()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// RunMileagePass compares each vehicle's odometer against its latest
// service-record reading and notifies the highest ladder rung reached.
func (s *Scheduler) RunMileagePass(ctx context.Context) {
	vehicles, err := s.vehicleRepo.ListAllWithOwner(ctx, nil)
	if err != nil {
		s.log.Error("Mileage pass: listing vehicles failed", "error", err)
		return
	}
	for _, v := range vehicles {
		if v == nil || v.OwnerID == uuid.Nil {
			continue
		}
		latest, err := s.serviceRecordRepo.LatestForVehicle(ctx, nil, v.ID)
		if err != nil {
			s.log.Warn("Mileage pass: service record lookup failed", "vehicle_id", v.ID, "error", err)
			continue
		}
		base := 0
		if latest != nil {
			base = latest.Odometer
		}
		delta := v.Odometer - base
		if delta < 0 {
			delta = 0
		}
		for _, rung := range maintenance.MileageLadder {
			if delta < rung.Km {
				continue
			}
			if _, err := s.notifications.TryNotifyMileage(ctx, v.OwnerID, v.ID, rung, delta); err != nil {
				s.log.Warn("Mileage pass: notify failed", "vehicle_id", v.ID, "rung_km", rung.Km, "error", err)
			}
			break
		}
	}
}

// RunRuleTablePass runs the full recommendation evaluator for every vehicle
// and pushes each pending recommendation through the dedup gate.
func (s *Scheduler) RunRuleTablePass(ctx context.Context) {
	vehicles, err := s.vehicleRepo.ListAllWithOwner(ctx, nil)
	if err != nil {
		s.log.Error("Rule-table pass: listing vehicles failed", "error", err)
		return
	}
	now := s.now()
	for _, v := range vehicles {
		if v == nil || v.OwnerID == uuid.Nil {
			continue
		}
		for _, rec := range maintenance.Evaluate(v, now) {
			if _, err := s.notifications.TryNotifyMaintenance(ctx, v.OwnerID, v.ID, rec); err != nil {
				s.log.Warn("Rule-table pass: notify failed",
					"vehicle_id", v.ID,
					"category", rec.Category,
					"error", err,
				)
			}
		}
	}
}

// RunDocumentPass handles both expiry mechanisms: explicit documents about
// to expire (one-shot flag) and purchase-date-derived SOAT/tecnomecánica
// alerts (trailing dedup window). The two can overlap for a vehicle that has
// both a purchase date and a document row; that duplication is preserved.
func (s *Scheduler) RunDocumentPass(ctx context.Context) {
	now := s.now()

	docs, err := s.documentRepo.ListExpiringWithin(ctx, nil, now, now.Add(s.cfg.ExpiryNoticeWindow))
	if err != nil {
		s.log.Error("Document pass: listing expiring documents failed", "error", err)
	} else {
		for _, doc := range docs {
			if doc == nil || doc.Vehicle == nil || doc.Vehicle.OwnerID == uuid.Nil {
				continue
			}
			if err := s.notifications.NotifyDocumentExpiry(ctx, doc.Vehicle.OwnerID, doc, doc.Vehicle.Plate); err != nil {
				s.log.Warn("Document pass: notify failed", "document_id", doc.ID, "error", err)
				continue
			}
			if err := s.documentRepo.MarkNotified(ctx, nil, doc.ID); err != nil {
				s.log.Warn("Document pass: marking document notified failed", "document_id", doc.ID, "error", err)
			}
		}
	}

	vehicles, err := s.vehicleRepo.ListAllWithOwner(ctx, nil)
	if err != nil {
		s.log.Error("Document pass: listing vehicles failed", "error", err)
		return
	}
	ownerByVehicle := make(map[uuid.UUID]uuid.UUID, len(vehicles))
	for _, v := range vehicles {
		if v != nil {
			ownerByVehicle[v.ID] = v.OwnerID
		}
	}
	for _, alert := range maintenance.CollectAlerts(vehicles, now) {
		ownerID := ownerByVehicle[alert.VehicleID]
		if ownerID == uuid.Nil {
			continue
		}
		if _, err := s.notifications.TryNotifyDocumentAlert(ctx, ownerID, alert.VehicleID, alert); err != nil {
			s.log.Warn("Document pass: alert notify failed",
				"vehicle_id", alert.VehicleID,
				"type", alert.Type,
				"error", err,
			)
		}
	}
}

// RunRetentionPurge deletes notifications past the retention age, read or
// unread.
func (s *Scheduler) RunRetentionPurge(ctx context.Context) {
	cutoff := s.now().Add(-s.cfg.RetentionAge)
	deleted, err := s.notifications.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		s.log.Error("Retention purge failed", "error", err)
		return
	}
	if deleted > 0 {
		s.log.Info("Purged old notifications", "deleted", deleted, "cutoff", cutoff)
	}
}

// cronLogger adapts the project logger to the cron driver's interface.
type cronLogger struct {
	log *logger.Logger
}

func (cl cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.log.Warn(msg, keysAndValues...)
}

func (cl cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	cl.log.Error(msg, append(keysAndValues, "error", err)...)
}

// dailyAtSpec converts "HH:MM" into a cron spec firing once a day at that
// local time.
func dailyAtSpec(at string) (string, error) {
	parts := strings.Split(strings.TrimSpace(at), ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("expected HH:MM, got %q", at)
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil || hh < 0 || hh > 23 {
		return "", fmt.Errorf("invalid hour in %q", at)
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil || mm < 0 || mm > 59 {
		return "", fmt.Errorf("invalid minute in %q", at)
	}
	return fmt.Sprintf("%d %d * * *", mm, hh), nil
}
