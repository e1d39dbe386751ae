package repos

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rodamarket/backend/internal/logger"
	"github.com/rodamarket/backend/internal/types"
)

// testDB opens the database named by TEST_POSTGRES_DSN and hands the test a
// transaction that is rolled back on cleanup, so tests never see each
// other's rows.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("set TEST_POSTGRES_DSN to run Postgres integration tests")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		t.Fatalf("uuid-ossp extension: %v", err)
	}
	if err := db.AutoMigrate(
		&types.User{},
		&types.Vehicle{},
		&types.VehicleDocument{},
		&types.ServiceRecord{},
		&types.Notification{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() { tx.Rollback() })
	return tx
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func seedUser(t *testing.T, tx *gorm.DB) *types.User {
	t.Helper()
	user := &types.User{
		ID:        uuid.New(),
		Email:     uuid.New().String() + "@example.com",
		Password:  "x",
		FirstName: "Test",
		LastName:  "User",
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedVehicle(t *testing.T, tx *gorm.DB, ownerID uuid.UUID) *types.Vehicle {
	t.Helper()
	vehicle := &types.Vehicle{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Plate:        "TST" + uuid.New().String()[:3],
		UsageProfile: types.UsageProfileDaily,
		OilType:      types.OilTypeMineral,
	}
	if err := tx.Create(vehicle).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	return vehicle
}

func TestNotificationRepo_ExistsRecentWindow(t *testing.T) {
	tx := testDB(t)
	repo := NewNotificationRepo(tx, testLogger(t))
	ctx := context.Background()
	user := seedUser(t, tx)
	vehicleID := uuid.New()

	old := &types.Notification{
		UserID:      user.ID,
		Title:       "Oil change due",
		Message:     "msg",
		Category:    types.NotificationCategoryMaintenance,
		ReferenceID: vehicleID,
		CreatedAt:   time.Now().Add(-8 * 24 * time.Hour),
	}
	if _, err := repo.Create(ctx, tx, []*types.Notification{old}); err != nil {
		t.Fatalf("create: %v", err)
	}

	since := time.Now().Add(-7 * 24 * time.Hour)
	exists, err := repo.ExistsRecent(ctx, tx, RecentNotificationFilter{
		UserID:        user.ID,
		Category:      types.NotificationCategoryMaintenance,
		ReferenceID:   vehicleID,
		TitleContains: "oil change",
		Since:         since,
	})
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatalf("notification older than the window must not match")
	}

	fresh := &types.Notification{
		UserID:      user.ID,
		Title:       "Oil change due",
		Message:     "msg",
		Category:    types.NotificationCategoryMaintenance,
		ReferenceID: vehicleID,
	}
	if _, err := repo.Create(ctx, tx, []*types.Notification{fresh}); err != nil {
		t.Fatalf("create: %v", err)
	}

	exists, err = repo.ExistsRecent(ctx, tx, RecentNotificationFilter{
		UserID:        user.ID,
		Category:      types.NotificationCategoryMaintenance,
		ReferenceID:   vehicleID,
		TitleContains: "OIL CHANGE",
		Since:         since,
	})
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatalf("case-insensitive title match inside the window should hit")
	}

	exists, err = repo.ExistsRecent(ctx, tx, RecentNotificationFilter{
		UserID:        user.ID,
		Category:      types.NotificationCategoryMaintenance,
		ReferenceID:   uuid.New(),
		TitleContains: "oil change",
		Since:         since,
	})
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatalf("different reference must not match")
	}
}

func TestNotificationRepo_DeleteOlderThan(t *testing.T) {
	tx := testDB(t)
	repo := NewNotificationRepo(tx, testLogger(t))
	ctx := context.Background()
	user := seedUser(t, tx)

	mk := func(age time.Duration, read bool) {
		n := &types.Notification{
			UserID:    user.ID,
			Title:     "t",
			Message:   "m",
			Category:  types.NotificationCategorySystem,
			Read:      read,
			CreatedAt: time.Now().Add(-age),
		}
		if _, err := repo.Create(ctx, tx, []*types.Notification{n}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	mk(11*24*time.Hour, false)
	mk(11*24*time.Hour, true)
	mk(9*24*time.Hour, false)

	deleted, err := repo.DeleteOlderThan(ctx, tx, time.Now().Add(-10*24*time.Hour))
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted (read and unread alike), got %d", deleted)
	}

	remaining, err := repo.ListByUser(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("expected 1 remaining, got %d", len(remaining))
	}
}

func TestNotificationRepo_MarkReadScopedToUser(t *testing.T) {
	tx := testDB(t)
	repo := NewNotificationRepo(tx, testLogger(t))
	ctx := context.Background()
	owner := seedUser(t, tx)
	other := seedUser(t, tx)

	created, err := repo.Create(ctx, tx, []*types.Notification{{
		UserID:   owner.ID,
		Title:    "t",
		Message:  "m",
		Category: types.NotificationCategorySystem,
	}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created[0].ID

	if err := repo.MarkRead(ctx, tx, id, other.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	list, err := repo.ListByUser(ctx, tx, owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list[0].Read {
		t.Fatalf("another user's mark-read must not flip the flag")
	}

	if err := repo.MarkRead(ctx, tx, id, owner.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	list, err = repo.ListByUser(ctx, tx, owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !list[0].Read {
		t.Fatalf("owner mark-read should flip the flag")
	}
}

func TestVehicleDocumentRepo_ExpiryLifecycle(t *testing.T) {
	tx := testDB(t)
	repo := NewVehicleDocumentRepo(tx, testLogger(t))
	ctx := context.Background()
	user := seedUser(t, tx)
	vehicle := seedVehicle(t, tx, user.ID)

	now := time.Now()
	inWindow := &types.VehicleDocument{
		VehicleID:  vehicle.ID,
		Type:       types.DocumentTypeSOAT,
		ExpiryDate: now.Add(2 * 24 * time.Hour),
	}
	outOfWindow := &types.VehicleDocument{
		VehicleID:  vehicle.ID,
		Type:       types.DocumentTypeTecno,
		ExpiryDate: now.Add(30 * 24 * time.Hour),
	}
	if _, err := repo.Create(ctx, tx, []*types.VehicleDocument{inWindow, outOfWindow}); err != nil {
		t.Fatalf("create: %v", err)
	}

	docs, err := repo.ListExpiringWithin(ctx, tx, now, now.Add(3*24*time.Hour))
	if err != nil {
		t.Fatalf("list expiring: %v", err)
	}
	if len(docs) != 1 || docs[0].Type != types.DocumentTypeSOAT {
		t.Fatalf("expected only the SOAT document, got %d", len(docs))
	}
	if docs[0].Vehicle == nil || docs[0].Vehicle.Owner == nil {
		t.Fatalf("expected vehicle and owner preloaded")
	}
	if docs[0].Vehicle.Owner.ID != user.ID {
		t.Fatalf("preloaded owner mismatch")
	}

	if err := repo.MarkNotified(ctx, tx, docs[0].ID); err != nil {
		t.Fatalf("mark notified: %v", err)
	}
	docs, err = repo.ListExpiringWithin(ctx, tx, now, now.Add(3*24*time.Hour))
	if err != nil {
		t.Fatalf("list expiring: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("notified document must drop out of the expiring list, got %d", len(docs))
	}
}

func TestServiceRecordRepo_LatestForVehicle(t *testing.T) {
	tx := testDB(t)
	repo := NewServiceRecordRepo(tx, testLogger(t))
	ctx := context.Background()
	user := seedUser(t, tx)
	vehicle := seedVehicle(t, tx, user.ID)

	latest, err := repo.LatestForVehicle(ctx, tx, vehicle.ID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil for vehicle without history")
	}

	older := &types.ServiceRecord{
		VehicleID:   vehicle.ID,
		PerformedAt: time.Now().AddDate(0, -6, 0),
		Odometer:    8000,
	}
	newer := &types.ServiceRecord{
		VehicleID:   vehicle.ID,
		PerformedAt: time.Now().AddDate(0, -1, 0),
		Odometer:    12000,
	}
	if _, err := repo.Create(ctx, tx, []*types.ServiceRecord{older, newer}); err != nil {
		t.Fatalf("create: %v", err)
	}

	latest, err = repo.LatestForVehicle(ctx, tx, vehicle.ID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.Odometer != 12000 {
		t.Fatalf("expected the most recent record, got %+v", latest)
	}
}
