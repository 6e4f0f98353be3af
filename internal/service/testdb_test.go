package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clipops/clip-service/internal/model"
)

// newTestDB opens a fresh in-memory database per test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(model.Entities()...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string) *model.User {
	t.Helper()
	u := &model.User{
		ID:    uuid.New().String(),
		Name:  "user-" + role,
		Email: uuid.New().String() + "@test.local",
		Role:  role,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedAccount(t *testing.T, db *gorm.DB, mutate func(*model.TiktokAccount)) *model.TiktokAccount {
	t.Helper()
	a := &model.TiktokAccount{
		ID:          uuid.New().String(),
		DisplayName: "Test Account",
		Username:    "acct-" + uuid.New().String()[:8],
		IsActive:    true,
	}
	if mutate != nil {
		mutate(a)
	}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return a
}

func seedClip(t *testing.T, db *gorm.DB, userID string, status model.ClipStatus, mutate func(*model.Clip)) *model.Clip {
	t.Helper()
	c := &model.Clip{
		ID:       uuid.New().String(),
		UserID:   userID,
		Title:    "Test clip",
		VideoURL: "https://cdn.test.local/clip.mp4",
		Status:   string(status),
	}
	if mutate != nil {
		mutate(c)
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed clip: %v", err)
	}
	return c
}

func seedCloudPhone(t *testing.T, db *gorm.DB, id string) *model.CloudPhone {
	t.Helper()
	p := &model.CloudPhone{
		ID:         id,
		SerialName: "phone-" + id,
		Status:     "running",
		SyncedAt:   time.Now(),
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed cloud phone: %v", err)
	}
	return p
}

func clipStatus(t *testing.T, db *gorm.DB, clipID string) string {
	t.Helper()
	var c model.Clip
	if err := db.Where("id = ?", clipID).First(&c).Error; err != nil {
		t.Fatalf("reload clip: %v", err)
	}
	return c.Status
}

func mustCreate(t *testing.T, db *gorm.DB, value any) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}

func strptr(s string) *string { return &s }
