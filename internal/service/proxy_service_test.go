package service_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/clipops/clip-service/internal/errs"
	"github.com/clipops/clip-service/internal/geelark"
	"github.com/clipops/clip-service/internal/model"
	"github.com/clipops/clip-service/internal/service"
)

type stubProxyAPI struct {
	nextID  int
	listed  []geelark.Proxy
	added   []geelark.Proxy
	updated []geelark.Proxy
	deleted []string
}

func (s *stubProxyAPI) ListProxies(_ context.Context) ([]geelark.Proxy, error) {
	return s.listed, nil
}

func (s *stubProxyAPI) AddProxies(_ context.Context, proxies []geelark.Proxy) ([]string, error) {
	ids := make([]string, 0, len(proxies))
	for _, p := range proxies {
		s.nextID++
		s.added = append(s.added, p)
		ids = append(ids, "prov-"+string(rune('a'+s.nextID-1)))
	}
	return ids, nil
}

func (s *stubProxyAPI) UpdateProxies(_ context.Context, proxies []geelark.Proxy) error {
	s.updated = append(s.updated, proxies...)
	return nil
}

func (s *stubProxyAPI) DeleteProxies(_ context.Context, ids []string) error {
	s.deleted = append(s.deleted, ids...)
	return nil
}

func TestProxyCreateUsesProviderID(t *testing.T) {
	db := newTestDB(t)
	api := &stubProxyAPI{}
	svc := service.NewProxyService(db, api, zap.NewNop())

	p, err := svc.Create(context.Background(), model.CreateProxyRequest{
		Server: "1.2.3.4", Port: 1080, Username: "u", Password: "p",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID != "prov-a" {
		t.Fatalf("expected provider id as primary key, got %s", p.ID)
	}
	if p.Scheme != "socks5" {
		t.Fatalf("expected default scheme socks5, got %s", p.Scheme)
	}
	if len(api.added) != 1 {
		t.Fatalf("expected provider registration first, got %d calls", len(api.added))
	}
}

func TestProxyDeleteRemovesAssignments(t *testing.T) {
	db := newTestDB(t)
	api := &stubProxyAPI{}
	svc := service.NewProxyService(db, api, zap.NewNop())
	mustCreate(t, db, &model.Proxy{ID: "px-1", Server: "1.2.3.4", Port: 1080})
	seedCloudPhone(t, db, "d1")
	mustCreate(t, db, &model.ProxyAssignment{ID: "a1", ProxyID: "px-1", CloudPhoneID: "d1"})

	if err := svc.Delete(context.Background(), "px-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(api.deleted) != 1 || api.deleted[0] != "px-1" {
		t.Fatalf("expected provider delete, got %v", api.deleted)
	}
	var rows int64
	db.Model(&model.ProxyAssignment{}).Count(&rows)
	if rows != 0 {
		t.Fatalf("expected assignments removed, got %d", rows)
	}
}

func TestProxySyncFromProviderUpserts(t *testing.T) {
	db := newTestDB(t)
	api := &stubProxyAPI{listed: []geelark.Proxy{
		{ID: "px-1", Scheme: "socks5", Server: "1.1.1.1", Port: 1080},
		{ID: "px-2", Scheme: "http", Server: "2.2.2.2", Port: 8080},
	}}
	svc := service.NewProxyService(db, api, zap.NewNop())

	n, err := svc.SyncFromProvider(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 proxies, got %d", n)
	}
	api.listed[0].Server = "9.9.9.9"
	if _, err := svc.SyncFromProvider(context.Background()); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	got, err := svc.Get("px-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Server != "9.9.9.9" {
		t.Fatalf("expected upserted server, got %s", got.Server)
	}
}

func TestSetAssignmentsCapacityBound(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewProxyService(db, &stubProxyAPI{}, zap.NewNop())
	mustCreate(t, db, &model.Proxy{ID: "px-1", Server: "1.2.3.4", Port: 1080})
	for _, id := range []string{"d1", "d2", "d3", "d4"} {
		seedCloudPhone(t, db, id)
	}

	err := svc.SetAssignments("px-1", []string{"d1", "d2", "d3", "d4"}, false)
	if !errors.Is(err, errs.ErrProxyCapacity) {
		t.Fatalf("expected ErrProxyCapacity, got %v", err)
	}

	if err := svc.SetAssignments("px-1", []string{"d1", "d2", "d3"}, false); err != nil {
		t.Fatalf("3 devices must fit: %v", err)
	}
	var rows int64
	db.Model(&model.ProxyAssignment{}).Where("proxy_id = ?", "px-1").Count(&rows)
	if rows != 3 {
		t.Fatalf("expected 3 assignments, got %d", rows)
	}
}

func TestSetAssignmentsRejectsBoundDeviceWithoutReassign(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewProxyService(db, &stubProxyAPI{}, zap.NewNop())
	mustCreate(t, db, &model.Proxy{ID: "px-1", Server: "1.1.1.1", Port: 1080})
	mustCreate(t, db, &model.Proxy{ID: "px-2", Server: "2.2.2.2", Port: 1080})
	seedCloudPhone(t, db, "d1")

	if err := svc.SetAssignments("px-1", []string{"d1"}, false); err != nil {
		t.Fatalf("initial assignment: %v", err)
	}
	if err := svc.SetAssignments("px-2", []string{"d1"}, false); !errors.Is(err, errs.ErrDeviceAlreadyAssigned) {
		t.Fatalf("expected ErrDeviceAlreadyAssigned, got %v", err)
	}

	// The original binding stays put.
	var row model.ProxyAssignment
	if err := db.Where("cloud_phone_id = ?", "d1").First(&row).Error; err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if row.ProxyID != "px-1" {
		t.Fatalf("expected d1 still on px-1, got %s", row.ProxyID)
	}
}

func TestSetAssignmentsReassignMovesDevice(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewProxyService(db, &stubProxyAPI{}, zap.NewNop())
	mustCreate(t, db, &model.Proxy{ID: "px-1", Server: "1.1.1.1", Port: 1080})
	mustCreate(t, db, &model.Proxy{ID: "px-2", Server: "2.2.2.2", Port: 1080})
	seedCloudPhone(t, db, "d1")

	if err := svc.SetAssignments("px-1", []string{"d1"}, false); err != nil {
		t.Fatalf("initial assignment: %v", err)
	}
	if err := svc.SetAssignments("px-2", []string{"d1"}, true); err != nil {
		t.Fatalf("reassign: %v", err)
	}

	var rows []model.ProxyAssignment
	if err := db.Where("cloud_phone_id = ?", "d1").Find(&rows).Error; err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(rows) != 1 || rows[0].ProxyID != "px-2" {
		t.Fatalf("expected single binding on px-2, got %+v", rows)
	}
}

func TestSetAssignmentsUnknownDevice(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewProxyService(db, &stubProxyAPI{}, zap.NewNop())
	mustCreate(t, db, &model.Proxy{ID: "px-1", Server: "1.1.1.1", Port: 1080})

	if err := svc.SetAssignments("px-1", []string{"ghost"}, false); !errors.Is(err, errs.ErrCloudPhoneNotFound) {
		t.Fatalf("expected ErrCloudPhoneNotFound, got %v", err)
	}
}

func TestSetAssignmentsReplacesExistingSet(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewProxyService(db, &stubProxyAPI{}, zap.NewNop())
	mustCreate(t, db, &model.Proxy{ID: "px-1", Server: "1.1.1.1", Port: 1080})
	seedCloudPhone(t, db, "d1")
	seedCloudPhone(t, db, "d2")

	if err := svc.SetAssignments("px-1", []string{"d1"}, false); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if err := svc.SetAssignments("px-1", []string{"d2"}, false); err != nil {
		t.Fatalf("second set: %v", err)
	}
	var rows []model.ProxyAssignment
	if err := db.Where("proxy_id = ?", "px-1").Find(&rows).Error; err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(rows) != 1 || rows[0].CloudPhoneID != "d2" {
		t.Fatalf("expected replacement set {d2}, got %+v", rows)
	}
}

func TestProxyWithoutProvider(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewProxyService(db, nil, zap.NewNop())
	if _, err := svc.Create(context.Background(), model.CreateProxyRequest{Server: "x", Port: 1}); !errors.Is(err, errs.ErrAutomationNotReady) {
		t.Fatalf("expected ErrAutomationNotReady, got %v", err)
	}
	if _, err := svc.SyncFromProvider(context.Background()); !errors.Is(err, errs.ErrAutomationNotReady) {
		t.Fatalf("expected ErrAutomationNotReady, got %v", err)
	}
}
