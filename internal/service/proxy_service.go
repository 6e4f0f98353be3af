package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clipops/clip-service/internal/errs"
	"github.com/clipops/clip-service/internal/geelark"
	"github.com/clipops/clip-service/internal/model"
)

// ProxyAPI is the slice of the automation provider used for proxy CRUD.
type ProxyAPI interface {
	ListProxies(ctx context.Context) ([]geelark.Proxy, error)
	AddProxies(ctx context.Context, proxies []geelark.Proxy) ([]string, error)
	UpdateProxies(ctx context.Context, proxies []geelark.Proxy) error
	DeleteProxies(ctx context.Context, ids []string) error
}

// ProxyService is a local cache-and-assign layer over the provider's proxy
// CRUD. The assignment bounds (≤3 devices per proxy, ≤1 proxy per device) are
// enforced here at write time, not by database constraints.
type ProxyService struct {
	db  *gorm.DB
	api ProxyAPI // nil when the provider is not configured
	log *zap.Logger
}

// NewProxyService creates a proxy service.
func NewProxyService(db *gorm.DB, api ProxyAPI, log *zap.Logger) *ProxyService {
	return &ProxyService{db: db, api: api, log: log}
}

// List returns all cached proxies with their assignments.
func (s *ProxyService) List() ([]model.Proxy, error) {
	var out []model.Proxy
	err := s.db.Preload("Assignments").Order("created_at DESC").Find(&out).Error
	return out, err
}

// Get returns one proxy with its assignments.
func (s *ProxyService) Get(proxyID string) (*model.Proxy, error) {
	var ent model.Proxy
	if err := s.db.Preload("Assignments").Where("id = ?", proxyID).First(&ent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrProxyNotFound
		}
		return nil, err
	}
	return &ent, nil
}

// Create registers the proxy with the provider, then caches it locally under
// the provider-issued id. The provider call is critical: no id, no row.
func (s *ProxyService) Create(ctx context.Context, req model.CreateProxyRequest) (*model.Proxy, error) {
	if s.api == nil {
		return nil, errs.ErrAutomationNotReady
	}
	scheme := req.Scheme
	if scheme == "" {
		scheme = "socks5"
	}
	ids, err := s.api.AddProxies(ctx, []geelark.Proxy{{
		Scheme:   scheme,
		Server:   req.Server,
		Port:     req.Port,
		Username: req.Username,
		Password: req.Password,
		Country:  req.Country,
	}})
	if err != nil {
		return nil, fmt.Errorf("add proxy: %w", err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("add proxy: provider returned no id")
	}
	ent := &model.Proxy{
		ID:       ids[0],
		Scheme:   scheme,
		Server:   req.Server,
		Port:     req.Port,
		Username: req.Username,
		Password: req.Password,
		Country:  req.Country,
	}
	if err := s.db.Create(ent).Error; err != nil {
		return nil, fmt.Errorf("cache proxy: %w", err)
	}
	return ent, nil
}

// Update updates the provider record, then the local cache.
func (s *ProxyService) Update(ctx context.Context, proxyID string, req model.UpdateProxyRequest) (*model.Proxy, error) {
	if s.api == nil {
		return nil, errs.ErrAutomationNotReady
	}
	ent, err := s.Get(proxyID)
	if err != nil {
		return nil, err
	}
	if req.Scheme != nil {
		ent.Scheme = *req.Scheme
	}
	if req.Server != nil {
		ent.Server = *req.Server
	}
	if req.Port != nil {
		ent.Port = *req.Port
	}
	if req.Username != nil {
		ent.Username = *req.Username
	}
	if req.Password != nil {
		ent.Password = *req.Password
	}
	if req.Country != nil {
		ent.Country = *req.Country
	}
	if err := s.api.UpdateProxies(ctx, []geelark.Proxy{{
		ID:       ent.ID,
		Scheme:   ent.Scheme,
		Server:   ent.Server,
		Port:     ent.Port,
		Username: ent.Username,
		Password: ent.Password,
		Country:  ent.Country,
	}}); err != nil {
		return nil, fmt.Errorf("update proxy: %w", err)
	}
	if err := s.db.Save(ent).Error; err != nil {
		return nil, fmt.Errorf("cache proxy update: %w", err)
	}
	return ent, nil
}

// Delete removes the provider record, the local cache row and its assignments.
func (s *ProxyService) Delete(ctx context.Context, proxyID string) error {
	if s.api == nil {
		return errs.ErrAutomationNotReady
	}
	if _, err := s.Get(proxyID); err != nil {
		return err
	}
	if err := s.api.DeleteProxies(ctx, []string{proxyID}); err != nil {
		return fmt.Errorf("delete proxy: %w", err)
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("proxy_id = ?", proxyID).Delete(&model.ProxyAssignment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", proxyID).Delete(&model.Proxy{}).Error
	})
}

// SyncFromProvider pulls the provider proxy list and upserts the local cache.
func (s *ProxyService) SyncFromProvider(ctx context.Context) (int, error) {
	if s.api == nil {
		return 0, errs.ErrAutomationNotReady
	}
	proxies, err := s.api.ListProxies(ctx)
	if err != nil {
		return 0, fmt.Errorf("list proxies: %w", err)
	}
	for _, p := range proxies {
		ent := model.Proxy{
			ID:       p.ID,
			Scheme:   p.Scheme,
			Server:   p.Server,
			Port:     p.Port,
			Username: p.Username,
			Password: p.Password,
			Country:  p.Country,
		}
		if err := s.db.Save(&ent).Error; err != nil {
			return 0, fmt.Errorf("upsert proxy %s: %w", p.ID, err)
		}
	}
	s.log.Info("proxies synced", zap.Int("count", len(proxies)))
	return len(proxies), nil
}

// SetAssignments replaces the full device set for one proxy.
//
// Devices already bound to a different proxy reject the call unless reassign
// is set, in which case their old bindings are removed in the same
// transaction. The per-proxy bound of model.MaxPhonesPerProxy always holds.
func (s *ProxyService) SetAssignments(proxyID string, deviceIDs []string, reassign bool) error {
	if len(deviceIDs) > model.MaxPhonesPerProxy {
		return fmt.Errorf("%w: %d devices, limit %d", errs.ErrProxyCapacity, len(deviceIDs), model.MaxPhonesPerProxy)
	}
	if _, err := s.Get(proxyID); err != nil {
		return err
	}

	// Deduplicate and verify every device exists.
	seen := make(map[string]struct{}, len(deviceIDs))
	unique := make([]string, 0, len(deviceIDs))
	for _, id := range deviceIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) > 0 {
		var count int64
		if err := s.db.Model(&model.CloudPhone{}).Where("id IN ?", unique).Count(&count).Error; err != nil {
			return err
		}
		if int(count) != len(unique) {
			return errs.ErrCloudPhoneNotFound
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var conflicts []model.ProxyAssignment
		if len(unique) > 0 {
			if err := tx.Where("cloud_phone_id IN ? AND proxy_id <> ?", unique, proxyID).
				Find(&conflicts).Error; err != nil {
				return err
			}
		}
		if len(conflicts) > 0 && !reassign {
			held := make([]string, 0, len(conflicts))
			for _, c := range conflicts {
				held = append(held, c.CloudPhoneID)
			}
			return fmt.Errorf("%w: %s", errs.ErrDeviceAlreadyAssigned, strings.Join(held, ", "))
		}
		for _, c := range conflicts {
			if err := tx.Delete(&model.ProxyAssignment{}, "id = ?", c.ID).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("proxy_id = ?", proxyID).Delete(&model.ProxyAssignment{}).Error; err != nil {
			return err
		}
		for _, id := range unique {
			row := model.ProxyAssignment{
				ID:           uuid.New().String(),
				ProxyID:      proxyID,
				CloudPhoneID: id,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
