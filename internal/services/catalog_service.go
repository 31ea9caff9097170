package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/models"
)

var (
	ErrServiceNotFound    = errors.New("service not found")
	ErrDuplicateServiceID = errors.New("service id already exists")
	ErrInvalidService     = errors.New("invalid service")
)

// CatalogService is the record store: it owns id minting, defaults and the
// admin whitelist for service records.
type CatalogService struct {
	repo ServiceRepository
	ids  *catalog.IDGenerator
	now  func() time.Time
}

func NewCatalogService(repo ServiceRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
		ids:  catalog.NewIDGenerator(),
		now:  time.Now,
	}
}

func (s *CatalogService) List(ctx context.Context) ([]catalog.ServiceRecord, error) {
	svcs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	records := make([]catalog.ServiceRecord, len(svcs))
	for i, svc := range svcs {
		records[i] = svc.ToRecord()
	}
	return records, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (catalog.ServiceRecord, error) {
	svc, err := s.repo.FindByServiceID(ctx, id)
	if err != nil {
		return catalog.ServiceRecord{}, err
	}
	return svc.ToRecord(), nil
}

func (s *CatalogService) Create(ctx context.Context, payload catalog.CreatePayload) (catalog.ServiceRecord, error) {
	now := s.now()
	rec := catalog.NewRecord(payload, s.ids.Next(now), now)
	if err := rec.Validate(); err != nil {
		return catalog.ServiceRecord{}, fmt.Errorf("%w: %v", ErrInvalidService, err)
	}

	svc := models.ServiceFromRecord(rec)
	if err := s.repo.Create(ctx, &svc); err != nil {
		if errors.Is(err, ErrDuplicateServiceID) {
			return catalog.ServiceRecord{}, err
		}
		return catalog.ServiceRecord{}, fmt.Errorf("failed to create service: %w", err)
	}
	return svc.ToRecord(), nil
}

// AdminUpdate replaces the whitelisted fields present in patch. Anything else
// in the payload is ignored.
func (s *CatalogService) AdminUpdate(ctx context.Context, id string, patch catalog.Patch) (catalog.ServiceRecord, error) {
	svc, err := s.repo.FindByServiceID(ctx, id)
	if err != nil {
		return catalog.ServiceRecord{}, err
	}

	updated, err := catalog.Apply(svc.ToRecord(), patch, catalog.AdminUpdateTable)
	if err != nil {
		return catalog.ServiceRecord{}, fmt.Errorf("%w: %v", ErrInvalidService, err)
	}

	svc.ApplyRecord(updated)
	if err := s.repo.Save(ctx, svc); err != nil {
		return catalog.ServiceRecord{}, fmt.Errorf("failed to update service: %w", err)
	}
	slog.Info("service updated", "service_id", id, "fields", catalog.AdminUpdateTable.Fields(patch))
	return svc.ToRecord(), nil
}

// Seed inserts records into an empty collection. It does nothing when the
// collection already holds services. Records without an id get one minted.
func (s *CatalogService) Seed(ctx context.Context, records []catalog.ServiceRecord) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count services: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	inserted := 0
	now := s.now()
	for i, rec := range records {
		if rec.ID == "" {
			rec.ID = s.ids.Next(now)
		}
		// Keep the input order when listed newest first.
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now.Add(-time.Duration(i) * time.Second).UTC()
		}
		rec.Normalize()
		svc := models.ServiceFromRecord(rec)
		if err := s.repo.Create(ctx, &svc); err != nil {
			return inserted, fmt.Errorf("failed to seed service %s: %w", rec.ID, err)
		}
		inserted++
	}
	return inserted, nil
}
