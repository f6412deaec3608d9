package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"github.com/refacia/refacia/internal/catalog/domain"
	"github.com/refacia/refacia/internal/clock"
	"github.com/refacia/refacia/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const nameCacheTTL = 5 * time.Minute

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
	Redis *redis.Client `optional:"true"`
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	redis *redis.Client
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		redis: p.Redis,
	}
}

func (s *Service) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, domain.ErrInvalidSKU
	}

	product, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

// ResolveName returns the display name for a SKU, reading through a
// short-lived cache when one is configured. A nil redis client degrades
// to direct lookups.
func (s *Service) ResolveName(ctx context.Context, sku string) (string, error) {
	cacheKey := fmt.Sprintf("product:name:%s", sku)

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, cacheKey).Result()
		if err == nil && cached != "" {
			return cached, nil
		}
	}

	product, err := s.GetBySKU(ctx, sku)
	if err != nil {
		return "", err
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, cacheKey, product.Name, nameCacheTTL).Err(); err != nil {
			s.log.Debug("failed to cache product name", zap.String("sku", sku), zap.Error(err))
		}
	}

	return product.Name, nil
}

func (s *Service) Upsert(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return domain.ErrProductNotFound
	}

	product.SKU = strings.TrimSpace(product.SKU)
	if product.SKU == "" {
		return domain.ErrInvalidSKU
	}
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return domain.ErrInvalidName
	}

	now := s.clock.Now()
	if product.ID == 0 {
		product.ID = s.genID.Generate()
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	if err := s.repo.Upsert(ctx, product); err != nil {
		return fmt.Errorf("upsert product %s: %w", product.SKU, err)
	}

	s.invalidateName(ctx, product.SKU)
	return nil
}

func (s *Service) Deactivate(ctx context.Context, sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return domain.ErrInvalidSKU
	}
	if err := s.repo.SetActive(ctx, sku, false); err != nil {
		return err
	}
	s.invalidateName(ctx, sku)
	return nil
}

func (s *Service) EnsureSupplier(ctx context.Context, name string) (*domain.Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	existing, err := s.repo.FindSupplierByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := s.clock.Now()
	supplier := &domain.Supplier{
		ID:        s.genID.Generate(),
		Name:      name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateSupplier(ctx, supplier); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return s.repo.FindSupplierByName(ctx, name)
		}
		return nil, err
	}
	return supplier, nil
}

func (s *Service) EnsureCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	existing, err := s.repo.FindCategoryByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := s.clock.Now()
	category := &domain.Category{
		ID:        s.genID.Generate(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return s.repo.FindCategoryByName(ctx, name)
		}
		return nil, err
	}
	return category, nil
}

func (s *Service) invalidateName(ctx context.Context, sku string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, fmt.Sprintf("product:name:%s", sku)).Err(); err != nil {
		s.log.Debug("failed to invalidate product name cache", zap.String("sku", sku), zap.Error(err))
	}
}
