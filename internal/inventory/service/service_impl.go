package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	alertdomain "github.com/refacia/refacia/internal/alert/domain"
	catalogdomain "github.com/refacia/refacia/internal/catalog/domain"
	"github.com/refacia/refacia/internal/clock"
	invdomain "github.com/refacia/refacia/internal/inventory/domain"
	"github.com/refacia/refacia/internal/metrics"
	"github.com/refacia/refacia/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       invdomain.Repository
	Catalog    catalogdomain.Service
	Dispatcher alertdomain.Dispatcher
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       invdomain.Repository
	movements  repository.Repository[invdomain.StockMovement]
	catalog    catalogdomain.Service
	dispatcher alertdomain.Dispatcher
	metrics    *metrics.Metrics
}

func New(p Params) invdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("inventory.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		movements:  repository.ProvideStore[invdomain.StockMovement](p.DB),
		catalog:    p.Catalog,
		dispatcher: p.Dispatcher,
		metrics:    p.Metrics,
	}
}

func (s *Service) Upsert(ctx context.Context, record *invdomain.StockRecord) error {
	if record == nil || record.ProductSKU == "" {
		return invdomain.ErrStockNotFound
	}
	if record.Quantity < 0 {
		return invdomain.ErrInvalidQuantity
	}
	if record.Minimum < 0 {
		return invdomain.ErrInvalidThreshold
	}
	if record.Maximum != nil && *record.Maximum < record.Minimum {
		return invdomain.ErrInvalidThreshold
	}

	now := s.clock.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	return s.repo.Upsert(ctx, s.db, record)
}

func (s *Service) Get(ctx context.Context, sku string) (*invdomain.StockRecord, error) {
	record, err := s.repo.FindBySKU(ctx, s.db, sku)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, invdomain.ErrStockNotFound
	}
	return record, nil
}

// Apply mutates the stock quantity by a signed delta. The record lock,
// negativity check, quantity write and movement audit row share one
// transaction; classification runs on the post-mutation quantity and a
// qualifying status emits one alert after commit.
func (s *Service) Apply(ctx context.Context, req invdomain.ApplyRequest) (*invdomain.StockRecord, error) {
	switch req.Type {
	case invdomain.MovementReceipt, invdomain.MovementFulfillment, invdomain.MovementAdjustment:
	default:
		return nil, invdomain.ErrInvalidMovement
	}
	return s.mutate(ctx, req.ProductSKU, req.Type, func(current int64) int64 {
		return current + req.Delta
	})
}

// Set overwrites the stock quantity, recorded as an adjustment.
func (s *Service) Set(ctx context.Context, sku string, quantity int64) (*invdomain.StockRecord, error) {
	if quantity < 0 {
		return nil, invdomain.ErrInvalidQuantity
	}
	return s.mutate(ctx, sku, invdomain.MovementAdjustment, func(int64) int64 {
		return quantity
	})
}

func (s *Service) ListCritical(ctx context.Context) ([]invdomain.StockRecord, error) {
	return s.repo.ListCritical(ctx, s.db)
}

func (s *Service) ListMovements(ctx context.Context, sku string) ([]invdomain.StockMovement, error) {
	items, err := s.movements.Find(ctx, &invdomain.StockMovement{ProductSKU: sku})
	if err != nil {
		return nil, err
	}

	movements := make([]invdomain.StockMovement, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		movements = append(movements, *item)
	}
	return movements, nil
}

func (s *Service) mutate(ctx context.Context, sku string, movementType invdomain.MovementType, next func(current int64) int64) (*invdomain.StockRecord, error) {
	now := s.clock.Now()

	var record *invdomain.StockRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		locked, err := s.repo.LockBySKU(ctx, tx, sku)
		if err != nil {
			return err
		}
		if locked == nil {
			return invdomain.ErrStockNotFound
		}

		newQuantity := next(locked.Quantity)
		if newQuantity < 0 {
			return fmt.Errorf("stock %s would drop to %d: %w", sku, newQuantity, invdomain.ErrInvalidQuantity)
		}

		if err := s.repo.UpdateQuantity(ctx, tx, sku, newQuantity, now, now); err != nil {
			return err
		}
		if err := s.repo.InsertMovement(ctx, tx, &invdomain.StockMovement{
			ID:                s.genID.Generate(),
			ProductSKU:        sku,
			Type:              movementType,
			Delta:             newQuantity - locked.Quantity,
			ResultingQuantity: newQuantity,
			OccurredAt:        now,
			CreatedAt:         now,
		}); err != nil {
			return err
		}

		locked.Quantity = newQuantity
		locked.LastMovementAt = &now
		locked.UpdatedAt = now
		record = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordStockMovement(ctx, string(movementType))

	// Alert emission is deliberately outside the transaction: a slow or
	// failing notification channel must never hold the record lock or
	// fail the committed quantity write.
	if status := record.Status(); status != invdomain.StatusNormal {
		s.emitAlert(ctx, record, status)
	}

	return record, nil
}

func (s *Service) emitAlert(ctx context.Context, record *invdomain.StockRecord, status invdomain.StockStatus) {
	name, err := s.catalog.ResolveName(ctx, record.ProductSKU)
	if err != nil {
		if !errors.Is(err, catalogdomain.ErrProductNotFound) {
			s.log.Warn("failed to resolve product name for alert",
				zap.String("sku", record.ProductSKU),
				zap.Error(err),
			)
		}
		name = record.ProductSKU
	}

	event := alertdomain.Event{
		ID:          uuid.New(),
		ProductSKU:  record.ProductSKU,
		ProductName: name,
		Quantity:    record.Quantity,
		Minimum:     record.Minimum,
		Status:      string(status),
		Location:    record.Location,
		OccurredAt:  s.clock.Now(),
	}

	s.dispatcher.Publish(ctx, event)
	s.metrics.RecordAlertEmitted(ctx, string(status))
}
