package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/refacia/refacia/internal/clock"
	"github.com/refacia/refacia/internal/config"
	"github.com/refacia/refacia/internal/metrics"
	orderdomain "github.com/refacia/refacia/internal/order/domain"
	"github.com/refacia/refacia/pkg/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Config  config.Config
	Repo    orderdomain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    orderdomain.Repository
	orders  repository.Repository[orderdomain.Order]
	metrics *metrics.Metrics

	taxRate decimal.Decimal
}

func New(p Params) (orderdomain.Service, error) {
	taxRate, err := decimal.NewFromString(p.Config.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("invalid TAX_RATE %q: %w", p.Config.TaxRate, err)
	}

	return &Service{
		db:      p.DB,
		log:     p.Log.Named("order.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		orders:  repository.ProvideStore[orderdomain.Order](p.DB),
		metrics: p.Metrics,
		taxRate: taxRate,
	}, nil
}

func (s *Service) Create(ctx context.Context, req orderdomain.CreateOrderRequest) (*orderdomain.Order, error) {
	now := s.clock.Now()
	order := &orderdomain.Order{
		ID:         s.genID.Generate(),
		CustomerID: req.CustomerID,
		Status:     orderdomain.OrderStatusPending,
		Subtotal:   decimal.Zero,
		Tax:        decimal.Zero,
		Total:      decimal.Zero,
		Metadata:   datatypes.JSONMap(req.Metadata),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Insert(ctx, s.db, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*orderdomain.Order, error) {
	order, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, orderdomain.ErrOrderNotFound
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, req orderdomain.ListOrdersRequest) ([]orderdomain.Order, error) {
	filter := &orderdomain.Order{Status: req.Status}
	if req.CustomerID != nil {
		filter.CustomerID = req.CustomerID
	}

	items, err := s.orders.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	orders := make([]orderdomain.Order, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		orders = append(orders, *item)
	}
	return orders, nil
}

func (s *Service) ListLines(ctx context.Context, orderID snowflake.ID) ([]orderdomain.LineItem, error) {
	return s.repo.ListLines(ctx, s.db, orderID)
}

// Delete removes the order and, with it, every line it owns.
func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.repo.LockOrder(ctx, tx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return orderdomain.ErrOrderNotFound
		}
		if err := s.repo.DeleteLinesByOrder(ctx, tx, id); err != nil {
			return err
		}
		return s.repo.DeleteOrder(ctx, tx, id)
	})
}

// AddLine inserts a line and recomputes the owning order's totals in
// one transaction. If the order is gone the whole transaction rolls
// back: a line cannot outlive its order.
func (s *Service) AddLine(ctx context.Context, orderID snowflake.ID, req orderdomain.AddLineRequest) (*orderdomain.LineItem, error) {
	if req.Quantity <= 0 {
		return nil, orderdomain.ErrInvalidQuantity
	}
	if req.UnitPrice.Sign() < 0 {
		return nil, orderdomain.ErrInvalidUnitPrice
	}

	now := s.clock.Now()
	line := &orderdomain.LineItem{
		ID:         s.genID.Generate(),
		OrderID:    orderID,
		ProductSKU: req.ProductSKU,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		Subtotal:   LineSubtotal(req.Quantity, req.UnitPrice),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.repo.LockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return orderdomain.ErrOrderNotFound
		}
		if err := s.repo.InsertLine(ctx, tx, line); err != nil {
			return err
		}
		return s.recomputeLocked(ctx, tx, orderID, now)
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (s *Service) UpdateLine(ctx context.Context, orderID snowflake.ID, req orderdomain.UpdateLineRequest) (*orderdomain.LineItem, error) {
	if req.Quantity <= 0 {
		return nil, orderdomain.ErrInvalidQuantity
	}
	if req.UnitPrice.Sign() < 0 {
		return nil, orderdomain.ErrInvalidUnitPrice
	}

	now := s.clock.Now()
	line := &orderdomain.LineItem{
		ID:        req.LineID,
		OrderID:   orderID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Subtotal:  LineSubtotal(req.Quantity, req.UnitPrice),
		UpdatedAt: now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.repo.LockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return orderdomain.ErrOrderNotFound
		}
		affected, err := s.repo.UpdateLine(ctx, tx, line)
		if err != nil {
			return err
		}
		if affected == 0 {
			return orderdomain.ErrLineNotFound
		}
		return s.recomputeLocked(ctx, tx, orderID, now)
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (s *Service) RemoveLine(ctx context.Context, orderID, lineID snowflake.ID) error {
	now := s.clock.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.repo.LockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return orderdomain.ErrOrderNotFound
		}
		affected, err := s.repo.DeleteLine(ctx, tx, orderID, lineID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return orderdomain.ErrLineNotFound
		}
		return s.recomputeLocked(ctx, tx, orderID, now)
	})
}

func (s *Service) Recompute(ctx context.Context, orderID snowflake.ID) (*orderdomain.Order, error) {
	var order *orderdomain.Order
	now := s.clock.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		locked, err := s.repo.LockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if locked == nil {
			return orderdomain.ErrOrderNotFound
		}
		if err := s.recomputeLocked(ctx, tx, orderID, now); err != nil {
			return err
		}
		order, err = s.repo.FindByID(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// recomputeLocked re-derives subtotal, tax and total from the current
// line set and persists them. Caller must already hold the order row
// lock in tx. An empty line set is a valid terminal state that writes
// all three fields back to zero.
func (s *Service) recomputeLocked(ctx context.Context, tx *gorm.DB, orderID snowflake.ID, now time.Time) error {
	lines, err := s.repo.ListLines(ctx, tx, orderID)
	if err != nil {
		return err
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Subtotal)
	}
	tax := ComputeTax(subtotal, s.taxRate)
	total := subtotal.Add(tax)

	if err := s.repo.UpdateTotals(ctx, tx, orderID, subtotal, tax, total, now); err != nil {
		return err
	}

	s.metrics.RecordOrderRecomputed(ctx)
	s.log.Debug("order totals recomputed",
		zap.Int64("order_id", int64(orderID)),
		zap.String("subtotal", subtotal.StringFixed(2)),
		zap.String("tax", tax.StringFixed(2)),
		zap.String("total", total.StringFixed(2)),
	)
	return nil
}
