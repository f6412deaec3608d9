package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/refacia/refacia/internal/alert"
	alertdomain "github.com/refacia/refacia/internal/alert/domain"
	catalogdomain "github.com/refacia/refacia/internal/catalog/domain"
	catalogrepo "github.com/refacia/refacia/internal/catalog/repository"
	catalogservice "github.com/refacia/refacia/internal/catalog/service"
	"github.com/refacia/refacia/internal/clock"
	invdomain "github.com/refacia/refacia/internal/inventory/domain"
	invrepo "github.com/refacia/refacia/internal/inventory/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []alertdomain.Event
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, event alertdomain.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

func (n *recordingNotifier) Events() []alertdomain.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]alertdomain.Event, len(n.events))
	copy(out, n.events)
	return out
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	// SQLite support hack: remove FOR UPDATE clauses
	stripLocking := func(d *gorm.DB) {
		sql := d.Statement.SQL.String()
		if strings.Contains(sql, "FOR UPDATE") {
			newSQL := strings.ReplaceAll(sql, "FOR UPDATE", "")
			d.Statement.SQL.Reset()
			d.Statement.SQL.WriteString(newSQL)
		}
	}
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("sqlite_skip_locked", stripLocking))
	require.NoError(t, db.Callback().Row().Before("gorm:row").Register("sqlite_skip_locked_row", stripLocking))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&catalogdomain.Product{},
		&catalogdomain.Supplier{},
		&catalogdomain.Category{},
		&invdomain.StockRecord{},
		&invdomain.StockMovement{},
	))
	return db
}

type fixture struct {
	inventory invdomain.Service
	catalog   catalogdomain.Service
	notifier  *recordingNotifier
	clock     *clock.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := openTestDB(t)
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	catalog := catalogservice.New(catalogservice.Params{
		Log:   log,
		GenID: node,
		Clock: fakeClock,
		Repo:  catalogrepo.NewRepository(db),
	})

	notifier := &recordingNotifier{}
	dispatcher := alert.NewDispatcher(alert.DispatcherParams{Log: log})
	dispatcher.Register(notifier)

	inventory := New(Params{
		DB:         db,
		Log:        log,
		GenID:      node,
		Clock:      fakeClock,
		Repo:       invrepo.NewRepository(),
		Catalog:    catalog,
		Dispatcher: dispatcher,
	})

	return &fixture{
		inventory: inventory,
		catalog:   catalog,
		notifier:  notifier,
		clock:     fakeClock,
	}
}

func (f *fixture) seedStock(t *testing.T, sku string, quantity, minimum int64) {
	t.Helper()
	require.NoError(t, f.inventory.Upsert(context.Background(), &invdomain.StockRecord{
		ProductSKU: sku,
		Quantity:   quantity,
		Minimum:    minimum,
		Location:   "A-01",
	}))
}

func TestApply_CrossingMinimumEmitsCriticalAlert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStock(t, "AP001", 6, 5)

	record, err := f.inventory.Apply(ctx, invdomain.ApplyRequest{
		ProductSKU: "AP001", Type: invdomain.MovementFulfillment, Delta: -1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), record.Quantity)
	assert.Equal(t, invdomain.StatusCritical, record.Status())

	events := f.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "AP001", events[0].ProductSKU)
	assert.Equal(t, int64(5), events[0].Quantity)
	assert.Equal(t, int64(5), events[0].Minimum)
	assert.Equal(t, string(invdomain.StatusCritical), events[0].Status)
}

func TestApply_DepletionEmitsOutOfStockAlert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStock(t, "AP002", 3, 2)

	record, err := f.inventory.Set(ctx, "AP002", 0)
	require.NoError(t, err)
	assert.Equal(t, invdomain.StatusOutOfStock, record.Status())

	events := f.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, string(invdomain.StatusOutOfStock), events[0].Status)
}

func TestApply_NegativeResultRejectedAndStateUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStock(t, "AP003", 2, 1)

	_, err := f.inventory.Apply(ctx, invdomain.ApplyRequest{
		ProductSKU: "AP003", Type: invdomain.MovementFulfillment, Delta: -3,
	})
	assert.ErrorIs(t, err, invdomain.ErrInvalidQuantity)

	// The rejected movement must leave the stored quantity untouched
	// and emit nothing.
	record, err := f.inventory.Get(ctx, "AP003")
	require.NoError(t, err)
	assert.Equal(t, int64(2), record.Quantity)
	assert.Empty(t, f.notifier.Events())

	movements, err := f.inventory.ListMovements(ctx, "AP003")
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestApply_NormalStatusEmitsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStock(t, "AP004", 10, 3)

	record, err := f.inventory.Apply(ctx, invdomain.ApplyRequest{
		ProductSKU: "AP004", Type: invdomain.MovementFulfillment, Delta: -2,
	})
	require.NoError(t, err)
	assert.Equal(t, invdomain.StatusNormal, record.Status())
	assert.Empty(t, f.notifier.Events())
}

func TestApply_OneAlertPerQualifyingMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStock(t, "AP005", 4, 5)

	// Already critical: every mutation that ends in a qualifying state
	// emits its own alert.
	for i := 0; i < 3; i++ {
		_, err := f.inventory.Apply(ctx, invdomain.ApplyRequest{
			ProductSKU: "AP005", Type: invdomain.MovementFulfillment, Delta: -1,
		})
		require.NoError(t, err)
	}

	assert.Len(t, f.notifier.Events(), 3)
}

func TestApply_NotifierFailureDoesNotFailMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.notifier.err = errors.New("webhook down")
	f.seedStock(t, "AP006", 1, 5)

	record, err := f.inventory.Set(ctx, "AP006", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), record.Quantity)

	stored, err := f.inventory.Get(ctx, "AP006")
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.Quantity)
}

func TestApply_AlertCarriesCatalogName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.catalog.Upsert(ctx, &catalogdomain.Product{
		SKU:  "AP007",
		Name: "Oil Filter",
	}))
	f.seedStock(t, "AP007", 1, 5)

	_, err := f.inventory.Apply(ctx, invdomain.ApplyRequest{
		ProductSKU: "AP007", Type: invdomain.MovementFulfillment, Delta: -1,
	})
	require.NoError(t, err)

	events := f.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "Oil Filter", events[0].ProductName)
}

func TestApply_UnknownProductFallsBackToSKU(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStock(t, "AP008", 1, 5)

	_, err := f.inventory.Set(ctx, "AP008", 0)
	require.NoError(t, err)

	events := f.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "AP008", events[0].ProductName)
}

func TestApply_InvalidMovementType(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, "AP009", 5, 1)

	_, err := f.inventory.Apply(context.Background(), invdomain.ApplyRequest{
		ProductSKU: "AP009", Type: invdomain.MovementType("transfer"), Delta: 1,
	})
	assert.ErrorIs(t, err, invdomain.ErrInvalidMovement)
}

func TestApply_MissingSKU(t *testing.T) {
	f := newFixture(t)

	_, err := f.inventory.Apply(context.Background(), invdomain.ApplyRequest{
		ProductSKU: "NOPE", Type: invdomain.MovementReceipt, Delta: 1,
	})
	assert.ErrorIs(t, err, invdomain.ErrStockNotFound)
}

func TestUpsert_RejectsInvalidThresholds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.inventory.Upsert(ctx, &invdomain.StockRecord{ProductSKU: "AP010", Quantity: -1})
	assert.ErrorIs(t, err, invdomain.ErrInvalidQuantity)

	err = f.inventory.Upsert(ctx, &invdomain.StockRecord{ProductSKU: "AP010", Minimum: -1})
	assert.ErrorIs(t, err, invdomain.ErrInvalidThreshold)

	maximum := int64(2)
	err = f.inventory.Upsert(ctx, &invdomain.StockRecord{ProductSKU: "AP010", Minimum: 5, Maximum: &maximum})
	assert.ErrorIs(t, err, invdomain.ErrInvalidThreshold)
}

func TestListCritical_OrdersByQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStock(t, "AP011", 0, 5)
	f.seedStock(t, "AP012", 3, 5)
	f.seedStock(t, "AP013", 20, 5)

	critical, err := f.inventory.ListCritical(ctx)
	require.NoError(t, err)
	require.Len(t, critical, 2)
	assert.Equal(t, "AP011", critical[0].ProductSKU)
	assert.Equal(t, "AP012", critical[1].ProductSKU)
}

func TestListMovements_RecordsAuditTrail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStock(t, "AP014", 10, 2)

	_, err := f.inventory.Apply(ctx, invdomain.ApplyRequest{
		ProductSKU: "AP014", Type: invdomain.MovementFulfillment, Delta: -4,
	})
	require.NoError(t, err)
	_, err = f.inventory.Apply(ctx, invdomain.ApplyRequest{
		ProductSKU: "AP014", Type: invdomain.MovementReceipt, Delta: 6,
	})
	require.NoError(t, err)

	movements, err := f.inventory.ListMovements(ctx, "AP014")
	require.NoError(t, err)
	require.Len(t, movements, 2)
	for _, m := range movements {
		assert.Equal(t, "AP014", m.ProductSKU)
	}
}
