package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/refacia/refacia/internal/catalog/domain"
	"github.com/refacia/refacia/internal/catalog/repository"
	"github.com/refacia/refacia/internal/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.Product{}, &domain.Supplier{}, &domain.Category{}))

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	return New(Params{
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		Repo:  repository.NewRepository(db),
	})
}

func TestUpsert_IdempotentBySKU(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first := &domain.Product{
		SKU:       "AP001",
		Name:      "Oil Filter",
		SalePrice: decimal.RequireFromString("12.50"),
	}
	require.NoError(t, svc.Upsert(ctx, first))
	require.NotZero(t, first.ID)

	second := &domain.Product{
		SKU:       "AP001",
		Name:      "Oil Filter Premium",
		SalePrice: decimal.RequireFromString("15.00"),
	}
	require.NoError(t, svc.Upsert(ctx, second))

	got, err := svc.GetBySKU(ctx, "AP001")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID, "upsert must keep the original ID")
	assert.Equal(t, "Oil Filter Premium", got.Name)
	assert.Equal(t, "15.00", got.SalePrice.StringFixed(2))
}

func TestUpsert_RejectsBlankFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	err := svc.Upsert(ctx, &domain.Product{SKU: "  ", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidSKU)

	err = svc.Upsert(ctx, &domain.Product{SKU: "AP001", Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestGetBySKU_Missing(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetBySKU(context.Background(), "NOPE")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestResolveName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Upsert(ctx, &domain.Product{SKU: "AP002", Name: "Brake Pad"}))

	name, err := svc.ResolveName(ctx, "AP002")
	require.NoError(t, err)
	assert.Equal(t, "Brake Pad", name)

	_, err = svc.ResolveName(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestDeactivate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Upsert(ctx, &domain.Product{SKU: "AP003", Name: "Spark Plug"}))
	require.NoError(t, svc.Deactivate(ctx, "AP003"))

	got, err := svc.GetBySKU(ctx, "AP003")
	require.NoError(t, err)
	assert.False(t, got.Active)

	err = svc.Deactivate(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestEnsureSupplier_FindOrCreate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.EnsureSupplier(ctx, "Acme Parts")
	require.NoError(t, err)
	second, err := svc.EnsureSupplier(ctx, "Acme Parts")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = svc.EnsureSupplier(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestEnsureCategory_FindOrCreate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.EnsureCategory(ctx, "Filters")
	require.NoError(t, err)
	second, err := svc.EnsureCategory(ctx, "Filters")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
