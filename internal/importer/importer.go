// Package importer loads inventory CSV feeds into the catalog and
// stock stores, running every loaded quantity through the same
// classification and alerting path as any other stock mutation.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	catalogdomain "github.com/refacia/refacia/internal/catalog/domain"
	invdomain "github.com/refacia/refacia/internal/inventory/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Expected header columns, in any order.
const (
	colSKU           = "sku"
	colName          = "name"
	colPartNumber    = "part_number"
	colCategory      = "category"
	colSupplier      = "supplier"
	colPurchasePrice = "purchase_price"
	colSalePrice     = "sale_price"
	colStock         = "stock"
	colMinimum       = "minimum"
	colLocation      = "location"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Catalog   catalogdomain.Service
	Inventory invdomain.Service
}

type Importer struct {
	log       *zap.Logger
	catalog   catalogdomain.Service
	inventory invdomain.Service
}

func New(p Params) *Importer {
	return &Importer{
		log:       p.Log.Named("importer"),
		catalog:   p.Catalog,
		inventory: p.Inventory,
	}
}

// Result summarizes one import run.
type Result struct {
	Imported int
	Failed   int
}

// Run parses the CSV feed and upserts one product and stock record per
// row. Row failures are logged and counted, not fatal; a malformed
// header aborts the run.
func (i *Importer) Run(ctx context.Context, r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("read csv header: %w", err)
	}
	index, err := indexHeader(header)
	if err != nil {
		return Result{}, err
	}

	var result Result
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, fmt.Errorf("read csv line %d: %w", line, err)
		}

		if err := i.importRow(ctx, index, record); err != nil {
			i.log.Warn("skipping row", zap.Int("line", line), zap.Error(err))
			result.Failed++
			continue
		}
		result.Imported++
	}

	i.log.Info("import finished",
		zap.Int("imported", result.Imported),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (i *Importer) importRow(ctx context.Context, index map[string]int, record []string) error {
	get := func(col string) string {
		pos, ok := index[col]
		if !ok || pos >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[pos])
	}

	sku := get(colSKU)
	if sku == "" {
		return catalogdomain.ErrInvalidSKU
	}

	purchasePrice, err := decimal.NewFromString(get(colPurchasePrice))
	if err != nil {
		return fmt.Errorf("purchase_price: %w", err)
	}
	salePrice, err := decimal.NewFromString(get(colSalePrice))
	if err != nil {
		return fmt.Errorf("sale_price: %w", err)
	}
	stock, err := strconv.ParseInt(get(colStock), 10, 64)
	if err != nil {
		return fmt.Errorf("stock: %w", err)
	}
	minimum, err := strconv.ParseInt(get(colMinimum), 10, 64)
	if err != nil {
		return fmt.Errorf("minimum: %w", err)
	}

	product := &catalogdomain.Product{
		SKU:            sku,
		Name:           get(colName),
		PartNumber:     get(colPartNumber),
		PurchasePrice:  purchasePrice,
		SalePrice:      salePrice,
		WarrantyMonths: 12,
		Active:         true,
	}

	if name := get(colCategory); name != "" {
		category, err := i.catalog.EnsureCategory(ctx, name)
		if err != nil {
			return fmt.Errorf("ensure category %q: %w", name, err)
		}
		product.CategoryID = &category.ID
	}
	if name := get(colSupplier); name != "" {
		supplier, err := i.catalog.EnsureSupplier(ctx, name)
		if err != nil {
			return fmt.Errorf("ensure supplier %q: %w", name, err)
		}
		product.SupplierID = &supplier.ID
	}

	if err := i.catalog.Upsert(ctx, product); err != nil {
		return err
	}

	// Rows carry no explicit ceiling; default to four times the minimum.
	maximum := minimum * 4
	if err := i.inventory.Upsert(ctx, &invdomain.StockRecord{
		ProductSKU: sku,
		Quantity:   stock,
		Minimum:    minimum,
		Maximum:    &maximum,
		Location:   get(colLocation),
	}); err != nil {
		return err
	}

	// Reapply the loaded quantity through the monitored write path so
	// classification and alerting run for this row too.
	if _, err := i.inventory.Set(ctx, sku, stock); err != nil {
		return err
	}
	return nil
}

func indexHeader(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for pos, raw := range header {
		index[strings.ToLower(strings.TrimSpace(raw))] = pos
	}
	for _, required := range []string{colSKU, colName, colPurchasePrice, colSalePrice, colStock, colMinimum} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("csv header missing required column %q", required)
		}
	}
	return index, nil
}
