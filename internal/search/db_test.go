package search

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tradelink/tradelink-backend/pkg/logger"
)

var catalogDDL = []string{
	`CREATE TABLE suppliers (
		id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		verified BOOLEAN NOT NULL DEFAULT 0,
		city TEXT,
		state TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		created_at DATETIME
	)`,
	`CREATE TABLE subcategories (
		id TEXT PRIMARY KEY,
		category_id TEXT NOT NULL,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		created_at DATETIME
	)`,
	`CREATE TABLE products (
		id TEXT PRIMARY KEY,
		supplier_id TEXT NOT NULL,
		category_id TEXT,
		subcategory_id TEXT,
		name TEXT NOT NULL,
		brand TEXT,
		description TEXT,
		hsn_code TEXT,
		image_url TEXT,
		price_cents INTEGER NOT NULL,
		sample_available BOOLEAN NOT NULL DEFAULT 0,
		dropship_available BOOLEAN NOT NULL DEFAULT 0,
		tags TEXT NOT NULL DEFAULT '{}',
		colors TEXT NOT NULL DEFAULT '{}',
		sizes TEXT NOT NULL DEFAULT '{}',
		status TEXT NOT NULL DEFAULT 'draft',
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`,
}

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range catalogDDL {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type catalogFixture struct {
	t  *testing.T
	db *gorm.DB
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	return &catalogFixture{t: t, db: newTestDB(t)}
}

type supplierSeed struct {
	Name     string
	Verified bool
	City     string
	State    string
}

func (f *catalogFixture) supplier(seed supplierSeed) uuid.UUID {
	f.t.Helper()
	id := uuid.New()
	require.NoError(f.t, f.db.Exec(
		`INSERT INTO suppliers (id, display_name, verified, city, state, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, seed.Name, seed.Verified, nullable(seed.City), nullable(seed.State), baseTime, baseTime,
	).Error)
	return id
}

func (f *catalogFixture) category(name string) uuid.UUID {
	f.t.Helper()
	id := uuid.New()
	require.NoError(f.t, f.db.Exec(
		`INSERT INTO categories (id, name, slug, created_at) VALUES (?, ?, ?, ?)`,
		id, name, uuid.NewString(), baseTime,
	).Error)
	return id
}

func (f *catalogFixture) subcategory(categoryID uuid.UUID, name string) uuid.UUID {
	f.t.Helper()
	id := uuid.New()
	require.NoError(f.t, f.db.Exec(
		`INSERT INTO subcategories (id, category_id, name, slug, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, categoryID, name, uuid.NewString(), baseTime,
	).Error)
	return id
}

type productSeed struct {
	SupplierID        uuid.UUID
	CategoryID        *uuid.UUID
	SubcategoryID     *uuid.UUID
	Name              string
	Brand             string
	Description       string
	HSNCode           string
	PriceCents        int64
	SampleAvailable   bool
	DropshipAvailable bool
	Tags              []string
	Colors            []string
	Sizes             []string
	Status            string
	CreatedAt         time.Time
	Deleted           bool
}

func (f *catalogFixture) product(seed productSeed) uuid.UUID {
	f.t.Helper()
	id := uuid.New()
	if seed.Status == "" {
		seed.Status = "active"
	}
	if seed.CreatedAt.IsZero() {
		seed.CreatedAt = baseTime
	}
	var deletedAt any
	if seed.Deleted {
		deletedAt = seed.CreatedAt
	}
	require.NoError(f.t, f.db.Exec(
		`INSERT INTO products (id, supplier_id, category_id, subcategory_id, name, brand, description, hsn_code,
			price_cents, sample_available, dropship_available, tags, colors, sizes, status, created_at, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, seed.SupplierID, uuidOrNil(seed.CategoryID), uuidOrNil(seed.SubcategoryID), seed.Name,
		nullable(seed.Brand), nullable(seed.Description), nullable(seed.HSNCode),
		seed.PriceCents, seed.SampleAvailable, seed.DropshipAvailable,
		pq.StringArray(orEmpty(seed.Tags)), pq.StringArray(orEmpty(seed.Colors)), pq.StringArray(orEmpty(seed.Sizes)),
		seed.Status, seed.CreatedAt, seed.CreatedAt, deletedAt,
	).Error)
	return id
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func uuidOrNil(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func ptr[T any](v T) *T {
	return &v
}
