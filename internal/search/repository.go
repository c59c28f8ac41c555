package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/tradelink/tradelink-backend/pkg/db/models"
	"github.com/tradelink/tradelink-backend/pkg/enums"
	pkgerrors "github.com/tradelink/tradelink-backend/pkg/errors"
	"github.com/tradelink/tradelink-backend/pkg/pagination"
)

const likeEscape = "ESCAPE '\\'"

// CatalogQuery is everything the catalog store needs to produce one page.
type CatalogQuery struct {
	Filters SearchFilters
	Sort    enums.SortKey
	Page    int
	Limit   int
}

// Repository reads the active catalog. It never writes.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithSnapshot returns a repository bound to the provided transaction.
func (r *Repository) WithSnapshot(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Snapshot runs fn against one consistent view of the catalog so the count and
// the page agree. Postgres gets a read-only repeatable-read transaction; other
// dialects read directly.
func (r *Repository) Snapshot(ctx context.Context, fn func(repo *Repository) error) error {
	if r.dialect() != "postgres" {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithSnapshot(tx))
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
}

func (r *Repository) dialect() string {
	if r.db == nil || r.db.Dialector == nil {
		return ""
	}
	return r.db.Dialector.Name()
}

// activeProducts is the filtered source set shared by the count and page queries.
func (r *Repository) activeProducts(ctx context.Context, filter SearchFilters) *gorm.DB {
	qb := r.db.WithContext(ctx).
		Table("products p").
		Joins("JOIN suppliers s ON s.id = p.supplier_id").
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Joins("LEFT JOIN subcategories sc ON sc.id = p.subcategory_id").
		Where("p.deleted_at IS NULL").
		Where("p.status = ?", enums.ProductStatusActive)

	if filter.CategoryID != nil {
		qb = qb.Where("p.category_id = ?", *filter.CategoryID)
	}
	if filter.SubcategoryID != nil {
		qb = qb.Where("p.subcategory_id = ?", *filter.SubcategoryID)
	}
	if filter.PriceMinCents != nil {
		qb = qb.Where("p.price_cents >= ?", *filter.PriceMinCents)
	}
	if filter.PriceMaxCents != nil {
		qb = qb.Where("p.price_cents <= ?", *filter.PriceMaxCents)
	}
	if filter.City != nil {
		qb = qb.Where("s.city = ?", *filter.City)
	}
	if filter.State != nil {
		qb = qb.Where("s.state = ?", *filter.State)
	}
	if filter.SampleAvailable != nil {
		qb = qb.Where("p.sample_available = ?", *filter.SampleAvailable)
	}
	if filter.DropshipAvailable != nil {
		qb = qb.Where("p.dropship_available = ?", *filter.DropshipAvailable)
	}
	qb = r.overlaps(qb, "p.tags", filter.Tags)
	qb = r.overlaps(qb, "p.colors", filter.Colors)
	qb = r.overlaps(qb, "p.sizes", filter.Sizes)
	return qb
}

// overlaps keeps rows whose array column shares at least one value with values.
func (r *Repository) overlaps(qb *gorm.DB, column string, values []string) *gorm.DB {
	if len(values) == 0 {
		return qb
	}
	if r.dialect() == "postgres" {
		return qb.Where(column+" && ?::text[]", pq.Array(values))
	}
	// other dialects store the array literal as text, e.g. {"red","blue"}
	normalized := fmt.Sprintf("(',' || TRIM(REPLACE(%s, '\"', ''), '{}') || ',')", column)
	clauses := make([]string, 0, len(values))
	args := make([]any, 0, len(values))
	for _, v := range values {
		clauses = append(clauses, normalized+" LIKE ? "+likeEscape)
		args = append(args, "%,"+escapeLike(v)+",%")
	}
	return qb.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

var catalogColumns = strings.Join([]string{
	"p.id",
	"p.name",
	"p.brand",
	"p.description",
	"p.hsn_code",
	"p.image_url",
	"p.price_cents",
	"p.sample_available",
	"p.dropship_available",
	"p.tags",
	"p.colors",
	"p.sizes",
	"p.created_at",
	"p.category_id",
	"c.name AS category_name",
	"p.subcategory_id",
	"sc.name AS subcategory_name",
	"s.id AS supplier_id",
	"s.display_name AS supplier_name",
	"s.verified AS supplier_verified",
	"s.city AS supplier_city",
	"s.state AS supplier_state",
}, ", ")

// ListActive returns one page of the active catalog plus the filtered total.
func (r *Repository) ListActive(ctx context.Context, query CatalogQuery) (*CatalogPage, error) {
	params := pagination.Params{Page: query.Page, Limit: query.Limit}
	limit := pagination.ClampLimit(query.Limit, pagination.DefaultLimit)
	page := pagination.NormalizePage(query.Page)

	var total int64
	if err := r.activeProducts(ctx, query.Filters).Count(&total).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list catalog")
	}

	result := &CatalogPage{
		Entries:    []CatalogEntry{},
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: pagination.TotalPages(total, limit),
	}
	if total == 0 {
		return result, nil
	}

	qb := r.activeProducts(ctx, query.Filters).Select(catalogColumns)
	for _, clause := range orderClauses(query.Sort) {
		qb = qb.Order(clause)
	}

	var records []catalogRecord
	if err := qb.Limit(limit).Offset(params.Offset()).Scan(&records).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list catalog")
	}

	for _, record := range records {
		result.Entries = append(result.Entries, record.toEntry())
	}
	return result, nil
}

// orderClauses pushes the sort down with p.id as a deterministic tiebreaker.
// Relevance is ranked in memory later, so the store orders it newest first.
func orderClauses(key enums.SortKey) []string {
	switch key {
	case enums.SortPriceAsc:
		return []string{"p.price_cents ASC", "p.id ASC"}
	case enums.SortPriceDesc:
		return []string{"p.price_cents DESC", "p.id DESC"}
	case enums.SortNameAsc:
		return []string{"p.name ASC", "p.id ASC"}
	case enums.SortNameDesc:
		return []string{"p.name DESC", "p.id DESC"}
	case enums.SortCreatedAtAsc:
		return []string{"p.created_at ASC", "p.id ASC"}
	default:
		return []string{"p.created_at DESC", "p.id DESC"}
	}
}

type catalogRecord struct {
	ID                uuid.UUID
	Name              string
	Brand             sql.NullString
	Description       sql.NullString
	HSNCode           sql.NullString
	ImageURL          sql.NullString
	PriceCents        int64
	SampleAvailable   bool
	DropshipAvailable bool
	Tags              pq.StringArray `gorm:"type:text[]"`
	Colors            pq.StringArray `gorm:"type:text[]"`
	Sizes             pq.StringArray `gorm:"type:text[]"`
	CreatedAt         time.Time
	CategoryID        uuid.NullUUID
	CategoryName      sql.NullString
	SubcategoryID     uuid.NullUUID
	SubcategoryName   sql.NullString
	SupplierID        uuid.UUID
	SupplierName      string
	SupplierVerified  bool
	SupplierCity      sql.NullString
	SupplierState     sql.NullString
}

func (r catalogRecord) toEntry() CatalogEntry {
	return CatalogEntry{
		ID:              r.ID,
		Name:            r.Name,
		Brand:           nullStringPtr(r.Brand),
		Description:     nullStringPtr(r.Description),
		HSNCode:         nullStringPtr(r.HSNCode),
		CategoryID:      nullUUIDPtr(r.CategoryID),
		CategoryName:    nullStringPtr(r.CategoryName),
		SubcategoryID:   nullUUIDPtr(r.SubcategoryID),
		SubcategoryName: nullStringPtr(r.SubcategoryName),
		Supplier: SupplierSummary{
			ID:       r.SupplierID,
			Name:     r.SupplierName,
			Verified: r.SupplierVerified,
			City:     nullStringPtr(r.SupplierCity),
			State:    nullStringPtr(r.SupplierState),
		},
		ImageURL:          nullStringPtr(r.ImageURL),
		PriceCents:        r.PriceCents,
		SampleAvailable:   r.SampleAvailable,
		DropshipAvailable: r.DropshipAvailable,
		Tags:              nonNil(r.Tags),
		Colors:            nonNil(r.Colors),
		Sizes:             nonNil(r.Sizes),
		CreatedAt:         r.CreatedAt,
	}
}

// SuggestProducts returns active products whose name or brand contains term.
func (r *Repository) SuggestProducts(ctx context.Context, term string, limit int) ([]models.Product, error) {
	pattern := containsPattern(term)
	var products []models.Product
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Category").
		Select("id", "name", "brand", "category_id").
		Where("status = ?", enums.ProductStatusActive).
		Where("(LOWER(name) LIKE ? "+likeEscape+" OR LOWER(COALESCE(brand, '')) LIKE ? "+likeEscape+")", pattern, pattern).
		Order("name ASC").
		Order("id ASC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: suggest products")
	}
	return products, nil
}

// SuggestCategories returns categories whose name contains term and that hold at least one active product.
func (r *Repository) SuggestCategories(ctx context.Context, term string, limit int) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("LOWER(name) LIKE ? "+likeEscape, containsPattern(term)).
		Where("EXISTS (SELECT 1 FROM products p WHERE p.category_id = categories.id AND p.deleted_at IS NULL AND p.status = ?)", enums.ProductStatusActive).
		Order("name ASC").
		Order("id ASC").
		Limit(limit).
		Find(&categories).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: suggest categories")
	}
	return categories, nil
}

// SuggestBrands returns distinct active-product brands containing term with their product counts.
func (r *Repository) SuggestBrands(ctx context.Context, term string, limit int) ([]BrandSuggestion, error) {
	var rows []brandRecord
	err := r.db.WithContext(ctx).
		Table("products p").
		Select("p.brand AS name, COUNT(*) AS occurrences").
		Where("p.deleted_at IS NULL").
		Where("p.status = ?", enums.ProductStatusActive).
		Where("p.brand IS NOT NULL AND p.brand <> ''").
		Where("LOWER(p.brand) LIKE ? "+likeEscape, containsPattern(term)).
		Group("p.brand").
		Order("p.brand ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: suggest brands")
	}
	brands := make([]BrandSuggestion, 0, len(rows))
	for _, row := range rows {
		brands = append(brands, BrandSuggestion{Name: row.Name, Count: row.Occurrences})
	}
	return brands, nil
}

type brandRecord struct {
	Name        string
	Occurrences int64
}

// SuggestionLookup bundles the three independent typeahead lookups.
type SuggestionLookup struct {
	Products   []models.Product
	Categories []models.Category
	Brands     []BrandSuggestion
}

// Suggest runs the product, category and brand lookups in parallel.
func (r *Repository) Suggest(ctx context.Context, term string, productLimit, groupLimit int) (*SuggestionLookup, error) {
	var out SuggestionLookup
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := r.SuggestProducts(gctx, term, productLimit)
		out.Products = products
		return err
	})
	g.Go(func() error {
		categories, err := r.SuggestCategories(gctx, term, groupLimit)
		out.Categories = categories
		return err
	})
	g.Go(func() error {
		brands, err := r.SuggestBrands(gctx, term, groupLimit)
		out.Brands = brands
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func containsPattern(term string) string {
	return "%" + escapeLike(strings.ToLower(strings.TrimSpace(term))) + "%"
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}

func nullUUIDPtr(value uuid.NullUUID) *uuid.UUID {
	if !value.Valid {
		return nil
	}
	v := value.UUID
	return &v
}

func nonNil(values pq.StringArray) []string {
	if values == nil {
		return []string{}
	}
	return []string(values)
}
