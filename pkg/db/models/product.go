package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/tradelink/tradelink-backend/pkg/enums"
)

// Product represents a supplier's wholesale listing in the catalog.
type Product struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID        uuid.UUID           `gorm:"column:supplier_id;type:uuid;not null"`
	CategoryID        *uuid.UUID          `gorm:"column:category_id;type:uuid"`
	SubcategoryID     *uuid.UUID          `gorm:"column:subcategory_id;type:uuid"`
	Name              string              `gorm:"column:name;not null"`
	Brand             *string             `gorm:"column:brand"`
	Description       *string             `gorm:"column:description"`
	HSNCode           *string             `gorm:"column:hsn_code"`
	ImageURL          *string             `gorm:"column:image_url"`
	PriceCents        int64               `gorm:"column:price_cents;not null"`
	SampleAvailable   bool                `gorm:"column:sample_available;not null;default:false"`
	DropshipAvailable bool                `gorm:"column:dropship_available;not null;default:false"`
	Tags              pq.StringArray      `gorm:"column:tags;type:text[];not null;default:'{}'"`
	Colors            pq.StringArray      `gorm:"column:colors;type:text[];not null;default:'{}'"`
	Sizes             pq.StringArray      `gorm:"column:sizes;type:text[];not null;default:'{}'"`
	Status            enums.ProductStatus `gorm:"column:status;not null;default:draft"`
	Supplier          *Supplier           `gorm:"foreignKey:SupplierID"`
	Category          *Category           `gorm:"foreignKey:CategoryID"`
	Subcategory       *Subcategory        `gorm:"foreignKey:SubcategoryID"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt         gorm.DeletedAt      `gorm:"column:deleted_at;index"`
}

func (Product) TableName() string { return "products" }
