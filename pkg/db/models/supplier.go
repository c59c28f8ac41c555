package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is the seller that owns catalog listings.
type Supplier struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DisplayName string    `gorm:"column:display_name;not null"`
	Verified    bool      `gorm:"column:verified;not null;default:false"`
	City        *string   `gorm:"column:city"`
	State       *string   `gorm:"column:state"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Supplier) TableName() string { return "suppliers" }
