package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/fadeatelier/fade-backend/pkg/enums"
)

// Product represents a fragrance in the catalog. Prices are stored in minor
// currency units.
type Product struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU           string              `gorm:"column:sku;not null;uniqueIndex"`
	Name          string              `gorm:"column:name;not null"`
	Brand         string              `gorm:"column:brand;not null"`
	Description   *string             `gorm:"column:description"`
	Concentration enums.Concentration `gorm:"column:concentration;type:text;not null"`
	ScentNotes    pq.StringArray      `gorm:"column:scent_notes;type:text[];not null;default:ARRAY[]::text[]"`
	VolumeML      int                 `gorm:"column:volume_ml;not null"`
	PriceMinor    int                 `gorm:"column:price_minor;not null"`
	Currency      enums.Currency      `gorm:"column:currency;type:text;not null;default:'NGN'"`
	StockQuantity int                 `gorm:"column:stock_quantity;not null;default:0"`
	IsActive      bool                `gorm:"column:is_active;not null;default:true"`
	IsFeatured    bool                `gorm:"column:is_featured;not null;default:false"`
	ImageURL      *string             `gorm:"column:image_url"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
