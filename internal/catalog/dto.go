package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/fadeatelier/fade-backend/pkg/db/models"
	"github.com/fadeatelier/fade-backend/pkg/enums"
)

// ProductDTO is the transport shape for catalog listings.
type ProductDTO struct {
	ID            uuid.UUID           `json:"id"`
	SKU           string              `json:"sku"`
	Name          string              `json:"name"`
	Brand         string              `json:"brand"`
	Description   *string             `json:"description,omitempty"`
	Concentration enums.Concentration `json:"concentration"`
	ScentNotes    []string            `json:"scent_notes"`
	VolumeML      int                 `json:"volume_ml"`
	PriceMinor    int                 `json:"price_minor"`
	Currency      enums.Currency      `json:"currency"`
	StockQuantity int                 `json:"stock_quantity"`
	IsActive      bool                `json:"is_active"`
	IsFeatured    bool                `json:"is_featured"`
	ImageURL      *string             `json:"image_url,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// CreateProductDTO holds the data required to persist a new product.
type CreateProductDTO struct {
	SKU           string              `json:"sku" validate:"required"`
	Name          string              `json:"name" validate:"required"`
	Brand         string              `json:"brand" validate:"required"`
	Description   *string             `json:"description,omitempty"`
	Concentration enums.Concentration `json:"concentration" validate:"required"`
	ScentNotes    []string            `json:"scent_notes,omitempty"`
	VolumeML      int                 `json:"volume_ml" validate:"required,gt=0"`
	PriceMinor    int                 `json:"price_minor" validate:"required,gte=0"`
	StockQuantity int                 `json:"stock_quantity" validate:"gte=0"`
	IsFeatured    bool                `json:"is_featured"`
	ImageURL      *string             `json:"image_url,omitempty"`
}

// UpdateProductDTO carries the optional fields an admin may change.
type UpdateProductDTO struct {
	Name          *string              `json:"name,omitempty"`
	Brand         *string              `json:"brand,omitempty"`
	Description   *string              `json:"description,omitempty"`
	Concentration *enums.Concentration `json:"concentration,omitempty"`
	ScentNotes    []string             `json:"scent_notes,omitempty"`
	VolumeML      *int                 `json:"volume_ml,omitempty" validate:"omitempty,gt=0"`
	PriceMinor    *int                 `json:"price_minor,omitempty" validate:"omitempty,gte=0"`
	StockQuantity *int                 `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	IsActive      *bool                `json:"is_active,omitempty"`
	IsFeatured    *bool                `json:"is_featured,omitempty"`
	ImageURL      *string              `json:"image_url,omitempty"`
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Brand:         p.Brand,
		Description:   p.Description,
		Concentration: p.Concentration,
		ScentNotes:    append([]string(nil), p.ScentNotes...),
		VolumeML:      p.VolumeML,
		PriceMinor:    p.PriceMinor,
		Currency:      p.Currency,
		StockQuantity: p.StockQuantity,
		IsActive:      p.IsActive,
		IsFeatured:    p.IsFeatured,
		ImageURL:      p.ImageURL,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (c CreateProductDTO) ToModel() *models.Product {
	notes := c.ScentNotes
	if notes == nil {
		notes = []string{}
	}
	return &models.Product{
		SKU:           c.SKU,
		Name:          c.Name,
		Brand:         c.Brand,
		Description:   c.Description,
		Concentration: c.Concentration,
		ScentNotes:    pq.StringArray(notes),
		VolumeML:      c.VolumeML,
		PriceMinor:    c.PriceMinor,
		Currency:      enums.CurrencyNGN,
		StockQuantity: c.StockQuantity,
		IsActive:      true,
		IsFeatured:    c.IsFeatured,
		ImageURL:      c.ImageURL,
	}
}
