package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/fadeatelier/fade-backend/pkg/db"
	"github.com/fadeatelier/fade-backend/pkg/enums"
	pkgerrors "github.com/fadeatelier/fade-backend/pkg/errors"
	"github.com/fadeatelier/fade-backend/pkg/pagination"
)

// ListFilter narrows a catalog listing.
type ListFilter struct {
	Limit         int
	Cursor        string
	FeaturedOnly  bool
	Concentration string
	Brand         string
	IncludeHidden bool
}

// Page is a cursor-paginated slice of products.
type Page struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// Service exposes catalog operations for storefront and admin surfaces.
type Service interface {
	List(ctx context.Context, filter ListFilter) (*Page, error)
	Get(ctx context.Context, id uuid.UUID, includeHidden bool) (*ProductDTO, error)
	Create(ctx context.Context, input CreateProductDTO) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductDTO) (*ProductDTO, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// ServiceParams wires the catalog service dependencies.
type ServiceParams struct {
	Repo Repository
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) (*Page, error) {
	cursor, err := pagination.ParseCursor(filter.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	params := ListParams{
		Limit:        filter.Limit,
		Cursor:       cursor,
		ActiveOnly:   !filter.IncludeHidden,
		FeaturedOnly: filter.FeaturedOnly,
		Brand:        strings.TrimSpace(filter.Brand),
	}
	if raw := strings.TrimSpace(filter.Concentration); raw != "" {
		concentration, err := enums.ParseConcentration(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown concentration")
		}
		params.Concentration = &concentration
	}

	products, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list products")
	}

	page := &Page{Products: make([]ProductDTO, 0, len(products))}
	for i := range products {
		page.Products = append(page.Products, *FromModel(&products[i]))
	}
	if next != nil {
		page.NextCursor = pagination.EncodeCursor(*next)
	}
	return page, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID, includeHidden bool) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load product")
	}
	if !product.IsActive && !includeHidden {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return FromModel(product), nil
}

func (s *service) Create(ctx context.Context, input CreateProductDTO) (*ProductDTO, error) {
	input.SKU = strings.ToUpper(strings.TrimSpace(input.SKU))
	if input.SKU == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if !input.Concentration.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown concentration")
	}
	if input.VolumeML <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "volume must be positive")
	}
	if input.PriceMinor < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.StockQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	if _, err := s.repo.FindBySKU(ctx, input.SKU); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
	} else if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to check sku")
	}

	product := input.ToModel()
	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "idx_products_sku") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create product")
	}
	return FromModel(product), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductDTO) (*ProductDTO, error) {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Brand != nil {
		updates["brand"] = strings.TrimSpace(*input.Brand)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Concentration != nil {
		if !input.Concentration.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown concentration")
		}
		updates["concentration"] = *input.Concentration
	}
	if input.ScentNotes != nil {
		updates["scent_notes"] = pq.StringArray(input.ScentNotes)
	}
	if input.VolumeML != nil {
		if *input.VolumeML <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "volume must be positive")
		}
		updates["volume_ml"] = *input.VolumeML
	}
	if input.PriceMinor != nil {
		if *input.PriceMinor < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updates["price_minor"] = *input.PriceMinor
	}
	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		updates["stock_quantity"] = *input.StockQuantity
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.IsFeatured != nil {
		updates["is_featured"] = *input.IsFeatured
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update product")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to reload product")
	}
	return FromModel(product), nil
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Update(ctx, id, map[string]any{"is_active": false}); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to deactivate product")
	}
	return nil
}
