package api

import (
	"context"
	"net/http"
	"net/url"
)

// PricingVariation prices one item type for one customer category.
type PricingVariation struct {
	ID               string  `json:"id,omitempty"`
	ItemType         string  `json:"itemType"`
	CustomerCategory string  `json:"customerCategory"`
	Price            float64 `json:"price"`
	Description      string  `json:"description,omitempty"`
	IsActive         bool    `json:"isActive"`
}

type Service struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	BasePrice         float64            `json:"basePrice"`
	ImageURL          string             `json:"imageUrl"`
	IsActive          bool               `json:"isActive"`
	ShowOnHome        bool               `json:"showOnHome"`
	SortOrder         int                `json:"sortOrder"`
	PricingVariations []PricingVariation `json:"pricingVariations"`
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	IsActive    bool      `json:"isActive"`
	ShowOnHome  bool      `json:"showOnHome"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   string    `json:"createdAt,omitempty"`
	UpdatedAt   string    `json:"updatedAt,omitempty"`
	Services    []Service `json:"services"`
}

// CategoryPatch holds the editable category fields. Nil fields are omitted.
type CategoryPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	ShowOnHome  *bool   `json:"showOnHome,omitempty"`
	SortOrder   *int    `json:"sortOrder,omitempty"`
}

// ServicePatch holds the editable service fields. Nil fields are omitted.
type ServicePatch struct {
	Name              *string            `json:"name,omitempty"`
	Description       *string            `json:"description,omitempty"`
	BasePrice         *float64           `json:"basePrice,omitempty"`
	ImageURL          *string            `json:"imageUrl,omitempty"`
	IsActive          *bool              `json:"isActive,omitempty"`
	ShowOnHome        *bool              `json:"showOnHome,omitempty"`
	SortOrder         *int               `json:"sortOrder,omitempty"`
	PricingVariations []PricingVariation `json:"pricingVariations,omitempty"`
}

// Categories lists categories with their services nested.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var env Envelope[[]Category]
	if err := c.Do(ctx, http.MethodGet, "admin/categories", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (*Category, error) {
	var env Envelope[Category]
	if err := c.Do(ctx, http.MethodPatch, "admin/categories/"+url.PathEscape(id), patch, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) UpdateService(ctx context.Context, id string, patch ServicePatch) (*Service, error) {
	var env Envelope[Service]
	if err := c.Do(ctx, http.MethodPatch, "admin/services/"+url.PathEscape(id), patch, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}
