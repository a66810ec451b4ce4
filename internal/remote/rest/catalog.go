package rest

import (
	"context"
	"fmt"

	"github.com/and161185/shopfront/internal/errs"
	"github.com/and161185/shopfront/internal/model"
)

// CatalogClient fetches catalog pages via GET /products.
type CatalogClient struct {
	c *Client
}

// NewCatalog constructs a CatalogClient over shared plumbing.
func NewCatalog(c *Client) *CatalogClient {
	return &CatalogClient{c: c}
}

type productsResponse struct {
	Items      []model.Product `json:"items"`
	TotalPages int             `json:"totalPages"`
}

// FetchPage returns one catalog page. page and pageSize must be positive;
// range policy against totalPages is the orchestrator's concern.
func (cc *CatalogClient) FetchPage(ctx context.Context, page, pageSize int) (model.ProductPage, error) {
	if page < 1 || pageSize < 1 {
		return model.ProductPage{}, fmt.Errorf("%w: page=%d pageSize=%d", errs.ErrOutOfRange, page, pageSize)
	}

	var resp productsResponse
	path := fmt.Sprintf("/products?page=%d&pageSize=%d", page, pageSize)
	if err := cc.c.do(ctx, "GET", path, "", nil, &resp); err != nil {
		return model.ProductPage{}, err
	}

	p := model.ProductPage{
		Items:      resp.Items,
		Page:       page,
		TotalPages: resp.TotalPages,
	}
	if p.Items == nil {
		p.Items = []model.Product{}
	}
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	return p, nil
}
