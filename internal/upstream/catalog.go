package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"marketfront/internal/model"

	"github.com/shopspring/decimal"
)

// ProjectsQuery carries pagination and filter parameters for the listing
// endpoint. Zero values are omitted from the query string.
type ProjectsQuery struct {
	Page       int
	Limit      int
	Search     string
	CategoryID int64
	SellerID   int64
	MinPrice   decimal.Decimal
	MaxPrice   decimal.Decimal
}

func (q ProjectsQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.CategoryID > 0 {
		v.Set("category_id", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.SellerID > 0 {
		v.Set("seller_id", strconv.FormatInt(q.SellerID, 10))
	}
	if q.MinPrice.IsPositive() {
		v.Set("min_price", q.MinPrice.String())
	}
	if q.MaxPrice.IsPositive() {
		v.Set("max_price", q.MaxPrice.String())
	}
	return v
}

// Projects fetches a catalog page.
func (c *Client) Projects(ctx context.Context, q ProjectsQuery) (*model.ProjectPage, error) {
	var page model.ProjectPage
	if err := c.do(ctx, http.MethodGet, "/api/v1/projects", q.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Project fetches a single listing. A backend 404 becomes ErrNotFound so the
// page can render an in-page not-found state.
func (c *Client) Project(ctx context.Context, id int64) (*model.Project, error) {
	var project model.Project
	err := c.do(ctx, http.MethodGet, "/api/v1/projects/"+strconv.FormatInt(id, 10), nil, nil, &project)
	if err != nil {
		var he *HTTPError
		if errors.As(err, &he) && he.Status == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// Categories fetches the category tree (flat, ordered).
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.do(ctx, http.MethodGet, "/api/v1/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Banners fetches the active carousel slides.
func (c *Client) Banners(ctx context.Context) ([]model.Banner, error) {
	var banners []model.Banner
	if err := c.do(ctx, http.MethodGet, "/api/v1/banners", nil, nil, &banners); err != nil {
		return nil, err
	}
	return banners, nil
}

// FAQ fetches the question/answer entries.
func (c *Client) FAQ(ctx context.Context) ([]model.FAQ, error) {
	var faq []model.FAQ
	if err := c.do(ctx, http.MethodGet, "/api/v1/faq", nil, nil, &faq); err != nil {
		return nil, err
	}
	return faq, nil
}

// Contacts fetches the support contact entries.
func (c *Client) Contacts(ctx context.Context) ([]model.Contact, error) {
	var contacts []model.Contact
	if err := c.do(ctx, http.MethodGet, "/api/v1/contacts", nil, nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}
