package upstream

import (
	"context"
	"net/http"
	"strconv"

	"marketfront/internal/model"
)

// Admin CRUD for managed content. These run on the authenticated path, so an
// expired session follows the normal refresh-and-retry policy; role checks
// belong to the backend and to the local middleware, not to this client.

func (c *Client) CreateFAQ(ctx context.Context, in model.FAQ) (*model.FAQ, error) {
	var out model.FAQ
	if err := c.do(ctx, http.MethodPost, "/api/v1/admin/faq", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateFAQ(ctx context.Context, id int64, in model.FAQ) (*model.FAQ, error) {
	var out model.FAQ
	if err := c.do(ctx, http.MethodPut, "/api/v1/admin/faq/"+strconv.FormatInt(id, 10), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteFAQ(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/admin/faq/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

func (c *Client) CreateBanner(ctx context.Context, in model.Banner) (*model.Banner, error) {
	var out model.Banner
	if err := c.do(ctx, http.MethodPost, "/api/v1/admin/banners", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBanner(ctx context.Context, id int64, in model.Banner) (*model.Banner, error) {
	var out model.Banner
	if err := c.do(ctx, http.MethodPut, "/api/v1/admin/banners/"+strconv.FormatInt(id, 10), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBanner(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/admin/banners/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

func (c *Client) CreateContact(ctx context.Context, in model.Contact) (*model.Contact, error) {
	var out model.Contact
	if err := c.do(ctx, http.MethodPost, "/api/v1/admin/contacts", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateContact(ctx context.Context, id int64, in model.Contact) (*model.Contact, error) {
	var out model.Contact
	if err := c.do(ctx, http.MethodPut, "/api/v1/admin/contacts/"+strconv.FormatInt(id, 10), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteContact(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/admin/contacts/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

func (c *Client) CreateCategory(ctx context.Context, in model.Category) (*model.Category, error) {
	var out model.Category
	if err := c.do(ctx, http.MethodPost, "/api/v1/admin/categories", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, in model.Category) (*model.Category, error) {
	var out model.Category
	if err := c.do(ctx, http.MethodPut, "/api/v1/admin/categories/"+strconv.FormatInt(id, 10), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/admin/categories/"+strconv.FormatInt(id, 10), nil, nil, nil)
}
