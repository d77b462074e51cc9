package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"marketfront/internal/model"
)

// Orders fetches the current user's order history, newest first.
func (c *Client) Orders(ctx context.Context, page, limit int) (*model.OrderPage, error) {
	v := url.Values{}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	var orders model.OrderPage
	if err := c.do(ctx, http.MethodGet, "/api/v1/orders", v, nil, &orders); err != nil {
		return nil, err
	}
	return &orders, nil
}

// SellerSummary fetches the seller dashboard aggregates.
func (c *Client) SellerSummary(ctx context.Context) (*model.SellerSummary, error) {
	var summary model.SellerSummary
	if err := c.do(ctx, http.MethodGet, "/api/v1/seller/summary", nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Notifications fetches backend announcements for the current user.
func (c *Client) Notifications(ctx context.Context) ([]model.Notification, error) {
	var notifications []model.Notification
	if err := c.do(ctx, http.MethodGet, "/api/v1/notifications", nil, nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}
