package handler

import (
	"net/http"

	"marketfront/internal/i18n"
	"marketfront/internal/model"
	"marketfront/internal/session"
	"marketfront/internal/upstream"
	"marketfront/pkg/pagination"
	"marketfront/pkg/response"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	sessions *session.Store
	client   *upstream.Client
	t        *i18n.Store
}

// NewAccountHandler sets up the profile, orders, and seller endpoints.
func NewAccountHandler(sessions *session.Store, client *upstream.Client, t *i18n.Store) *AccountHandler {
	return &AccountHandler{sessions: sessions, client: client, t: t}
}

// RegisterRoutes binds the endpoints; the caller wraps the group with the
// session middleware.
func (h *AccountHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/profile", h.GetProfile)
	router.PUT("/profile", h.UpdateProfile)
	router.GET("/orders", h.ListOrders)
	router.GET("/seller/summary", h.SellerSummary)
}

// GetProfile returns the session's user record
// @Summary      Current profile
// @Tags         account
// @Produce      json
// @Success      200  {object}  response.Response{data=session.Snapshot}
// @Failure      401  {object}  response.Response
// @Router       /api/profile [get]
func (h *AccountHandler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.sessions.Snapshot()))
}

// UpdateProfile sends partial fields upstream, then merges them into the
// session optimistically
// @Summary      Update profile
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        payload  body      model.UserPatch  true  "Changed fields"
// @Success      200      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/profile [put]
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var patch model.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	updated, err := h.client.UpdateProfile(c.Request.Context(), patch)
	if err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}

	// the upstream call already succeeded; the local merge is the optimistic
	// mirror and must not fail the request
	if err := h.sessions.UpdateUser(c.Request.Context(), patch); err != nil {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, updated))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.sessions.Snapshot()))
}

// ListOrders proxies the order history
// @Summary      List orders
// @Tags         account
// @Produce      json
// @Param        page   query     int  false  "Page"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Router       /api/orders [get]
func (h *AccountHandler) ListOrders(c *gin.Context) {
	params := pagination.Parse(c)
	page, err := h.client.Orders(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"items": page.Items,
		"meta":  pagination.NewMeta(params, page.Total),
	}))
}

// SellerSummary proxies the seller dashboard aggregates
// @Summary      Seller dashboard
// @Tags         account
// @Produce      json
// @Success      200  {object}  response.Response{data=model.SellerSummary}
// @Failure      403  {object}  response.Response
// @Router       /api/seller/summary [get]
func (h *AccountHandler) SellerSummary(c *gin.Context) {
	summary, err := h.client.SellerSummary(c.Request.Context())
	if err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}
