package handler

import (
	"net/http"
	"strconv"

	"marketfront/internal/i18n"
	"marketfront/internal/model"
	"marketfront/internal/session"
	"marketfront/internal/upstream"
	"marketfront/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminHandler proxies the content CRUD panels (FAQ, banners, contacts,
// categories) to the backend. The group is role-gated by the caller; the
// backend still re-checks authorization on every call.
type AdminHandler struct {
	sessions *session.Store
	client   *upstream.Client
	t        *i18n.Store
}

// NewAdminHandler sets up the admin content endpoints.
func NewAdminHandler(sessions *session.Store, client *upstream.Client, t *i18n.Store) *AdminHandler {
	return &AdminHandler{sessions: sessions, client: client, t: t}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	faq := router.Group("/faq")
	{
		faq.POST("", h.CreateFAQ)
		faq.PUT("/:id", h.UpdateFAQ)
		faq.DELETE("/:id", h.DeleteFAQ)
	}
	banners := router.Group("/banners")
	{
		banners.POST("", h.CreateBanner)
		banners.PUT("/:id", h.UpdateBanner)
		banners.DELETE("/:id", h.DeleteBanner)
	}
	contacts := router.Group("/contacts")
	{
		contacts.POST("", h.CreateContact)
		contacts.PUT("/:id", h.UpdateContact)
		contacts.DELETE("/:id", h.DeleteContact)
	}
	categories := router.Group("/categories")
	{
		categories.POST("", h.CreateCategory)
		categories.PUT("/:id", h.UpdateCategory)
		categories.DELETE("/:id", h.DeleteCategory)
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid ID"))
		return 0, false
	}
	return id, true
}

// CreateFAQ proxies FAQ creation upstream
// @Summary  Create FAQ entry
// @Tags     admin
// @Router   /api/admin/faq [post]
func (h *AdminHandler) CreateFAQ(c *gin.Context) {
	var in model.FAQ
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}
	out, err := h.client.CreateFAQ(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, out))
}

// UpdateFAQ proxies an FAQ update upstream
// @Summary  Update FAQ entry
// @Tags     admin
// @Router   /api/admin/faq/{id} [put]
func (h *AdminHandler) UpdateFAQ(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in model.FAQ
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}
	out, err := h.client.UpdateFAQ(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, out))
}

// DeleteFAQ proxies an FAQ delete upstream
// @Summary  Delete FAQ entry
// @Tags     admin
// @Router   /api/admin/faq/{id} [delete]
func (h *AdminHandler) DeleteFAQ(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.client.DeleteFAQ(c.Request.Context(), id); err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, nil))
}

// CreateBanner proxies banner creation upstream
// @Summary  Create banner
// @Tags     admin
// @Router   /api/admin/banners [post]
func (h *AdminHandler) CreateBanner(c *gin.Context) {
	var in model.Banner
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}
	out, err := h.client.CreateBanner(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, out))
}

// UpdateBanner proxies a banner update upstream
// @Summary  Update banner
// @Tags     admin
// @Router   /api/admin/banners/{id} [put]
func (h *AdminHandler) UpdateBanner(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in model.Banner
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}
	out, err := h.client.UpdateBanner(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, out))
}

// DeleteBanner proxies a banner delete upstream
// @Summary  Delete banner
// @Tags     admin
// @Router   /api/admin/banners/{id} [delete]
func (h *AdminHandler) DeleteBanner(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.client.DeleteBanner(c.Request.Context(), id); err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, nil))
}

// CreateContact proxies contact creation upstream
// @Summary  Create contact
// @Tags     admin
// @Router   /api/admin/contacts [post]
func (h *AdminHandler) CreateContact(c *gin.Context) {
	var in model.Contact
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}
	out, err := h.client.CreateContact(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, out))
}

// UpdateContact proxies a contact update upstream
// @Summary  Update contact
// @Tags     admin
// @Router   /api/admin/contacts/{id} [put]
func (h *AdminHandler) UpdateContact(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in model.Contact
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}
	out, err := h.client.UpdateContact(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, out))
}

// DeleteContact proxies a contact delete upstream
// @Summary  Delete contact
// @Tags     admin
// @Router   /api/admin/contacts/{id} [delete]
func (h *AdminHandler) DeleteContact(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.client.DeleteContact(c.Request.Context(), id); err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, nil))
}

// CreateCategory proxies category creation upstream
// @Summary  Create category
// @Tags     admin
// @Router   /api/admin/categories [post]
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var in model.Category
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}
	out, err := h.client.CreateCategory(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, out))
}

// UpdateCategory proxies a category update upstream
// @Summary  Update category
// @Tags     admin
// @Router   /api/admin/categories/{id} [put]
func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in model.Category
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}
	out, err := h.client.UpdateCategory(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, out))
}

// DeleteCategory proxies a category delete upstream
// @Summary  Delete category
// @Tags     admin
// @Router   /api/admin/categories/{id} [delete]
func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.client.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, nil))
}
