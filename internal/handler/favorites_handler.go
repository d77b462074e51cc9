package handler

import (
	"net/http"
	"strconv"

	"marketfront/internal/favorites"
	"marketfront/internal/i18n"
	"marketfront/internal/model"
	"marketfront/pkg/response"

	"github.com/gin-gonic/gin"
)

type FavoritesHandler struct {
	favs *favorites.Store
	t    *i18n.Store
}

// NewFavoritesHandler sets up the favorites endpoints. Favorites are a
// client-only list, so these routes work signed out as well.
func NewFavoritesHandler(favs *favorites.Store, t *i18n.Store) *FavoritesHandler {
	return &FavoritesHandler{favs: favs, t: t}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *FavoritesHandler) RegisterRoutes(router *gin.RouterGroup) {
	favs := router.Group("/favorites")
	{
		favs.GET("", h.List)
		favs.POST("", h.Toggle)
		favs.DELETE("/:id", h.Remove)
		favs.DELETE("", h.Clear)
	}
}

// List returns the saved snapshots in insertion order
// @Summary      List favorites
// @Tags         favorites
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/favorites [get]
func (h *FavoritesHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"items": h.favs.List(),
		"count": h.favs.Count(),
	}))
}

// Toggle flips membership for the posted project snapshot
// @Summary      Toggle favorite
// @Description  Adds the snapshot when absent, removes it when present; idempotent per call pair
// @Tags         favorites
// @Accept       json
// @Produce      json
// @Param        payload  body      model.Project  true  "Project snapshot"
// @Success      200      {object}  response.Response
// @Router       /api/favorites [post]
func (h *FavoritesHandler) Toggle(c *gin.Context) {
	var project model.Project
	if err := c.ShouldBindJSON(&project); err != nil || project.ID == 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid project snapshot"))
		return
	}

	added := h.favs.Toggle(c.Request.Context(), project)
	message := h.t.Translate("favorites.removed")
	if added {
		message = h.t.Translate("favorites.added")
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"added":   added,
		"count":   h.favs.Count(),
		"message": message,
	}))
}

// Remove deletes one entry by project ID
// @Summary      Remove favorite
// @Tags         favorites
// @Produce      json
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  response.Response
// @Router       /api/favorites/{id} [delete]
func (h *FavoritesHandler) Remove(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid project ID"))
		return
	}

	h.favs.Remove(c.Request.Context(), id)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"count": h.favs.Count()}))
}

// Clear empties the list
// @Summary      Clear favorites
// @Tags         favorites
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/favorites [delete]
func (h *FavoritesHandler) Clear(c *gin.Context) {
	h.favs.Clear(c.Request.Context())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"count": 0}))
}
