package handler

import (
	"net/http"

	"marketfront/internal/i18n"
	"marketfront/internal/localstore"
	"marketfront/pkg/response"

	"github.com/gin-gonic/gin"
)

// Theme values persisted for the UI.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

type PreferenceHandler struct {
	t       *i18n.Store
	storage localstore.Store

	// NotifyTheme, when set, pushes theme changes onto the state feed.
	NotifyTheme func(theme string)
}

// NewPreferenceHandler sets up the locale/theme endpoints.
func NewPreferenceHandler(t *i18n.Store, storage localstore.Store) *PreferenceHandler {
	return &PreferenceHandler{t: t, storage: storage}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *PreferenceHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/preferences", h.Get)
	router.PUT("/preferences", h.Update)
}

type preferences struct {
	Locale string `json:"locale"`
	Theme  string `json:"theme"`
}

func (h *PreferenceHandler) current(c *gin.Context) preferences {
	prefs := preferences{Locale: h.t.Active(), Theme: ThemeLight}
	var theme string
	if err := h.storage.GetJSON(c.Request.Context(), localstore.KeyTheme, &theme); err == nil && theme != "" {
		prefs.Theme = theme
	}
	return prefs
}

// Get returns the active locale and theme
// @Summary      Get preferences
// @Tags         preferences
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/preferences [get]
func (h *PreferenceHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.current(c)))
}

type preferencesPatch struct {
	Locale string `json:"locale"`
	Theme  string `json:"theme"`
}

// Update changes locale and/or theme. A locale change only re-resolves
// already-loaded entities; nothing is refetched.
// @Summary      Update preferences
// @Tags         preferences
// @Accept       json
// @Produce      json
// @Param        payload  body      preferencesPatch  true  "Changes"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /api/preferences [put]
func (h *PreferenceHandler) Update(c *gin.Context) {
	var patch preferencesPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	if patch.Locale != "" {
		if err := h.t.SetActive(c.Request.Context(), patch.Locale); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
			return
		}
	}

	if patch.Theme != "" {
		if patch.Theme != ThemeLight && patch.Theme != ThemeDark {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Unknown theme: "+patch.Theme))
			return
		}
		if err := h.storage.SetJSON(c.Request.Context(), localstore.KeyTheme, patch.Theme); err != nil {
			c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Could not persist theme"))
			return
		}
		if h.NotifyTheme != nil {
			h.NotifyTheme(patch.Theme)
		}
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.current(c)))
}
