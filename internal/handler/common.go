package handler

import (
	"errors"
	"net/http"

	"marketfront/internal/i18n"
	"marketfront/internal/middleware"
	"marketfront/internal/session"
	"marketfront/internal/upstream"
	"marketfront/internal/validate"
	"marketfront/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError maps the error taxonomy onto the local API. Only the dead-
// session path carries a redirect; everything else is an inline, localized
// message for the page to render. Raw backend errors pass through with their
// original status.
func respondError(c *gin.Context, sessions *session.Store, t *i18n.Store, err error) {
	var fieldErr *validate.FieldError
	if errors.As(err, &fieldErr) {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, t.Translate(fieldErr.MessageKey)))
		return
	}

	switch {
	case errors.Is(err, upstream.ErrSessionExpired):
		// tokens are already cleared by the upstream client; drop local state
		// and send the UI to login
		sessions.Expire(c.Request.Context())
		c.JSON(http.StatusUnauthorized,
			response.ErrorRedirect(http.StatusUnauthorized, t.Translate("auth.session_expired"), middleware.LoginPath))
	case errors.Is(err, upstream.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, t.Translate("auth.invalid_credentials")))
	case errors.Is(err, upstream.ErrInactiveAccount):
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, t.Translate("auth.inactive_account")))
	case errors.Is(err, upstream.ErrWrongCode):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, t.Translate("auth.wrong_code")))
	case errors.Is(err, upstream.ErrTooManyAttempts):
		c.JSON(http.StatusTooManyRequests, response.Error(http.StatusTooManyRequests, t.Translate("auth.too_many_attempts")))
	case errors.Is(err, upstream.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, t.Translate("catalog.not_found")))
	default:
		if status := upstream.StatusOf(err); status != 0 {
			c.JSON(status, response.Error(status, err.Error()))
			return
		}
		c.JSON(http.StatusBadGateway, response.Error(http.StatusBadGateway, t.Translate("error.backend")))
	}
}
