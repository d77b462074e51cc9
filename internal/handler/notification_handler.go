package handler

import (
	"errors"
	"net/http"
	"strconv"

	"marketfront/internal/i18n"
	"marketfront/internal/localstore"
	"marketfront/internal/model"
	"marketfront/internal/session"
	"marketfront/internal/upstream"
	"marketfront/pkg/response"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	sessions *session.Store
	client   *upstream.Client
	t        *i18n.Store
	storage  localstore.Store

	// NotifyAck, when set, pushes acknowledgements onto the state feed so the
	// unread badge updates in every view.
	NotifyAck func(id int64)
}

// NewNotificationHandler sets up the notification endpoints; acknowledgements
// live only in the local store.
func NewNotificationHandler(sessions *session.Store, client *upstream.Client, t *i18n.Store,
	storage localstore.Store) *NotificationHandler {
	return &NotificationHandler{sessions: sessions, client: client, t: t, storage: storage}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	notifications := router.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.POST("/:id/ack", h.Ack)
	}
}

// ackedSet reads the acknowledged-ID slot; a corrupt slot recovers as empty.
func (h *NotificationHandler) ackedSet(c *gin.Context) map[int64]bool {
	var ids []int64
	if err := h.storage.GetJSON(c.Request.Context(), localstore.KeyAckedNotifIDs, &ids); err != nil {
		return map[int64]bool{}
	}
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// List merges backend announcements with the local acknowledged set
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	items, err := h.client.Notifications(c.Request.Context())
	if err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}

	acked := h.ackedSet(c)
	type notificationView struct {
		model.Notification
		DisplayTitle string `json:"display_title"`
		DisplayBody  string `json:"display_body,omitempty"`
		Acked        bool   `json:"acked"`
	}
	views := make([]notificationView, 0, len(items))
	unread := 0
	for _, n := range items {
		if !acked[n.ID] {
			unread++
		}
		views = append(views, notificationView{
			Notification: n,
			DisplayTitle: h.t.Resolve(n.Title, n.TitleRu, n.TitleEn),
			DisplayBody:  h.t.Resolve(n.Body, n.BodyRu, n.BodyEn),
			Acked:        acked[n.ID],
		})
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"items":  views,
		"unread": unread,
	}))
}

// Ack marks one notification as read locally
// @Summary      Acknowledge notification
// @Tags         notifications
// @Produce      json
// @Param        id   path      int  true  "Notification ID"
// @Success      200  {object}  response.Response
// @Router       /api/notifications/{id}/ack [post]
func (h *NotificationHandler) Ack(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid notification ID"))
		return
	}

	var ids []int64
	if err := h.storage.GetJSON(c.Request.Context(), localstore.KeyAckedNotifIDs, &ids); err != nil &&
		!errors.Is(err, localstore.ErrNotFound) {
		ids = nil // corrupt slot recovers as empty
	}
	for _, existing := range ids {
		if existing == id {
			c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"acked": true}))
			return
		}
	}
	ids = append(ids, id)

	if err := h.storage.SetJSON(c.Request.Context(), localstore.KeyAckedNotifIDs, ids); err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Could not persist acknowledgement"))
		return
	}
	if h.NotifyAck != nil {
		h.NotifyAck(id)
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"acked": true}))
}
