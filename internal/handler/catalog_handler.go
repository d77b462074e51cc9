package handler

import (
	"net/http"
	"strconv"

	"marketfront/internal/favorites"
	"marketfront/internal/i18n"
	"marketfront/internal/model"
	"marketfront/internal/search"
	"marketfront/internal/session"
	"marketfront/internal/upstream"
	"marketfront/pkg/pagination"
	"marketfront/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CatalogHandler struct {
	client   *upstream.Client
	sessions *session.Store
	t        *i18n.Store
	favs     *favorites.Store
	search   *search.Dispatcher
}

// NewCatalogHandler sets up the public catalog and content endpoints.
func NewCatalogHandler(client *upstream.Client, sessions *session.Store, t *i18n.Store,
	favs *favorites.Store, dispatcher *search.Dispatcher) *CatalogHandler {
	return &CatalogHandler{client: client, sessions: sessions, t: t, favs: favs, search: dispatcher}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/projects", h.ListProjects)
	router.GET("/projects/:id", h.GetProject)
	router.GET("/categories", h.ListCategories)
	router.GET("/banners", h.ListBanners)
	router.GET("/faq", h.ListFAQ)
	router.GET("/contacts", h.ListContacts)
	router.POST("/search", h.Search)
}

// projectView decorates a snapshot with the locale-resolved fields and the
// local favorite flag.
type projectView struct {
	model.Project
	DisplayName        string `json:"display_name"`
	DisplayDescription string `json:"display_description,omitempty"`
	IsFavorite         bool   `json:"is_favorite"`
}

func (h *CatalogHandler) viewOf(p model.Project) projectView {
	return projectView{
		Project:            p,
		DisplayName:        h.t.Resolve(p.Name, p.NameRu, p.NameEn),
		DisplayDescription: h.t.Resolve(p.Description, p.DescriptionRu, p.DescriptionEn),
		IsFavorite:         h.favs.Has(p.ID),
	}
}

// ListProjects proxies the catalog listing
// @Summary      List projects
// @Description  Paginated catalog with search/category/price filters
// @Tags         catalog
// @Produce      json
// @Param        page         query     int     false  "Page"
// @Param        limit        query     int     false  "Page size"
// @Param        search       query     string  false  "Search term"
// @Param        category_id  query     int     false  "Category filter"
// @Param        min_price    query     string  false  "Minimum price"
// @Param        max_price    query     string  false  "Maximum price"
// @Success      200  {object}  response.Response
// @Router       /api/projects [get]
func (h *CatalogHandler) ListProjects(c *gin.Context) {
	params := pagination.Parse(c)
	query := upstream.ProjectsQuery{
		Page:   params.Page,
		Limit:  params.Limit,
		Search: c.Query("search"),
	}
	if id, err := strconv.ParseInt(c.Query("category_id"), 10, 64); err == nil {
		query.CategoryID = id
	}
	if min, err := decimal.NewFromString(c.Query("min_price")); err == nil {
		query.MinPrice = min
	}
	if max, err := decimal.NewFromString(c.Query("max_price")); err == nil {
		query.MaxPrice = max
	}

	page, err := h.client.Projects(c.Request.Context(), query)
	if err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}

	views := make([]projectView, 0, len(page.Items))
	for _, p := range page.Items {
		views = append(views, h.viewOf(p))
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"items": views,
		"meta":  pagination.NewMeta(params, page.Total),
	}))
}

// GetProject proxies a single listing
// @Summary      Project detail
// @Description  A missing listing returns an in-page 404 envelope, not a navigation error
// @Tags         catalog
// @Produce      json
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/projects/{id} [get]
func (h *CatalogHandler) GetProject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid project ID"))
		return
	}

	project, err := h.client.Project(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.viewOf(*project)))
}

// ListCategories proxies the category tree
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.client.Categories(c.Request.Context())
	if err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}

	type categoryView struct {
		model.Category
		DisplayName string `json:"display_name"`
	}
	views := make([]categoryView, 0, len(categories))
	for _, cat := range categories {
		views = append(views, categoryView{Category: cat, DisplayName: h.t.Resolve(cat.Name, cat.NameRu, cat.NameEn)})
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, views))
}

// ListBanners proxies the carousel slides
// @Summary      List banners
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/banners [get]
func (h *CatalogHandler) ListBanners(c *gin.Context) {
	banners, err := h.client.Banners(c.Request.Context())
	if err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}

	type bannerView struct {
		model.Banner
		DisplayTitle string `json:"display_title"`
	}
	views := make([]bannerView, 0, len(banners))
	for _, b := range banners {
		views = append(views, bannerView{Banner: b, DisplayTitle: h.t.Resolve(b.Title, b.TitleRu, b.TitleEn)})
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, views))
}

// ListFAQ proxies the FAQ entries
// @Summary      List FAQ
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/faq [get]
func (h *CatalogHandler) ListFAQ(c *gin.Context) {
	entries, err := h.client.FAQ(c.Request.Context())
	if err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}

	type faqView struct {
		model.FAQ
		DisplayQuestion string `json:"display_question"`
		DisplayAnswer   string `json:"display_answer"`
	}
	views := make([]faqView, 0, len(entries))
	for _, f := range entries {
		views = append(views, faqView{
			FAQ:             f,
			DisplayQuestion: h.t.Resolve(f.Question, f.QuestionRu, f.QuestionEn),
			DisplayAnswer:   h.t.Resolve(f.Answer, f.AnswerRu, f.AnswerEn),
		})
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, views))
}

// ListContacts proxies the contact entries
// @Summary      List contacts
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/contacts [get]
func (h *CatalogHandler) ListContacts(c *gin.Context) {
	contacts, err := h.client.Contacts(c.Request.Context())
	if err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}

	type contactView struct {
		model.Contact
		DisplayLabel   string `json:"display_label"`
		DisplayAddress string `json:"display_address,omitempty"`
	}
	views := make([]contactView, 0, len(contacts))
	for _, entry := range contacts {
		views = append(views, contactView{
			Contact:        entry,
			DisplayLabel:   h.t.Resolve(entry.Label, entry.LabelRu, entry.LabelEn),
			DisplayAddress: h.t.Resolve(entry.Address, entry.AddressRu, entry.AddressEn),
		})
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, views))
}

type searchRequest struct {
	Query string `json:"query"`
}

// Search registers a search-as-you-type keystroke
// @Summary      Debounced search
// @Description  Coalesces rapid keystrokes; results arrive on the websocket state feed
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        payload  body      searchRequest  true  "Query"
// @Success      202      {object}  response.Response
// @Router       /api/search [post]
func (h *CatalogHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	h.search.Submit(c.Request.Context(), req.Query)
	c.JSON(http.StatusAccepted, response.Success(http.StatusAccepted, gin.H{"queued": true}))
}
