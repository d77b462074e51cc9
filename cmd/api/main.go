package main

import (
	_ "marketfront/api/swagger" // swagger docs
	"marketfront/internal/favorites"
	"marketfront/internal/handler"
	"marketfront/internal/i18n"
	"marketfront/internal/localstore"
	"marketfront/internal/middleware"
	"marketfront/internal/model"
	"marketfront/internal/search"
	"marketfront/internal/session"
	"marketfront/internal/upstream"
	"marketfront/internal/websocket"

	"context"
	"os"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           Marketfront Client Engine API
// @version         1.0
// @description     Local state-layer API for the marketplace frontend: session, catalog, favorites, preferences.
// @host            localhost:8080
// @BasePath        /
func main() {
	logger, err := buildLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := godotenv.Load("configs/.env"); err != nil {
		logger.Info("no configs/.env file, using environment")
	}

	baseURL := os.Getenv("BACKEND_BASE_URL")
	if baseURL == "" {
		baseURL = upstream.DefaultBaseURL
	}
	stateDir := os.Getenv("STATE_DIR")
	if stateDir == "" {
		stateDir = "./state"
	}
	uiOrigin := os.Getenv("UI_ORIGIN")
	if uiOrigin == "" {
		uiOrigin = "http://localhost:5173"
	}

	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		logger.Fatal("could not create state dir", zap.String("dir", stateDir), zap.Error(err))
	}

	storage, err := localstore.Open(filepath.Join(stateDir, "state.db"))
	if err != nil {
		logger.Fatal("could not open local store", zap.Error(err))
	}
	logger.Info("local store ready", zap.String("dir", stateDir))

	// Token cookies live in their own jar file, never in the key/value store.
	jar := upstream.OpenTokenJar(filepath.Join(stateDir, "cookies.json"))
	client := upstream.New(baseURL, jar, logger.Named("upstream"))

	// State feed pushing store changes to every connected UI client
	hub := websocket.NewHub(logger.Named("ws"))
	go hub.Run()

	translator := i18n.New(storage, logger.Named("i18n"))
	translator.Notify = func(locale string) {
		hub.Publish(websocket.EventLocale, locale)
	}

	sessions := session.New(client, storage, logger.Named("session"))
	sessions.Subscribe(func(snap session.Snapshot) {
		hub.Publish(websocket.EventSession, snap)
	})
	sessions.Init(context.Background())

	favs := favorites.New(storage, logger.Named("favorites"))
	favs.Subscribe(func(items []model.Favorite) {
		hub.Publish(websocket.EventFavorites, gin.H{"count": len(items), "items": items})
	})

	dispatcher := search.New(search.DefaultQuietPeriod,
		func(ctx context.Context, query string) ([]model.Project, int64, error) {
			page, err := client.Projects(ctx, upstream.ProjectsQuery{Search: query, Limit: 20})
			if err != nil {
				return nil, 0, err
			}
			return page.Items, page.Total, nil
		},
		func(res search.Result) {
			hub.Publish(websocket.EventSearchResults, res)
		},
		logger.Named("search"))
	defer dispatcher.Close()

	// Set up Gin Router
	router := gin.Default()

	// CORS for the UI origin
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{uiOrigin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket state feed
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(hub, c)
	})

	api := router.Group("/api")

	handler.NewAuthHandler(sessions, client, translator).RegisterRoutes(api)
	handler.NewCatalogHandler(client, sessions, translator, favs, dispatcher).RegisterRoutes(api)
	handler.NewFavoritesHandler(favs, translator).RegisterRoutes(api)

	preferenceHandler := handler.NewPreferenceHandler(translator, storage)
	preferenceHandler.NotifyTheme = func(theme string) {
		hub.Publish(websocket.EventTheme, theme)
	}
	preferenceHandler.RegisterRoutes(api)

	authed := api.Group("", middleware.RequireSession(sessions))
	handler.NewAccountHandler(sessions, client, translator).RegisterRoutes(authed)

	notificationHandler := handler.NewNotificationHandler(sessions, client, translator, storage)
	notificationHandler.NotifyAck = func(id int64) {
		hub.Publish(websocket.EventNotification, gin.H{"acked_id": id})
	}
	notificationHandler.RegisterRoutes(authed)

	admin := api.Group("/admin", middleware.RequireSession(sessions), middleware.RequireRole(sessions, model.RoleAdmin))
	handler.NewAdminHandler(sessions, client, translator).RegisterRoutes(admin)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("engine listening", zap.String("port", port), zap.String("backend", baseURL))
	if err := router.Run(":" + port); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func buildLogger() (*zap.Logger, error) {
	if os.Getenv("GIN_MODE") == "release" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
