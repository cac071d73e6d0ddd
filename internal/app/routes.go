package app

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	"shoplist/internal/auth"
	"shoplist/internal/cache"
	"shoplist/internal/config"
	"shoplist/internal/handlers"
	"shoplist/internal/repo"
	"shoplist/internal/service"
)

// Setup registers all routes on the given engine. The API lives at the
// root so clients of the previous deployment keep working.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	tokens := auth.NewTokenIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL.Duration())
	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo)
	authHandler := handlers.NewAuthHandler(tokens, userSvc)
	r.POST("/auth/", authHandler.Token)

	protected := r.Group("", auth.RequireToken(tokens, userSvc))
	listRepo := repo.NewPGListRepo(db)
	listCache := cache.NewListCache(rdb, cfg.Redis.DefaultTTL.Duration())
	listSvc := service.NewListService(listRepo, listCache)
	listHandler := handlers.NewListHandler(listSvc)
	registerListRoutes(protected, listHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Shopping List API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerListRoutes(g *gin.RouterGroup, h *handlers.ListHandler) {
	g.GET("/lists/", h.List)
	g.POST("/lists/", h.Create)
	g.PUT("/lists/:list_id/", h.Update)
	g.GET("/lists/:list_id/items/", h.Items)
	g.PUT("/lists/:list_id/items/:item_id/", h.UpdateItem)
}
