package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medialedger/backend/internal/config"
	"github.com/medialedger/backend/internal/middleware"
	"github.com/medialedger/backend/internal/services"
)

// NewRouter wires every resource onto a Gin engine. The upload directory is
// served statically so persisted cover paths resolve under /uploads/.
func NewRouter(cfg *config.Config, lookupService *services.LookupService,
	collectionService *services.CollectionService, itemService *services.ItemService) *gin.Engine {

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "MediaLedger backend is running"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.Static("/uploads", cfg.UploadsPath)

	registerLookup(router.Group("/platforms"), NewLookupHandler(lookupService, services.TablePlatforms, "platform"))
	registerLookup(router.Group("/media-types"), NewLookupHandler(lookupService, services.TableMediaTypes, "media type"))
	registerLookup(router.Group("/tags"), NewLookupHandler(lookupService, services.TableTags, "tag"))

	collectionHandler := NewCollectionHandler(collectionService, cfg)
	collections := router.Group("/collections")
	{
		collections.GET("", collectionHandler.GetAll)
		collections.POST("", collectionHandler.Create)
		collections.GET("/:id", collectionHandler.Get)
		collections.PUT("/:id", collectionHandler.Update)
		collections.DELETE("/:id", collectionHandler.Delete)
	}

	itemHandler := NewItemHandler(itemService, cfg)
	items := router.Group("/items")
	{
		items.GET("", itemHandler.GetAll)
		items.POST("", itemHandler.Create)
		items.GET("/:id", itemHandler.Get)
		items.PUT("/:id", itemHandler.Update)
		items.DELETE("/:id", itemHandler.Delete)
	}

	return router
}

func registerLookup(g *gin.RouterGroup, h *LookupHandler) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.DELETE("/:id", h.Delete)
}
