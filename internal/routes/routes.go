package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/cartify-golang/internal/handlers"
	"github.com/01moynul/cartify-golang/internal/middleware"
)

// Options carries what the router needs besides the handlers.
type Options struct {
	Tokens      middleware.TokenValidator
	CORSOrigins []string
	Log         *slog.Logger
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))

	// --- APPLY THE CORS GUARD ---
	router.Use(middleware.CORSMiddleware(opts.CORSOrigins))

	requireAuth := middleware.AuthMiddleware(opts.Tokens, h.Accounts)

	api := router.Group("/api")
	{
		api.GET("/health", h.Health)

		// --- Auth Routes ---
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", h.Signup)
			authGroup.POST("/login", h.Login)
			authGroup.GET("/me", requireAuth, h.Me)
		}

		// --- Item Routes (reads are public) ---
		items := api.Group("/items")
		{
			items.GET("", h.ListItems)
			items.GET("/:id", h.GetItem)
			items.POST("", requireAuth, h.CreateItem)
			items.PUT("/:id", requireAuth, h.UpdateItem)
			items.DELETE("/:id", requireAuth, h.DeleteItem)
		}

		// --- Cart Routes (Login Required) ---
		cart := api.Group("/cart")
		cart.Use(requireAuth)
		{
			cart.GET("", h.GetCart)
			cart.POST("/add", h.AddToCart)
			cart.POST("/update", h.UpdateCartItem)
			cart.POST("/remove", h.RemoveCartItem)
			cart.POST("/clear", h.ClearCart)
		}
	}

	return router
}
