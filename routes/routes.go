package routes

import (
	"net/http"

	"basket-service/controllers"
	"basket-service/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Register wires all HTTP routes.
func Register(
	r *gin.Engine,
	basket *controllers.BasketController,
	products *controllers.ProductController,
	jwtSecret string,
) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.Use(middleware.RateLimitMiddleware(rate.Limit(50), 100))

	// Public catalog reads
	r.GET("/products", products.ListProducts)
	r.GET("/products/:id", products.GetProduct)

	// Protected cart routes (require authentication)
	api := r.Group("/")
	api.Use(middleware.AuthMiddleware(jwtSecret))
	{
		api.GET("/cart", basket.GetCart)
		api.GET("/cart/stream", basket.StreamCart)
		api.POST("/cart/items", basket.AddItem)
		api.PUT("/cart/items/:product_id", basket.SetQuantity)
		api.DELETE("/cart/items/:product_id", basket.RemoveItem)
		api.DELETE("/cart", basket.ClearCart)
		api.POST("/cart/checkout", basket.Checkout)
		api.DELETE("/session", basket.EndSession)
	}
}
