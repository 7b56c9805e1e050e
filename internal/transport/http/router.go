package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zelora/backend/internal/handlers"
	"github.com/zelora/backend/internal/jwtmiddleware"
	"github.com/zelora/backend/internal/service/token"
)

type Deps struct {
	DB               *gorm.DB
	Tokens           *token.TokenService
	AuthHandler      *handlers.AuthHandler
	ProductHandler   *handlers.ProductHandler
	CategoryHandler  *handlers.CategoryHandler
	CartHandler      *handlers.CartHandler
	OrderHandler     *handlers.OrderHandler
	ReviewHandler    *handlers.ReviewHandler
	InventoryHandler *handlers.InventoryHandler
	WishlistHandler  *handlers.WishlistHandler
	CustomerHandler  *handlers.CustomerHandler
	SupplierHandler  *handlers.SupplierHandler
	UploadHandler    *handlers.UploadHandler
}

// ErrorHandler renders every error as {"error": message} so clients get a
// uniform envelope regardless of where the error came from.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(status)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, map[string]string{"error": message})
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.GET("/validate", d.AuthHandler.Validate)

	products := e.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.POST("", d.ProductHandler.CreateProduct)
	products.GET("/search", d.ProductHandler.SearchProducts)
	products.GET("/suggestions", d.ProductHandler.GetSuggestions)
	products.GET("/with-reviews", d.ProductHandler.GetProductsWithReviews)
	products.GET("/recent", d.ProductHandler.GetRecentProducts)
	products.GET("/category/:id", d.ProductHandler.GetProductsByCategory)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.PUT("/:id", d.ProductHandler.UpdateProduct)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct)
	products.GET("/:id/details", d.ProductHandler.GetProductDetails)

	categories := e.Group("/categories")
	categories.GET("", d.CategoryHandler.GetCategories)
	categories.POST("", d.CategoryHandler.CreateCategory)
	categories.GET("/:id", d.CategoryHandler.GetCategory)
	categories.PUT("/:id", d.CategoryHandler.UpdateCategory)
	categories.DELETE("/:id", d.CategoryHandler.DeleteCategory)

	cart := e.Group("/cart")
	cart.GET("/:userId", d.CartHandler.GetCart)
	cart.POST("/add", d.CartHandler.AddToCart)
	cart.PUT("/update", d.CartHandler.UpdateQuantity)
	cart.DELETE("/remove/:cartItemId", d.CartHandler.RemoveFromCart)
	cart.GET("/total/:userId", d.CartHandler.GetCartTotal)
	cart.DELETE("/clear/:userId", d.CartHandler.ClearCart)

	orders := e.Group("/orders")
	orders.GET("", d.OrderHandler.GetOrders)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("/customer/:id", d.OrderHandler.GetOrdersByCustomer)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.PUT("/:id", d.OrderHandler.UpdateOrder)
	orders.DELETE("/:id", d.OrderHandler.DeleteOrder)
	orders.GET("/:id/items", d.OrderHandler.GetOrderItems)

	reviews := e.Group("/reviews")
	reviews.GET("", d.ReviewHandler.GetReviews)
	reviews.POST("", d.ReviewHandler.CreateReview)
	reviews.GET("/product/:id", d.ReviewHandler.GetReviewsByProduct)
	reviews.GET("/product/:id/rating", d.ReviewHandler.GetProductRating)
	reviews.GET("/customer/:id", d.ReviewHandler.GetReviewsByCustomer)
	reviews.GET("/:id", d.ReviewHandler.GetReview)
	reviews.DELETE("/:id", d.ReviewHandler.DeleteReview)
	reviews.PUT("/:id/flag", d.ReviewHandler.FlagReview, jwtmiddleware.RequireAdmin(d.Tokens))

	inventory := e.Group("/inventory")
	inventory.GET("", d.InventoryHandler.GetInventory)
	inventory.GET("/status", d.InventoryHandler.GetInventoryStatus)
	inventory.GET("/product/:id", d.InventoryHandler.GetProductStockStatus)
	inventory.GET("/low-stock", d.InventoryHandler.GetLowStock)
	inventory.GET("/out-of-stock", d.InventoryHandler.GetOutOfStock)
	inventory.PUT("/:id", d.InventoryHandler.UpdateInventory)

	wishlist := e.Group("/wishlist")
	wishlist.GET("", d.WishlistHandler.GetWishlistItems)
	wishlist.POST("", d.WishlistHandler.AddToWishlist)
	wishlist.GET("/check", d.WishlistHandler.CheckWishlistItem)
	wishlist.GET("/customer/:customerId", d.WishlistHandler.GetWishlistByCustomer)
	wishlist.DELETE("/customer/:customerId/product/:productId", d.WishlistHandler.RemoveFromWishlistByProduct)
	wishlist.DELETE("/:id", d.WishlistHandler.RemoveFromWishlist)

	customers := e.Group("/customers")
	customers.GET("", d.CustomerHandler.GetCustomers)
	customers.GET("/:id", d.CustomerHandler.GetCustomer)
	customers.PUT("/:id", d.CustomerHandler.UpdateCustomer)
	customers.DELETE("/:id", d.CustomerHandler.DeleteCustomer)

	suppliers := e.Group("/suppliers")
	suppliers.GET("", d.SupplierHandler.GetSuppliers)
	suppliers.POST("", d.SupplierHandler.CreateSupplier)
	suppliers.GET("/:id", d.SupplierHandler.GetSupplier)
	suppliers.PUT("/:id", d.SupplierHandler.UpdateSupplier)
	suppliers.DELETE("/:id", d.SupplierHandler.DeleteSupplier)

	upload := e.Group("/upload", jwtmiddleware.RequireAdmin(d.Tokens))
	upload.POST("/image", d.UploadHandler.UploadImage)
	upload.POST("/images", d.UploadHandler.UploadImages)
	upload.DELETE("/image/:filename", d.UploadHandler.DeleteImage)
}
