// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mrokonuzzaan040/tech-pinik/internal/config"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/analytics"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/cart"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/checkout"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/order"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/product"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/user"
	"github.com/mrokonuzzaan040/tech-pinik/internal/interfaces/http/handlers"
	"github.com/mrokonuzzaan040/tech-pinik/internal/interfaces/http/middleware"
	"github.com/mrokonuzzaan040/tech-pinik/internal/pkg/metrics"
	"github.com/mrokonuzzaan040/tech-pinik/internal/pkg/pdf"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Dependencies are the long-lived collaborators routes are built from.
// Carts is owned by the caller so its janitor can run beside the server.
// Invoices defaults to the wkhtmltopdf renderer.
type Dependencies struct {
	Config   *config.Config
	Logger   logrus.FieldLogger
	Metrics  *metrics.Metrics
	DB       *gorm.DB
	Carts    *cart.Service
	Invoices handlers.InvoiceRenderer
}

// SetupRoutes wires every API route under rg
func SetupRoutes(rg *gin.RouterGroup, deps Dependencies) {
	cfg, log := deps.Config, deps.Logger

	productService := product.NewService(deps.DB, cfg)
	categoryService := product.NewCategoryService(deps.DB, cfg)
	orderRepo := order.NewRepository(deps.DB)
	orderService := order.NewService(orderRepo, cfg, log, deps.Metrics)
	userService := user.NewService(deps.DB, cfg, log)
	analyticsService := analytics.NewService(orderRepo, productService, cfg, log)

	checkoutOpts := []checkout.Option{checkout.WithPriceBook(productService)}
	if deps.Carts != nil {
		checkoutOpts = append(checkoutOpts, checkout.WithCartClearer(deps.Carts))
	}
	checkoutService := checkout.NewService(orderRepo, cfg, log, deps.Metrics, checkoutOpts...)

	invoices := deps.Invoices
	if invoices == nil {
		invoices = pdf.NewService(cfg)
	}

	authMiddleware := middleware.AuthMiddleware(userService.JWT())

	SetupAuthRoutes(rg, handlers.NewAuthHandler(userService, log), authMiddleware)
	SetupCatalogRoutes(rg,
		handlers.NewProductHandler(productService, log),
		handlers.NewCategoryHandler(categoryService, log),
		handlers.NewSliderHandler(product.NewSliderService(deps.DB), log),
	)
	if deps.Carts != nil {
		SetupCartRoutes(rg, handlers.NewCartHandler(deps.Carts, cfg, log))
	}
	SetupOrderRoutes(rg,
		handlers.NewCheckoutHandler(checkoutService, cfg, log),
		handlers.NewOrderHandler(orderService, log),
		handlers.NewInvoiceHandler(orderService, invoices, log),
		authMiddleware,
	)
	SetupAdminRoutes(rg,
		handlers.NewAnalyticsHandler(analyticsService, log),
		handlers.NewOrderHandler(orderService, log),
		handlers.NewCategoryHandler(categoryService, log),
		authMiddleware,
	)
}

// SetupAuthRoutes sets up staff authentication routes
func SetupAuthRoutes(rg *gin.RouterGroup, authHandler *handlers.AuthHandler, authMiddleware gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.GET("/profile", authMiddleware, authHandler.GetProfile)
	}
}

// SetupCatalogRoutes sets up the read-only product, category and slider routes
func SetupCatalogRoutes(rg *gin.RouterGroup, productHandler *handlers.ProductHandler, categoryHandler *handlers.CategoryHandler, sliderHandler *handlers.SliderHandler) {
	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/brands", productHandler.GetBrands)
		products.GET("/:id", productHandler.GetProduct)
	}

	categories := rg.Group("/categories")
	{
		categories.GET("", categoryHandler.GetCategories)
		categories.GET("/:id", categoryHandler.GetCategory)
	}

	rg.GET("/sliders", sliderHandler.GetSliders)
}

// SetupCartRoutes sets up the session cart routes
func SetupCartRoutes(rg *gin.RouterGroup, cartHandler *handlers.CartHandler) {
	cart := rg.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items/:productId", cartHandler.UpdateQuantity)
		cart.DELETE("/items/:productId", cartHandler.RemoveItem)
	}
}

// SetupOrderRoutes sets up checkout, order lookup and fulfillment routes
func SetupOrderRoutes(rg *gin.RouterGroup, checkoutHandler *handlers.CheckoutHandler, orderHandler *handlers.OrderHandler, invoiceHandler *handlers.InvoiceHandler, authMiddleware gin.HandlerFunc) {
	rg.POST("/checkout/quote", checkoutHandler.Quote)

	orders := rg.Group("/orders")
	{
		orders.POST("", checkoutHandler.PlaceOrder)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.GET("/:id/invoice", invoiceHandler.GenerateInvoice)
		orders.PATCH("/:id", authMiddleware, middleware.AdminMiddleware(), orderHandler.UpdateOrder)
	}
}

// SetupAdminRoutes sets up admin related routes
func SetupAdminRoutes(rg *gin.RouterGroup, analyticsHandler *handlers.AnalyticsHandler, orderHandler *handlers.OrderHandler, categoryHandler *handlers.CategoryHandler, authMiddleware gin.HandlerFunc) {
	admin := rg.Group("/admin")
	admin.Use(authMiddleware)
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/analytics", analyticsHandler.GetAnalytics)
		admin.GET("/dashboard", analyticsHandler.GetDashboard)
		admin.GET("/customers", analyticsHandler.GetCustomers)
		admin.GET("/orders", orderHandler.ListOrders)

		categories := admin.Group("/categories")
		{
			categories.PUT("/:id", categoryHandler.UpdateCategory)
			categories.DELETE("/:id", categoryHandler.DeleteCategory)
		}
	}
}
