package server

import (
	"storefront/internal/config"
	"storefront/internal/handler"
	mw "storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Server struct {
	echo            *echo.Echo
	authCfg         *config.Auth
	userHandler     *handler.UserHandler
	catalogHandler  *handler.CatalogHandler
	cartHandler     *handler.CartHandler
	checkoutHandler *handler.CheckoutHandler
	paymentHandler  *handler.PaymentHandler
}

func NewServer(
	authCfg *config.Auth,
	userService service.UserService,
	catalogService service.CatalogService,
	cartService service.CartService,
	checkoutService service.CheckoutService,
	paymentService service.PaymentService,
	logger *zap.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:            e,
		authCfg:         authCfg,
		userHandler:     handler.NewUserHandler(userService),
		catalogHandler:  handler.NewCatalogHandler(catalogService),
		cartHandler:     handler.NewCartHandler(cartService),
		checkoutHandler: handler.NewCheckoutHandler(checkoutService),
		paymentHandler:  handler.NewPaymentHandler(paymentService, logger),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- accounts --------
	api.POST("/register", s.userHandler.Register)
	api.POST("/register/seller", s.userHandler.RegisterSeller)
	api.GET("/activate/:token", s.userHandler.Activate)
	api.POST("/login", s.userHandler.Login)
	api.GET("/profile", s.userHandler.Profile, mw.Auth(s.authCfg))

	// -------- catalog --------
	api.GET("/products", s.catalogHandler.ListProducts)
	api.GET("/products/:slug", s.catalogHandler.GetProduct)
	api.GET("/categories", s.catalogHandler.ListCategories)
	api.GET("/categories/:slug/products", s.catalogHandler.ListByCategory)

	// -------- cart / checkout --------
	cart := api.Group("/cart")
	cart.GET("", s.cartHandler.Detail)
	cart.POST("/add", s.cartHandler.Add)
	cart.POST("/remove", s.cartHandler.Remove)

	api.POST("/checkout", s.checkoutHandler.Checkout, mw.Auth(s.authCfg))

	// -------- payment callback --------
	api.POST("/payments/confirm", s.paymentHandler.Confirm)

	// -------- seller --------
	seller := api.Group("/seller", mw.Auth(s.authCfg), mw.RequireSeller())
	seller.POST("/products", s.catalogHandler.CreateProduct)
	seller.PUT("/products/:slug", s.catalogHandler.UpdateProduct)
	seller.DELETE("/products/:slug", s.catalogHandler.DeleteProduct)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
