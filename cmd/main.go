package main

import (
	"database/sql"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"storefront-service/internal/api"
	"storefront-service/internal/checkout"
	"storefront-service/internal/config"
	"storefront-service/internal/repository"
	"storefront-service/internal/service"
	"storefront-service/migrations"
)

func connectDB(dsn string) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB")
				return db, nil
			}
		}
		log.Printf("Retry %d: failed to connect to DB: %v", i+1, err)
		time.Sleep(3 * time.Second)
	}
	return nil, err
}

func main() {
	cfg := config.Load()

	db, err := connectDB(cfg.DSN())
	if err != nil {
		panic(err)
	}

	if err := migrations.AutoMigrate(3, db); err != nil {
		log.Fatalf("Failed to migrate tables: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	kafkaWriter := config.NewKafkaWriter(cfg.KafkaBrokers, cfg.OrderEventTopic)

	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)

	checkoutClient := checkout.NewClient(cfg.CheckoutAPIURL, cfg.CheckoutSecret)

	accessService := service.NewAccessService(userRepo)
	orderService := service.NewOrderService(orderRepo, kafkaWriter)
	paymentService := service.NewPaymentService(checkoutClient, paymentRepo, orderRepo, kafkaWriter, rdb, cfg.SiteDomain)
	userService := service.NewUserService(userRepo, cfg.JWTSecret)
	productService := service.NewProductService(productRepo)
	statsService := service.NewStatsService(orderRepo, paymentRepo, userRepo, productRepo)

	orderHandler := api.NewOrderHandler(orderService, accessService)
	paymentHandler := api.NewPaymentHandler(paymentService, accessService)
	userHandler := api.NewUserHandler(userService, accessService)
	productHandler := api.NewProductHandler(productService, accessService)
	adminHandler := api.NewAdminHandler(statsService, accessService)

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(20),
				Burst:     60,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	// Public routes
	e.GET("/", func(c echo.Context) error {
		return c.String(200, "storefront is up")
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "storefront-service",
			"time":    time.Now().Format(time.RFC3339),
		})
	})
	e.GET("/products", productHandler.GetProducts)
	e.GET("/products/:id", productHandler.GetProduct)
	e.POST("/users", userHandler.UpsertUser)
	e.POST("/login", userHandler.Login)

	// Everything else requires a verified bearer token.
	g := e.Group("")
	g.Use(echojwt.JWT([]byte(cfg.JWTSecret)))

	g.POST("/orders", orderHandler.CreateOrder)
	g.GET("/orders", orderHandler.GetOrders)
	g.GET("/orders/pending", orderHandler.GetPendingOrders)
	g.GET("/orders/approved", orderHandler.GetApprovedOrders)
	g.GET("/orders/:id", orderHandler.GetOrder)
	g.DELETE("/orders/:id", orderHandler.DeleteOrder)
	g.PATCH("/orders/status/:id", orderHandler.UpdateOrderStatus)
	g.PATCH("/orders/tracking/:id", orderHandler.AppendTracking)

	g.POST("/products", productHandler.CreateProduct)
	g.PATCH("/products/:id", productHandler.UpdateProduct)
	g.DELETE("/products/:id", productHandler.DeleteProduct)

	g.GET("/users", userHandler.GetUsers)
	g.GET("/users/:email", userHandler.GetUserByEmail)
	g.PATCH("/users/admin/:id", userHandler.MakeAdmin)
	g.DELETE("/users/:id", userHandler.DeleteUser)

	g.POST("/create-checkout-session", paymentHandler.CreateCheckoutSession)
	g.POST("/payments/success", paymentHandler.ConfirmPayment)
	g.GET("/payments", paymentHandler.GetPayments)
	g.GET("/payments/:email", paymentHandler.GetPaymentsByEmail)

	g.GET("/admin-stats", adminHandler.GetStats)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
