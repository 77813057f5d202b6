package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"go-pos-backend/internal/handler"
	"go-pos-backend/internal/middleware"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/service"
	"go-pos-backend/internal/ws"
	"go-pos-backend/pkg/database"
	"go-pos-backend/pkg/logger"
)

func main() {
	// .env is optional in containerized deployments
	_ = godotenv.Load()

	log := logger.New()

	db := database.ConnectDB(log)
	if err := db.AutoMigrate(
		&model.Organization{},
		&model.User{},
		&model.Product{},
		&model.Variant{},
		&model.ChangeRequest{},
		&model.ChangeHistory{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Customer{},
		&model.Vendor{},
	); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	seedDefaultOrganization(db, log)

	wsHub := ws.NewHub(log)
	go wsHub.Run()
	publisher := ws.NewHubPublisher(wsHub, log)

	// Repositories
	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)
	requestRepo := repository.NewChangeRequestRepo(db)
	historyRepo := repository.NewHistoryRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	vendorRepo := repository.NewVendorRepo(db)

	// Services
	authService := service.NewAuthService(userRepo, log)
	userService := service.NewUserService(userRepo, historyRepo, db, log)
	productService := service.NewProductService(productRepo, db, publisher, log)
	requestService := service.NewChangeRequestService(requestRepo, historyRepo, productRepo, db, publisher, log)
	saleService := service.NewSaleService(saleRepo, productRepo, historyRepo, db, publisher, log)
	historyService := service.NewHistoryService(historyRepo, db, publisher, log)
	analyticsService := service.NewAnalyticsService(saleRepo, productRepo)
	reportService := service.NewReportService(historyRepo)
	customerService := service.NewCustomerService(customerRepo)
	vendorService := service.NewVendorService(vendorRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	productHandler := handler.NewProductHandler(productService)
	inventoryHandler := handler.NewInventoryHandler(requestService)
	posHandler := handler.NewPOSHandler(saleService)
	historyHandler := handler.NewHistoryHandler(historyService, reportService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	customerHandler := handler.NewCustomerHandler(customerService)
	vendorHandler := handler.NewVendorHandler(vendorService)

	app := fiber.New(fiber.Config{
		AppName: "POS Backend v1.0",
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// Everything below requires a valid session
	protected := api.Group("", middleware.RequireAuth(userRepo))
	protected.Get("/auth/me", authHandler.Me)

	requireOwner := middleware.RequireRole(model.RoleOwner)

	// Products
	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Post("/products", requireOwner, productHandler.CreateProduct)
	protected.Put("/products/:id", requireOwner, productHandler.UpdateProduct)
	protected.Post("/products/:id/variants", requireOwner, productHandler.AddVariant)
	protected.Put("/products/:id/archive", requireOwner, productHandler.ArchiveProduct)
	protected.Put("/products/:id/unarchive", requireOwner, productHandler.UnarchiveProduct)
	protected.Delete("/products/:id", requireOwner, productHandler.DeleteProduct)

	// Change requests: anyone may propose, only owners review
	protected.Post("/inventory/requests", inventoryHandler.SubmitRequest)
	protected.Get("/inventory/requests/pending", requireOwner, inventoryHandler.GetPendingRequests)
	protected.Put("/inventory/requests/:id/approve", requireOwner, inventoryHandler.ApproveRequest)
	protected.Put("/inventory/requests/:id/reject", requireOwner, inventoryHandler.RejectRequest)

	// Point of sale
	protected.Post("/pos/sales", posHandler.CreateSale)
	protected.Get("/pos/sales", posHandler.GetSales)
	protected.Get("/pos/sales/:id", posHandler.GetSale)

	// Ledger
	protected.Get("/history", historyHandler.GetHistory)
	protected.Get("/history/sales", historyHandler.GetSalesHistory)
	protected.Get("/history/unpaid", historyHandler.GetUnpaidSales)
	protected.Get("/history/sales/export", requireOwner, historyHandler.ExportSales)
	protected.Put("/history/:id/mark-paid", requireOwner, historyHandler.MarkPaid)

	// Analytics
	protected.Get("/analytics/summary", requireOwner, analyticsHandler.GetSummary)
	protected.Get("/analytics/low-stock", analyticsHandler.GetLowStock)

	// Customers and vendors
	protected.Get("/customers", customerHandler.GetCustomers)
	protected.Get("/customers/:id", customerHandler.GetCustomer)
	protected.Post("/customers", customerHandler.CreateCustomer)
	protected.Put("/customers/:id", customerHandler.UpdateCustomer)
	protected.Delete("/customers/:id", requireOwner, customerHandler.DeleteCustomer)

	protected.Get("/vendors", vendorHandler.GetVendors)
	protected.Get("/vendors/:id", vendorHandler.GetVendor)
	protected.Post("/vendors", requireOwner, vendorHandler.CreateVendor)
	protected.Put("/vendors/:id", requireOwner, vendorHandler.UpdateVendor)
	protected.Delete("/vendors/:id", requireOwner, vendorHandler.DeleteVendor)

	// User management
	protected.Get("/users", requireOwner, userHandler.GetUsers)
	protected.Post("/users", requireOwner, userHandler.CreateUser)
	protected.Put("/users/:id", requireOwner, userHandler.UpdateUser)
	protected.Delete("/users/:id", requireOwner, userHandler.DeleteUser)

	// WebSocket route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}
	log.Info("server exited")
}

// seedDefaultOrganization creates an organization and its owner account on
// first boot so the API is usable immediately.
func seedDefaultOrganization(db *gorm.DB, log *logrus.Logger) {
	userRepo := repository.NewUserRepo(db)

	username := os.Getenv("SEED_OWNER_USERNAME")
	if username == "" {
		username = "owner"
	}
	if _, err := userRepo.FindByUsername(username); err == nil {
		return
	}

	password := os.Getenv("SEED_OWNER_PASSWORD")
	if password == "" {
		password = "owner123"
	}
	orgName := os.Getenv("SEED_ORG_NAME")
	if orgName == "" {
		orgName = "Default Store"
	}

	org := &model.Organization{Name: orgName}
	if err := db.Create(org).Error; err != nil {
		log.WithError(err).Warn("failed to seed organization")
		return
	}

	owner := &model.User{
		Username:       username,
		OrganizationID: &org.ID,
		Role:           model.RoleOwner,
		IsActive:       true,
	}
	if err := owner.SetPassword(password); err != nil {
		log.WithError(err).Warn("failed to hash seed password")
		return
	}
	if err := userRepo.Create(owner); err != nil {
		log.WithError(err).Warn("failed to seed owner user")
		return
	}

	org.OwnerID = &owner.ID
	if err := db.Save(org).Error; err != nil {
		log.WithError(err).Warn("failed to link organization owner")
	}

	log.WithFields(logrus.Fields{
		"organization": orgName,
		"username":     username,
	}).Info("seeded default organization and owner")
}
