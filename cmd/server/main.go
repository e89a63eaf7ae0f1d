package main

import (
	"errors"
	"strings"

	"nursery-backend/internal/apperr"
	"nursery-backend/internal/auth"
	"nursery-backend/internal/config"
	"nursery-backend/internal/customers"
	"nursery-backend/internal/database"
	"nursery-backend/internal/inventory"
	"nursery-backend/internal/models"
	"nursery-backend/internal/notify"
	"nursery-backend/internal/reports"
	"nursery-backend/internal/sales"
	"nursery-backend/internal/store"
	"nursery-backend/internal/tasks"
	"nursery-backend/internal/website"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

// selectStore picks the live Postgres store, falling back to the seeded
// in-memory demo dataset when the backend is unreachable (or DEMO_MODE is set).
func selectStore(cfg *config.Config) store.Store {
	if cfg.DemoMode {
		logrus.Info("DEMO_MODE set, serving the demonstration dataset")
		return store.NewDemoStore()
	}
	db, err := database.Init(cfg)
	if err != nil {
		logrus.WithError(err).Warn("database unreachable, falling back to the demonstration dataset")
		return store.NewDemoStore()
	}
	return store.NewGormStore(db)
}

func main() {
	cfg := config.Load()
	st := selectStore(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var appErr *apperr.Error
			if errors.As(err, &appErr) {
				body := fiber.Map{"error": appErr.Message, "kind": appErr.Kind}
				if appErr.Step != "" {
					body["step"] = appErr.Step
				}
				return c.Status(apperr.HTTPStatus(appErr.Kind)).JSON(body)
			}
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			logrus.WithError(err).Error("unexpected error")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Uploaded images are served straight off disk.
	app.Static("/uploads", cfg.UploadPath)

	// Public website surface, no auth.
	public := app.Group("/public")
	public.Get("/products", website.PublicProductsHandler(st))
	public.Get("/stories", website.PublicStoriesHandler(st))
	public.Get("/stories/:slug", website.PublicStoryHandler(st))
	public.Get("/green-towns", website.PublicGreenTownsHandler(st))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-owner", auth.RegisterOwnerHandler(st, cfg))
	api.Post("/auth/login", auth.LoginHandler(st, cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(st))

	// Owner-only routes
	ownerRoutes := protected.Group("")
	ownerRoutes.Use(auth.RequireRole(models.RoleOwner))

	ownerRoutes.Post("/auth/staff", auth.CreateStaffHandler(st))
	ownerRoutes.Delete("/inventory/:id", inventory.DeleteBatchHandler(st))
	ownerRoutes.Delete("/sales/:id", sales.DeleteSaleHandler(st))
	ownerRoutes.Delete("/customers/:id", customers.DeleteCustomerHandler(st))

	// Inventory
	protected.Get("/inventory", inventory.ListBatchesHandler(st, cfg))
	protected.Post("/inventory", inventory.CreateBatchHandler(st, cfg))
	protected.Get("/inventory/:id", inventory.GetBatchHandler(st, cfg))
	protected.Put("/inventory/:id", inventory.UpdateBatchHandler(st, cfg))
	protected.Post("/inventory/:id/adjust", inventory.AdjustStockHandler(st, cfg))
	protected.Post("/inventory/:id/image", inventory.UploadBatchImageHandler(st, cfg))
	protected.Post("/inventory/import", inventory.ImportBatchesHandler(st))

	// Tasks and labor costing
	protected.Get("/tasks", tasks.ListTasksHandler(st))
	protected.Post("/tasks", tasks.CreateTaskHandler(st))
	protected.Post("/tasks/:id/complete", tasks.CompleteTaskHandler(st))
	protected.Get("/tasks/costs", tasks.BatchCostsHandler(st))

	// Sales
	protected.Get("/sales", sales.ListSalesHandler(st))
	protected.Post("/sales", sales.RecordSaleHandler(st))
	protected.Get("/sales/export", sales.ExportSalesHandler(st))

	// Customers and outbound messaging
	protected.Get("/customers", customers.ListCustomersHandler(st))
	protected.Post("/customers", customers.CreateCustomerHandler(st))
	protected.Put("/customers/:id", customers.UpdateCustomerHandler(st))
	protected.Get("/customers/:id/sales", customers.CustomerSalesHandler(st))
	protected.Post("/customers/:id/whatsapp", customers.WhatsAppLinkHandler(st))

	// Reports
	protected.Get("/reports/profitability", reports.ProfitabilityHandler(st))
	protected.Get("/reports/profitability/export", reports.ExportProfitabilityHandler(st))
	protected.Get("/reports/dashboard", reports.DashboardHandler(st, cfg))

	// Website CMS
	protected.Get("/stories", website.ListStoriesHandler(st))
	protected.Post("/stories", website.CreateStoryHandler(st))
	protected.Put("/stories/:id", website.UpdateStoryHandler(st))
	protected.Delete("/stories/:id", website.DeleteStoryHandler(st, cfg))
	protected.Post("/stories/:id/image", website.UploadStoryImageHandler(st, cfg))
	protected.Get("/green-towns", website.ListGreenTownsHandler(st))
	protected.Post("/green-towns", website.CreateGreenTownHandler(st))
	protected.Put("/green-towns/:id", website.UpdateGreenTownHandler(st))
	protected.Delete("/green-towns/:id", website.DeleteGreenTownHandler(st, cfg))
	protected.Post("/green-towns/:id/photos", website.AddGreenTownPhotoHandler(st, cfg))
	protected.Delete("/green-towns/:id/photos/:photoID", website.DeleteGreenTownPhotoHandler(st, cfg))

	// Notifications
	monitor := notify.NewMonitor(st, cfg)
	monitor.Start()
	defer monitor.Stop()

	protected.Get("/notifications", notify.ListNotificationsHandler(st))
	protected.Post("/notifications/:id/read", notify.MarkNotificationReadHandler(st))
	protected.Post("/notifications/run-checks", notify.RunChecksHandler(monitor))

	logrus.Infof("server listening on port %s", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logrus.Fatal(err)
	}
}
