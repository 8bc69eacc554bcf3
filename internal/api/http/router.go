package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/consultancy-service/internal/api/http/handlers"
	"github.com/spec-kit/consultancy-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Profile        *handlers.ProfileHandler
	Catalog        *handlers.CatalogHandler
	Bookings       *handlers.BookingsHandler
	StaffBookings  *handlers.StaffBookingsHandler
	AdminCatalog   *handlers.AdminCatalogHandler
	AdminDocuments *handlers.AdminDocumentsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, cfg.Auth.ChangePassword)

	catalog := app.Group("/catalog")
	catalog.Get("/categories", cfg.Catalog.ListCategories)
	catalog.Get("/services", cfg.Catalog.ListServices)
	catalog.Get("/services/featured", cfg.Catalog.ListFeaturedServices)
	catalog.Get("/services/:id", cfg.Catalog.GetService)
	catalog.Get("/services/:id/windows", cfg.Catalog.ListWindows)

	profile := app.Group("/profile", cfg.AuthMiddleware.Handle)
	profile.Get("/", cfg.Profile.GetProfile)
	profile.Put("/", cfg.Profile.UpdateProfile)
	profile.Post("/documents", cfg.Profile.UploadDocument)
	profile.Get("/documents/:id/content", cfg.Profile.DownloadDocument)

	bookings := app.Group("/bookings", cfg.AuthMiddleware.Handle)
	bookings.Post("/", cfg.Bookings.CreateBooking)
	bookings.Get("/", cfg.Bookings.ListBookings)
	bookings.Get("/:id", cfg.Bookings.GetBooking)
	bookings.Post("/:id/cancel", cfg.Bookings.CancelBooking)
	bookings.Post("/:id/updates", cfg.Bookings.AddUpdate)

	staff := app.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireStaff())
	staff.Get("/bookings", cfg.StaffBookings.ListBookings)
	staff.Get("/bookings/:id", cfg.StaffBookings.GetBooking)
	staff.Post("/bookings/:id/transition", cfg.StaffBookings.Transition)
	staff.Post("/bookings/:id/assign", cfg.StaffBookings.Assign)
	staff.Get("/bookings/:id/history", cfg.StaffBookings.History)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Post("/catalog/categories", cfg.AdminCatalog.CreateCategory)
	admin.Post("/catalog/services", cfg.AdminCatalog.CreateService)
	admin.Put("/catalog/services/:id", cfg.AdminCatalog.UpdateService)
	admin.Post("/catalog/services/:id/windows", cfg.AdminCatalog.AddWindow)
	admin.Delete("/catalog/windows/:id", cfg.AdminCatalog.RemoveWindow)
	admin.Get("/documents/pending", cfg.AdminDocuments.ListPending)
	admin.Post("/documents/:id/review", cfg.AdminDocuments.Review)
}
