package rest

import (
	"net/http"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/api"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/auth"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/category"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/contact"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/notification"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/product"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/report"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/supplier"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/transport/middleware"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/transport/swagger"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/transport/ws"
	accounts "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers bundles everything the router mounts. Nil handlers leave their
// routes unregistered.
type Handlers struct {
	Auth         *auth.Handler
	RBAC         *auth.RBACAuthorization
	Accounts     *accounts.Handler
	Products     *product.Handler
	Categories   *category.Handler
	Suppliers    *supplier.Handler
	Notification *notification.Handler
	Reports      *report.Handler
	Contact      *contact.Handler
	Alerts       *ws.Hub
	Health       *HealthHandler
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, allowedOrigins []string) {
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.RecoveryMiddleware)
	router.Use(middleware.CORS(allowedOrigins))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		status, body := internal.NewNotFoundError("Not found", internal.ErrCodeRouteNotFound).ToHTTPResponse()
		writeJSON(w, status, body)
	})

	router.Get(swagger.DocumentPath, api.Handler().ServeHTTP)
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}
		if h.Auth == nil {
			return
		}

		protected := func(fn func(chi.Router)) {
			r.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware)
				fn(pr)
			})
		}
		can := func(pr chi.Router, action, resource string, fn func(chi.Router)) {
			pr.Group(func(gr chi.Router) {
				gr.Use(h.RBAC.RequirePermission(action, resource))
				fn(gr)
			})
		}
		staff := func(pr chi.Router, fn func(chi.Router)) {
			pr.Group(func(gr chi.Router) {
				gr.Use(h.RBAC.RequireStaff())
				fn(gr)
			})
		}

		r.Route("/accounts", func(ar chi.Router) {
			ar.Post("/login", h.Auth.Login)
			ar.Post("/refresh", h.Auth.RefreshToken)
			ar.Post("/logout", h.Auth.Logout)
			if h.Accounts != nil {
				ar.Post("/register", h.Accounts.Register)
				ar.Group(func(pr chi.Router) {
					pr.Use(h.Auth.AuthMiddleware)
					pr.Get("/profile", h.Accounts.GetProfile)
					pr.Post("/profile/update", h.Accounts.UpdateProfile)
					pr.Put("/profile/update", h.Accounts.UpdateProfile)
				})
			}
		})

		// Public catalog reads; a token, when present, unlocks can_manage flags.
		r.Group(func(pub chi.Router) {
			pub.Use(h.Auth.OptionalAuth)
			if h.Products != nil {
				pub.Get("/products", h.Products.ListProducts)
				pub.Get("/products/latest", h.Products.LatestProducts)
				pub.Get("/products/search", h.Products.SearchProducts)
				pub.Get("/products/{id}", h.Products.GetProduct)
			}
			if h.Categories != nil {
				pub.Get("/products/categories", h.Categories.GetCategories)
			}
			if h.Suppliers != nil {
				pub.Get("/suppliers", h.Suppliers.ListSuppliers)
				pub.Get("/suppliers/search", h.Suppliers.SearchSuppliers)
				pub.Get("/suppliers/{id}", h.Suppliers.GetSupplier)
			}
		})

		if h.Contact != nil {
			r.Post("/contact", h.Contact.Submit)
		}
		if h.Alerts != nil {
			r.Get("/ws/alerts", h.Alerts.ServeWS)
		}

		protected(func(pr chi.Router) {
			if h.Products != nil {
				pr.Get("/dashboard", h.Products.Dashboard)
				can(pr, user.ActionAdd, user.ResourceProduct, func(prr chi.Router) {
					prr.Post("/products/create", h.Products.CreateProduct)
				})
				can(pr, user.ActionChange, user.ResourceProduct, func(prr chi.Router) {
					prr.Post("/products/update/{id}", h.Products.UpdateProduct)
					prr.Put("/products/update/{id}", h.Products.UpdateProduct)
					prr.Post("/products/{id}/image", h.Products.UploadImage)
				})
				can(pr, user.ActionDelete, user.ResourceProduct, func(prr chi.Router) {
					prr.Post("/products/delete/{id}", h.Products.DeleteProduct)
					prr.Delete("/products/delete/{id}", h.Products.DeleteProduct)
				})
				staff(pr, func(sr chi.Router) {
					sr.Get("/products/export", h.Products.ExportProducts)
					sr.Post("/products/import", h.Products.ImportProducts)
				})
			}
			if h.Categories != nil {
				can(pr, user.ActionAdd, user.ResourceCategory, func(cr chi.Router) {
					cr.Post("/products/categories/create", h.Categories.CreateCategory)
				})
				can(pr, user.ActionChange, user.ResourceCategory, func(cr chi.Router) {
					cr.Post("/products/categories/update/{id}", h.Categories.UpdateCategory)
					cr.Put("/products/categories/update/{id}", h.Categories.UpdateCategory)
				})
				can(pr, user.ActionDelete, user.ResourceCategory, func(cr chi.Router) {
					cr.Post("/products/categories/delete/{id}", h.Categories.DeleteCategory)
					cr.Delete("/products/categories/delete/{id}", h.Categories.DeleteCategory)
				})
			}
			if h.Suppliers != nil {
				can(pr, user.ActionAdd, user.ResourceSupplier, func(sr chi.Router) {
					sr.Post("/suppliers/create", h.Suppliers.CreateSupplier)
				})
				can(pr, user.ActionChange, user.ResourceSupplier, func(sr chi.Router) {
					sr.Post("/suppliers/update/{id}", h.Suppliers.UpdateSupplier)
					sr.Put("/suppliers/update/{id}", h.Suppliers.UpdateSupplier)
					sr.Post("/suppliers/{id}/logo", h.Suppliers.UploadLogo)
				})
				can(pr, user.ActionDelete, user.ResourceSupplier, func(sr chi.Router) {
					sr.Post("/suppliers/delete/{id}", h.Suppliers.DeleteSupplier)
					sr.Delete("/suppliers/delete/{id}", h.Suppliers.DeleteSupplier)
				})
			}

			staff(pr, func(sr chi.Router) {
				if h.Notification != nil {
					sr.Post("/products/notifications/check", h.Notification.CheckNotifications)
				}
				if h.Contact != nil {
					sr.Get("/contact/messages", h.Contact.List)
				}
				if h.Reports != nil {
					sr.Get("/reports", h.Reports.Overview)
					sr.Get("/reports/inventory", h.Reports.Inventory)
					sr.Get("/reports/inventory.pdf", h.Reports.InventoryPDF)
					sr.Get("/reports/suppliers", h.Reports.Suppliers)
					sr.Get("/reports/low-stock", h.Reports.LowStock)
					sr.Get("/reports/expiring", h.Reports.Expiring)
				}
			})
		})
	})
}
