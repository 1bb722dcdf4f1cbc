package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sagar-developer08/admin-ecom-sub000/web/internal/middleware"
)

// Register adds the login endpoints and the /api routes to router
func (h *Handler) Register(router *mux.Router, authMw *middleware.AuthMiddleware) {
	// Public routes (no auth required)
	router.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	router.HandleFunc("/logout", h.Logout).Methods(http.MethodGet, http.MethodPost)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(authMw.RequireAuth)

	// superadmin-only routes
	admin := api.NewRoute().Subrouter()
	admin.Use(authMw.RequireSuperAdmin)

	api.HandleFunc("/me", h.Me).Methods(http.MethodGet)
	api.HandleFunc("/session", h.Session).Methods(http.MethodGet)
	api.HandleFunc("/preview", h.PreviewMarkdown).Methods(http.MethodPost)

	// Catalog: reads for every role, writes for superadmins except products
	api.HandleFunc("/brands", h.ListBrands).Methods(http.MethodGet)
	api.HandleFunc("/brands/{id}", h.GetBrand).Methods(http.MethodGet)
	admin.HandleFunc("/brands", h.CreateBrand).Methods(http.MethodPost)
	admin.HandleFunc("/brands/{id}", h.UpdateBrand).Methods(http.MethodPut)
	admin.HandleFunc("/brands/{id}", h.DeleteBrand).Methods(http.MethodDelete)

	api.HandleFunc("/categories", h.ListCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories/tree", h.CategoryTree).Methods(http.MethodGet)
	api.HandleFunc("/categories/options", h.CategoryOptions).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id}", h.GetCategory).Methods(http.MethodGet)
	admin.HandleFunc("/categories", h.CreateCategory).Methods(http.MethodPost)
	admin.HandleFunc("/categories/{id}", h.UpdateCategory).Methods(http.MethodPut)
	admin.HandleFunc("/categories/{id}", h.DeleteCategory).Methods(http.MethodDelete)

	api.HandleFunc("/products", h.ListProducts).Methods(http.MethodGet)
	api.HandleFunc("/products", h.CreateProduct).Methods(http.MethodPost)
	api.HandleFunc("/products/{id}", h.GetProduct).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", h.UpdateProduct).Methods(http.MethodPut)
	api.HandleFunc("/products/{id}/status", h.SetProductStatus).Methods(http.MethodPut)
	api.HandleFunc("/products/{id}", h.DeleteProduct).Methods(http.MethodDelete)

	api.HandleFunc("/attributes", h.ListAttributes).Methods(http.MethodGet)
	admin.HandleFunc("/attributes", h.CreateAttribute).Methods(http.MethodPost)
	admin.HandleFunc("/attributes/{id}", h.UpdateAttribute).Methods(http.MethodPut)
	admin.HandleFunc("/attributes/{id}", h.DeleteAttribute).Methods(http.MethodDelete)

	// Vendors
	api.HandleFunc("/vendors/{id}", h.GetVendor).Methods(http.MethodGet)
	admin.HandleFunc("/vendors", h.ListVendors).Methods(http.MethodGet)
	admin.HandleFunc("/vendors/{id}/approve", h.ApproveVendor).Methods(http.MethodPut)
	admin.HandleFunc("/vendors/{id}/suspend", h.SuspendVendor).Methods(http.MethodPut)
	admin.HandleFunc("/vendors/{id}/commission", h.SetVendorCommission).Methods(http.MethodPut)

	// Support tickets
	api.HandleFunc("/tickets", h.ListTickets).Methods(http.MethodGet)
	api.HandleFunc("/tickets/{id}", h.GetTicket).Methods(http.MethodGet)
	api.HandleFunc("/tickets/{id}/reply", h.ReplyTicket).Methods(http.MethodPost)
	api.HandleFunc("/tickets/{id}/close", h.CloseTicket).Methods(http.MethodPut)

	// Notifications
	api.HandleFunc("/notifications", h.ListNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/unread-count", h.UnreadCount).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read-all", h.MarkAllNotificationsRead).Methods(http.MethodPut)
	api.HandleFunc("/notifications/{id}/read", h.MarkNotificationRead).Methods(http.MethodPut)

	// Media
	api.HandleFunc("/media", h.UploadMedia).Methods(http.MethodPost)
	api.HandleFunc("/media/{id}", h.DeleteMedia).Methods(http.MethodDelete)
}
