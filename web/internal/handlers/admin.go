package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/auth"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/services"
	"github.com/sagar-developer08/admin-ecom-sub000/web/internal/render"
)

// ListVendors handles GET /api/vendors
func (h *Handler) ListVendors(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		page, err := api.Vendors.List(r.Context(), listParams(r))
		if err != nil {
			return err
		}
		writePage(w, page)
		return nil
	})
}

// GetVendor handles GET /api/vendors/{id}. Vendor accounts may read their own record.
func (h *Handler) GetVendor(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := auth.CanManageVendor(r.Context(), id); err != nil {
		h.handleError(w, r, nil, err)
		return
	}
	h.withAPI(w, r, func(api *requestAPI) error {
		vendor, err := api.Vendors.Get(r.Context(), id)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, vendor)
		return nil
	})
}

// ApproveVendor handles PUT /api/vendors/{id}/approve
func (h *Handler) ApproveVendor(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		vendor, err := api.Vendors.Approve(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, vendor)
		return nil
	})
}

// SuspendVendor handles PUT /api/vendors/{id}/suspend with an optional {"reason": ...}
func (h *Handler) SuspendVendor(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		var body struct {
			Reason string `json:"reason"`
		}
		if r.ContentLength != 0 {
			if err := decodeJSON(w, r, &body); err != nil {
				return err
			}
		}
		vendor, err := api.Vendors.Suspend(r.Context(), mux.Vars(r)["id"], body.Reason)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, vendor)
		return nil
	})
}

// SetVendorCommission handles PUT /api/vendors/{id}/commission with {"commissionRate": 12.5}
func (h *Handler) SetVendorCommission(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		var body struct {
			CommissionRate *decimal.Decimal `json:"commissionRate"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			return err
		}
		if body.CommissionRate == nil {
			return fmt.Errorf("%w: commissionRate is required", services.ErrInvalidInput)
		}
		vendor, err := api.Vendors.SetCommission(r.Context(), mux.Vars(r)["id"], *body.CommissionRate)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, vendor)
		return nil
	})
}

// ticketView is a ticket with its messages rendered to HTML
type ticketView struct {
	*entities.Ticket
	Messages []render.Message `json:"messages"`
}

func newTicketView(t *entities.Ticket) ticketView {
	return ticketView{Ticket: t, Messages: render.TicketMessages(t)}
}

// ListTickets handles GET /api/tickets
func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		page, err := api.Tickets.List(r.Context(), listParams(r))
		if err != nil {
			return err
		}
		writePage(w, page)
		return nil
	})
}

// GetTicket handles GET /api/tickets/{id}
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		ticket, err := api.Tickets.Get(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, newTicketView(ticket))
		return nil
	})
}

// ReplyTicket handles POST /api/tickets/{id}/reply with {"message": markdown}
func (h *Handler) ReplyTicket(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		var body struct {
			Message string `json:"message"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			return err
		}
		ticket, err := api.Tickets.Reply(r.Context(), mux.Vars(r)["id"], body.Message)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, newTicketView(ticket))
		return nil
	})
}

// CloseTicket handles PUT /api/tickets/{id}/close
func (h *Handler) CloseTicket(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		ticket, err := api.Tickets.Close(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, newTicketView(ticket))
		return nil
	})
}

// PreviewMarkdown handles POST /api/preview, rendering a draft reply
func (h *Handler) PreviewMarkdown(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"html": render.Markdown(body.Message)})
}

// ListNotifications handles GET /api/notifications?unread=true
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		unread := r.URL.Query().Get("unread") == "true"
		page, err := api.Notifications.List(r.Context(), listParams(r), unread)
		if err != nil {
			return err
		}
		writePage(w, page)
		return nil
	})
}

// UnreadCount handles GET /api/notifications/unread-count
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		count, err := api.Notifications.UnreadCount(r.Context())
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, entities.UnreadCount{Count: count})
		return nil
	})
}

// MarkNotificationRead handles PUT /api/notifications/{id}/read
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		if err := api.Notifications.MarkRead(r.Context(), mux.Vars(r)["id"]); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, map[string]string{"read": mux.Vars(r)["id"]})
		return nil
	})
}

// MarkAllNotificationsRead handles PUT /api/notifications/read-all
func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		if err := api.Notifications.MarkAllRead(r.Context()); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, map[string]bool{"allRead": true})
		return nil
	})
}

// UploadMedia handles POST /api/media with a multipart "file" and optional "folder" field
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(services.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	h.withAPI(w, r, func(api *requestAPI) error {
		asset, err := api.Media.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file, r.FormValue("folder"))
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusCreated, asset)
		return nil
	})
}

// DeleteMedia handles DELETE /api/media/{id}
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	h.withAPI(w, r, func(api *requestAPI) error {
		if err := api.Media.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, map[string]string{"deleted": mux.Vars(r)["id"]})
		return nil
	})
}
