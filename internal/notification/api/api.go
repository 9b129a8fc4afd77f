// Package api exposes the notification core over HTTP: the inbox query
// surface for the storefront frontend, and internal event endpoints called
// by the order/shipment/inventory/question services after their own
// mutations commit. Authentication is terminated upstream; the gateway
// injects the caller's user ID.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"storefront-notifications/internal/common/errors"
	"storefront-notifications/internal/common/logger"
	"storefront-notifications/internal/models"
	"storefront-notifications/internal/notification/events"
	"storefront-notifications/internal/notification/inbox"
	"storefront-notifications/internal/notification/store"
)

// UserHeader carries the authenticated caller's ID, set by the gateway.
const UserHeader = "X-User-ID"

type Server struct {
	inbox    *inbox.Inbox
	notifier *events.Notifier
	logger   logger.Logger
}

func NewServer(ib *inbox.Inbox, n *events.Notifier, log logger.Logger) *Server {
	return &Server{
		inbox:    ib,
		notifier: n,
		logger:   log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Route("/api/notifications", func(r chi.Router) {
		r.Get("/", s.requireUser(s.list))
		r.Get("/unread-count", s.requireUser(s.unreadCount))
		r.Get("/preferences", s.requireUser(s.getPreferences))
		r.Put("/preferences", s.requireUser(s.updatePreferences))
		r.Post("/read-all", s.requireUser(s.markAllRead))
		r.Get("/{id}", s.requireUser(s.get))
		r.Post("/{id}/read", s.requireUser(s.markRead))
	})

	router.Route("/internal/events", func(r chi.Router) {
		r.Post("/order-placed", s.orderPlaced)
		r.Post("/order-status", s.orderStatus)
		r.Post("/inventory-alert", s.inventoryAlert)
		r.Post("/question", s.question)
		r.Post("/question-reply", s.questionReply)
		r.Post("/shipment", s.shipment)
	})

	return router
}

type userHandler func(w http.ResponseWriter, r *http.Request, userID string)

func (s *Server) requireUser(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(UserHeader)
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "missing user identity")
			return
		}
		next(w, r, userID)
	}
}

func (s *Server) list(w http.ResponseWriter, r *http.Request, userID string) {
	opts := store.ListOptions{}
	opts.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	opts.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if v := r.URL.Query().Get("read"); v != "" {
		read := v == "true"
		opts.ReadFilter = &read
	}

	page, err := s.inbox.List(r.Context(), userID, opts)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request, userID string) {
	view, err := s.inbox.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) markRead(w http.ResponseWriter, r *http.Request, userID string) {
	updated, err := s.inbox.MarkRead(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

func (s *Server) markAllRead(w http.ResponseWriter, r *http.Request, userID string) {
	affected, err := s.inbox.MarkAllRead(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": affected})
}

func (s *Server) unreadCount(w http.ResponseWriter, r *http.Request, userID string) {
	count, err := s.inbox.UnreadCount(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (s *Server) getPreferences(w http.ResponseWriter, r *http.Request, userID string) {
	prefs, err := s.inbox.Preferences(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Server) updatePreferences(w http.ResponseWriter, r *http.Request, userID string) {
	var updates []inbox.PreferenceUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeError(w, http.StatusBadRequest, "invalid preference payload")
		return
	}
	if err := s.inbox.UpdatePreferences(r.Context(), userID, updates); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Event endpoints: always 202. The caller's mutation already committed;
// notification failures are logged here, never surfaced.

type orderPlacedPayload struct {
	Order models.Order `json:"order"`
}

func (s *Server) orderPlaced(w http.ResponseWriter, r *http.Request) {
	var payload orderPlacedPayload
	if !decode(w, r, &payload) {
		return
	}
	s.notifier.NewOrder(r.Context(), payload.Order)
	s.notifier.OrderConfirmation(r.Context(), payload.Order)
	w.WriteHeader(http.StatusAccepted)
}

type orderStatusPayload struct {
	Order          models.Order `json:"order"`
	PreviousStatus string       `json:"previousStatus"`
	AdditionalInfo string       `json:"additionalInfo,omitempty"`
}

func (s *Server) orderStatus(w http.ResponseWriter, r *http.Request) {
	var payload orderStatusPayload
	if !decode(w, r, &payload) {
		return
	}
	s.notifier.OrderStatusUpdate(r.Context(), payload.Order, payload.PreviousStatus, payload.AdditionalInfo)
	w.WriteHeader(http.StatusAccepted)
}

type inventoryAlertPayload struct {
	Alert      models.InventoryAlert `json:"alert"`
	VendorIDs  []string              `json:"vendorIds"`
	OutOfStock bool                  `json:"outOfStock"`
}

func (s *Server) inventoryAlert(w http.ResponseWriter, r *http.Request) {
	var payload inventoryAlertPayload
	if !decode(w, r, &payload) {
		return
	}
	if payload.OutOfStock {
		s.notifier.OutOfStock(r.Context(), payload.Alert, payload.VendorIDs)
	} else {
		s.notifier.LowInventory(r.Context(), payload.Alert, payload.VendorIDs)
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) question(w http.ResponseWriter, r *http.Request) {
	var question models.Question
	if !decode(w, r, &question) {
		return
	}
	s.notifier.NewQuestion(r.Context(), question)
	w.WriteHeader(http.StatusAccepted)
}

type questionReplyPayload struct {
	Question models.Question      `json:"question"`
	Reply    models.QuestionReply `json:"reply"`
}

func (s *Server) questionReply(w http.ResponseWriter, r *http.Request) {
	var payload questionReplyPayload
	if !decode(w, r, &payload) {
		return
	}
	s.notifier.QuestionReply(r.Context(), payload.Question, payload.Reply)
	w.WriteHeader(http.StatusAccepted)
}

type shipmentPayload struct {
	Event       string                `json:"event"` // created, update, damage, return
	Order       models.Order          `json:"order"`
	Shipment    models.Shipment       `json:"shipment"`
	Tracking    *models.ShipmentEvent `json:"trackingEvent,omitempty"`
	Description string                `json:"description,omitempty"`
}

func (s *Server) shipment(w http.ResponseWriter, r *http.Request) {
	var payload shipmentPayload
	if !decode(w, r, &payload) {
		return
	}

	switch payload.Event {
	case "created":
		s.notifier.ShipmentCreated(r.Context(), payload.Order, payload.Shipment)
	case "update":
		if payload.Tracking == nil {
			writeError(w, http.StatusBadRequest, "trackingEvent is required for update events")
			return
		}
		s.notifier.ShippingUpdate(r.Context(), payload.Order, payload.Shipment, *payload.Tracking)
	case "damage":
		s.notifier.ShipmentDamage(r.Context(), payload.Order, payload.Shipment, payload.Description)
	case "return":
		s.notifier.ReturnShipment(r.Context(), payload.Order, payload.Shipment)
	default:
		writeError(w, http.StatusBadRequest, "unknown shipment event")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if errors.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.logger.Error("request failed", map[string]interface{}{"error": err})
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
