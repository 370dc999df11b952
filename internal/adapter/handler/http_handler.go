package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mihirp/food-order/internal/core/domain"
	"github.com/mihirp/food-order/internal/core/service"
	"github.com/mihirp/food-order/internal/port"
)

// ConnectionLister exposes the registry's read path to the debug endpoint.
type ConnectionLister interface {
	ParticipantIDs() []string
}

type HTTPHandler struct {
	carts    *service.CartService
	checkout *service.CheckoutService
	orders   *service.OrderService
	catalog  port.CatalogRepository
	users    port.UserRepository
	conns    ConnectionLister
	log      *slog.Logger
}

func NewHTTPHandler(
	carts *service.CartService,
	checkout *service.CheckoutService,
	orders *service.OrderService,
	catalog port.CatalogRepository,
	users port.UserRepository,
	conns ConnectionLister,
	log *slog.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		carts:    carts,
		checkout: checkout,
		orders:   orders,
		catalog:  catalog,
		users:    users,
		conns:    conns,
		log:      log,
	}
}

// Routes registers every HTTP endpoint. Catalog reads and the websocket
// upgrade stay public; everything touching a cart or orders requires the
// authenticated participant.
func (h *HTTPHandler) Routes(mux *http.ServeMux, auth *Auth, realtime http.Handler) {
	mux.HandleFunc("GET /health", h.HealthCheck)

	mux.HandleFunc("GET /restaurants", h.ListRestaurants)
	mux.HandleFunc("GET /restaurants/{restID}", h.GetRestaurant)
	mux.Handle("GET /ws", realtime)

	mux.HandleFunc("POST /cart", auth.Middleware(h.AddToCart))
	mux.HandleFunc("POST /cart/decrement", auth.Middleware(h.DecrementCartItem))
	mux.HandleFunc("DELETE /cart/{itemID}", auth.Middleware(h.RemoveCartItem))
	mux.HandleFunc("GET /cart", auth.Middleware(h.GetCart))

	mux.HandleFunc("POST /orders", auth.Middleware(h.PlaceOrder))
	mux.HandleFunc("GET /orders", auth.Middleware(h.ListOrders))
	mux.HandleFunc("POST /orders/{orderID}/status", auth.Middleware(h.UpdateOrderStatus))

	mux.HandleFunc("POST /user/address", auth.Middleware(h.UpdateAddress))
	mux.HandleFunc("GET /clients", auth.Middleware(h.ListClients))
}

type errorResponse struct {
	Message string `json:"message"`
}

type cartItemRequest struct {
	ItemID string `json:"itemId"`
}

func (h *HTTPHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "itemId not provided"})
		return
	}

	if err := h.carts.AddItem(r.Context(), user.ID, req.ItemID); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "item added to cart"})
}

func (h *HTTPHandler) DecrementCartItem(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "itemId not provided"})
		return
	}

	if err := h.carts.Decrement(r.Context(), user.ID, req.ItemID); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "item quantity updated"})
}

func (h *HTTPHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	itemID := r.PathValue("itemID")
	if err := h.carts.Remove(r.Context(), user.ID, itemID); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "item removed from cart"})
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.Get(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

func (h *HTTPHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	orders, err := h.checkout.PlaceOrder(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	participant, ok := ParticipantFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "not authenticated"})
		return
	}

	orders, err := h.orders.ListFor(r.Context(), participant)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *HTTPHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := ParticipantFrom(r.Context()); !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "not authenticated"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "status not provided"})
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), r.PathValue("orderID"), domain.OrderStatus(req.Status))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"order": order})
}

func (h *HTTPHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.catalog.ListVerifiedSellers(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"restaurants": sellers,
		"totalItems":  len(sellers),
	})
}

func (h *HTTPHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	seller, err := h.catalog.GetSellerWithItems(r.Context(), r.PathValue("restID"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"result": seller})
}

type updateAddressRequest struct {
	FormattedAddress string         `json:"formattedAddress"`
	Address          domain.Address `json:"address"`
}

func (h *HTTPHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req updateAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	updated, err := h.users.UpdateAddress(r.Context(), user.ID, req.FormattedAddress, req.Address)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": updated})
}

func (h *HTTPHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"clients": h.conns.ParticipantIDs()})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireUser rejects callers whose participant is not a user record; cart
// and checkout are buyer-only surfaces.
func requireUser(w http.ResponseWriter, r *http.Request) (domain.Participant, bool) {
	participant, ok := ParticipantFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "not authenticated"})
		return domain.Participant{}, false
	}
	if participant.Kind != domain.ParticipantUser {
		writeJSON(w, http.StatusForbidden, errorResponse{Message: "user account required"})
		return domain.Participant{}, false
	}
	return participant, true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, service.ErrEmptyCart):
		status = http.StatusUnprocessableEntity
		message = "cart is empty"
	case errors.Is(err, service.ErrStaleCartReference):
		status = http.StatusConflict
		message = "cart references an item that no longer exists"
	case errors.Is(err, domain.ErrInvalidTransition):
		status = http.StatusConflict
		message = "invalid status transition"
	case errors.Is(err, port.ErrNotFound):
		status = http.StatusNotFound
		message = "not found"
	default:
		h.log.Error("request failed", "error", err)
	}

	writeJSON(w, status, errorResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
