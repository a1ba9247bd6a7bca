package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/savora/api/internal/database"
	"github.com/savora/api/internal/enum"
	"github.com/savora/api/internal/middleware"
	"github.com/savora/api/internal/service"
	"github.com/savora/api/internal/ws"
	"github.com/shopspring/decimal"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error)
}

// OrderStore defines the database methods needed by order read/update handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	GetOrderForUser(ctx context.Context, arg database.GetOrderForUserParams) (database.Order, error)
	ListOrdersByUser(ctx context.Context, arg database.ListOrdersByUserParams) ([]database.Order, error)
	ListOrdersByBranch(ctx context.Context, arg database.ListOrdersByBranchParams) ([]database.Order, error)
	ListOrderedItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.ListOrderedItemsByOrderRow, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	CancelOrder(ctx context.Context, arg database.CancelOrderParams) (database.Order, error)
	CancelOrderForUser(ctx context.Context, arg database.CancelOrderForUserParams) (database.Order, error)
	UpdateOrderForUser(ctx context.Context, arg database.UpdateOrderForUserParams) (database.Order, error)
}

// Broadcaster pushes order events to the realtime feeds.
// Satisfied by *ws.Hub.
type Broadcaster interface {
	BroadcastToBranch(branchID uuid.UUID, event ws.Event)
	BroadcastToUser(userID uuid.UUID, event ws.Event)
}

// OrderHandler handles both the customer-facing and the staff-facing order
// endpoints. Authorization is route-level: customer routes scope every query
// by the token's user ID, staff routes sit behind the branch-staff middleware.
type OrderHandler struct {
	svc   OrderServicer
	store OrderStore
	hub   Broadcaster
}

func NewOrderHandler(svc OrderServicer, store OrderStore, hub Broadcaster) *OrderHandler {
	return &OrderHandler{svc: svc, store: store, hub: hub}
}

// RegisterCustomerRoutes registers the customer order endpoints.
// Expected to be mounted at /me/orders behind authentication.
func (h *OrderHandler) RegisterCustomerRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.ListMine)
	r.Get("/{id}", h.GetMine)
	r.Patch("/{id}", h.UpdateMine)
	r.Delete("/{id}", h.CancelMine)
}

// RegisterBranchRoutes registers the staff order endpoints.
// Expected to be mounted at /branches/{bid}/orders behind RequireBranchStaff.
func (h *OrderHandler) RegisterBranchRoutes(r chi.Router) {
	r.Get("/", h.ListByBranch)
	r.Get("/{id}", h.GetByBranch)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Delete("/{id}", h.Cancel)
}

// --- Request / Response types ---

type createOrderRequest struct {
	BranchID        string                   `json:"branch_id"`
	OrderType       string                   `json:"order_type"`
	DeliveryAddress string                   `json:"delivery_address"`
	Notes           string                   `json:"notes"`
	Tip             string                   `json:"tip"`
	Items           []createOrderLineRequest `json:"items"`
}

type createOrderLineRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int32  `json:"quantity"`
}

type updateOrderRequest struct {
	Notes           *string `json:"notes"`
	DeliveryAddress *string `json:"delivery_address"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type orderResponse struct {
	ID              uuid.UUID           `json:"id"`
	UserID          uuid.UUID           `json:"user_id"`
	BranchID        uuid.UUID           `json:"branch_id"`
	OrderType       string              `json:"order_type"`
	Status          string              `json:"status"`
	Subtotal        string              `json:"subtotal"`
	Tax             string              `json:"tax"`
	DeliveryFee     string              `json:"delivery_fee"`
	Tip             string              `json:"tip"`
	Total           string              `json:"total"`
	DeliveryAddress *string             `json:"delivery_address"`
	Notes           *string             `json:"notes"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Items           []orderedItemResponse `json:"items,omitempty"`
}

type orderedItemResponse struct {
	ID         uuid.UUID `json:"id"`
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Name       string    `json:"name,omitempty"`
	Quantity   int32     `json:"quantity"`
	PriceEach  string    `json:"price_each"`
}

// orderListResponse wraps a list of orders with pagination metadata.
type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

func toOrderResponse(o database.Order) orderResponse {
	resp := orderResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		BranchID:    o.BranchID,
		OrderType:   o.OrderType,
		Status:      o.Status,
		Subtotal:    numericToString(o.Subtotal),
		Tax:         numericToString(o.Tax),
		DeliveryFee: numericToString(o.DeliveryFee),
		Tip:         numericToString(o.Tip),
		Total:       numericToString(o.Total),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
	if o.DeliveryAddress.Valid {
		resp.DeliveryAddress = &o.DeliveryAddress.String
	}
	if o.Notes.Valid {
		resp.Notes = &o.Notes.String
	}
	return resp
}

func toCreateOrderResponse(result *service.CreateOrderResult) orderResponse {
	resp := toOrderResponse(result.Order)
	resp.Items = make([]orderedItemResponse, len(result.Items))
	for i, item := range result.Items {
		resp.Items[i] = orderedItemResponse{
			ID:         item.ID,
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			PriceEach:  numericToString(item.PriceEach),
		}
	}
	return resp
}

// numericToString formats a pgtype.Numeric as money with 2 decimal places.
func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0.00"
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}

// --- Customer handlers ---

// Create handles POST /me/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid branch_id"})
		return
	}

	if req.OrderType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "order_type is required"})
		return
	}

	svcItems := make([]service.CreateOrderLineRequest, len(req.Items))
	for i, item := range req.Items {
		svcItems[i] = service.CreateOrderLineRequest{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
		}
	}

	result, err := h.svc.CreateOrder(r.Context(), service.CreateOrderRequest{
		UserID:          claims.UserID,
		BranchID:        branchID,
		OrderType:       req.OrderType,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
		Tip:             req.Tip,
		Items:           svcItems,
	})
	if err != nil {
		if isCheckoutValidationError(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("ERROR: create order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify("order.created", result.Order)
	writeJSON(w, http.StatusCreated, toCreateOrderResponse(result))
}

// ListMine handles GET /me/orders.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	limit, offset := parsePagination(r)

	orders, err := h.store.ListOrdersByUser(r.Context(), database.ListOrdersByUserParams{
		UserID: claims.UserID,
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}

	writeJSON(w, http.StatusOK, orderListResponse{Orders: resp, Limit: limit, Offset: offset})
}

// GetMine handles GET /me/orders/{id}.
func (h *OrderHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.GetOrderForUser(r.Context(), database.GetOrderForUserParams{
		ID:     orderID,
		UserID: claims.UserID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.respondWithDetail(w, r, order)
}

// UpdateMine handles PATCH /me/orders/{id}. Customers can amend notes or
// the delivery address while the order is still pending; anything else
// means cancel and reorder.
func (h *OrderHandler) UpdateMine(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Notes == nil && req.DeliveryAddress == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "nothing to update"})
		return
	}

	params := database.UpdateOrderForUserParams{
		ID:     orderID,
		UserID: claims.UserID,
	}
	if req.Notes != nil {
		params.Notes = pgtype.Text{String: *req.Notes, Valid: true}
	}
	if req.DeliveryAddress != nil {
		// The address is only meaningful on delivery orders, and a delivery
		// order must never lose it. The order type is immutable, so reading
		// it outside the update predicate is safe.
		current, err := h.store.GetOrderForUser(r.Context(), database.GetOrderForUserParams{
			ID:     orderID,
			UserID: claims.UserID,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
				return
			}
			log.Printf("ERROR: get order for update: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		if current.OrderType != enum.OrderTypeDelivery {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "delivery_address applies only to DELIVERY orders"})
			return
		}
		addr := strings.TrimSpace(*req.DeliveryAddress)
		if addr == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "delivery_address cannot be blank"})
			return
		}
		params.DeliveryAddress = pgtype.Text{String: addr, Valid: true}
	}

	updated, err := h.store.UpdateOrderForUser(r.Context(), params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			h.explainUserOrderConflict(w, r, orderID, claims.UserID, "modified")
			return
		}
		log.Printf("ERROR: update order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify("order.updated", updated)
	writeJSON(w, http.StatusOK, toOrderResponse(updated))
}

// CancelMine handles DELETE /me/orders/{id}. The SQL predicate enforces the
// customer rule atomically: only PENDING orders of the owning user cancel.
func (h *OrderHandler) CancelMine(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	cancelled, err := h.store.CancelOrderForUser(r.Context(), database.CancelOrderForUserParams{
		ID:     orderID,
		UserID: claims.UserID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			h.explainUserOrderConflict(w, r, orderID, claims.UserID, "cancelled")
			return
		}
		log.Printf("ERROR: cancel order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify("order.updated", cancelled)
	writeJSON(w, http.StatusOK, toOrderResponse(cancelled))
}

// --- Staff handlers ---

// ListByBranch handles GET /branches/{bid}/orders.
func (h *OrderHandler) ListByBranch(w http.ResponseWriter, r *http.Request) {
	branchID, err := uuid.Parse(chi.URLParam(r, "bid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid branch ID"})
		return
	}

	limit, offset := parsePagination(r)

	params := database.ListOrdersByBranchParams{
		BranchID: branchID,
		Limit:    int32(limit),
		Offset:   int32(offset),
	}

	if s := r.URL.Query().Get("status"); s != "" {
		if !service.IsValidOrderStatus(s) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status filter"})
			return
		}
		params.Status = pgtype.Text{String: s, Valid: true}
	}
	if s := r.URL.Query().Get("type"); s != "" {
		params.OrderType = pgtype.Text{String: s, Valid: true}
	}
	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start_date format, use YYYY-MM-DD"})
			return
		}
		params.StartDate = pgtype.Timestamptz{Time: t, Valid: true}
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid end_date format, use YYYY-MM-DD"})
			return
		}
		params.EndDate = pgtype.Timestamptz{Time: t, Valid: true}
	}

	orders, err := h.store.ListOrdersByBranch(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list branch orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}

	writeJSON(w, http.StatusOK, orderListResponse{Orders: resp, Limit: limit, Offset: offset})
}

// GetByBranch handles GET /branches/{bid}/orders/{id}.
func (h *OrderHandler) GetByBranch(w http.ResponseWriter, r *http.Request) {
	branchID, err := uuid.Parse(chi.URLParam(r, "bid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid branch ID"})
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), database.GetOrderParams{
		ID:       orderID,
		BranchID: branchID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.respondWithDetail(w, r, order)
}

// UpdateStatus handles PATCH /branches/{bid}/orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	branchID, err := uuid.Parse(chi.URLParam(r, "bid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid branch ID"})
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}

	// Fetch current order to validate transition
	current, err := h.store.GetOrder(r.Context(), database.GetOrderParams{
		ID:       orderID,
		BranchID: branchID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order for status update: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := service.ValidateStaffTransition(current.OrderType, current.Status, req.Status); err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}

	updated, err := h.store.UpdateOrderStatus(r.Context(), database.UpdateOrderStatusParams{
		ID:         orderID,
		BranchID:   branchID,
		Status:     req.Status,
		PrevStatus: current.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The status changed between our read and write.
			writeJSON(w, http.StatusConflict, map[string]string{"error": "order status changed, please retry"})
			return
		}
		log.Printf("ERROR: update order status: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify("order.updated", updated)
	writeJSON(w, http.StatusOK, toOrderResponse(updated))
}

// Cancel handles DELETE /branches/{bid}/orders/{id}. Staff can cancel from
// any non-terminal status; the SQL predicate enforces that atomically.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	branchID, err := uuid.Parse(chi.URLParam(r, "bid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid branch ID"})
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	cancelled, err := h.store.CancelOrder(r.Context(), database.CancelOrderParams{
		ID:       orderID,
		BranchID: branchID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No rows updated: order doesn't exist, or already terminal.
			// Fetch to give a better error message.
			current, fetchErr := h.store.GetOrder(r.Context(), database.GetOrderParams{
				ID:       orderID,
				BranchID: branchID,
			})
			if fetchErr != nil {
				if errors.Is(fetchErr, pgx.ErrNoRows) {
					writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
					return
				}
				log.Printf("ERROR: get order for cancel: %v", fetchErr)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
				return
			}
			switch current.Status {
			case enum.OrderStatusDelivered:
				writeJSON(w, http.StatusConflict, map[string]string{"error": "cannot cancel a delivered order"})
			case enum.OrderStatusCancelled:
				writeJSON(w, http.StatusConflict, map[string]string{"error": "order is already cancelled"})
			default:
				writeJSON(w, http.StatusConflict, map[string]string{"error": "order cannot be cancelled"})
			}
			return
		}
		log.Printf("ERROR: cancel order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notify("order.updated", cancelled)
	writeJSON(w, http.StatusOK, toOrderResponse(cancelled))
}

// --- Helpers ---

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	offset = 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

// respondWithDetail writes the order with its line items.
func (h *OrderHandler) respondWithDetail(w http.ResponseWriter, r *http.Request, order database.Order) {
	items, err := h.store.ListOrderedItemsByOrder(r.Context(), order.ID)
	if err != nil {
		log.Printf("ERROR: list ordered items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := toOrderResponse(order)
	resp.Items = make([]orderedItemResponse, len(items))
	for i, item := range items {
		resp.Items[i] = orderedItemResponse{
			ID:         item.ID,
			MenuItemID: item.MenuItemID,
			Name:       item.ItemName,
			Quantity:   item.Quantity,
			PriceEach:  numericToString(item.PriceEach),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// explainUserOrderConflict distinguishes "not yours / not found" from "no
// longer pending" after an atomic customer update matched zero rows.
func (h *OrderHandler) explainUserOrderConflict(w http.ResponseWriter, r *http.Request, orderID, userID uuid.UUID, verb string) {
	current, err := h.store.GetOrderForUser(r.Context(), database.GetOrderForUserParams{
		ID:     orderID,
		UserID: userID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusConflict, map[string]string{
		"error": "order is " + current.Status + " and can no longer be " + verb,
	})
}

// isCheckoutValidationError reports whether a checkout error is caused by
// bad input rather than an infrastructure failure.
func isCheckoutValidationError(err error) bool {
	return errors.Is(err, service.ErrEmptyCart) ||
		errors.Is(err, service.ErrInvalidOrderType) ||
		errors.Is(err, service.ErrInvalidQuantity) ||
		errors.Is(err, service.ErrInvalidMenuItemID) ||
		errors.Is(err, service.ErrMenuItemNotFound) ||
		errors.Is(err, service.ErrMenuItemUnavailable) ||
		errors.Is(err, service.ErrMissingDeliveryAddress) ||
		errors.Is(err, service.ErrInvalidTip)
}

// notify pushes an order event to the branch feed and the owning
// customer's feed.
func (h *OrderHandler) notify(eventType string, o database.Order) {
	payload, err := json.Marshal(map[string]string{
		"id":        o.ID.String(),
		"branch_id": o.BranchID.String(),
		"status":    o.Status,
	})
	if err != nil {
		return
	}
	event := ws.Event{Type: eventType, Payload: payload}
	h.hub.BroadcastToBranch(o.BranchID, event)
	h.hub.BroadcastToUser(o.UserID, event)
}
