package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/savora/api/internal/cart"
	"github.com/savora/api/internal/database"
	"github.com/savora/api/internal/enum"
	"github.com/savora/api/internal/pricing"
	"github.com/shopspring/decimal"
)

// Errors returned by checkout. All of these map to a 400 at the handler.
var (
	ErrEmptyCart              = errors.New("cart is empty")
	ErrInvalidOrderType       = errors.New("invalid order_type")
	ErrInvalidQuantity        = errors.New("quantity must be > 0")
	ErrInvalidMenuItemID      = errors.New("invalid menu_item_id")
	ErrMenuItemNotFound       = errors.New("menu item not found in branch")
	ErrMenuItemUnavailable    = errors.New("menu item is not available")
	ErrMissingDeliveryAddress = errors.New("delivery_address is required for DELIVERY orders")
	ErrInvalidTip             = errors.New("invalid tip")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods checkout needs.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetMenuItemForOrder(ctx context.Context, arg database.GetMenuItemForOrderParams) (database.GetMenuItemForOrderRow, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderedItem(ctx context.Context, arg database.CreateOrderedItemParams) (database.OrderedItem, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx), letting the
// service build store instances bound to its transaction.
type NewOrderStore func(db database.DBTX) OrderStore

// CreateOrderRequest is the validated input for checkout.
type CreateOrderRequest struct {
	UserID          uuid.UUID
	BranchID        uuid.UUID
	OrderType       string
	DeliveryAddress string
	Notes           string
	Tip             string
	Items           []CreateOrderLineRequest
}

// CreateOrderLineRequest is one selected menu item with a quantity.
type CreateOrderLineRequest struct {
	MenuItemID string
	Quantity   int32
}

// CreateOrderResult is the created order with its line items.
type CreateOrderResult struct {
	Order database.Order
	Items []database.OrderedItem
}

// OrderService owns the checkout flow.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
}

func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore}
}

// CreateOrder validates the request, consolidates the selection through the
// cart model, prices it, and writes the order plus its line items in one
// transaction. Each line's price_each is snapshotted from the menu inside
// that transaction, so later catalog edits never reprice past orders.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if !isValidOrderType(req.OrderType) {
		return nil, ErrInvalidOrderType
	}

	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}

	deliveryAddress := strings.TrimSpace(req.DeliveryAddress)
	if req.OrderType == enum.OrderTypeDelivery && deliveryAddress == "" {
		return nil, ErrMissingDeliveryAddress
	}

	tip := decimal.Zero
	if req.Tip != "" {
		var err error
		tip, err = decimal.NewFromString(req.Tip)
		if err != nil || tip.IsNegative() {
			return nil, ErrInvalidTip
		}
	}

	// --- Begin transaction ---
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	// --- Consolidate the selection ---
	// Duplicate menu_item_id lines collapse into one cart line; each item is
	// fetched once, from the order's branch only.
	c := cart.New(req.BranchID)
	fetched := make(map[uuid.UUID]cart.Item)

	for i, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("items[%d]: %w", i, ErrInvalidQuantity)
		}

		itemID, err := uuid.Parse(line.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, ErrInvalidMenuItemID)
		}

		item, ok := fetched[itemID]
		if !ok {
			row, err := store.GetMenuItemForOrder(ctx, database.GetMenuItemForOrderParams{
				ID:       itemID,
				BranchID: req.BranchID,
			})
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, fmt.Errorf("items[%d]: %w", i, ErrMenuItemNotFound)
				}
				return nil, fmt.Errorf("items[%d]: get menu item: %w", i, err)
			}
			if !row.IsAvailable {
				return nil, fmt.Errorf("items[%d]: %w", i, ErrMenuItemUnavailable)
			}
			item = cart.Item{
				ID:        row.ID,
				Name:      row.Name,
				UnitPrice: numericToDecimal(row.Price),
			}
			fetched[itemID] = item
		}

		c.Add(item)
		if line.Quantity > 1 {
			c.ChangeQuantity(item.ID, line.Quantity-1)
		}
	}

	// --- Price the cart ---
	quote := pricing.Calculate(c.Total(), req.OrderType, tip)

	addr := pgtype.Text{}
	if req.OrderType == enum.OrderTypeDelivery {
		addr = pgtype.Text{String: deliveryAddress, Valid: true}
	}

	notes := pgtype.Text{}
	if req.Notes != "" {
		notes = pgtype.Text{String: req.Notes, Valid: true}
	}

	// --- Insert order ---
	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		UserID:          req.UserID,
		BranchID:        req.BranchID,
		OrderType:       req.OrderType,
		Subtotal:        decimalToNumeric(quote.Subtotal),
		Tax:             decimalToNumeric(quote.Tax),
		DeliveryFee:     decimalToNumeric(quote.DeliveryFee),
		Tip:             decimalToNumeric(quote.Tip),
		Total:           decimalToNumeric(quote.Total),
		DeliveryAddress: addr,
		Notes:           notes,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// --- Insert line items with price snapshots ---
	var items []database.OrderedItem
	for _, line := range c.Lines() {
		item, err := store.CreateOrderedItem(ctx, database.CreateOrderedItemParams{
			OrderID:    order.ID,
			MenuItemID: line.Item.ID,
			Quantity:   line.Quantity,
			PriceEach:  decimalToNumeric(line.Item.UnitPrice),
		})
		if err != nil {
			return nil, fmt.Errorf("create ordered item: %w", err)
		}
		items = append(items, item)
	}

	// --- Commit ---
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CreateOrderResult{Order: order, Items: items}, nil
}

// --- Helpers ---

func isValidOrderType(s string) bool {
	switch s {
	case enum.OrderTypeDineIn, enum.OrderTypeTakeaway, enum.OrderTypeDelivery:
		return true
	}
	return false
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
