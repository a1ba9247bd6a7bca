package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, user_id, branch_id, order_type, status, subtotal, tax, delivery_fee, tip, total, delivery_address, notes, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.BranchID, &o.OrderType, &o.Status,
		&o.Subtotal, &o.Tax, &o.DeliveryFee, &o.Tip, &o.Total,
		&o.DeliveryAddress, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func scanOrders(rows pgx.Rows) ([]Order, error) {
	defer rows.Close()
	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

type CreateOrderParams struct {
	UserID          uuid.UUID
	BranchID        uuid.UUID
	OrderType       string
	Subtotal        pgtype.Numeric
	Tax             pgtype.Numeric
	DeliveryFee     pgtype.Numeric
	Tip             pgtype.Numeric
	Total           pgtype.Numeric
	DeliveryAddress pgtype.Text
	Notes           pgtype.Text
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx,
		`INSERT INTO orders (user_id, branch_id, order_type, status, subtotal, tax, delivery_fee, tip, total, delivery_address, notes)
		 VALUES ($1, $2, $3, 'PENDING', $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+orderColumns,
		arg.UserID, arg.BranchID, arg.OrderType, arg.Subtotal, arg.Tax,
		arg.DeliveryFee, arg.Tip, arg.Total, arg.DeliveryAddress, arg.Notes))
}

type CreateOrderedItemParams struct {
	OrderID    uuid.UUID
	MenuItemID uuid.UUID
	Quantity   int32
	PriceEach  pgtype.Numeric
}

func (q *Queries) CreateOrderedItem(ctx context.Context, arg CreateOrderedItemParams) (OrderedItem, error) {
	var oi OrderedItem
	err := q.db.QueryRow(ctx,
		`INSERT INTO ordered_items (order_id, menu_item_id, quantity, price_each)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, order_id, menu_item_id, quantity, price_each, created_at`,
		arg.OrderID, arg.MenuItemID, arg.Quantity, arg.PriceEach).
		Scan(&oi.ID, &oi.OrderID, &oi.MenuItemID, &oi.Quantity, &oi.PriceEach, &oi.CreatedAt)
	return oi, err
}

type GetOrderParams struct {
	ID       uuid.UUID
	BranchID uuid.UUID
}

func (q *Queries) GetOrder(ctx context.Context, arg GetOrderParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND branch_id = $2`,
		arg.ID, arg.BranchID))
}

type GetOrderForUserParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) GetOrderForUser(ctx context.Context, arg GetOrderForUserParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`,
		arg.ID, arg.UserID))
}

type ListOrdersByUserParams struct {
	UserID uuid.UUID
	Limit  int32
	Offset int32
}

func (q *Queries) ListOrdersByUser(ctx context.Context, arg ListOrdersByUserParams) ([]Order, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+orderColumns+`
		 FROM orders
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		arg.UserID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return scanOrders(rows)
}

type ListOrdersByBranchParams struct {
	BranchID  uuid.UUID
	Status    pgtype.Text
	OrderType pgtype.Text
	StartDate pgtype.Timestamptz
	EndDate   pgtype.Timestamptz
	Limit     int32
	Offset    int32
}

func (q *Queries) ListOrdersByBranch(ctx context.Context, arg ListOrdersByBranchParams) ([]Order, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+orderColumns+`
		 FROM orders
		 WHERE branch_id = $1
		   AND ($2::text IS NULL OR status = $2)
		   AND ($3::text IS NULL OR order_type = $3)
		   AND ($4::timestamptz IS NULL OR created_at >= $4)
		   AND ($5::timestamptz IS NULL OR created_at < $5)
		 ORDER BY created_at DESC
		 LIMIT $6 OFFSET $7`,
		arg.BranchID, arg.Status, arg.OrderType, arg.StartDate, arg.EndDate, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return scanOrders(rows)
}

type ListOrderedItemsByOrderRow struct {
	OrderedItem
	ItemName string
}

func (q *Queries) ListOrderedItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]ListOrderedItemsByOrderRow, error) {
	rows, err := q.db.Query(ctx,
		`SELECT oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.price_each, oi.created_at, m.name
		 FROM ordered_items oi
		 JOIN menu m ON m.id = oi.menu_item_id
		 WHERE oi.order_id = $1
		 ORDER BY oi.created_at`,
		orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ListOrderedItemsByOrderRow
	for rows.Next() {
		var r ListOrderedItemsByOrderRow
		if err := rows.Scan(&r.ID, &r.OrderID, &r.MenuItemID, &r.Quantity, &r.PriceEach, &r.CreatedAt, &r.ItemName); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

type UpdateOrderStatusParams struct {
	ID         uuid.UUID
	BranchID   uuid.UUID
	Status     string
	PrevStatus string
}

// UpdateOrderStatus only succeeds when the order still holds PrevStatus, so
// a raced concurrent update surfaces as pgx.ErrNoRows instead of silently
// clobbering the newer state.
func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx,
		`UPDATE orders
		 SET status = $1, updated_at = now()
		 WHERE id = $2 AND branch_id = $3 AND status = $4
		 RETURNING `+orderColumns,
		arg.Status, arg.ID, arg.BranchID, arg.PrevStatus))
}

type CancelOrderParams struct {
	ID       uuid.UUID
	BranchID uuid.UUID
}

// CancelOrder is the staff-side cancellation; it refuses terminal orders
// atomically in the WHERE clause.
func (q *Queries) CancelOrder(ctx context.Context, arg CancelOrderParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx,
		`UPDATE orders
		 SET status = 'CANCELLED', updated_at = now()
		 WHERE id = $1 AND branch_id = $2
		   AND status NOT IN ('DELIVERED', 'CANCELLED')
		 RETURNING `+orderColumns,
		arg.ID, arg.BranchID))
}

type CancelOrderForUserParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

// CancelOrderForUser enforces the customer rule in SQL: only the owning user
// and only while the order is still PENDING.
func (q *Queries) CancelOrderForUser(ctx context.Context, arg CancelOrderForUserParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx,
		`UPDATE orders
		 SET status = 'CANCELLED', updated_at = now()
		 WHERE id = $1 AND user_id = $2 AND status = 'PENDING'
		 RETURNING `+orderColumns,
		arg.ID, arg.UserID))
}

type UpdateOrderForUserParams struct {
	Notes           pgtype.Text
	DeliveryAddress pgtype.Text
	ID              uuid.UUID
	UserID          uuid.UUID
}

// UpdateOrderForUser lets a customer amend notes or the delivery address,
// again gated on PENDING in the predicate.
func (q *Queries) UpdateOrderForUser(ctx context.Context, arg UpdateOrderForUserParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx,
		`UPDATE orders
		 SET notes = COALESCE($1, notes),
		     delivery_address = COALESCE($2, delivery_address),
		     updated_at = now()
		 WHERE id = $3 AND user_id = $4 AND status = 'PENDING'
		 RETURNING `+orderColumns,
		arg.Notes, arg.DeliveryAddress, arg.ID, arg.UserID))
}
