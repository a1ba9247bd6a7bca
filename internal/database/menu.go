package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const menuItemColumns = `id, branch_id, category_id, name, description, price, image_url, is_available, is_active, created_at, updated_at`

func scanMenuItem(row pgx.Row) (MenuItem, error) {
	var m MenuItem
	err := row.Scan(&m.ID, &m.BranchID, &m.CategoryID, &m.Name, &m.Description,
		&m.Price, &m.ImageURL, &m.IsAvailable, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// --- Categories ---

func (q *Queries) ListMenuCategories(ctx context.Context) ([]MenuCategory, error) {
	rows, err := q.db.Query(ctx,
		`SELECT id, name, sort_order, is_active, created_at
		 FROM menu_categories
		 WHERE is_active = true
		 ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []MenuCategory
	for rows.Next() {
		var c MenuCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.SortOrder, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

type CreateMenuCategoryParams struct {
	Name      string
	SortOrder int32
}

func (q *Queries) CreateMenuCategory(ctx context.Context, arg CreateMenuCategoryParams) (MenuCategory, error) {
	var c MenuCategory
	err := q.db.QueryRow(ctx,
		`INSERT INTO menu_categories (name, sort_order)
		 VALUES ($1, $2)
		 RETURNING id, name, sort_order, is_active, created_at`,
		arg.Name, arg.SortOrder).Scan(&c.ID, &c.Name, &c.SortOrder, &c.IsActive, &c.CreatedAt)
	return c, err
}

type UpdateMenuCategoryParams struct {
	Name      string
	SortOrder int32
	ID        uuid.UUID
}

func (q *Queries) UpdateMenuCategory(ctx context.Context, arg UpdateMenuCategoryParams) (MenuCategory, error) {
	var c MenuCategory
	err := q.db.QueryRow(ctx,
		`UPDATE menu_categories
		 SET name = $1, sort_order = $2
		 WHERE id = $3 AND is_active = true
		 RETURNING id, name, sort_order, is_active, created_at`,
		arg.Name, arg.SortOrder, arg.ID).Scan(&c.ID, &c.Name, &c.SortOrder, &c.IsActive, &c.CreatedAt)
	return c, err
}

func (q *Queries) SoftDeleteMenuCategory(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted uuid.UUID
	err := q.db.QueryRow(ctx,
		`UPDATE menu_categories SET is_active = false
		 WHERE id = $1 AND is_active = true
		 RETURNING id`,
		id).Scan(&deleted)
	return deleted, err
}

// --- Menu items ---

func (q *Queries) ListMenuByBranch(ctx context.Context, branchID uuid.UUID) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+menuItemColumns+`
		 FROM menu
		 WHERE branch_id = $1 AND is_active = true
		 ORDER BY name`,
		branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

type GetMenuItemParams struct {
	ID       uuid.UUID
	BranchID uuid.UUID
}

func (q *Queries) GetMenuItem(ctx context.Context, arg GetMenuItemParams) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx,
		`SELECT `+menuItemColumns+`
		 FROM menu
		 WHERE id = $1 AND branch_id = $2 AND is_active = true`,
		arg.ID, arg.BranchID))
}

type GetMenuItemForOrderParams struct {
	ID       uuid.UUID
	BranchID uuid.UUID
}

type GetMenuItemForOrderRow struct {
	ID          uuid.UUID
	Name        string
	Price       pgtype.Numeric
	IsAvailable bool
}

// GetMenuItemForOrder fetches only what checkout needs: the price snapshot
// source and the availability flag, scoped to the order's branch.
func (q *Queries) GetMenuItemForOrder(ctx context.Context, arg GetMenuItemForOrderParams) (GetMenuItemForOrderRow, error) {
	var r GetMenuItemForOrderRow
	err := q.db.QueryRow(ctx,
		`SELECT id, name, price, is_available
		 FROM menu
		 WHERE id = $1 AND branch_id = $2 AND is_active = true`,
		arg.ID, arg.BranchID).Scan(&r.ID, &r.Name, &r.Price, &r.IsAvailable)
	return r, err
}

type CreateMenuItemParams struct {
	BranchID    uuid.UUID
	CategoryID  uuid.UUID
	Name        string
	Description pgtype.Text
	Price       pgtype.Numeric
	ImageURL    pgtype.Text
}

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx,
		`INSERT INTO menu (branch_id, category_id, name, description, price, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+menuItemColumns,
		arg.BranchID, arg.CategoryID, arg.Name, arg.Description, arg.Price, arg.ImageURL))
}

type UpdateMenuItemParams struct {
	CategoryID  uuid.UUID
	Name        string
	Description pgtype.Text
	Price       pgtype.Numeric
	ImageURL    pgtype.Text
	ID          uuid.UUID
	BranchID    uuid.UUID
}

func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx,
		`UPDATE menu
		 SET category_id = $1, name = $2, description = $3, price = $4, image_url = $5, updated_at = now()
		 WHERE id = $6 AND branch_id = $7 AND is_active = true
		 RETURNING `+menuItemColumns,
		arg.CategoryID, arg.Name, arg.Description, arg.Price, arg.ImageURL, arg.ID, arg.BranchID))
}

type SetMenuItemAvailabilityParams struct {
	IsAvailable bool
	ID          uuid.UUID
	BranchID    uuid.UUID
}

func (q *Queries) SetMenuItemAvailability(ctx context.Context, arg SetMenuItemAvailabilityParams) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx,
		`UPDATE menu
		 SET is_available = $1, updated_at = now()
		 WHERE id = $2 AND branch_id = $3 AND is_active = true
		 RETURNING `+menuItemColumns,
		arg.IsAvailable, arg.ID, arg.BranchID))
}

type SoftDeleteMenuItemParams struct {
	ID       uuid.UUID
	BranchID uuid.UUID
}

func (q *Queries) SoftDeleteMenuItem(ctx context.Context, arg SoftDeleteMenuItemParams) (uuid.UUID, error) {
	var deleted uuid.UUID
	err := q.db.QueryRow(ctx,
		`UPDATE menu SET is_active = false, updated_at = now()
		 WHERE id = $1 AND branch_id = $2 AND is_active = true
		 RETURNING id`,
		arg.ID, arg.BranchID).Scan(&deleted)
	return deleted, err
}
