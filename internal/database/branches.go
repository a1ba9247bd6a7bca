package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const branchColumns = `id, name, address, phone, staff_count, is_active, created_at`

func scanBranch(row pgx.Row) (Branch, error) {
	var b Branch
	err := row.Scan(&b.ID, &b.Name, &b.Address, &b.Phone, &b.StaffCount, &b.IsActive, &b.CreatedAt)
	return b, err
}

func (q *Queries) ListBranches(ctx context.Context) ([]Branch, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+branchColumns+` FROM branches WHERE is_active = true ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var branches []Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}

func (q *Queries) GetBranch(ctx context.Context, id uuid.UUID) (Branch, error) {
	return scanBranch(q.db.QueryRow(ctx,
		`SELECT `+branchColumns+` FROM branches WHERE id = $1 AND is_active = true`,
		id))
}

type CreateBranchParams struct {
	Name       string
	Address    string
	Phone      string
	StaffCount int32
}

func (q *Queries) CreateBranch(ctx context.Context, arg CreateBranchParams) (Branch, error) {
	return scanBranch(q.db.QueryRow(ctx,
		`INSERT INTO branches (name, address, phone, staff_count)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+branchColumns,
		arg.Name, arg.Address, arg.Phone, arg.StaffCount))
}

type UpdateBranchParams struct {
	Name       string
	Address    string
	Phone      string
	StaffCount int32
	ID         uuid.UUID
}

func (q *Queries) UpdateBranch(ctx context.Context, arg UpdateBranchParams) (Branch, error) {
	return scanBranch(q.db.QueryRow(ctx,
		`UPDATE branches
		 SET name = $1, address = $2, phone = $3, staff_count = $4
		 WHERE id = $5 AND is_active = true
		 RETURNING `+branchColumns,
		arg.Name, arg.Address, arg.Phone, arg.StaffCount, arg.ID))
}
