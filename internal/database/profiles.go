package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const profileColumns = `id, email, hashed_password, full_name, phone, created_at`

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Email, &p.HashedPassword, &p.FullName, &p.Phone, &p.CreatedAt)
	return p, err
}

type CreateProfileParams struct {
	Email          string
	HashedPassword string
	FullName       string
	Phone          pgtype.Text
}

func (q *Queries) CreateProfile(ctx context.Context, arg CreateProfileParams) (Profile, error) {
	return scanProfile(q.db.QueryRow(ctx,
		`INSERT INTO profiles (email, hashed_password, full_name, phone)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+profileColumns,
		arg.Email, arg.HashedPassword, arg.FullName, arg.Phone))
}

func (q *Queries) GetProfileByEmail(ctx context.Context, email string) (Profile, error) {
	return scanProfile(q.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE LOWER(email) = LOWER($1)`,
		email))
}

func (q *Queries) GetProfileByID(ctx context.Context, id uuid.UUID) (Profile, error) {
	return scanProfile(q.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`,
		id))
}

type AssignRoleParams struct {
	UserID uuid.UUID
	Role   string
}

// AssignRole sets the user's single role, replacing any previous one.
func (q *Queries) AssignRole(ctx context.Context, arg AssignRoleParams) error {
	_, err := q.db.Exec(ctx,
		`INSERT INTO user_roles (user_id, role)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role`,
		arg.UserID, arg.Role)
	return err
}

func (q *Queries) GetUserRole(ctx context.Context, userID uuid.UUID) (string, error) {
	var role string
	err := q.db.QueryRow(ctx,
		`SELECT role FROM user_roles WHERE user_id = $1`,
		userID).Scan(&role)
	return role, err
}

type HasRoleParams struct {
	UserID uuid.UUID
	Role   string
}

// HasRole is the server-side role check used to gate staff-only actions.
func (q *Queries) HasRole(ctx context.Context, arg HasRoleParams) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`,
		arg.UserID, arg.Role).Scan(&exists)
	return exists, err
}

type UpsertStaffAssignmentParams struct {
	UserID   uuid.UUID
	BranchID uuid.UUID
}

// UpsertStaffAssignment binds a staff member to a branch. The user_id
// primary key keeps the one-active-branch-per-staff invariant: reassignment
// replaces the previous branch.
func (q *Queries) UpsertStaffAssignment(ctx context.Context, arg UpsertStaffAssignmentParams) (StaffAssignment, error) {
	var s StaffAssignment
	err := q.db.QueryRow(ctx,
		`INSERT INTO staff (user_id, branch_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET branch_id = EXCLUDED.branch_id
		 RETURNING user_id, branch_id, created_at`,
		arg.UserID, arg.BranchID).Scan(&s.UserID, &s.BranchID, &s.CreatedAt)
	return s, err
}

func (q *Queries) GetStaffBranch(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var branchID uuid.UUID
	err := q.db.QueryRow(ctx,
		`SELECT branch_id FROM staff WHERE user_id = $1`,
		userID).Scan(&branchID)
	return branchID, err
}

type ListStaffByBranchRow struct {
	UserID    uuid.UUID
	FullName  string
	Email     string
	CreatedAt pgtype.Timestamptz
}

func (q *Queries) ListStaffByBranch(ctx context.Context, branchID uuid.UUID) ([]ListStaffByBranchRow, error) {
	rows, err := q.db.Query(ctx,
		`SELECT s.user_id, p.full_name, p.email, s.created_at
		 FROM staff s
		 JOIN profiles p ON p.id = s.user_id
		 WHERE s.branch_id = $1
		 ORDER BY p.full_name`,
		branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ListStaffByBranchRow
	for rows.Next() {
		var r ListStaffByBranchRow
		if err := rows.Scan(&r.UserID, &r.FullName, &r.Email, &r.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
