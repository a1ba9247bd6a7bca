package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/savora/api/internal/database"
	"github.com/savora/api/internal/handler"
)

type mockStaffStore struct {
	createProfileFn         func(ctx context.Context, arg database.CreateProfileParams) (database.Profile, error)
	assignRoleFn            func(ctx context.Context, arg database.AssignRoleParams) error
	hasRoleFn               func(ctx context.Context, arg database.HasRoleParams) (bool, error)
	upsertStaffAssignmentFn func(ctx context.Context, arg database.UpsertStaffAssignmentParams) (database.StaffAssignment, error)
	listStaffByBranchFn     func(ctx context.Context, branchID uuid.UUID) ([]database.ListStaffByBranchRow, error)
}

func (m *mockStaffStore) CreateProfile(ctx context.Context, arg database.CreateProfileParams) (database.Profile, error) {
	if m.createProfileFn != nil {
		return m.createProfileFn(ctx, arg)
	}
	return database.Profile{}, pgx.ErrNoRows
}

func (m *mockStaffStore) AssignRole(ctx context.Context, arg database.AssignRoleParams) error {
	if m.assignRoleFn != nil {
		return m.assignRoleFn(ctx, arg)
	}
	return nil
}

func (m *mockStaffStore) HasRole(ctx context.Context, arg database.HasRoleParams) (bool, error) {
	if m.hasRoleFn != nil {
		return m.hasRoleFn(ctx, arg)
	}
	return true, nil
}

func (m *mockStaffStore) UpsertStaffAssignment(ctx context.Context, arg database.UpsertStaffAssignmentParams) (database.StaffAssignment, error) {
	if m.upsertStaffAssignmentFn != nil {
		return m.upsertStaffAssignmentFn(ctx, arg)
	}
	return database.StaffAssignment{UserID: arg.UserID, BranchID: arg.BranchID}, nil
}

func (m *mockStaffStore) ListStaffByBranch(ctx context.Context, branchID uuid.UUID) ([]database.ListStaffByBranchRow, error) {
	if m.listStaffByBranchFn != nil {
		return m.listStaffByBranchFn(ctx, branchID)
	}
	return nil, nil
}

func setupStaffRouter(store *mockStaffStore) *chi.Mux {
	h := handler.NewStaffHandler(store)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestCreateStaff(t *testing.T) {
	branchID := uuid.New()
	userID := uuid.New()

	var assignedRole string
	var assignedBranch uuid.UUID
	store := &mockStaffStore{
		createProfileFn: func(ctx context.Context, arg database.CreateProfileParams) (database.Profile, error) {
			return database.Profile{ID: userID, Email: arg.Email, FullName: arg.FullName}, nil
		},
		assignRoleFn: func(ctx context.Context, arg database.AssignRoleParams) error {
			assignedRole = arg.Role
			return nil
		},
		upsertStaffAssignmentFn: func(ctx context.Context, arg database.UpsertStaffAssignmentParams) (database.StaffAssignment, error) {
			assignedBranch = arg.BranchID
			return database.StaffAssignment{UserID: arg.UserID, BranchID: arg.BranchID}, nil
		},
	}
	router := setupStaffRouter(store)

	rr := doJSON(t, router, "POST", "/staff", map[string]string{
		"email":     "staff@example.com",
		"password":  "staff-password",
		"full_name": "Sam Staff",
		"branch_id": branchID.String(),
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d: %s", rr.Code, rr.Body.String())
	}
	if assignedRole != "STAFF" {
		t.Errorf("role: got %q, want STAFF", assignedRole)
	}
	if assignedBranch != branchID {
		t.Errorf("branch: got %v, want %v", assignedBranch, branchID)
	}
}

func TestCreateStaff_MissingBranch(t *testing.T) {
	router := setupStaffRouter(&mockStaffStore{})

	rr := doJSON(t, router, "POST", "/staff", map[string]string{
		"email": "staff@example.com", "password": "staff-password", "full_name": "Sam Staff",
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCreateStaff_MalformedEmail(t *testing.T) {
	store := &mockStaffStore{
		createProfileFn: func(ctx context.Context, arg database.CreateProfileParams) (database.Profile, error) {
			t.Errorf("CreateProfile reached the store for email %q", arg.Email)
			return database.Profile{}, nil
		},
	}
	router := setupStaffRouter(store)

	rr := doJSON(t, router, "POST", "/staff", map[string]string{
		"email":     "not-an-email",
		"password":  "staff-password",
		"full_name": "Sam Staff",
		"branch_id": uuid.New().String(),
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCreateStaff_DuplicateEmail(t *testing.T) {
	store := &mockStaffStore{
		createProfileFn: func(ctx context.Context, arg database.CreateProfileParams) (database.Profile, error) {
			return database.Profile{}, &pgconn.PgError{Code: "23505"}
		},
	}
	router := setupStaffRouter(store)

	rr := doJSON(t, router, "POST", "/staff", map[string]string{
		"email":     "staff@example.com",
		"password":  "staff-password",
		"full_name": "Sam Staff",
		"branch_id": uuid.New().String(),
	})
	if rr.Code != http.StatusConflict {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestReassignStaff(t *testing.T) {
	userID := uuid.New()
	newBranch := uuid.New()

	store := &mockStaffStore{
		upsertStaffAssignmentFn: func(ctx context.Context, arg database.UpsertStaffAssignmentParams) (database.StaffAssignment, error) {
			if arg.UserID != userID {
				t.Errorf("user: got %v, want %v", arg.UserID, userID)
			}
			if arg.BranchID != newBranch {
				t.Errorf("branch: got %v, want %v", arg.BranchID, newBranch)
			}
			return database.StaffAssignment{UserID: arg.UserID, BranchID: arg.BranchID}, nil
		},
	}
	router := setupStaffRouter(store)

	rr := doJSON(t, router, "PUT", "/staff/"+userID.String()+"/branch", map[string]string{
		"branch_id": newBranch.String(),
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestReassignStaff_NotStaff(t *testing.T) {
	userID := uuid.New()

	store := &mockStaffStore{
		hasRoleFn: func(ctx context.Context, arg database.HasRoleParams) (bool, error) {
			if arg.UserID != userID || arg.Role != "STAFF" {
				t.Errorf("role check: got %+v", arg)
			}
			return false, nil
		},
		upsertStaffAssignmentFn: func(ctx context.Context, arg database.UpsertStaffAssignmentParams) (database.StaffAssignment, error) {
			t.Error("assignment reached the store for a non-staff user")
			return database.StaffAssignment{}, nil
		},
	}
	router := setupStaffRouter(store)

	rr := doJSON(t, router, "PUT", "/staff/"+userID.String()+"/branch", map[string]string{
		"branch_id": uuid.New().String(),
	})
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestListStaffByBranch(t *testing.T) {
	branchID := uuid.New()
	store := &mockStaffStore{
		listStaffByBranchFn: func(ctx context.Context, bid uuid.UUID) ([]database.ListStaffByBranchRow, error) {
			return []database.ListStaffByBranchRow{
				{UserID: uuid.New(), FullName: "Sam Staff", Email: "staff@example.com"},
			}, nil
		},
	}
	router := setupStaffRouter(store)

	rr := doJSON(t, router, "GET", "/branches/"+branchID.String()+"/staff", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d: %s", rr.Code, rr.Body.String())
	}
}
