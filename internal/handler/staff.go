package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/savora/api/internal/database"
	"github.com/savora/api/internal/enum"
	"golang.org/x/crypto/bcrypt"
)

// StaffStore defines the database methods needed by staff management.
// Satisfied by *database.Queries; narrow interface for testability.
type StaffStore interface {
	CreateProfile(ctx context.Context, arg database.CreateProfileParams) (database.Profile, error)
	AssignRole(ctx context.Context, arg database.AssignRoleParams) error
	HasRole(ctx context.Context, arg database.HasRoleParams) (bool, error)
	UpsertStaffAssignment(ctx context.Context, arg database.UpsertStaffAssignmentParams) (database.StaffAssignment, error)
	ListStaffByBranch(ctx context.Context, branchID uuid.UUID) ([]database.ListStaffByBranchRow, error)
}

// StaffHandler provisions staff accounts and branch assignments. Admin only;
// there is no self-service path to a STAFF role.
type StaffHandler struct {
	store StaffStore
}

func NewStaffHandler(store StaffStore) *StaffHandler {
	return &StaffHandler{store: store}
}

// RegisterRoutes registers staff management endpoints, mounted behind the
// admin role check.
func (h *StaffHandler) RegisterRoutes(r chi.Router) {
	r.Post("/staff", h.Create)
	r.Put("/staff/{uid}/branch", h.Reassign)
	r.Get("/branches/{bid}/staff", h.ListByBranch)
}

// --- Request / Response types ---

type createStaffRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	BranchID string `json:"branch_id"`
}

type reassignStaffRequest struct {
	BranchID string `json:"branch_id"`
}

type staffResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	BranchID  uuid.UUID `json:"branch_id"`
	CreatedAt time.Time `json:"created_at"`
}

// --- Handlers ---

// Create provisions a staff account: profile, STAFF role and a branch
// assignment in one request.
func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || req.Password == "" || req.FullName == "" || req.BranchID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email, password, full_name and branch_id are required"})
		return
	}
	if !isValidEmail(req.Email) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid email address"})
		return
	}
	if len(req.Password) < 8 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "password must be at least 8 characters"})
		return
	}

	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid branch_id"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	phone := pgtype.Text{}
	if p := strings.TrimSpace(req.Phone); p != "" {
		phone = pgtype.Text{String: p, Valid: true}
	}

	profile, err := h.store.CreateProfile(r.Context(), database.CreateProfileParams{
		Email:          req.Email,
		HashedPassword: string(hashed),
		FullName:       req.FullName,
		Phone:          phone,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "email is already registered"})
			return
		}
		log.Printf("ERROR: create staff profile: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := h.store.AssignRole(r.Context(), database.AssignRoleParams{
		UserID: profile.ID,
		Role:   enum.RoleStaff,
	}); err != nil {
		log.Printf("ERROR: assign staff role: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	assignment, err := h.store.UpsertStaffAssignment(r.Context(), database.UpsertStaffAssignmentParams{
		UserID:   profile.ID,
		BranchID: branchID,
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid branch_id"})
			return
		}
		log.Printf("ERROR: assign staff branch: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, staffResponse{
		UserID:    profile.ID,
		Email:     profile.Email,
		FullName:  profile.FullName,
		BranchID:  assignment.BranchID,
		CreatedAt: assignment.CreatedAt,
	})
}

// Reassign moves a staff member to another branch. The staff table's
// user_id primary key keeps one active branch per staff member.
func (h *StaffHandler) Reassign(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "uid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user ID"})
		return
	}

	var req reassignStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid branch_id"})
		return
	}

	// Only holders of the STAFF role can carry a branch assignment;
	// reassigning a customer or admin would mint one out of nothing.
	isStaff, err := h.store.HasRole(r.Context(), database.HasRoleParams{
		UserID: userID,
		Role:   enum.RoleStaff,
	})
	if err != nil {
		log.Printf("ERROR: check staff role: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if !isStaff {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "staff member not found"})
		return
	}

	assignment, err := h.store.UpsertStaffAssignment(r.Context(), database.UpsertStaffAssignmentParams{
		UserID:   userID,
		BranchID: branchID,
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user or branch"})
			return
		}
		log.Printf("ERROR: reassign staff: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"user_id":   assignment.UserID.String(),
		"branch_id": assignment.BranchID.String(),
	})
}

// ListByBranch returns the staff assigned to a branch.
func (h *StaffHandler) ListByBranch(w http.ResponseWriter, r *http.Request) {
	branchID, err := uuid.Parse(chi.URLParam(r, "bid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid branch ID"})
		return
	}

	staff, err := h.store.ListStaffByBranch(r.Context(), branchID)
	if err != nil {
		log.Printf("ERROR: list staff: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]staffResponse, len(staff))
	for i, s := range staff {
		resp[i] = staffResponse{
			UserID:    s.UserID,
			Email:     s.Email,
			FullName:  s.FullName,
			BranchID:  branchID,
			CreatedAt: s.CreatedAt.Time,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
