package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/savora/api/internal/database"
)

// BranchStore defines the database methods needed by branch handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type BranchStore interface {
	ListBranches(ctx context.Context) ([]database.Branch, error)
	GetBranch(ctx context.Context, id uuid.UUID) (database.Branch, error)
	CreateBranch(ctx context.Context, arg database.CreateBranchParams) (database.Branch, error)
	UpdateBranch(ctx context.Context, arg database.UpdateBranchParams) (database.Branch, error)
}

// BranchHandler handles branch endpoints. Reads are public so customers can
// browse before signing in; writes are admin-only.
type BranchHandler struct {
	store BranchStore
}

func NewBranchHandler(store BranchStore) *BranchHandler {
	return &BranchHandler{store: store}
}

// RegisterPublicRoutes registers the read endpoints.
func (h *BranchHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/branches", h.List)
	r.Get("/branches/{bid}", h.Get)
}

// RegisterAdminRoutes registers the write endpoints, mounted behind the
// admin role check.
func (h *BranchHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/branches", h.Create)
	r.Put("/branches/{bid}", h.Update)
}

// --- Request / Response types ---

type branchRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	StaffCount int32  `json:"staff_count"`
}

type branchResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	Phone      string    `json:"phone"`
	StaffCount int32     `json:"staff_count"`
	CreatedAt  time.Time `json:"created_at"`
}

func toBranchResponse(b database.Branch) branchResponse {
	return branchResponse{
		ID:         b.ID,
		Name:       b.Name,
		Address:    b.Address,
		Phone:      b.Phone,
		StaffCount: b.StaffCount,
		CreatedAt:  b.CreatedAt,
	}
}

// --- Handlers ---

// List returns all active branches.
func (h *BranchHandler) List(w http.ResponseWriter, r *http.Request) {
	branches, err := h.store.ListBranches(r.Context())
	if err != nil {
		log.Printf("ERROR: list branches: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]branchResponse, len(branches))
	for i, b := range branches {
		resp[i] = toBranchResponse(b)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single branch by ID.
func (h *BranchHandler) Get(w http.ResponseWriter, r *http.Request) {
	branchID, err := uuid.Parse(chi.URLParam(r, "bid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid branch ID"})
		return
	}

	branch, err := h.store.GetBranch(r.Context(), branchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "branch not found"})
			return
		}
		log.Printf("ERROR: get branch: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toBranchResponse(branch))
}

// Create adds a new branch.
func (h *BranchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req branchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" || req.Address == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and address are required"})
		return
	}
	if req.StaffCount < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "staff_count must be >= 0"})
		return
	}

	branch, err := h.store.CreateBranch(r.Context(), database.CreateBranchParams{
		Name:       req.Name,
		Address:    req.Address,
		Phone:      req.Phone,
		StaffCount: req.StaffCount,
	})
	if err != nil {
		log.Printf("ERROR: create branch: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toBranchResponse(branch))
}

// Update modifies an existing branch.
func (h *BranchHandler) Update(w http.ResponseWriter, r *http.Request) {
	branchID, err := uuid.Parse(chi.URLParam(r, "bid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid branch ID"})
		return
	}

	var req branchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" || req.Address == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and address are required"})
		return
	}
	if req.StaffCount < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "staff_count must be >= 0"})
		return
	}

	branch, err := h.store.UpdateBranch(r.Context(), database.UpdateBranchParams{
		Name:       req.Name,
		Address:    req.Address,
		Phone:      req.Phone,
		StaffCount: req.StaffCount,
		ID:         branchID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "branch not found"})
			return
		}
		log.Printf("ERROR: update branch: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toBranchResponse(branch))
}
