package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/savora/api/internal/database"
	"github.com/savora/api/internal/handler"
)

type mockMenuStore struct {
	listMenuCategoriesFn      func(ctx context.Context) ([]database.MenuCategory, error)
	createMenuCategoryFn      func(ctx context.Context, arg database.CreateMenuCategoryParams) (database.MenuCategory, error)
	updateMenuCategoryFn      func(ctx context.Context, arg database.UpdateMenuCategoryParams) (database.MenuCategory, error)
	softDeleteMenuCategoryFn  func(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	listMenuByBranchFn        func(ctx context.Context, branchID uuid.UUID) ([]database.MenuItem, error)
	getMenuItemFn             func(ctx context.Context, arg database.GetMenuItemParams) (database.MenuItem, error)
	createMenuItemFn          func(ctx context.Context, arg database.CreateMenuItemParams) (database.MenuItem, error)
	updateMenuItemFn          func(ctx context.Context, arg database.UpdateMenuItemParams) (database.MenuItem, error)
	setMenuItemAvailabilityFn func(ctx context.Context, arg database.SetMenuItemAvailabilityParams) (database.MenuItem, error)
	softDeleteMenuItemFn      func(ctx context.Context, arg database.SoftDeleteMenuItemParams) (uuid.UUID, error)
}

func (m *mockMenuStore) ListMenuCategories(ctx context.Context) ([]database.MenuCategory, error) {
	if m.listMenuCategoriesFn != nil {
		return m.listMenuCategoriesFn(ctx)
	}
	return nil, nil
}

func (m *mockMenuStore) CreateMenuCategory(ctx context.Context, arg database.CreateMenuCategoryParams) (database.MenuCategory, error) {
	if m.createMenuCategoryFn != nil {
		return m.createMenuCategoryFn(ctx, arg)
	}
	return database.MenuCategory{}, pgx.ErrNoRows
}

func (m *mockMenuStore) UpdateMenuCategory(ctx context.Context, arg database.UpdateMenuCategoryParams) (database.MenuCategory, error) {
	if m.updateMenuCategoryFn != nil {
		return m.updateMenuCategoryFn(ctx, arg)
	}
	return database.MenuCategory{}, pgx.ErrNoRows
}

func (m *mockMenuStore) SoftDeleteMenuCategory(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	if m.softDeleteMenuCategoryFn != nil {
		return m.softDeleteMenuCategoryFn(ctx, id)
	}
	return uuid.Nil, pgx.ErrNoRows
}

func (m *mockMenuStore) ListMenuByBranch(ctx context.Context, branchID uuid.UUID) ([]database.MenuItem, error) {
	if m.listMenuByBranchFn != nil {
		return m.listMenuByBranchFn(ctx, branchID)
	}
	return nil, nil
}

func (m *mockMenuStore) GetMenuItem(ctx context.Context, arg database.GetMenuItemParams) (database.MenuItem, error) {
	if m.getMenuItemFn != nil {
		return m.getMenuItemFn(ctx, arg)
	}
	return database.MenuItem{}, pgx.ErrNoRows
}

func (m *mockMenuStore) CreateMenuItem(ctx context.Context, arg database.CreateMenuItemParams) (database.MenuItem, error) {
	if m.createMenuItemFn != nil {
		return m.createMenuItemFn(ctx, arg)
	}
	return database.MenuItem{}, pgx.ErrNoRows
}

func (m *mockMenuStore) UpdateMenuItem(ctx context.Context, arg database.UpdateMenuItemParams) (database.MenuItem, error) {
	if m.updateMenuItemFn != nil {
		return m.updateMenuItemFn(ctx, arg)
	}
	return database.MenuItem{}, pgx.ErrNoRows
}

func (m *mockMenuStore) SetMenuItemAvailability(ctx context.Context, arg database.SetMenuItemAvailabilityParams) (database.MenuItem, error) {
	if m.setMenuItemAvailabilityFn != nil {
		return m.setMenuItemAvailabilityFn(ctx, arg)
	}
	return database.MenuItem{}, pgx.ErrNoRows
}

func (m *mockMenuStore) SoftDeleteMenuItem(ctx context.Context, arg database.SoftDeleteMenuItemParams) (uuid.UUID, error) {
	if m.softDeleteMenuItemFn != nil {
		return m.softDeleteMenuItemFn(ctx, arg)
	}
	return uuid.Nil, pgx.ErrNoRows
}

func setupMenuRouter(store *mockMenuStore) *chi.Mux {
	h := handler.NewMenuHandler(store)
	r := chi.NewRouter()
	h.RegisterPublicRoutes(r)
	h.RegisterAdminRoutes(r)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestListMenu(t *testing.T) {
	branchID := uuid.New()
	store := &mockMenuStore{
		listMenuByBranchFn: func(ctx context.Context, bid uuid.UUID) ([]database.MenuItem, error) {
			if bid != branchID {
				t.Errorf("branch scope: got %v, want %v", bid, branchID)
			}
			return []database.MenuItem{
				{ID: uuid.New(), BranchID: bid, Name: "Classic Burger",
					Price: moneyNumeric(t, "8.99"), IsAvailable: true},
			}, nil
		},
	}
	router := setupMenuRouter(store)

	rr := doJSON(t, router, "GET", "/branches/"+branchID.String()+"/menu", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d: %s", rr.Code, rr.Body.String())
	}

	var resp []struct {
		Name  string `json:"name"`
		Price string `json:"price"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp) != 1 || resp[0].Price != "8.99" {
		t.Errorf("menu: %+v", resp)
	}
}

func TestCreateMenuItem(t *testing.T) {
	branchID := uuid.New()
	categoryID := uuid.New()

	store := &mockMenuStore{
		createMenuItemFn: func(ctx context.Context, arg database.CreateMenuItemParams) (database.MenuItem, error) {
			if arg.BranchID != branchID {
				t.Errorf("branch: got %v, want %v", arg.BranchID, branchID)
			}
			return database.MenuItem{ID: uuid.New(), BranchID: arg.BranchID,
				CategoryID: arg.CategoryID, Name: arg.Name, Price: arg.Price,
				IsAvailable: true}, nil
		},
	}
	router := setupMenuRouter(store)

	rr := doJSON(t, router, "POST", "/branches/"+branchID.String()+"/menu", map[string]string{
		"category_id": categoryID.String(),
		"name":        "Classic Burger",
		"price":       "8.99",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCreateMenuItem_NegativePrice(t *testing.T) {
	router := setupMenuRouter(&mockMenuStore{})

	rr := doJSON(t, router, "POST", "/branches/"+uuid.New().String()+"/menu", map[string]string{
		"category_id": uuid.New().String(),
		"name":        "Classic Burger",
		"price":       "-1.00",
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestSetAvailability(t *testing.T) {
	branchID := uuid.New()
	itemID := uuid.New()

	store := &mockMenuStore{
		setMenuItemAvailabilityFn: func(ctx context.Context, arg database.SetMenuItemAvailabilityParams) (database.MenuItem, error) {
			if arg.IsAvailable {
				t.Error("expected is_available=false")
			}
			return database.MenuItem{ID: arg.ID, BranchID: arg.BranchID,
				Price: moneyNumeric(t, "8.99"), IsAvailable: arg.IsAvailable}, nil
		},
	}
	router := setupMenuRouter(store)

	rr := doJSON(t, router, "PATCH",
		"/branches/"+branchID.String()+"/menu/"+itemID.String()+"/availability",
		map[string]bool{"is_available": false})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestSetAvailability_MissingField(t *testing.T) {
	router := setupMenuRouter(&mockMenuStore{})

	rr := doJSON(t, router, "PATCH",
		"/branches/"+uuid.New().String()+"/menu/"+uuid.New().String()+"/availability",
		map[string]string{})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestDeleteMenuItem_NotFound(t *testing.T) {
	router := setupMenuRouter(&mockMenuStore{})

	rr := doJSON(t, router, "DELETE",
		"/branches/"+uuid.New().String()+"/menu/"+uuid.New().String(), nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	categoryID := uuid.New()
	store := &mockMenuStore{
		createMenuCategoryFn: func(ctx context.Context, arg database.CreateMenuCategoryParams) (database.MenuCategory, error) {
			return database.MenuCategory{ID: categoryID, Name: arg.Name, SortOrder: arg.SortOrder}, nil
		},
		updateMenuCategoryFn: func(ctx context.Context, arg database.UpdateMenuCategoryParams) (database.MenuCategory, error) {
			return database.MenuCategory{ID: arg.ID, Name: arg.Name, SortOrder: arg.SortOrder}, nil
		},
		softDeleteMenuCategoryFn: func(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
			return id, nil
		},
	}
	router := setupMenuRouter(store)

	rr := doJSON(t, router, "POST", "/menu-categories", map[string]interface{}{
		"name": "Burgers", "sort_order": 1,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got %d: %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, router, "PUT", "/menu-categories/"+categoryID.String(), map[string]interface{}{
		"name": "Burgers & Sandwiches", "sort_order": 2,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("update: got %d: %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, router, "DELETE", "/menu-categories/"+categoryID.String(), nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete: got %d: %s", rr.Code, rr.Body.String())
	}
}
