package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/atithi-pos/api/internal/database"
	"github.com/atithi-pos/api/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// --- Mock store ---

type mockMenuStore struct {
	categories map[uuid.UUID]database.Category
	items      map[uuid.UUID]database.MenuItem
}

func newMockMenuStore() *mockMenuStore {
	return &mockMenuStore{
		categories: make(map[uuid.UUID]database.Category),
		items:      make(map[uuid.UUID]database.MenuItem),
	}
}

func (m *mockMenuStore) ListCategories(_ context.Context) ([]database.Category, error) {
	var result []database.Category
	for _, c := range m.categories {
		result = append(result, c)
	}
	return result, nil
}

func (m *mockMenuStore) GetCategoryByName(_ context.Context, name string) (database.Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return database.Category{}, pgx.ErrNoRows
}

func (m *mockMenuStore) CreateCategory(_ context.Context, name string) (database.Category, error) {
	c := database.Category{ID: uuid.New(), Name: name}
	m.categories[c.ID] = c
	return c, nil
}

func (m *mockMenuStore) ListMenuItems(_ context.Context) ([]database.ListMenuItemsRow, error) {
	var result []database.ListMenuItemsRow
	for _, item := range m.items {
		result = append(result, database.ListMenuItemsRow{
			ID:           item.ID,
			CategoryID:   item.CategoryID,
			Name:         item.Name,
			Price:        item.Price,
			Available:    item.Available,
			CategoryName: m.categories[item.CategoryID].Name,
		})
	}
	return result, nil
}

func (m *mockMenuStore) GetMenuItem(_ context.Context, id uuid.UUID) (database.MenuItem, error) {
	item, ok := m.items[id]
	if !ok {
		return database.MenuItem{}, pgx.ErrNoRows
	}
	return item, nil
}

func (m *mockMenuStore) CreateMenuItem(_ context.Context, arg database.CreateMenuItemParams) (database.MenuItem, error) {
	item := database.MenuItem{
		ID:         uuid.New(),
		CategoryID: arg.CategoryID,
		Name:       arg.Name,
		Price:      arg.Price,
		Available:  arg.Available,
	}
	m.items[item.ID] = item
	return item, nil
}

func (m *mockMenuStore) UpdateMenuItem(_ context.Context, arg database.UpdateMenuItemParams) (database.MenuItem, error) {
	item, ok := m.items[arg.ID]
	if !ok {
		return database.MenuItem{}, pgx.ErrNoRows
	}
	item.CategoryID = arg.CategoryID
	item.Name = arg.Name
	item.Price = arg.Price
	item.Available = arg.Available
	m.items[item.ID] = item
	return item, nil
}

func (m *mockMenuStore) DeleteMenuItem(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

func (m *mockMenuStore) addCategory(name string) database.Category {
	c := database.Category{ID: uuid.New(), Name: name}
	m.categories[c.ID] = c
	return c
}

func (m *mockMenuStore) addItem(categoryID uuid.UUID, name, price string, available bool) database.MenuItem {
	var p pgtype.Numeric
	_ = p.Scan(price)
	item := database.MenuItem{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Name:       name,
		Price:      p,
		Available:  available,
	}
	m.items[item.ID] = item
	return item
}

// --- Helpers ---

func setupMenuRouter(store *mockMenuStore) *chi.Mux {
	h := handler.NewMenuHandler(store)
	r := chi.NewRouter()
	r.Route("/menu", func(r chi.Router) {
		h.RegisterRoutes(r)
		h.RegisterManagerRoutes(r)
		h.RegisterAdminRoutes(r)
	})
	return r
}

// --- Category tests ---

func TestMenuListCategories(t *testing.T) {
	store := newMockMenuStore()
	store.addCategory("Starters")
	store.addCategory("Main Course")
	router := setupMenuRouter(store)

	rr := doRequest(t, router, "GET", "/menu/categories", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	resp := decodeListResponse(t, rr)
	if len(resp) != 2 {
		t.Errorf("expected 2 categories, got %d", len(resp))
	}
}

// --- Item tests ---

func TestMenuListItems(t *testing.T) {
	store := newMockMenuStore()
	cat := store.addCategory("Starters")
	store.addItem(cat.ID, "Paneer Tikka", "180.00", true)
	router := setupMenuRouter(store)

	rr := doRequest(t, router, "GET", "/menu/items", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	resp := decodeListResponse(t, rr)
	if len(resp) != 1 {
		t.Fatalf("expected 1 item, got %d", len(resp))
	}
	if resp[0]["name"] != "Paneer Tikka" {
		t.Errorf("name: got %v, want 'Paneer Tikka'", resp[0]["name"])
	}
	if resp[0]["category"] != "Starters" {
		t.Errorf("category: got %v, want Starters", resp[0]["category"])
	}
	if resp[0]["price"] != "180.00" {
		t.Errorf("price: got %v, want 180.00", resp[0]["price"])
	}
}

func TestMenuCreateItem_ExistingCategory(t *testing.T) {
	store := newMockMenuStore()
	store.addCategory("Starters")
	router := setupMenuRouter(store)

	rr := doRequest(t, router, "POST", "/menu/items", map[string]interface{}{
		"name":     "Veg Manchurian",
		"category": "Starters",
		"price":    "150",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["price"] != "150.00" {
		t.Errorf("price: got %v, want 150.00", resp["price"])
	}
	// Available defaults to true when omitted
	if resp["available"] != true {
		t.Errorf("available: got %v, want true", resp["available"])
	}
	if len(store.categories) != 1 {
		t.Errorf("expected no new category, store has %d", len(store.categories))
	}
}

func TestMenuCreateItem_CreatesCategoryOnTheFly(t *testing.T) {
	store := newMockMenuStore()
	router := setupMenuRouter(store)

	rr := doRequest(t, router, "POST", "/menu/items", map[string]interface{}{
		"name":     "Gulab Jamun",
		"category": "Desserts",
		"price":    "60",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["category"] != "Desserts" {
		t.Errorf("category: got %v, want Desserts", resp["category"])
	}
	if len(store.categories) != 1 {
		t.Errorf("expected the category to be created, store has %d", len(store.categories))
	}
}

func TestMenuCreateItem_NegativePrice(t *testing.T) {
	store := newMockMenuStore()
	router := setupMenuRouter(store)

	rr := doRequest(t, router, "POST", "/menu/items", map[string]interface{}{
		"name":     "Bad Dish",
		"category": "Starters",
		"price":    "-10",
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestMenuCreateItem_MissingFields(t *testing.T) {
	store := newMockMenuStore()
	router := setupMenuRouter(store)

	rr := doRequest(t, router, "POST", "/menu/items", map[string]interface{}{
		"price": "100",
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestMenuCreateItem_Unavailable(t *testing.T) {
	store := newMockMenuStore()
	router := setupMenuRouter(store)

	rr := doRequest(t, router, "POST", "/menu/items", map[string]interface{}{
		"name":      "Seasonal Special",
		"category":  "Main Course",
		"price":     "220",
		"available": false,
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["available"] != false {
		t.Errorf("available: got %v, want false", resp["available"])
	}
}

func TestMenuUpdateItem_Valid(t *testing.T) {
	store := newMockMenuStore()
	cat := store.addCategory("Starters")
	item := store.addItem(cat.ID, "Paneer Tikka", "180.00", true)
	router := setupMenuRouter(store)

	rr := doRequest(t, router, "PUT", "/menu/items/"+item.ID.String(), map[string]interface{}{
		"name":     "Paneer Tikka",
		"category": "Tandoor",
		"price":    "200",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["price"] != "200.00" {
		t.Errorf("price: got %v, want 200.00", resp["price"])
	}
	if resp["category"] != "Tandoor" {
		t.Errorf("category: got %v, want Tandoor (moved on rename)", resp["category"])
	}
}

func TestMenuUpdateItem_NotFound(t *testing.T) {
	store := newMockMenuStore()
	router := setupMenuRouter(store)

	rr := doRequest(t, router, "PUT", "/menu/items/"+uuid.NewString(), map[string]interface{}{
		"name":     "Ghost Dish",
		"category": "Starters",
		"price":    "100",
	})

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestMenuDeleteItem_Valid(t *testing.T) {
	store := newMockMenuStore()
	cat := store.addCategory("Starters")
	item := store.addItem(cat.ID, "Paneer Tikka", "180.00", true)
	router := setupMenuRouter(store)

	rr := doRequest(t, router, "DELETE", "/menu/items/"+item.ID.String(), nil)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNoContent)
	}
	if _, exists := store.items[item.ID]; exists {
		t.Error("expected item to be removed from store")
	}
}

func TestMenuDeleteItem_NotFound(t *testing.T) {
	store := newMockMenuStore()
	router := setupMenuRouter(store)

	rr := doRequest(t, router, "DELETE", "/menu/items/"+uuid.NewString(), nil)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}
