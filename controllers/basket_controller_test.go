package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"basket-service/controllers"
	"basket-service/database"
	"basket-service/middleware"
	"basket-service/models"
	"basket-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- In-memory cart store with a fixed catalog ---

type stubCartRepository struct {
	mu      sync.Mutex
	feed    *database.Changefeed
	catalog map[string]models.Product
	items   []*models.CartItem
	nextID  uint
}

func newStubCartRepository(feed *database.Changefeed) *stubCartRepository {
	return &stubCartRepository{
		feed: feed,
		catalog: map[string]models.Product{
			"p1": {ID: "p1", Name: "One", Price: 10.0, Category: "General"},
			"p2": {ID: "p2", Name: "Two", Price: 5.0, Category: "General"},
		},
		nextID: 1,
	}
}

func (s *stubCartRepository) GetItem(_ context.Context, userID, productID string) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.UserID == userID && it.ProductID == productID {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubCartRepository) InsertItem(_ context.Context, item *models.CartItem) error {
	s.mu.Lock()
	item.ID = s.nextID
	s.nextID++
	cp := *item
	s.items = append(s.items, &cp)
	s.mu.Unlock()
	s.feed.Publish(database.Event{Table: "cart_items", UserID: item.UserID})
	return nil
}

func (s *stubCartRepository) UpdateItem(_ context.Context, item *models.CartItem) error {
	s.mu.Lock()
	for i, it := range s.items {
		if it.ID == item.ID {
			cp := *item
			s.items[i] = &cp
		}
	}
	s.mu.Unlock()
	s.feed.Publish(database.Event{Table: "cart_items", UserID: item.UserID})
	return nil
}

func (s *stubCartRepository) DeleteItem(_ context.Context, userID, productID string) error {
	s.mu.Lock()
	kept := s.items[:0]
	for _, it := range s.items {
		if !(it.UserID == userID && it.ProductID == productID) {
			kept = append(kept, it)
		}
	}
	s.items = kept
	s.mu.Unlock()
	s.feed.Publish(database.Event{Table: "cart_items", UserID: userID})
	return nil
}

func (s *stubCartRepository) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	kept := s.items[:0]
	for _, it := range s.items {
		if it.UserID != userID {
			kept = append(kept, it)
		}
	}
	s.items = kept
	s.mu.Unlock()
	s.feed.Publish(database.Event{Table: "cart_items", UserID: userID})
	return nil
}

func (s *stubCartRepository) GetItems(_ context.Context, userID string) ([]models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.CartItem
	for _, it := range s.items {
		if it.UserID == userID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (s *stubCartRepository) GetItemsWithProducts(_ context.Context, userID string) ([]models.CartItemWithProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.CartItemWithProduct
	for _, it := range s.items {
		if it.UserID != userID {
			continue
		}
		p, ok := s.catalog[it.ProductID]
		if !ok {
			continue
		}
		out = append(out, models.CartItemWithProduct{
			CartItemID:   it.ID,
			UserID:       it.UserID,
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			ProductName:  p.Name,
			ProductPrice: p.Price,
		})
	}
	return out, nil
}

func setupRouter(t *testing.T) (*gin.Engine, *services.BasketService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	feed := database.NewChangefeed()
	repo := newStubCartRepository(feed)
	baskets := services.NewBasketService(repo, feed, zap.NewNop())
	t.Cleanup(baskets.Close)
	checkout := services.NewCheckoutService(nil, 0, zap.NewNop())

	bc := controllers.NewBasketController(baskets, checkout, zap.NewNop())

	r := gin.New()
	api := r.Group("/")
	api.Use(middleware.AuthMiddleware(""))
	api.GET("/cart", bc.GetCart)
	api.POST("/cart/items", bc.AddItem)
	api.PUT("/cart/items/:product_id", bc.SetQuantity)
	api.DELETE("/cart/items/:product_id", bc.RemoveItem)
	api.DELETE("/cart", bc.ClearCart)
	api.POST("/cart/checkout", bc.Checkout)
	return r, baskets
}

func doRequest(r *gin.Engine, method, path, userID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAddItemReturnsSnapshot(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodPost, "/cart/items", "u1", models.AddItemRequest{ProductID: "p1", Quantity: 2})
	require.Equal(t, http.StatusOK, w.Code)

	var snap models.CartSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].Quantity)
	assert.Equal(t, 20.0, snap.TotalPrice)
}

func TestAddItemMergesAcrossRequests(t *testing.T) {
	r, _ := setupRouter(t)

	doRequest(r, http.MethodPost, "/cart/items", "u1", models.AddItemRequest{ProductID: "p1", Quantity: 1})
	w := doRequest(r, http.MethodPost, "/cart/items", "u1", models.AddItemRequest{ProductID: "p1", Quantity: 1})
	require.Equal(t, http.StatusOK, w.Code)

	var snap models.CartSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].Quantity)
}

func TestAddItemRejectsInvalidPayload(t *testing.T) {
	r, _ := setupRouter(t)

	// Binding enforces min=1; zero quantity never reaches the aggregator.
	w := doRequest(r, http.MethodPost, "/cart/items", "u1", map[string]any{"product_id": "p1", "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodGet, "/cart", "u1", nil)
	var snap models.CartSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Empty(t, snap.Items)
}

func TestCartRequiresAuthentication(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodGet, "/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	r, _ := setupRouter(t)

	doRequest(r, http.MethodPost, "/cart/items", "u1", models.AddItemRequest{ProductID: "p2", Quantity: 3})
	w := doRequest(r, http.MethodPut, "/cart/items/p2", "u1", models.SetQuantityRequest{Quantity: 0})
	require.Equal(t, http.StatusOK, w.Code)

	var snap models.CartSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Empty(t, snap.Items)
	assert.Equal(t, 0.0, snap.TotalPrice)
}

func TestRemoveAbsentLineIsOK(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodDelete, "/cart/items/p1", "u1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	r, _ := setupRouter(t)

	doRequest(r, http.MethodPost, "/cart/items", "userA", models.AddItemRequest{ProductID: "p1", Quantity: 1})
	w := doRequest(r, http.MethodGet, "/cart", "userB", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var snap models.CartSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Empty(t, snap.Items, "user B must not see user A's lines")
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodPost, "/cart/checkout", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutClearsCart(t *testing.T) {
	r, _ := setupRouter(t)

	doRequest(r, http.MethodPost, "/cart/items", "u1", models.AddItemRequest{ProductID: "p1", Quantity: 2})
	w := doRequest(r, http.MethodPost, "/cart/checkout", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["order_id"])
	assert.Equal(t, 20.0, resp["total"])

	w = doRequest(r, http.MethodGet, "/cart", "u1", nil)
	var snap models.CartSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Empty(t, snap.Items)
}
