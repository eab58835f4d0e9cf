package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/01moynul/cartify-golang/internal/auth"
	"github.com/01moynul/cartify-golang/internal/handlers"
	"github.com/01moynul/cartify-golang/internal/services"
	"github.com/01moynul/cartify-golang/internal/store/memstore"
)

type apiClient struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := memstore.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	h := &handlers.Handlers{
		Accounts: services.NewAccountService(st, auth.NewBcryptHasher(bcrypt.MinCost), tokens),
		Catalog:  services.NewCatalogService(st),
		Carts:    services.NewCartService(st, st),
		Log:      log,
	}
	router := SetupRouter(h, Options{Tokens: tokens, CORSOrigins: []string{"*"}, Log: log})
	return &apiClient{t: t, router: router}
}

func (a *apiClient) do(method, path string, body any, headers ...string) (int, map[string]any) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			reader = bytes.NewBufferString(s)
		} else {
			b, err := json.Marshal(body)
			require.NoError(a.t, err)
			reader = bytes.NewReader(b)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func (a *apiClient) signup(email string) {
	a.t.Helper()
	code, body := a.do(http.MethodPost, "/api/auth/signup", gin.H{"email": email, "name": "Shopper", "password": "secret1"})
	require.Equal(a.t, http.StatusCreated, code, body)
	a.token = body["token"].(string)
}

func (a *apiClient) createItem(title string, price float64, extra ...gin.H) string {
	a.t.Helper()
	payload := gin.H{"title": title, "price": price}
	for _, e := range extra {
		for k, v := range e {
			payload[k] = v
		}
	}
	code, body := a.do(http.MethodPost, "/api/items", payload)
	require.Equal(a.t, http.StatusCreated, code, body)
	return body["id"].(string)
}

func TestHealth(t *testing.T) {
	api := newAPI(t)
	code, body := api.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["ok"])
}

func TestAuthFlow(t *testing.T) {
	api := newAPI(t)

	code, body := api.do(http.MethodPost, "/api/auth/signup", gin.H{"email": "A@Example.com", "name": "Ann", "password": "secret1"})
	require.Equal(t, http.StatusCreated, code)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "a@example.com", user["email"])
	assert.NotContains(t, user, "passwordHash")

	code, body = api.do(http.MethodPost, "/api/auth/signup", gin.H{"email": "a@example.com", "name": "Ann", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, code)
	assert.NotEmpty(t, body["error"])

	code, body = api.do(http.MethodPost, "/api/auth/signup", gin.H{"email": "b@example.com"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Missing fields", body["error"])

	code, _ = api.do(http.MethodPost, "/api/auth/login", gin.H{"email": "a@example.com", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = api.do(http.MethodPost, "/api/auth/login", gin.H{"email": "A@EXAMPLE.COM", "password": "secret1"})
	require.Equal(t, http.StatusOK, code)
	api.token = body["token"].(string)

	code, body = api.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, code)
	me := body["user"].(map[string]any)
	assert.Equal(t, "Ann", me["name"])

	api.token = ""
	code, body = api.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Missing token", body["error"])
}

func TestItemEndpoints(t *testing.T) {
	api := newAPI(t)

	code, _ := api.do(http.MethodPost, "/api/items", gin.H{"title": "Pen", "price": 1})
	assert.Equal(t, http.StatusUnauthorized, code, "writes need a session")

	api.signup("seller@example.com")
	penID := api.createItem("Pen", 5)
	api.createItem("Notebook", 10, gin.H{"category": "Office"})
	lampID := api.createItem("Desk Lamp", 15, gin.H{"translations": gin.H{"hi": gin.H{"title": "डेस्क लैंप"}}})
	api.createItem("Chair", 20)

	code, body := api.do(http.MethodPost, "/api/items", gin.H{"title": "Free", "price": -1})
	assert.Equal(t, http.StatusBadRequest, code, body)

	code, body = api.do(http.MethodPost, "/api/items", gin.H{"title": "Gum", "price": 1.999})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Price must have at most 2 decimal places", body["error"])

	code, body = api.do(http.MethodPost, "/api/items", gin.H{"title": "Gum", "price": 1, "category": strings.Repeat("c", 101)})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Category must be at most 100 characters", body["error"])

	api.token = ""

	code, body = api.do(http.MethodGet, "/api/items?minPrice=10&maxPrice=20", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3, body["total"])
	assert.EqualValues(t, 1, body["page"])
	assert.EqualValues(t, 1, body["pages"])

	code, body = api.do(http.MethodGet, "/api/items?limit=2&page=2", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["items"], 2)
	assert.EqualValues(t, 2, body["pages"])

	code, body = api.do(http.MethodGet, "/api/items?page=4611686018427387904&limit=4", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["items"])
	assert.EqualValues(t, 4, body["total"])

	code, body = api.do(http.MethodGet, "/api/items/"+lampID, nil, "Accept-Language", "hi-IN")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "डेस्क लैंप", body["title"])

	code, _ = api.do(http.MethodGet, "/api/items/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	api.signup("editor@example.com")
	code, body = api.do(http.MethodPut, "/api/items/"+penID, gin.H{"price": 6.5})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 6.5, body["price"])
	assert.Equal(t, "Pen", body["title"])

	code, body = api.do(http.MethodDelete, "/api/items/"+penID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Item deleted", body["message"])

	code, _ = api.do(http.MethodGet, "/api/items/"+penID, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCartEndpoints(t *testing.T) {
	api := newAPI(t)

	code, _ := api.do(http.MethodGet, "/api/cart", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	api.signup("buyer@example.com")
	mugID := api.createItem("Mug", 4.25)
	teaID := api.createItem("Tea", 2)

	code, body := api.do(http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["items"])
	assert.EqualValues(t, 0, body["total"])

	code, body = api.do(http.MethodPost, "/api/cart/add", gin.H{"itemId": mugID, "quantity": 2})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])

	code, _ = api.do(http.MethodPost, "/api/cart/add", gin.H{"itemId": mugID, "quantity": "3"})
	require.Equal(t, http.StatusOK, code)

	code, _ = api.do(http.MethodPost, "/api/cart/add", gin.H{"itemId": teaID, "quantity": "lots"})
	require.Equal(t, http.StatusOK, code)

	code, body = api.do(http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, code)
	items := body["items"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.EqualValues(t, 5, first["quantity"])
	assert.Equal(t, "Mug", first["product"].(map[string]any)["title"])
	assert.Equal(t, 23.25, body["total"])

	code, _ = api.do(http.MethodPost, "/api/cart/add", gin.H{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, code, "itemId is required")

	code, _ = api.do(http.MethodPost, "/api/cart/add", gin.H{"itemId": "6f1c3a52-0000-4000-8000-000000000000"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = api.do(http.MethodPost, "/api/cart/update", gin.H{"itemId": mugID, "quantity": 1.5})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.do(http.MethodPost, "/api/cart/update", gin.H{"itemId": mugID})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.do(http.MethodPost, "/api/cart/update", gin.H{"itemId": mugID, "quantity": 0})
	require.Equal(t, http.StatusOK, code)

	code, body = api.do(http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["items"], 1)
	assert.EqualValues(t, 2, body["total"])

	code, _ = api.do(http.MethodPost, "/api/cart/update", gin.H{"itemId": mugID, "quantity": 4})
	assert.Equal(t, http.StatusNotFound, code, "mug is no longer in the cart")

	code, _ = api.do(http.MethodPost, "/api/cart/remove", gin.H{"itemId": mugID})
	assert.Equal(t, http.StatusOK, code, "removing an absent line succeeds")

	code, body = api.do(http.MethodPost, "/api/cart/clear", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Cart cleared", body["message"])

	code, body = api.do(http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["items"])
}

func TestCartsAreScopedToCaller(t *testing.T) {
	api := newAPI(t)

	api.signup("one@example.com")
	itemID := api.createItem("Pen", 1)
	code, _ := api.do(http.MethodPost, "/api/cart/add", gin.H{"itemId": itemID, "quantity": 3})
	require.Equal(t, http.StatusOK, code)

	api.signup("two@example.com")
	code, body := api.do(http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["items"])
}

func TestRequestIDHeader(t *testing.T) {
	api := newAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}
