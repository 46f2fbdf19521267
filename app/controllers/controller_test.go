package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/vastra/app/controllers"
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/app/routes"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"github.com/shashiranjanraj/vastra/pkg/database"
	"github.com/shashiranjanraj/vastra/pkg/orm"
	"github.com/shashiranjanraj/vastra/pkg/router"
)

// testApp is the whole HTTP stack over an in-memory database.
type testApp struct {
	db     *orm.DB
	server *httptest.Server
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gormDB, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(gormDB) })

	require.NoError(t, gormDB.AutoMigrate(
		&models.User{}, &models.Item{}, &models.CartLine{},
		&models.Order{}, &models.OrderDetail{},
	))

	db := orm.New(gormDB)
	users := repositories.NewUserRepository(db)
	items := repositories.NewItemRepository(db)
	carts := repositories.NewCartRepository(db)
	orders := repositories.NewOrderRepository(db)

	r := router.New()
	routes.RegisterAPI(r, routes.Controllers{
		Auth:  controllers.NewAuthController(services.NewAuthService(users)),
		Cart:  controllers.NewCartController(services.NewCartService(carts, items)),
		Order: controllers.NewOrderController(services.NewOrderService(db, carts, orders, items), services.NewHistoryService(orders)),
		Item:  controllers.NewItemController(services.NewItemService(items)),
	})

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)

	return &testApp{db: db, server: srv}
}

func (a *testApp) seedItem(t *testing.T, name string, price int64) models.Item {
	t.Helper()
	item := models.Item{Name: name, Price: price, Photo: "/photos/" + name + ".jpg", Category: "test"}
	require.NoError(t, a.db.Create(&item))
	return item
}

// token signs a JWT the way the login endpoint would.
func token(t *testing.T, userID uint, role string) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, role)
	require.NoError(t, err)
	return tok
}

// do sends a JSON request and decodes the envelope.
func (a *testApp) do(t *testing.T, method, path, bearer string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, a.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	res, err := a.server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return res.StatusCode, out
}

func TestCartAddCreatesThenMerges(t *testing.T) {
	app := newTestApp(t)
	item := app.seedItem(t, "kurta", 129900)
	bearer := token(t, 1, "user")

	payload := map[string]interface{}{"userId": 1, "itemId": item.ID, "qty": 2}

	status, body := app.do(t, http.MethodPost, "/api/cart", bearer, payload)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "item added to cart", body["message"])

	status, body = app.do(t, http.MethodPost, "/api/cart", bearer, payload)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "quantity updated", body["message"])

	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 4, data["qty"])
}

func TestCartRequiresToken(t *testing.T) {
	app := newTestApp(t)
	item := app.seedItem(t, "saree", 549900)

	status, _ := app.do(t, http.MethodPost, "/api/cart", "", map[string]interface{}{
		"userId": 1, "itemId": item.ID, "qty": 1,
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCartForbidsOtherUsers(t *testing.T) {
	app := newTestApp(t)
	item := app.seedItem(t, "saree", 549900)

	// User 2's token cannot touch user 1's cart.
	status, _ := app.do(t, http.MethodPost, "/api/cart", token(t, 2, "user"), map[string]interface{}{
		"userId": 1, "itemId": item.ID, "qty": 1,
	})
	assert.Equal(t, http.StatusForbidden, status)

	// An admin token can.
	status, _ = app.do(t, http.MethodPost, "/api/cart", token(t, 2, "admin"), map[string]interface{}{
		"userId": 1, "itemId": item.ID, "qty": 1,
	})
	assert.Equal(t, http.StatusCreated, status)
}

func TestCartValidation(t *testing.T) {
	app := newTestApp(t)
	item := app.seedItem(t, "kurta", 129900)

	status, body := app.do(t, http.MethodPost, "/api/cart", token(t, 1, "user"), map[string]interface{}{
		"userId": 1, "itemId": item.ID, "qty": 0,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "validation", body["kind"])
}

func TestCartListEmptyIs404(t *testing.T) {
	app := newTestApp(t)

	status, body := app.do(t, http.MethodGet, "/api/cart/1", token(t, 1, "user"), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", body["kind"])
}

func TestCartUpdateAndRemove(t *testing.T) {
	app := newTestApp(t)
	item := app.seedItem(t, "dupatta", 89900)
	bearer := token(t, 1, "user")

	app.do(t, http.MethodPost, "/api/cart", bearer, map[string]interface{}{
		"userId": 1, "itemId": item.ID, "qty": 1,
	})

	path := fmt.Sprintf("/api/cart/1/%d", item.ID)

	status, _ := app.do(t, http.MethodPut, path, bearer, map[string]interface{}{"qty": 3})
	assert.Equal(t, http.StatusOK, status)

	status, _ = app.do(t, http.MethodDelete, path, bearer, nil)
	assert.Equal(t, http.StatusOK, status)

	// Nothing left to update.
	status, body := app.do(t, http.MethodPut, path, bearer, map[string]interface{}{"qty": 3})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", body["kind"])
}

func TestPlaceOrderEmptyCartIs400(t *testing.T) {
	app := newTestApp(t)

	status, body := app.do(t, http.MethodPost, "/api/orders", token(t, 1, "user"), map[string]interface{}{
		"userId": 1,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_state", body["kind"])
}

func TestHistoryEmptyIs200WithEmptyArray(t *testing.T) {
	app := newTestApp(t)

	status, body := app.do(t, http.MethodGet, "/api/orders/1", token(t, 1, "user"), nil)
	assert.Equal(t, http.StatusOK, status)

	data, ok := body["data"].([]interface{})
	if ok {
		assert.Empty(t, data)
	}
}

// TestShoppingFlow walks the whole journey: fill the cart, place the
// order, read it back from history, and check the cart retired.
func TestShoppingFlow(t *testing.T) {
	app := newTestApp(t)
	saree := app.seedItem(t, "saree", 549900)
	kurta := app.seedItem(t, "kurta", 129900)
	bearer := token(t, 1, "user")

	for _, p := range []map[string]interface{}{
		{"userId": 1, "itemId": saree.ID, "qty": 1},
		{"userId": 1, "itemId": kurta.ID, "qty": 2},
	} {
		status, _ := app.do(t, http.MethodPost, "/api/cart", bearer, p)
		require.Equal(t, http.StatusCreated, status)
	}

	status, body := app.do(t, http.MethodGet, "/api/cart/1", bearer, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["data"].([]interface{}), 2)

	status, body = app.do(t, http.MethodPost, "/api/orders", bearer, map[string]interface{}{"userId": 1})
	require.Equal(t, http.StatusCreated, status)
	order := body["data"].(map[string]interface{})
	assert.Equal(t, "confirmed", order["status"])

	// Cart is empty now.
	status, _ = app.do(t, http.MethodGet, "/api/cart/1", bearer, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// History carries the numbered order with joined names and exact totals.
	status, body = app.do(t, http.MethodGet, "/api/orders/1", bearer, nil)
	require.Equal(t, http.StatusOK, status)

	history := body["data"].([]interface{})
	require.Len(t, history, 1)

	entry := history[0].(map[string]interface{})
	assert.Equal(t, "confirmed", entry["status"])
	assert.Regexp(t, `^\d+001$`, entry["orderNumber"])

	details := entry["orderDetails"].([]interface{})
	require.Len(t, details, 2)

	var total float64
	names := map[string]bool{}
	for _, d := range details {
		detail := d.(map[string]interface{})
		names[detail["name"].(string)] = true
		total += detail["totalCost"].(float64)
	}
	assert.True(t, names["saree"])
	assert.True(t, names["kurta"])
	assert.EqualValues(t, 549900+2*129900, total)
}

func TestItemsPublicReadAndAdminWrite(t *testing.T) {
	app := newTestApp(t)
	app.seedItem(t, "juttis", 159900)

	// Reads are public.
	status, body := app.do(t, http.MethodGet, "/api/items", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["data"])

	payload := map[string]interface{}{"name": "Linen Shirt", "price": 179900, "category": "shirts"}

	// Writes need the admin role.
	status, _ = app.do(t, http.MethodPost, "/api/items", token(t, 1, "user"), payload)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = app.do(t, http.MethodPost, "/api/items", token(t, 1, "admin"), payload)
	assert.Equal(t, http.StatusCreated, status)
}

func TestRegisterAndLogin(t *testing.T) {
	app := newTestApp(t)

	status, _ := app.do(t, http.MethodPost, "/api/register", "", map[string]interface{}{
		"name": "Meera", "email": "meera@example.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, status)

	// Duplicate email rejected.
	status, _ = app.do(t, http.MethodPost, "/api/register", "", map[string]interface{}{
		"name": "Meera", "email": "meera@example.com", "password": "s3cret-pass",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := app.do(t, http.MethodPost, "/api/login", "", map[string]interface{}{
		"email": "meera@example.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["data"].(map[string]interface{})["token"])

	status, _ = app.do(t, http.MethodPost, "/api/login", "", map[string]interface{}{
		"email": "meera@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}
