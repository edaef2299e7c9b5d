package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurant-inventory-api/internal/application/analytics"
	"github.com/jhoicas/restaurant-inventory-api/internal/application/dto"
	"github.com/jhoicas/restaurant-inventory-api/internal/application/inventory"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain"
	domaininv "github.com/jhoicas/restaurant-inventory-api/internal/domain/inventory"
	"github.com/jhoicas/restaurant-inventory-api/internal/infrastructure/cache"
	"github.com/jhoicas/restaurant-inventory-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/restaurant-inventory-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// newMemoryApp arma la API completa sobre el store en memoria.
func newMemoryApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	metricsCache := cache.NewMetricsCache(cache.DefaultSize, 0)
	policy := domaininv.NewAvailabilityPolicy(domaininv.DefaultLowStockThreshold)

	engine := inventory.NewRegisterMovementUseCase(store, inventory.DefaultMovementPolicy(),
		inventory.WithInvalidator(metricsCache))
	items := inventory.NewItemUseCase(store, store.ItemRepository(), inventory.WithInvalidator(metricsCache))
	report := analytics.NewReportUseCase(store.ItemRepository(), store.MovementRepository(), policy)
	metrics := analytics.NewMetricsUseCase(store.ItemRepository(), store.AnalyticsRepository(), policy, metricsCache, nil)

	return apphttp.NewApp(apphttp.RouterDeps{
		AppName:   "test",
		Movements: engine,
		Reports:   report,
		Items:     items,
		Metrics:   metrics,
		JWTSecret: testJWTSecret,
		JWTIssuer: testIssuer,
	})
}

func call(t *testing.T, app *fiber.App, method, path, auth, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeError(t *testing.T, raw []byte) dto.ErrorResponse {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e), string(raw))
	return e
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo sobre memoria
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_FlujoTomate(t *testing.T) {
	app := newMemoryApp(t)
	auth := bearer(t, testRestaurantID, testTTL)

	resp, raw := call(t, app, http.MethodPost, "/api/add_item", auth,
		`{"name":"Tomate","category":"Vegetable","quantity":10}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var item dto.ItemResponse
	require.NoError(t, json.Unmarshal(raw, &item))
	assert.Equal(t, int64(10), item.Quantity)
	assert.Equal(t, testRestaurantID, item.RestaurantID)

	resp, raw = call(t, app, http.MethodPost, "/api/movement", auth,
		`{"itemId":`+jsonInt(item.ID)+`,"type":"OUT","quantity":4,"destination":"KITCHEN"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var mov dto.MovementResponse
	require.NoError(t, json.Unmarshal(raw, &mov))
	assert.Equal(t, "OUT", mov.Type)
	assert.Equal(t, int64(4), mov.Quantity)

	// Salida mayor al stock: 409 y la cantidad no cambia
	resp, raw = call(t, app, http.MethodPost, "/api/movement", auth,
		`{"itemId":`+jsonInt(item.ID)+`,"type":"OUT","quantity":7}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	e := decodeError(t, raw)
	assert.Equal(t, apphttp.CodeInsufficientStock, e.Code)
	assert.Equal(t, "insufficient stock for this operation", e.Error)
	assert.Equal(t, http.StatusConflict, e.Status)

	resp, raw = call(t, app, http.MethodGet, "/api/inventory_items/"+jsonInt(item.ID), auth, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &item))
	assert.Equal(t, int64(6), item.Quantity)

	resp, raw = call(t, app, http.MethodGet, "/api/movements?status=OUT&produto=tom", auth, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var views []dto.MovementViewDTO
	require.NoError(t, json.Unmarshal(raw, &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Tomate", views[0].ItemName)
	assert.Equal(t, "KITCHEN", views[0].Destination)
	assert.Equal(t, domaininv.StatusLowStock, views[0].Availability.Status)

	resp, raw = call(t, app, http.MethodGet, "/api/inventory_items/"+jsonInt(item.ID)+"/movements", auth, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &views))
	assert.Len(t, views, 2, "entrada inicial y una salida")

	resp, raw = call(t, app, http.MethodGet, "/api/metrics", auth, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var m dto.MetricsDTO
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, 1, m.TotalProducts)
	assert.Equal(t, dto.ExitMetricDTO{Name: "Tomate", Quantity: 4}, m.HighestExit)
	assert.Equal(t, dto.ExitMetricDTO{Name: "Tomate", Quantity: 4}, m.LowestExit)
	assert.Equal(t, 1, m.LowStock)
}

func TestAPI_EditarItemNoTocaCantidad(t *testing.T) {
	app := newMemoryApp(t)
	auth := bearer(t, testRestaurantID, testTTL)

	_, raw := call(t, app, http.MethodPost, "/api/add_item", auth, `{"name":"Leche","category":"Dairy","quantity":30}`)
	var item dto.ItemResponse
	require.NoError(t, json.Unmarshal(raw, &item))

	resp, raw := call(t, app, http.MethodPut, "/api/inventory_items/"+jsonInt(item.ID), auth,
		`{"name":"Leche entera","quantity":999}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	require.NoError(t, json.Unmarshal(raw, &item))
	assert.Equal(t, "Leche entera", item.Name)
	assert.Equal(t, int64(30), item.Quantity)

	resp, raw = call(t, app, http.MethodGet, "/api/inventory_items?name=entera", auth, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.ItemResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 1)
}

func TestAPI_NombreDuplicadoEs409(t *testing.T) {
	app := newMemoryApp(t)
	auth := bearer(t, testRestaurantID, testTTL)

	resp, _ := call(t, app, http.MethodPost, "/api/add_item", auth, `{"name":"Arroz","category":"Grain"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := call(t, app, http.MethodPost, "/api/add_item", auth, `{"name":"ARROZ","category":"Grain"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apphttp.CodeConflict, decodeError(t, raw).Code)
}

func TestAPI_OtroRestauranteNoVeElItem(t *testing.T) {
	app := newMemoryApp(t)

	_, raw := call(t, app, http.MethodPost, "/api/add_item", bearer(t, testRestaurantID, testTTL),
		`{"name":"Tomate","category":"Vegetable","quantity":5}`)
	var item dto.ItemResponse
	require.NoError(t, json.Unmarshal(raw, &item))

	otro := bearer(t, "rest-norte", testTTL)
	resp, raw := call(t, app, http.MethodGet, "/api/inventory_items/"+jsonInt(item.ID), otro, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, apphttp.CodeNotFound, decodeError(t, raw).Code)

	resp, _ = call(t, app, http.MethodPost, "/api/movement", otro,
		`{"itemId":`+jsonInt(item.ID)+`,"type":"OUT","quantity":1}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = call(t, app, http.MethodGet, "/api/movements", otro, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestAPI_Validaciones(t *testing.T) {
	app := newMemoryApp(t)
	auth := bearer(t, testRestaurantID, testTTL)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		code   string
	}{
		{"json roto", http.MethodPost, "/api/movement", `{"itemId":`, apphttp.CodeInvalidBody},
		{"tipo desconocido", http.MethodPost, "/api/movement", `{"itemId":1,"type":"XX","quantity":1}`, apphttp.CodeValidation},
		{"sin itemId", http.MethodPost, "/api/movement", `{"type":"IN","quantity":1}`, apphttp.CodeValidation},
		{"cantidad no entera", http.MethodPost, "/api/movement", `{"itemId":1,"type":"IN","quantity":1.5}`, apphttp.CodeValidation},
		{"destino desconocido", http.MethodPost, "/api/movement", `{"itemId":1,"type":"OUT","quantity":1,"destination":"BAR"}`, apphttp.CodeValidation},
		{"item sin nombre", http.MethodPost, "/api/add_item", `{"category":"Fruit"}`, apphttp.CodeValidation},
		{"categoria desconocida", http.MethodPost, "/api/add_item", `{"name":"Pan","category":"Bakery"}`, apphttp.CodeValidation},
		{"status desconocido", http.MethodGet, "/api/movements?status=MAYBE", "", apphttp.CodeValidation},
		{"fecha invalida", http.MethodGet, "/api/movements?dataInicio=ayer", "", apphttp.CodeValidation},
		{"id no numerico", http.MethodGet, "/api/inventory_items/abc", "", apphttp.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := call(t, app, tc.method, tc.path, auth, tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))
			assert.Equal(t, tc.code, decodeError(t, raw).Code)
		})
	}
}

func TestAPI_ValidacionUsaNombreJSON(t *testing.T) {
	app := newMemoryApp(t)
	resp, raw := call(t, app, http.MethodPost, "/api/movement", bearer(t, testRestaurantID, testTTL),
		`{"type":"IN","quantity":1}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "itemId: required", decodeError(t, raw).Error)
}

func TestAPI_RutasRequierenToken(t *testing.T) {
	app := newMemoryApp(t)
	for _, path := range []string{"/api/movements", "/api/metrics", "/api/inventory_items"} {
		resp, raw := call(t, app, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		assert.Equal(t, apphttp.CodeMissingToken, decodeError(t, raw).Code)
	}
}

func TestAPI_HealthSinTokenYRequestID(t *testing.T) {
	app := newMemoryApp(t)

	resp, raw := call(t, app, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"status":"ok"`)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(apphttp.HeaderRequestID, "req-123")
	resp2, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, "req-123", resp2.Header.Get(apphttp.HeaderRequestID))
}

func TestAPI_RutaInexistente(t *testing.T) {
	app := newMemoryApp(t)
	resp, raw := call(t, app, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, raw).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traducción de errores de persistencia
// ──────────────────────────────────────────────────────────────────────────────

type stubMetrics struct{ err error }

func (s stubMetrics) GetMetrics(context.Context, domain.Tenant) (*dto.MetricsDTO, error) {
	return nil, s.err
}

func TestAPI_ErroresDePersistencia(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"timeout", domain.ErrTimeout, http.StatusServiceUnavailable, apphttp.CodeUnavailable},
		{"caida", domain.ErrUnavailable, http.StatusServiceUnavailable, apphttp.CodeUnavailable},
		{"desconocido", errors.New("boom: detalle interno"), http.StatusInternalServerError, apphttp.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := apphttp.NewApp(apphttp.RouterDeps{
				Metrics:   stubMetrics{err: tc.err},
				JWTSecret: testJWTSecret,
				JWTIssuer: testIssuer,
			})
			resp, raw := call(t, app, http.MethodGet, "/api/metrics", bearer(t, testRestaurantID, testTTL), "")
			assert.Equal(t, tc.status, resp.StatusCode)
			e := decodeError(t, raw)
			assert.Equal(t, tc.code, e.Code)
			assert.NotContains(t, e.Error, "detalle interno")
		})
	}
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
