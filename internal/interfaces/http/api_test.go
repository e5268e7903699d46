package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/mercado-api/internal/application/analytics"
	"github.com/jhoicas/mercado-api/internal/application/auth"
	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/application/inventory"
	"github.com/jhoicas/mercado-api/internal/application/usecase"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
	"github.com/jhoicas/mercado-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/mercado-api/internal/interfaces/http"
	"github.com/jhoicas/mercado-api/pkg/logger"
	"github.com/jhoicas/mercado-api/pkg/metrics"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type testAPI struct {
	app     *fiber.App
	store   *memory.Store
	metrics *metrics.Metrics
	logs    *bytes.Buffer
}

// newTestAPI arma la app completa sobre el store en memoria.
func newTestAPI(t *testing.T, opts ...func(*apphttp.ServerConfig, *apphttp.RouterDeps)) *testAPI {
	t.Helper()
	store := memory.NewStore()
	m := metrics.New("mercado_test")
	logs := &bytes.Buffer{}

	cfg := apphttp.ServerConfig{
		AppName: "mercado-api",
		Logger:  logger.NewWithWriter(logs, "debug"),
		Metrics: m,
	}
	deps := apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}).WithBcryptCost(bcrypt.MinCost),
		ProductUC:      usecase.NewProductUseCase(store.Products()),
		RecordMovement: inventory.NewRecordMovementUseCase(store, m, inventory.Options{}),
		ListMovements:  inventory.NewListMovementsUseCase(store.Movements()),
		Replenishment:  inventory.NewReplenishmentUseCase(store.Products(), store.Movements()),
		Dashboard:      analytics.NewDashboardUseCase(store.Analytics()),
		JWTSecret:      testJWTSecret,
	}
	for _, opt := range opts {
		opt(&cfg, &deps)
	}
	return &testAPI{app: apphttp.NewApp(cfg, deps), store: store, metrics: m, logs: logs}
}

func (a *testAPI) do(t *testing.T, method, path, body, authHeader string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeJSON[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

// loginAs registra un usuario y devuelve su id y el header Authorization.
func (a *testAPI) loginAs(t *testing.T, name, email string) (int64, string) {
	t.Helper()
	resp, _ := a.do(t, http.MethodPost, "/usuarios",
		`{"name":"`+name+`","email":"`+email+`","password":"segredo"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := a.do(t, http.MethodPost, "/auth/login", `{"email":"`+email+`","password":"segredo"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeJSON[dto.LoginResponse](t, raw)
	require.NotEmpty(t, out.Token)
	return out.ID, "Bearer " + out.Token
}

// testutilMovements lee el contador de movimientos confirmados del tipo dado.
func testutilMovements(t *testing.T, a *testAPI, kind string) float64 {
	t.Helper()
	return testutil.ToFloat64(a.metrics.MovementsTotal.WithLabelValues(kind))
}

func (a *testAPI) createProduct(t *testing.T, body string) dto.ProductResponse {
	t.Helper()
	resp, raw := a.do(t, http.MethodPost, "/produtos", body, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	return decodeJSON[dto.ProductResponse](t, raw)
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios y login
// ──────────────────────────────────────────────────────────────────────────────

func TestUsuarios_RegistroNoDevuelvePassword(t *testing.T) {
	api := newTestAPI(t)
	resp, raw := api.do(t, http.MethodPost, "/usuarios", `{"name":"Ana","email":"ana@mercado.com","password":"segredo"}`, "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(raw), "segredo")
	assert.NotContains(t, string(raw), "password")
	out := decodeJSON[dto.UserResponse](t, raw)
	assert.Equal(t, "Ana", out.Name)
	assert.Equal(t, "ana@mercado.com", out.Email)
}

func TestUsuarios_CamposFaltantes_Retorna400(t *testing.T) {
	api := newTestAPI(t)
	resp, raw := api.do(t, http.MethodPost, "/usuarios", `{"name":"Ana"}`, "")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	out := decodeJSON[dto.ErrorResponse](t, raw)
	assert.Equal(t, apphttp.CodeValidation, out.Code)
	assert.NotEmpty(t, out.Error)

	resp, _ = api.do(t, http.MethodPost, "/usuarios", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body vacío = campos faltantes")

	long := strings.Repeat("x", 73)
	resp, raw = api.do(t, http.MethodPost, "/usuarios", `{"name":"Ana","email":"ana@mercado.com","password":"`+long+`"}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "password de más de 72 bytes")
	assert.Equal(t, apphttp.CodeValidation, decodeJSON[dto.ErrorResponse](t, raw).Code)
}

func TestUsuarios_EmailDuplicado_Retorna409(t *testing.T) {
	api := newTestAPI(t)
	body := `{"name":"Ana","email":"ana@mercado.com","password":"segredo"}`
	resp, _ := api.do(t, http.MethodPost, "/usuarios", body, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := api.do(t, http.MethodPost, "/usuarios", body, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "E-mail já cadastrado", decodeJSON[dto.ErrorResponse](t, raw).Error)
}

func TestLogin_CredencialesInvalidas_Retorna401(t *testing.T) {
	api := newTestAPI(t)
	api.loginAs(t, "Ana", "ana@mercado.com")

	resp, raw := api.do(t, http.MethodPost, "/auth/login", `{"email":"ana@mercado.com","password":"errada"}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apphttp.CodeUnauthorized, decodeJSON[dto.ErrorResponse](t, raw).Code)

	resp, _ = api.do(t, http.MethodPost, "/auth/login", `{"email":"ana@mercado.com"}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBodyMalformado_Retorna400(t *testing.T) {
	api := newTestAPI(t)
	resp, raw := api.do(t, http.MethodPost, "/produtos", `{"name":`, "")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInvalidBody, decodeJSON[dto.ErrorResponse](t, raw).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProdutos_CRUD(t *testing.T) {
	api := newTestAPI(t)
	feijao := api.createProduct(t, `{"name":"Feijão","quantity":10,"minimum_threshold":5}`)
	api.createProduct(t, `{"name":"Arroz"}`)

	resp, raw := api.do(t, http.MethodGet, "/produtos", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeJSON[[]dto.ProductResponse](t, raw)
	require.Len(t, list, 2)
	assert.Equal(t, "Arroz", list[0].Name)

	resp, raw = api.do(t, http.MethodGet, "/produtos?q=%20FEIJ%20", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list = decodeJSON[[]dto.ProductResponse](t, raw)
	require.Len(t, list, 1)
	assert.Equal(t, feijao.ID, list[0].ID)

	resp, raw = api.do(t, http.MethodPut, "/produtos/1", `{"quantity":3}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeJSON[dto.ProductResponse](t, raw)
	assert.Equal(t, "Feijão", updated.Name)
	assert.Equal(t, int64(3), updated.Quantity)
	assert.Equal(t, int64(5), updated.MinimumThreshold)
	assert.True(t, updated.BelowMinimum)

	resp, raw = api.do(t, http.MethodDelete, "/produtos/1", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "message")

	resp, raw = api.do(t, http.MethodGet, "/produtos/1", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Produto não encontrado", decodeJSON[dto.ErrorResponse](t, raw).Error)
}

func TestProdutos_Errores(t *testing.T) {
	api := newTestAPI(t)
	api.createProduct(t, `{"name":"Feijão"}`)

	cases := []struct {
		method, path, body string
		status             int
	}{
		{http.MethodGet, "/produtos/abc", "", http.StatusBadRequest},
		{http.MethodGet, "/produtos/99", "", http.StatusNotFound},
		{http.MethodPost, "/produtos", `{"name":"   "}`, http.StatusBadRequest},
		{http.MethodPut, "/produtos/99", `{"quantity":1}`, http.StatusNotFound},
		{http.MethodPut, "/produtos/1", `{"name":""}`, http.StatusBadRequest},
		{http.MethodPut, "/produtos/1", `{"minimum_threshold":"x"}`, http.StatusBadRequest},
		{http.MethodDelete, "/produtos/99", "", http.StatusNotFound},
		{http.MethodDelete, "/produtos/-1", "", http.StatusBadRequest},
	}
	for _, tc := range cases {
		resp, raw := api.do(t, tc.method, tc.path, tc.body, "")
		assert.Equal(t, tc.status, resp.StatusCode, "%s %s: %s", tc.method, tc.path, raw)
	}
}

func TestProdutos_Reposicao(t *testing.T) {
	api := newTestAPI(t)
	api.createProduct(t, `{"name":"Feijão","quantity":2,"minimum_threshold":5}`)
	api.createProduct(t, `{"name":"Sal","quantity":20,"minimum_threshold":5}`)

	resp, raw := api.do(t, http.MethodGet, "/produtos/reposicao", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeJSON[[]dto.ReplenishmentSuggestionDTO](t, raw)
	require.Len(t, list, 1)
	assert.Equal(t, "Feijão", list[0].ProductName)
	assert.Equal(t, int64(6), list[0].SuggestedOrderQty)
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestMovimentacoes_SalidaMayorQueStock(t *testing.T) {
	api := newTestAPI(t)
	userID, token := api.loginAs(t, "Ana", "ana@mercado.com")
	p := api.createProduct(t, `{"name":"Feijão","quantity":10,"minimum_threshold":5}`)

	resp, raw := api.do(t, http.MethodPost, "/movimentacoes", `{"product_id":1,"kind":"exit","quantity":12}`, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	out := decodeJSON[dto.RecordMovementResponse](t, raw)
	assert.Equal(t, int64(-2), out.Product.Quantity)
	assert.True(t, out.Product.BelowMinimum)
	assert.Equal(t, userID, out.Movement.UserID)
	assert.Equal(t, "exit", out.Movement.Kind)

	resp, raw = api.do(t, http.MethodGet, "/produtos/1", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(-2), decodeJSON[dto.ProductResponse](t, raw).Quantity)

	resp, raw = api.do(t, http.MethodGet, "/movimentacoes?produto_id=1", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decodeJSON[[]dto.MovementResponse](t, raw)
	require.Len(t, history, 1)
	assert.Equal(t, p.ID, history[0].ProductID)
	assert.Equal(t, "Feijão", history[0].ProductName)
	assert.Equal(t, "Ana", history[0].UserName)
	assert.Equal(t, int64(12), history[0].Quantity)

	assert.Equal(t, float64(1), testutilMovements(t, api, "exit"))
}

func TestMovimentacoes_SinToken_Retorna401(t *testing.T) {
	api := newTestAPI(t)
	api.createProduct(t, `{"name":"Feijão","quantity":10}`)

	resp, _ := api.do(t, http.MethodPost, "/movimentacoes", `{"product_id":1,"user_id":1,"kind":"entry","quantity":1}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMovimentacoes_UsuarioDistintoDelToken_Retorna403(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.loginAs(t, "Ana", "ana@mercado.com")
	api.createProduct(t, `{"name":"Feijão","quantity":10}`)

	resp, raw := api.do(t, http.MethodPost, "/movimentacoes", `{"product_id":1,"user_id":2,"kind":"entry","quantity":1}`, token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, apphttp.CodeForbidden, decodeJSON[dto.ErrorResponse](t, raw).Code)
}

func TestMovimentacoes_Validaciones_Retorna400(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.loginAs(t, "Ana", "ana@mercado.com")
	api.createProduct(t, `{"name":"Feijão","quantity":10}`)

	for _, body := range []string{
		`{"product_id":1,"kind":"entry","quantity":-1}`,
		`{"product_id":1,"kind":"entry","quantity":0}`,
		`{"product_id":1,"kind":"transfer","quantity":1}`,
		`{"kind":"entry","quantity":1}`,
		`{"product_id":1,"kind":"entry","quantity":1,"timestamp":"ontem"}`,
	} {
		resp, raw := api.do(t, http.MethodPost, "/movimentacoes", body, token)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "%s: %s", body, raw)
	}

	resp, raw := api.do(t, http.MethodGet, "/produtos/1", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(10), decodeJSON[dto.ProductResponse](t, raw).Quantity)
}

func TestMovimentacoes_ProductoInexistente_Retorna404SinRastro(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.loginAs(t, "Ana", "ana@mercado.com")

	resp, raw := api.do(t, http.MethodPost, "/movimentacoes", `{"product_id":42,"kind":"entry","quantity":1}`, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Produto não encontrado", decodeJSON[dto.ErrorResponse](t, raw).Error)

	resp, raw = api.do(t, http.MethodGet, "/movimentacoes", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeJSON[[]dto.MovementResponse](t, raw))
}

func TestMovimentacoes_FiltroInvalido_Retorna400(t *testing.T) {
	api := newTestAPI(t)
	resp, _ := api.do(t, http.MethodGet, "/movimentacoes?product_id=abc", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboard_Resumo(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.loginAs(t, "Ana", "ana@mercado.com")
	api.createProduct(t, `{"name":"Feijão","quantity":10,"minimum_threshold":5}`)
	api.createProduct(t, `{"name":"Sal","quantity":3,"minimum_threshold":1}`)

	resp, raw := api.do(t, http.MethodPost, "/movimentacoes", `{"product_id":1,"kind":"exit","quantity":7}`, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = api.do(t, http.MethodGet, "/dashboard/resumo", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeJSON[dto.DashboardSummaryDTO](t, raw)
	assert.Equal(t, int64(2), out.ProductCount)
	assert.Equal(t, int64(1), out.BelowMinimumCount)
	assert.Equal(t, int64(6), out.TotalUnits)
	assert.Equal(t, int64(7), out.Today.ExitUnits)
	require.Len(t, out.TopExits, 1)
	assert.Equal(t, "Feijão", out.TopExits[0].ProductName)
	assert.NotEmpty(t, out.DateLabel)
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores internos, health, métricas
// ──────────────────────────────────────────────────────────────────────────────

type brokenProducts struct {
	repository.ProductRepository
}

func (brokenProducts) List(context.Context, string) ([]*entity.Product, error) {
	return nil, errors.New("pq: relation \"produtos\" does not exist")
}

func TestErrorInterno_MensajeRedactado(t *testing.T) {
	api := newTestAPI(t, func(_ *apphttp.ServerConfig, deps *apphttp.RouterDeps) {
		deps.ProductUC = usecase.NewProductUseCase(brokenProducts{})
	})
	resp, raw := api.do(t, http.MethodGet, "/produtos", "", "")

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	out := decodeJSON[dto.ErrorResponse](t, raw)
	assert.Equal(t, apphttp.CodeInternal, out.Code)
	assert.NotContains(t, out.Error, "relation")
	assert.Contains(t, api.logs.String(), "relation", "el detalle queda en el log")
}

func TestPanic_Retorna500(t *testing.T) {
	api := newTestAPI(t)
	api.app.Get("/boom", func(c *fiber.Ctx) error { panic("boom") })

	resp, raw := api.do(t, http.MethodGet, "/boom", "", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInternal, decodeJSON[dto.ErrorResponse](t, raw).Code)
}

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	api := newTestAPI(t, func(cfg *apphttp.ServerConfig, _ *apphttp.RouterDeps) {
		cfg.DB = pingerFunc(func(context.Context) error { return nil })
	})
	resp, raw := api.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"status":"ok"`)

	down := newTestAPI(t, func(cfg *apphttp.ServerConfig, _ *apphttp.RouterDeps) {
		cfg.DB = pingerFunc(func(context.Context) error { return errors.New("connection refused") })
	})
	resp, _ = down.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestRequestID_SeDevuelveEnLaRespuesta(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/produtos", nil)
	req.Header.Set(apphttp.HeaderRequestID, "req-123")
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "req-123", resp.Header.Get(apphttp.HeaderRequestID))

	resp2, err := api.app.Test(httptest.NewRequest(http.MethodGet, "/produtos", nil), -1)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.NotEmpty(t, resp2.Header.Get(apphttp.HeaderRequestID))
}

func TestMetrics_Expuestas(t *testing.T) {
	api := newTestAPI(t)
	api.do(t, http.MethodGet, "/produtos", "", "")

	resp, raw := api.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "mercado_test_http_requests_total")
}

func TestRutaInexistente_Retorna404JSON(t *testing.T) {
	api := newTestAPI(t)
	resp, raw := api.do(t, http.MethodGet, "/nada", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, apphttp.CodeNotFound, decodeJSON[dto.ErrorResponse](t, raw).Code)
}
