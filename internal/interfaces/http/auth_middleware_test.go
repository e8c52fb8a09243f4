package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Portafolio-api/internal/application/auth"
	"github.com/jhoicas/Portafolio-api/internal/application/market"
	"github.com/jhoicas/Portafolio-api/internal/application/portfolio"
	"github.com/jhoicas/Portafolio-api/internal/domain"
	"github.com/jhoicas/Portafolio-api/internal/domain/entity"
	"github.com/jhoicas/Portafolio-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Portafolio-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Portafolio-api/pkg/jwt"
	"github.com/jhoicas/Portafolio-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "portafolio-test"
	testExpMin    = 60
)

type fakeQuotes struct {
	prices map[string]decimal.Decimal
	bars   []entity.DailyBar
	down   bool
	seen   []string // símbolos recibidos por RecentDaily
}

func (q *fakeQuotes) CurrentPrice(_ context.Context, symbol string) (decimal.Decimal, error) {
	p, ok := q.prices[symbol]
	if !ok || q.down {
		return decimal.Zero, domain.ErrQuoteUnavailable
	}
	return p, nil
}

func (q *fakeQuotes) RecentDaily(_ context.Context, symbol string, _ int) ([]entity.DailyBar, error) {
	q.seen = append(q.seen, symbol)
	if q.down {
		return nil, domain.ErrQuoteUnavailable
	}
	return q.bars, nil
}

type testAPI struct {
	app    *fiber.App
	quotes *fakeQuotes
}

// buildTestApp arma la API completa sobre stores en memoria y un proveedor de cotizaciones falso.
func buildTestApp(t *testing.T) *testAPI {
	t.Helper()
	return buildTestAppWithLog(t, nil)
}

// buildTestAppWithLog igual que buildTestApp; con log != nil registra el access log.
func buildTestAppWithLog(t *testing.T, log *logger.Logger) *testAPI {
	t.Helper()
	quotes := &fakeQuotes{prices: map[string]decimal.Decimal{
		"AAPL": decimal.RequireFromString("150.00"),
		"MSFT": decimal.RequireFromString("400.10"),
	}}
	store := memory.NewHoldingStore()
	authUC := auth.NewAuthUseCase(memory.NewUserRepository(), memory.NewSessionStore(), auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
	}).WithHashCost(bcrypt.MinCost)

	app := fiber.New()
	if log != nil {
		app.Use(apphttp.RequestLogger(log))
	}
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		PortfolioUC: portfolio.NewPortfolioUseCase(store, store, quotes, nil, portfolio.Config{MaxConcurrency: 4}),
		StockInfoUC: market.NewStockInfoUseCase(quotes, time.Second, nil),
	})
	return &testAPI{app: app, quotes: quotes}
}

func (a *testAPI) do(t *testing.T, method, path, body, token string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// login registra y autentica un usuario; devuelve el token y la cookie de sesión.
func (a *testAPI) login(t *testing.T, username string) (string, *http.Cookie) {
	t.Helper()
	creds := `{"username":"` + username + `","password":"s3cret"}`
	resp := a.do(t, http.MethodPost, "/register", creds, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = a.do(t, http.MethodPost, "/login", creds, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Login successful", body["message"])

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == apphttp.SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "login debe fijar la cookie de sesión")
	assert.True(t, cookie.HttpOnly)
	return body["token"].(string), cookie
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinToken_Retorna401(t *testing.T) {
	api := buildTestApp(t)
	resp := api.do(t, http.MethodGet, "/overview", "", "")
	body := decode(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", body["code"])
}

func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	api := buildTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/overview", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	api := buildTestApp(t)
	resp := api.do(t, http.MethodGet, "/overview", "", "token.invalido.aqui")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpirado_Retorna401(t *testing.T) {
	api := buildTestApp(t)
	tok, err := pkgjwt.Generate(testJWTSecret, "jti", "00000000-0000-0000-0000-000000000001", "alice", testIssuer, -1)
	require.NoError(t, err)
	resp := api.do(t, http.MethodGet, "/overview", "", tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_AceptaCookieDeSesion(t *testing.T) {
	api := buildTestApp(t)
	_, cookie := api.login(t, "alice")

	req := httptest.NewRequest(http.MethodGet, "/overview", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de rutas
// ──────────────────────────────────────────────────────────────────────────────

func TestHome_Bienvenida(t *testing.T) {
	api := buildTestApp(t)
	resp := api.do(t, http.MethodGet, "/", "", "")
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, apphttp.WelcomeMessage, string(raw))
}

func TestRegister_Duplicado_Retorna409(t *testing.T) {
	api := buildTestApp(t)
	creds := `{"username":"bob","password":"x"}`
	resp := api.do(t, http.MethodPost, "/register", creds, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/register", creds, "")
	body := decode(t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "USERNAME_TAKEN", body["code"])
}

func TestRegister_CamposVacios_Retorna400(t *testing.T) {
	api := buildTestApp(t)
	resp := api.do(t, http.MethodPost, "/register", `{"username":"","password":""}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_PasswordIncorrecto_Retorna401(t *testing.T) {
	api := buildTestApp(t)
	api.login(t, "carol")
	resp := api.do(t, http.MethodPost, "/login", `{"username":"carol","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogout_RevocaSesion(t *testing.T) {
	api := buildTestApp(t)
	token, _ := api.login(t, "dave")

	body := decode(t, api.do(t, http.MethodGet, "/logout", "", token))
	assert.Equal(t, "Logout successful", body["message"])

	resp := api.do(t, http.MethodGet, "/overview", "", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body = decode(t, api.do(t, http.MethodGet, "/logout", "", ""))
	assert.Equal(t, "No user was logged in", body["message"])
}

func TestModifyPortfolio_SecuenciaAddRemove(t *testing.T) {
	api := buildTestApp(t)
	token, _ := api.login(t, "erin")

	resp := api.do(t, http.MethodPost, "/modifyPortfolio/", `{"stock_symbol":"aapl","quantity":10,"operation":"add"}`, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `[{"total_value":1500.00},{"AAPL":{"quantity":10,"value":1500.00}}]`, readBody(t, resp))

	resp = api.do(t, http.MethodPost, "/modifyPortfolio/", `{"stock_symbol":"AAPL","quantity":4,"operation":"REMOVE"}`, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `[{"total_value":900.00},{"AAPL":{"quantity":6,"value":900.00}}]`, readBody(t, resp))

	resp = api.do(t, http.MethodPost, "/modifyPortfolio/", `{"stock_symbol":"AAPL","quantity":6,"operation":"REMOVE"}`, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `[{"total_value":0.00}]`, readBody(t, resp))
}

func TestModifyPortfolio_Errores400(t *testing.T) {
	api := buildTestApp(t)
	token, _ := api.login(t, "frank")

	cases := []struct {
		body string
		code string
	}{
		{`{"stock_symbol":"AAPL","quantity":1,"operation":"BUY"}`, "INVALID_OPERATION"},
		{`{"stock_symbol":"AAPL","quantity":2.5,"operation":"ADD"}`, "INVALID_QUANTITY"},
		{`{"stock_symbol":"AAPL","quantity":0,"operation":"ADD"}`, "INVALID_QUANTITY"},
		{`{"stock_symbol":"ZZZZ","quantity":1,"operation":"ADD"}`, "INVALID_SYMBOL"},
		{`{"stock_symbol":"MSFT","quantity":1,"operation":"REMOVE"}`, "INSUFFICIENT_HOLDINGS"},
	}
	for _, tc := range cases {
		resp := api.do(t, http.MethodPost, "/modifyPortfolio/", tc.body, token)
		body := decode(t, resp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, tc.body)
		assert.Equal(t, tc.code, body["code"], tc.body)
	}
}

func TestOverview_PrecioNoDisponibleEsNull(t *testing.T) {
	api := buildTestApp(t)
	token, _ := api.login(t, "gina")

	resp := api.do(t, http.MethodPost, "/modifyPortfolio/", `{"stock_symbol":"MSFT","quantity":2,"operation":"ADD"}`, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	api.quotes.down = true
	resp = api.do(t, http.MethodGet, "/overview", "", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `[{"total_value":0.00},{"MSFT":{"quantity":2,"value":null}}]`, readBody(t, resp))
}

func TestStockInfo_FormatoYProveedorCaido(t *testing.T) {
	api := buildTestApp(t)
	api.quotes.bars = []entity.DailyBar{{
		Date: "2024-03-05", Open: decimal.RequireFromString("191.9"), High: decimal.RequireFromString("193"),
		Low: decimal.RequireFromString("190.5"), Close: decimal.RequireFromString("192.25"), Volume: 1000,
	}}

	resp := api.do(t, http.MethodGet, "/stockinfo/ibm", "", "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `[["2024-03-05",{"1. open":191.90,"2. high":193.00,"3. low":190.50,"4. close":192.25,"5. volume":1000}]]`, string(raw))

	api.quotes.down = true
	resp = api.do(t, http.MethodGet, "/stockinfo/ibm", "", "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestRequestLogger_IncluyeUsuarioDeLaSesion(t *testing.T) {
	var buf bytes.Buffer
	api := buildTestAppWithLog(t, logger.New(logger.Config{Env: "production", Output: &buf}))
	token, _ := api.login(t, "hank")
	buf.Reset()

	resp := api.do(t, http.MethodGet, "/overview", "", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "request", entry["message"])
	assert.Equal(t, "/overview", entry["path"])
	assert.Equal(t, "hank", entry["username"])
	assert.NotEmpty(t, entry["user_id"])
}

func TestStockInfo_SimboloSobreviveAlRequest(t *testing.T) {
	api := buildTestApp(t)
	for _, path := range []string{"/stockinfo/IBM", "/stockinfo/XYZ", "/stockinfo/QQQ"} {
		resp := api.do(t, http.MethodGet, path, "", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}
	// los strings retenidos no deben cambiar cuando fasthttp recicla el request
	assert.Equal(t, []string{"IBM", "XYZ", "QQQ"}, api.quotes.seen)
}
