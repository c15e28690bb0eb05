package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"financas/internal/auth"
	applog "financas/internal/log"
	"financas/internal/services"
	"financas/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "api_test.db")
	repo, err := storage.NewRepository(dbPath)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	logger := applog.New(applog.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	issuer := auth.NewIssuer("test-secret-at-least-16", time.Hour)
	resolver := services.NewResolver(repo)
	categories := services.NewCategoryService(repo, services.NewTotalsCache(100, time.Minute))

	srv := NewServer(":0", Deps{
		Users:      services.NewUserService(repo, issuer, 4),
		Categories: categories,
		Cards:      services.NewCardService(repo),
		Accounts:   services.NewAccountService(repo),
		Purchases:  services.NewPurchaseService(repo, resolver, categories, nil, logger),
		Entries:    services.NewEntryService(repo, resolver, categories, nil, logger),
		Issuer:     issuer,
		Logger:     logger,
	})
	t.Cleanup(func() { srv.rateLimiter.Stop() })
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func registerAndLogin(t *testing.T, srv *Server) string {
	t.Helper()

	rec := doJSON(t, srv, "POST", "/api/usuarios/registro", "",
		`{"name":"Maria","email":"maria@test.com","password":"senha123","confirmPassword":"senha123"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	if resp.Token == "" {
		t.Fatal("no token in register response")
	}
	return resp.Token
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "GET", "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("healthz = %d", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/api/categorias", "/api/cartoes", "/api/contas", "/api/compras", "/api/receitas"} {
		rec := doJSON(t, srv, "GET", path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token = %d, want 401", path, rec.Code)
		}
	}
}

func TestPurchaseFlowUpdatesBalance(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv)

	rec := doJSON(t, srv, "POST", "/api/categorias", token, `{"categoryName":"Mercado"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, "POST", "/api/contas", token,
		`{"accountBankingName":"Nubank","accountBalance":"200"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account = %d: %s", rec.Code, rec.Body.String())
	}
	var account struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &account)

	rec = doJSON(t, srv, "POST", "/api/compras", token,
		`{"establishment":"Padaria","value":"50","paymentMethod":"pix","categoryName":"Mercado","account":"Nubank"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create purchase = %d: %s", rec.Code, rec.Body.String())
	}
	var purchase struct {
		ID    int64           `json:"id"`
		Value json.RawMessage `json:"value"`
	}
	decode(t, rec, &purchase)
	if string(purchase.Value) != "50.00" {
		t.Errorf("purchase value = %s, want 50.00", purchase.Value)
	}

	rec = doJSON(t, srv, "GET", "/api/contas", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list accounts = %d", rec.Code)
	}
	var accounts []struct {
		Balance json.RawMessage `json:"accountBalance"`
	}
	decode(t, rec, &accounts)
	if len(accounts) != 1 || string(accounts[0].Balance) != "150.00" {
		t.Errorf("accounts = %s", rec.Body.String())
	}

	// the mirror saida entry is visible in the receitas ledger
	rec = doJSON(t, srv, "GET", "/api/receitas/tipo/saida", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list saida = %d", rec.Code)
	}
	var entries []struct {
		PurchaseID int64 `json:"purchaseId"`
	}
	decode(t, rec, &entries)
	if len(entries) != 1 || entries[0].PurchaseID != purchase.ID {
		t.Errorf("saida entries = %s", rec.Body.String())
	}
}

func TestPurchaseInsufficientFundsReturns400(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv)

	doJSON(t, srv, "POST", "/api/categorias", token, `{"categoryName":"Mercado"}`)
	doJSON(t, srv, "POST", "/api/contas", token, `{"accountBankingName":"Nubank","accountBalance":"10"}`)

	rec := doJSON(t, srv, "POST", "/api/compras", token,
		`{"establishment":"Loja","value":"50","paymentMethod":"pix","categoryName":"Mercado","account":"Nubank"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("insufficient funds = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestPurchaseUpdateRejectsValueChange(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv)

	doJSON(t, srv, "POST", "/api/categorias", token, `{"categoryName":"Mercado"}`)
	doJSON(t, srv, "POST", "/api/contas", token, `{"accountBankingName":"Nubank","accountBalance":"100"}`)

	rec := doJSON(t, srv, "POST", "/api/compras", token,
		`{"establishment":"Loja","value":"20","paymentMethod":"pix","categoryName":"Mercado","account":"Nubank"}`)
	var purchase struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &purchase)

	rec = doJSON(t, srv, "PUT", "/api/compras/1", token, `{"value":"99"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("value change = %d, want 400", rec.Code)
	}

	rec = doJSON(t, srv, "PUT", "/api/compras/1", token, `{"establishment":"Loja Nova"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("descriptive update = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDeletePurchaseRestoresBalance(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv)

	doJSON(t, srv, "POST", "/api/categorias", token, `{"categoryName":"Mercado"}`)
	doJSON(t, srv, "POST", "/api/contas", token, `{"accountBankingName":"Nubank","accountBalance":"100"}`)

	rec := doJSON(t, srv, "POST", "/api/compras", token,
		`{"establishment":"Loja","value":"30","paymentMethod":"debito","categoryName":"Mercado","account":"Nubank"}`)
	var purchase struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &purchase)

	rec = doJSON(t, srv, "DELETE", "/api/compras/1", token, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete purchase = %d", rec.Code)
	}

	rec = doJSON(t, srv, "GET", "/api/contas/1", token, "")
	var account struct {
		Balance json.RawMessage `json:"accountBalance"`
	}
	decode(t, rec, &account)
	if string(account.Balance) != "100.00" {
		t.Errorf("balance after delete = %s", account.Balance)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	srv := newTestServer(t)
	registerAndLogin(t, srv)

	rec := doJSON(t, srv, "POST", "/api/usuarios/login", "",
		`{"email":"maria@test.com","password":"errada"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password = %d, want 401", rec.Code)
	}
}

func TestUsersCannotSeeEachOthersData(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv)

	doJSON(t, srv, "POST", "/api/contas", token, `{"accountBankingName":"Nubank","accountBalance":"100"}`)

	rec := doJSON(t, srv, "POST", "/api/usuarios/registro", "",
		`{"name":"Bob","email":"bob@test.com","password":"senha123","confirmPassword":"senha123"}`)
	var other struct {
		Token string `json:"token"`
	}
	decode(t, rec, &other)

	rec = doJSON(t, srv, "GET", "/api/contas/1", other.Token, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("cross-user account read = %d, want 404", rec.Code)
	}

	rec = doJSON(t, srv, "GET", "/api/contas", other.Token, "")
	var accounts []json.RawMessage
	decode(t, rec, &accounts)
	if len(accounts) != 0 {
		t.Errorf("other user sees %d accounts", len(accounts))
	}
}

func TestSecurityHeadersPresent(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "GET", "/healthz", "", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}
