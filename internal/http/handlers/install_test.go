package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"shopbridge/internal/config"
	httpx "shopbridge/internal/http"
	"shopbridge/internal/platform"
	"shopbridge/internal/services/branding"
	"shopbridge/internal/services/compliance"
	"shopbridge/internal/services/install"
	"shopbridge/internal/store/memory"
)

type testEnv struct {
	router   http.Handler
	creds    *memory.CredentialRepository
	branding *memory.BrandingRepository
	carts    *memory.CartRepository
}

// newTestEnv wires the full router against in-memory stores and a stubbed
// platform admin API.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/admin/oauth/access_token":
			_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok_123", "scope": "read_orders"})
		case strings.HasSuffix(r.URL.Path, "/webhooks.json"):
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"webhook":{"id":1}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(stub.Close)

	cfg := config.Cfg{
		App: config.AppCfg{
			Env:           "test",
			BaseURL:       "https://bridge.example.com",
			OnboardingURL: "https://bridge.example.com/onboarding",
		},
		Shopify: config.ShopifyCfg{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			Scopes:       "read_orders,write_orders,read_customers",
			APIVersion:   "2024-01",
		},
		Webhook: config.WebhookCfg{
			DeliveryBaseURL: "https://bridge.example.com",
			Topics:          []string{"carts/update", "checkouts/create", "orders/create"},
		},
		Sec: config.SecurityCfg{StateTTL: 10 * time.Minute, AdminToken: "admin-token"},
	}

	api := platform.NewClient(cfg.Shopify, 5*time.Second)
	api.SetBaseURL(stub.URL)

	env := &testEnv{
		creds:    memory.NewCredentialRepository(),
		branding: memory.NewBrandingRepository(),
		carts:    memory.NewCartRepository(),
	}
	states := memory.NewStateRepository()
	audit := memory.NewAuditRepository()

	env.router = httpx.NewRouter(httpx.RouterDependencies{
		Config:            cfg,
		InstallService:    install.NewService(cfg, api, env.creds, states),
		BrandingService:   branding.NewService(env.branding),
		ComplianceService: compliance.NewService(env.creds, env.branding, env.carts, audit),
		CartRepo:          env.carts,
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// startInstall runs /install and returns the state nonce from the
// authorization redirect
func (e *testEnv) startInstall(t *testing.T, tenant string) (state string, authorize *url.URL) {
	t.Helper()
	rec := e.do(t, "GET", "/install?tenant="+tenant, "", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("install: expected 302, got %d: %s", rec.Code, rec.Body.String())
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("bad redirect location: %v", err)
	}
	return loc.Query().Get("state"), loc
}

func TestInstallRedirect(t *testing.T) {
	env := newTestEnv(t)

	state, loc := env.startInstall(t, "acme")
	if loc.Host != "acme.myshopify.com" || loc.Path != "/admin/oauth/authorize" {
		t.Fatalf("unexpected authorize endpoint: %s", loc)
	}
	q := loc.Query()
	if q.Get("client_id") != "client-id" {
		t.Fatalf("redirect missing client_id: %s", loc)
	}
	if q.Get("scope") != "read_orders,write_orders,read_customers" {
		t.Fatalf("redirect missing scopes: %s", loc)
	}
	if len(state) != 32 {
		t.Fatalf("expected a fresh 32-char nonce as state, got %q", state)
	}
}

func TestMissingParameters(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		method, target, body string
	}{
		{"GET", "/install", ""},
		{"GET", "/callback?code=abc&state=s", ""},
		{"GET", "/callback?tenant=acme&state=s", ""},
		{"GET", "/status", ""},
		{"POST", "/config", `{"sender_name":"Acme"}`},
	}
	for _, c := range cases {
		rec := env.do(t, c.method, c.target, c.body, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s %s: expected 400, got %d", c.method, c.target, rec.Code)
		}
	}
	if env.creds.Len() != 0 {
		t.Fatal("missing-parameter requests must not mutate stores")
	}
}

func TestEndToEndInstall(t *testing.T) {
	env := newTestEnv(t)

	state, _ := env.startInstall(t, "acme")

	rec := env.do(t, "GET", "/callback?tenant=acme.myshopify.com&code=abc&state="+state, "", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("callback: expected 302, got %d: %s", rec.Code, rec.Body.String())
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "https://bridge.example.com/onboarding?") || !strings.Contains(loc, "success=true") {
		t.Fatalf("unexpected onboarding redirect: %s", loc)
	}

	cred, err := env.creds.FindByShopDomain(context.Background(), "acme.myshopify.com")
	if err != nil {
		t.Fatalf("credential not stored: %v", err)
	}
	if cred.AccessToken != "tok_123" {
		t.Fatalf("unexpected token: %q", cred.AccessToken)
	}

	rec = env.do(t, "GET", "/status?tenant=acme", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: expected 200, got %d", rec.Code)
	}
	var status struct {
		Installed bool   `json:"installed"`
		TenantID  string `json:"tenant_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("bad status body: %v", err)
	}
	if !status.Installed || status.TenantID != "acme.myshopify.com" {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestCallbackRejectsBadState(t *testing.T) {
	env := newTestEnv(t)
	env.startInstall(t, "acme")

	rec := env.do(t, "GET", "/callback?tenant=acme&code=abc&state=forged", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for forged state, got %d", rec.Code)
	}
	if env.creds.Len() != 0 {
		t.Fatal("no credential may be written for a rejected callback")
	}
}

func TestStatusUnknownTenant(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/status?tenant=nobody", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"installed":false`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestShopRedactEndpoint(t *testing.T) {
	env := newTestEnv(t)

	state, _ := env.startInstall(t, "acme")
	env.do(t, "GET", "/callback?tenant=acme&code=abc&state="+state, "", nil)

	rec := env.do(t, "POST", "/compliance/shop-redact", `{"tenant_id":"acme"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("shop-redact: expected 200, got %d", rec.Code)
	}
	if env.creds.Len() != 0 {
		t.Fatal("credential must be deleted by shop redact")
	}

	// Redacting a shop that no longer exists still acknowledges.
	rec = env.do(t, "POST", "/compliance/shop-redact", `{"tenant_id":"acme"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("duplicate shop-redact: expected 200, got %d", rec.Code)
	}
}

func TestWebhookReceiveAndCustomerRedact(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/webhooks/carts/update",
		`{"token":"cart-1","email":"Alice@Example.com"}`,
		map[string]string{"X-Shopify-Shop-Domain": "acme.myshopify.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("webhook: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	carts := env.carts.All()
	if len(carts) != 1 || carts[0].CustomerEmail != "alice@example.com" || carts[0].Topic != "carts/update" {
		t.Fatalf("unexpected cart rows: %+v", carts)
	}

	rec = env.do(t, "POST", "/compliance/customer-redact",
		`{"tenant_id":"acme","customer_email":"alice@example.com"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("customer-redact: expected 200, got %d", rec.Code)
	}
	if len(env.carts.All()) != 0 {
		t.Fatal("customer cart rows must be deleted")
	}
}

func TestReprovisionEndpoint(t *testing.T) {
	env := newTestEnv(t)

	state, _ := env.startInstall(t, "acme")
	env.do(t, "GET", "/callback?tenant=acme&code=abc&state="+state, "", nil)

	rec := env.do(t, "POST", "/admin/provision?tenant=acme", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without admin token, got %d", rec.Code)
	}

	rec = env.do(t, "POST", "/admin/provision?tenant=acme", "", map[string]string{"X-Admin-Token": "admin-token"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"succeeded":3`) {
		t.Fatalf("unexpected provision result: %s", rec.Body.String())
	}

	rec = env.do(t, "POST", "/admin/provision?tenant=ghost", "", map[string]string{"X-Admin-Token": "admin-token"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for uninstalled shop, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
