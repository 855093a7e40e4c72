package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopbridge/internal/domain/branding"
	"shopbridge/internal/domain/cart"
	"shopbridge/internal/domain/tenant"
	"shopbridge/internal/store/memory"
	"shopbridge/internal/store/repositories"
)

type fixture struct {
	svc      *Service
	creds    *memory.CredentialRepository
	branding *memory.BrandingRepository
	carts    *memory.CartRepository
	audit    *memory.AuditRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		creds:    memory.NewCredentialRepository(),
		branding: memory.NewBrandingRepository(),
		carts:    memory.NewCartRepository(),
		audit:    memory.NewAuditRepository(),
	}
	f.svc = NewService(f.creds, f.branding, f.carts, f.audit)

	ctx := context.Background()
	for _, shop := range []string{"acme.myshopify.com", "globex.myshopify.com"} {
		cred, err := tenant.NewCredential(shop, "tok_"+shop, "read_orders", time.Now())
		if err != nil {
			t.Fatal(err)
		}
		if err := f.creds.Upsert(ctx, cred); err != nil {
			t.Fatal(err)
		}
		if err := f.branding.Upsert(ctx, &branding.Config{ShopDomain: shop}); err != nil {
			t.Fatal(err)
		}
	}
	for _, c := range []cart.AbandonedCart{
		{ShopDomain: "acme.myshopify.com", CustomerEmail: "alice@example.com", CartToken: "c1"},
		{ShopDomain: "acme.myshopify.com", CustomerEmail: "bob@example.com", CartToken: "c2"},
		{ShopDomain: "globex.myshopify.com", CustomerEmail: "alice@example.com", CartToken: "c3"},
	} {
		rec := c
		if err := f.carts.Save(ctx, &rec); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func TestShopRedact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.svc.ShopRedact(ctx, "acme")

	if _, err := f.creds.FindByShopDomain(ctx, "acme.myshopify.com"); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("acme credential must be gone, got %v", err)
	}
	if _, ok := f.branding.Get("acme.myshopify.com"); ok {
		t.Fatal("acme branding must be gone")
	}
	for _, c := range f.carts.All() {
		if c.ShopDomain == "acme.myshopify.com" {
			t.Fatal("acme cart rows must be gone")
		}
	}

	// Other tenants are untouched.
	if _, err := f.creds.FindByShopDomain(ctx, "globex.myshopify.com"); err != nil {
		t.Fatalf("globex credential must survive: %v", err)
	}
	if _, ok := f.branding.Get("globex.myshopify.com"); !ok {
		t.Fatal("globex branding must survive")
	}

	// Duplicate notification is a no-op, not a failure.
	f.svc.ShopRedact(ctx, "acme")
}

func TestCustomerRedact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.svc.CustomerRedact(ctx, "acme.myshopify.com", "Alice@Example.com")

	for _, c := range f.carts.All() {
		if c.ShopDomain == "acme.myshopify.com" && c.CustomerEmail == "alice@example.com" {
			t.Fatal("alice's acme cart must be gone")
		}
	}

	var bobs, globexAlice int
	for _, c := range f.carts.All() {
		if c.CustomerEmail == "bob@example.com" {
			bobs++
		}
		if c.ShopDomain == "globex.myshopify.com" && c.CustomerEmail == "alice@example.com" {
			globexAlice++
		}
	}
	if bobs != 1 || globexAlice != 1 {
		t.Fatalf("redact must be scoped to (shop, customer): bobs=%d globexAlice=%d", bobs, globexAlice)
	}

	// Credential and branding are customer-agnostic and must survive.
	if _, err := f.creds.FindByShopDomain(ctx, "acme.myshopify.com"); err != nil {
		t.Fatalf("credential must survive customer redact: %v", err)
	}
}

func TestDataRequestRecordsAudit(t *testing.T) {
	f := newFixture(t)

	f.svc.DataRequest(context.Background(), "acme", "alice@example.com", []byte(`{}`))

	if len(f.audit.Requests) != 1 || f.audit.Requests[0] != "acme.myshopify.com|alice@example.com" {
		t.Fatalf("unexpected audit log: %v", f.audit.Requests)
	}
	if got := len(f.carts.All()); got != 3 {
		t.Fatalf("data request must not delete anything, got %d cart rows", got)
	}
}
