package branding

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	base := Config{ShopDomain: "acme.myshopify.com"}

	t.Run("empty optional fields are valid", func(t *testing.T) {
		cfg := base
		if err := cfg.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("full valid config", func(t *testing.T) {
		cfg := base
		cfg.SenderName = "Acme Store"
		cfg.SenderEmail = "hello@acme.com"
		cfg.PrimaryColor = "#1a2b3c"
		cfg.SecondaryColor = "#fff"
		cfg.LogoURL = "https://cdn.acme.com/logo.png"
		if err := cfg.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing shop domain", func(t *testing.T) {
		cfg := Config{}
		assertField(t, cfg.Validate(), "tenant_id")
	})

	t.Run("malformed email", func(t *testing.T) {
		cfg := base
		cfg.SenderEmail = "not-an-email"
		assertField(t, cfg.Validate(), "sender_email")
	})

	t.Run("malformed primary color", func(t *testing.T) {
		cfg := base
		cfg.PrimaryColor = "red"
		assertField(t, cfg.Validate(), "primary_color")
	})

	t.Run("malformed secondary color", func(t *testing.T) {
		cfg := base
		cfg.SecondaryColor = "#12345"
		assertField(t, cfg.Validate(), "secondary_color")
	})

	t.Run("malformed logo URL", func(t *testing.T) {
		cfg := base
		cfg.LogoURL = "ftp://acme.com/logo.png"
		assertField(t, cfg.Validate(), "logo_url")
	})
}

func assertField(t *testing.T, err error, field string) {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Field != field {
		t.Fatalf("expected error on field %q, got %q", field, ve.Field)
	}
}
