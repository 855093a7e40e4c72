package branding

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Config represents a shop's merchant-supplied branding settings.
// All display fields are optional and independently overwritable.
type Config struct {
	ShopDomain     string
	SenderName     string
	SenderEmail    string
	PrimaryColor   string
	SecondaryColor string
	LogoURL        string
	UpdatedAt      time.Time
}

var (
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// ValidationError represents a validation error on a branding field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [%s]: %s", e.Field, e.Message)
}

// Validate checks the shape of the supplied fields. Empty fields are
// allowed; merchant-supplied values feed downstream rendering, so any
// non-empty value must be well formed.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ShopDomain) == "" {
		return &ValidationError{Field: "tenant_id", Message: "shop domain is required"}
	}
	if c.SenderEmail != "" && !emailRe.MatchString(c.SenderEmail) {
		return &ValidationError{Field: "sender_email", Message: "must be a valid email address"}
	}
	if c.PrimaryColor != "" && !hexColorRe.MatchString(c.PrimaryColor) {
		return &ValidationError{Field: "primary_color", Message: "must be a hex color like #1a2b3c"}
	}
	if c.SecondaryColor != "" && !hexColorRe.MatchString(c.SecondaryColor) {
		return &ValidationError{Field: "secondary_color", Message: "must be a hex color like #1a2b3c"}
	}
	if c.LogoURL != "" {
		u, err := url.Parse(c.LogoURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return &ValidationError{Field: "logo_url", Message: "must be an http(s) URL"}
		}
	}
	return nil
}
