package tenant

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Credential represents an installed shop's platform access token.
type Credential struct {
	ShopDomain  string
	AccessToken string
	Scopes      string
	InstalledAt time.Time
}

// shopHandleRe matches a bare store handle ("acme" or "acme-2").
var shopHandleRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// shopDomainRe matches a fully qualified platform shop domain.
var shopDomainRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*\.myshopify\.com$`)

// NormalizeShopDomain converts a raw shop identifier ("acme" or
// "acme.myshopify.com", any case) into the canonical platform domain form.
func NormalizeShopDomain(raw string) (string, error) {
	shop := strings.ToLower(strings.TrimSpace(raw))
	shop = strings.TrimPrefix(shop, "https://")
	shop = strings.TrimPrefix(shop, "http://")
	shop = strings.TrimSuffix(shop, "/")
	if shop == "" {
		return "", fmt.Errorf("shop domain is required")
	}

	if !strings.Contains(shop, ".") {
		if !shopHandleRe.MatchString(shop) {
			return "", fmt.Errorf("invalid shop handle: %q", raw)
		}
		shop += ".myshopify.com"
	}

	if !shopDomainRe.MatchString(shop) {
		return "", fmt.Errorf("invalid shop domain: %q", raw)
	}
	return shop, nil
}

// NewCredential creates a credential with validation.
func NewCredential(shopDomain, accessToken, scopes string, installedAt time.Time) (*Credential, error) {
	shop, err := NormalizeShopDomain(shopDomain)
	if err != nil {
		return nil, err
	}
	if accessToken == "" {
		return nil, fmt.Errorf("access token is required")
	}
	return &Credential{
		ShopDomain:  shop,
		AccessToken: accessToken,
		Scopes:      scopes,
		InstalledAt: installedAt,
	}, nil
}
