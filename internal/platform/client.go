package platform

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"shopbridge/internal/config"
)

// ErrTokenExchange marks a failed code-for-token exchange. Any non-2xx
// response and any transport failure collapses into it; the authorization
// code is single-use, so the merchant has to re-initiate the install.
var ErrTokenExchange = errors.New("token exchange failed")

// Subscription describes one webhook registration on the platform.
type Subscription struct {
	Topic   string
	Address string
	Format  string
}

// TokenGrant is the result of a successful code-for-token exchange.
type TokenGrant struct {
	AccessToken string
	Scopes      string
}

// API is the outbound surface of the platform. The install orchestrator
// depends on this interface so tests can substitute a double.
type API interface {
	AuthorizeURL(shopDomain, redirectURI, state string) string
	ExchangeToken(ctx context.Context, shopDomain, code string) (*TokenGrant, error)
	RegisterWebhook(ctx context.Context, shopDomain, accessToken string, sub Subscription) error
}

// Client implements API against the Shopify Admin API.
type Client struct {
	cfg     config.ShopifyCfg
	http    *HTTPClient
	baseURL string // overrides https://{shop} when set
}

// NewClient creates a platform API client
func NewClient(cfg config.ShopifyCfg, timeout time.Duration) *Client {
	return &Client{
		cfg:  cfg,
		http: NewHTTPClient("shopify", timeout),
	}
}

// SetBaseURL routes all admin calls to a fixed base URL instead of the
// shop's own domain. Used against local stubs and dev proxies.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// adminBase returns the URL prefix for a shop's admin endpoints
func (c *Client) adminBase(shopDomain string) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return "https://" + shopDomain
}

// AuthorizeURL builds the platform authorization endpoint URL the browser
// is redirected to at install start. No network call is made here.
func (c *Client) AuthorizeURL(shopDomain, redirectURI, state string) string {
	q := url.Values{}
	q.Set("client_id", c.cfg.ClientID)
	q.Set("scope", c.cfg.Scopes)
	q.Set("redirect_uri", redirectURI)
	q.Set("state", state)
	return fmt.Sprintf("https://%s/admin/oauth/authorize?%s", shopDomain, q.Encode())
}

// ExchangeToken swaps an authorization code for an access token.
func (c *Client) ExchangeToken(ctx context.Context, shopDomain, code string) (*TokenGrant, error) {
	payload := map[string]string{
		"client_id":     c.cfg.ClientID,
		"client_secret": c.cfg.ClientSecret,
		"code":          code,
	}

	resp, err := c.http.PostJSON(ctx, c.adminBase(shopDomain)+"/admin/oauth/access_token", payload, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: status %d", ErrTokenExchange, resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		Scope       string `json:"scope"`
	}
	if err := resp.UnmarshalJSON(&body); err != nil {
		return nil, fmt.Errorf("%w: bad response body: %v", ErrTokenExchange, err)
	}
	if body.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access_token", ErrTokenExchange)
	}

	return &TokenGrant{AccessToken: body.AccessToken, Scopes: body.Scope}, nil
}

// RegisterWebhook creates one webhook subscription on the platform. The
// platform rejects a duplicate (topic, address) pair with 422; that means
// the subscription already exists, which is the state we wanted.
func (c *Client) RegisterWebhook(ctx context.Context, shopDomain, accessToken string, sub Subscription) error {
	payload := map[string]interface{}{
		"webhook": map[string]string{
			"topic":   sub.Topic,
			"address": sub.Address,
			"format":  sub.Format,
		},
	}
	headers := map[string]string{"X-Shopify-Access-Token": accessToken}

	url := fmt.Sprintf("%s/admin/api/%s/webhooks.json", c.adminBase(shopDomain), c.cfg.APIVersion)
	resp, err := c.http.PostJSON(ctx, url, payload, headers)
	if err != nil {
		return err
	}
	if resp.IsSuccess() {
		return nil
	}
	if resp.StatusCode == 422 && strings.Contains(resp.String(), "already been taken") {
		return nil
	}

	return fmt.Errorf("register webhook %s failed: status %d", sub.Topic, resp.StatusCode)
}
