package install

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"shopbridge/internal/config"
	"shopbridge/internal/domain/tenant"
	"shopbridge/internal/platform"
	"shopbridge/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

// ErrInvalidState marks a callback whose state nonce was never issued,
// was issued for a different shop, expired, or was already consumed.
var ErrInvalidState = errors.New("invalid or expired state")

// Service sequences the install handshake: authorization start, the
// callback's token exchange and credential persistence, and webhook
// provisioning. Each callback runs those steps strictly in order; across
// shops nothing is ordered, and a concurrent reinstall of the same shop is
// safe because the credential write is an upsert keyed by shop domain.
type Service struct {
	cfg      config.Cfg
	api      platform.API
	creds    repositories.CredentialRepository
	states   repositories.StateRepository
	stateTTL time.Duration
}

// NewService creates a new install service
func NewService(cfg config.Cfg, api platform.API, creds repositories.CredentialRepository, states repositories.StateRepository) *Service {
	ttl := cfg.Sec.StateTTL
	if ttl == 0 {
		ttl = 10 * time.Minute
	}
	return &Service{
		cfg:      cfg,
		api:      api,
		creds:    creds,
		states:   states,
		stateTTL: ttl,
	}
}

// StatusResponse represents the install state of one shop
type StatusResponse struct {
	Installed   bool       `json:"installed"`
	ShopDomain  string     `json:"tenant_id,omitempty"`
	InstalledAt *time.Time `json:"installed_at,omitempty"`
}

// BeginInstall validates the shop, issues a one-time nonce bound to it and
// returns the platform authorization URL to redirect the browser to.
func (s *Service) BeginInstall(ctx context.Context, rawShop string) (string, error) {
	shop, err := tenant.NormalizeShopDomain(rawShop)
	if err != nil {
		return "", &ValidationError{Field: "tenant", Message: err.Error()}
	}

	nonce, err := newNonce()
	if err != nil {
		return "", &ServiceError{Op: "generate_nonce", Err: err}
	}

	if err := s.states.Put(ctx, shop, nonce, s.stateTTL); err != nil {
		return "", &ServiceError{Op: "store_state", Err: err}
	}

	log.Info().Str("shop", shop).Msg("install started")

	return s.api.AuthorizeURL(shop, s.cfg.App.BaseURL+"/callback", nonce), nil
}

// CompleteInstall handles the platform's callback redirect. The nonce is
// consumed before any network call so a replayed or raced callback can
// never reach the token exchange. Provisioning failures are logged but do
// not fail the install; the credential is valid and provisioning can be
// re-run from the admin trigger.
func (s *Service) CompleteInstall(ctx context.Context, rawShop, code, state string) (string, error) {
	shop, err := tenant.NormalizeShopDomain(rawShop)
	if err != nil {
		return "", &ValidationError{Field: "tenant", Message: err.Error()}
	}
	if code == "" {
		return "", &ValidationError{Field: "code", Message: "authorization code is required"}
	}
	if state == "" {
		return "", &ValidationError{Field: "state", Message: "state is required"}
	}

	if err := s.states.Consume(ctx, shop, state); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Warn().Str("shop", shop).Str("state", state).Msg("callback rejected: unknown or reused state")
			return "", ErrInvalidState
		}
		return "", &ServiceError{Op: "consume_state", Err: err}
	}

	grant, err := s.api.ExchangeToken(ctx, shop, code)
	if err != nil {
		log.Error().Str("shop", shop).Err(err).Msg("token exchange failed")
		return "", err
	}

	cred, err := tenant.NewCredential(shop, grant.AccessToken, grant.Scopes, time.Now().UTC())
	if err != nil {
		return "", &ServiceError{Op: "build_credential", Err: err}
	}
	if err := s.creds.Upsert(ctx, cred); err != nil {
		// The exchange succeeded but the token was not durably stored.
		// Report retryable, distinct from the exchange failing.
		log.Error().Str("shop", shop).Err(err).Msg("credential persistence failed")
		return "", &ServiceError{Op: "persist_credential", Err: err}
	}

	res := s.Provision(ctx, shop, cred.AccessToken)
	log.Info().
		Str("shop", shop).
		Int("succeeded", res.Succeeded).
		Int("failed", res.Failed).
		Msg("install completed")

	q := url.Values{}
	q.Set("shop", shop)
	q.Set("success", "true")
	return s.cfg.App.OnboardingURL + "?" + q.Encode(), nil
}

// Status reports whether a shop has completed the handshake. Absence of a
// credential row is the valid "not installed" state, not an error.
func (s *Service) Status(ctx context.Context, rawShop string) (*StatusResponse, error) {
	shop, err := tenant.NormalizeShopDomain(rawShop)
	if err != nil {
		return nil, &ValidationError{Field: "tenant", Message: err.Error()}
	}

	cred, err := s.creds.FindByShopDomain(ctx, shop)
	if errors.Is(err, repositories.ErrNotFound) {
		return &StatusResponse{Installed: false}, nil
	}
	if err != nil {
		return nil, &ServiceError{Op: "lookup_credential", Err: err}
	}

	return &StatusResponse{
		Installed:   true,
		ShopDomain:  cred.ShopDomain,
		InstalledAt: &cred.InstalledAt,
	}, nil
}

// newNonce generates a cryptographically random state nonce
func newNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ValidationError represents a client input error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [%s]: %s", e.Field, e.Message)
}

// ServiceError represents a service operation error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("install service [%s]: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
