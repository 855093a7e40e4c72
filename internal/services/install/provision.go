package install

import (
	"context"
	"errors"
	"time"

	"shopbridge/internal/domain/tenant"
	"shopbridge/internal/platform"
	"shopbridge/internal/store/repositories"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// TopicFailure records one webhook descriptor that could not be registered
type TopicFailure struct {
	Topic string `json:"topic"`
	Error string `json:"error"`
}

// Result aggregates independent per-descriptor outcomes of one
// provisioning run
type Result struct {
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Failures  []TopicFailure `json:"failures,omitempty"`
}

// Provision registers the configured webhook subscriptions for a shop.
// Each descriptor is attempted independently; one failing topic never
// short-circuits the rest. Partial provisioning is an accepted degraded
// state, logged per topic for manual remediation.
func (s *Service) Provision(ctx context.Context, shopDomain, accessToken string) Result {
	var res Result
	for _, sub := range s.Subscriptions() {
		if err := s.registerOne(ctx, shopDomain, accessToken, sub); err != nil {
			log.Error().
				Str("shop", shopDomain).
				Str("topic", sub.Topic).
				Err(err).
				Msg("webhook registration failed")
			res.Failed++
			res.Failures = append(res.Failures, TopicFailure{Topic: sub.Topic, Error: err.Error()})
			continue
		}
		res.Succeeded++
	}
	return res
}

// Reprovision re-runs webhook provisioning for an already-installed shop.
// Registration is an upsert on the platform side, so running it again for
// topics that already succeeded is harmless.
func (s *Service) Reprovision(ctx context.Context, rawShop string) (Result, error) {
	shop, err := tenant.NormalizeShopDomain(rawShop)
	if err != nil {
		return Result{}, &ValidationError{Field: "tenant", Message: err.Error()}
	}

	cred, err := s.creds.FindByShopDomain(ctx, shop)
	if errors.Is(err, repositories.ErrNotFound) {
		return Result{}, repositories.ErrNotFound
	}
	if err != nil {
		return Result{}, &ServiceError{Op: "lookup_credential", Err: err}
	}

	return s.Provision(ctx, shop, cred.AccessToken), nil
}

// Subscriptions derives the webhook descriptors from static configuration
func (s *Service) Subscriptions() []platform.Subscription {
	subs := make([]platform.Subscription, 0, len(s.cfg.Webhook.Topics))
	for _, topic := range s.cfg.Webhook.Topics {
		subs = append(subs, platform.Subscription{
			Topic:   topic,
			Address: s.cfg.Webhook.DeliveryBaseURL + "/webhooks/" + topic,
			Format:  "json",
		})
	}
	return subs
}

// registerOne attempts a single registration with a short bounded retry.
// Registration is idempotent on the platform side, so retrying after an
// ambiguous failure cannot create duplicates.
func (s *Service) registerOne(ctx context.Context, shopDomain, accessToken string, sub platform.Subscription) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = 5 * time.Second

	return backoff.Retry(func() error {
		return s.api.RegisterWebhook(ctx, shopDomain, accessToken, sub)
	}, backoff.WithContext(backoff.WithMaxRetries(bo, 2), ctx))
}
