package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct{ Env, Port, BaseURL, OnboardingURL string }

type ShopifyCfg struct {
	ClientID     string
	ClientSecret string
	Scopes       string
	APIVersion   string
}

type DBCfg struct{ DSN string }
type RedisCfg struct{ Addr string }

type WebhookCfg struct {
	// DeliveryBaseURL is the public base URL webhook subscriptions point at.
	DeliveryBaseURL string
	Topics          []string
}

type SecurityCfg struct {
	AdminToken string
	StateTTL   time.Duration
}

type HTTPCfg struct {
	Timeout time.Duration
}

type Cfg struct {
	App     AppCfg
	Shopify ShopifyCfg
	DB      DBCfg
	Redis   RedisCfg
	Webhook WebhookCfg
	Sec     SecurityCfg
	HTTP    HTTPCfg
}

func Load() Cfg {
	// 1) Load .env into process env (if file exists)
	_ = godotenv.Load()

	// 2) Read from env via viper
	viper.AutomaticEnv()
	viper.SetDefault("APP_ENV", "sandbox")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("SHOPIFY_SCOPES", "read_orders,write_orders,read_customers")
	viper.SetDefault("SHOPIFY_API_VERSION", "2024-01")
	viper.SetDefault("WEBHOOK_TOPICS", "carts/update,checkouts/create,orders/create")
	viper.SetDefault("STATE_TTL", "10m")
	viper.SetDefault("HTTP_TIMEOUT", "10s")
	viper.SetDefault("ADMIN_TOKEN", "")

	cfg := Cfg{
		App: AppCfg{
			Env:           viper.GetString("APP_ENV"),
			Port:          viper.GetString("APP_PORT"),
			BaseURL:       strings.TrimRight(viper.GetString("APP_BASE_URL"), "/"),
			OnboardingURL: strings.TrimRight(viper.GetString("ONBOARDING_URL"), "/"),
		},
		Shopify: ShopifyCfg{
			ClientID:     viper.GetString("SHOPIFY_CLIENT_ID"),
			ClientSecret: viper.GetString("SHOPIFY_CLIENT_SECRET"),
			Scopes:       viper.GetString("SHOPIFY_SCOPES"),
			APIVersion:   viper.GetString("SHOPIFY_API_VERSION"),
		},
		DB:    DBCfg{DSN: viper.GetString("DB_DSN")},
		Redis: RedisCfg{Addr: viper.GetString("REDIS_ADDR")},
		Webhook: WebhookCfg{
			DeliveryBaseURL: strings.TrimRight(viper.GetString("EVENT_DELIVERY_BASE_URL"), "/"),
			Topics:          splitTopics(viper.GetString("WEBHOOK_TOPICS")),
		},
		Sec: SecurityCfg{
			AdminToken: strings.TrimSpace(viper.GetString("ADMIN_TOKEN")),
			StateTTL:   viper.GetDuration("STATE_TTL"),
		},
		HTTP: HTTPCfg{Timeout: viper.GetDuration("HTTP_TIMEOUT")},
	}

	// 3) Fail fast on required settings
	if cfg.Shopify.ClientID == "" || cfg.Shopify.ClientSecret == "" {
		log.Fatal().Msg("SHOPIFY_CLIENT_ID and SHOPIFY_CLIENT_SECRET are required")
	}
	if cfg.App.BaseURL == "" {
		log.Fatal().Msg("APP_BASE_URL is required")
	}
	if cfg.DB.DSN == "" {
		log.Fatal().Msg("DB_DSN is required")
	}
	if cfg.Redis.Addr == "" {
		log.Fatal().Msg("REDIS_ADDR is required")
	}
	if cfg.Webhook.DeliveryBaseURL == "" {
		cfg.Webhook.DeliveryBaseURL = cfg.App.BaseURL
	}
	if cfg.App.OnboardingURL == "" {
		cfg.App.OnboardingURL = cfg.App.BaseURL + "/onboarding"
	}

	return cfg
}

func splitTopics(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
