package branding

import (
	"context"
	"fmt"
	"time"

	"shopbridge/internal/domain/branding"
	"shopbridge/internal/domain/tenant"
	"shopbridge/internal/store/repositories"
)

// SaveRequest represents a branding configuration save
type SaveRequest struct {
	ShopDomain     string `json:"tenant_id"`
	SenderName     string `json:"sender_name,omitempty"`
	SenderEmail    string `json:"sender_email,omitempty"`
	PrimaryColor   string `json:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty"`
	LogoURL        string `json:"logo_url,omitempty"`
}

// Service handles branding configuration persistence
type Service struct {
	repo repositories.BrandingRepository
}

// NewService creates a new branding service
func NewService(repo repositories.BrandingRepository) *Service {
	return &Service{repo: repo}
}

// Save validates and upserts the branding configuration for a shop
func (s *Service) Save(ctx context.Context, req SaveRequest) error {
	shop, err := tenant.NormalizeShopDomain(req.ShopDomain)
	if err != nil {
		return &branding.ValidationError{Field: "tenant_id", Message: err.Error()}
	}

	cfg := &branding.Config{
		ShopDomain:     shop,
		SenderName:     req.SenderName,
		SenderEmail:    req.SenderEmail,
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
		LogoURL:        req.LogoURL,
		UpdatedAt:      time.Now().UTC(),
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := s.repo.Upsert(ctx, cfg); err != nil {
		return &ServiceError{Op: "save_branding", Err: err}
	}
	return nil
}

// ServiceError represents a service operation error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("branding service [%s]: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
