package parties

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/khata-erp/khata-erp/internal/shared"
)

// Service provides business logic for parties and the business profile.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a parties service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Get returns one party.
func (s *Service) Get(ctx context.Context, id int64) (*Party, error) {
	return s.repo.Get(ctx, id)
}

// List returns parties, optionally filtered by kind.
func (s *Service) List(ctx context.Context, kind PartyKind) ([]Party, error) {
	return s.repo.List(ctx, kind)
}

// Create adds a party.
func (s *Service) Create(ctx context.Context, req CreatePartyRequest) (*Party, error) {
	party := Party{
		Kind:     req.Kind,
		Name:     req.Name,
		GSTIN:    req.GSTIN,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		State:    req.State,
		IsActive: true,
	}
	id, err := s.repo.Create(ctx, party)
	if err != nil {
		return nil, fmt.Errorf("create party: %w", err)
	}
	party.ID = id
	return &party, nil
}

// Profile returns the business profile settings record.
func (s *Service) Profile(ctx context.Context) (*BusinessProfile, error) {
	return s.repo.GetProfile(ctx)
}

// UpdateProfile applies partial changes to the business profile, creating the
// settings record when none exists yet.
func (s *Service) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*BusinessProfile, error) {
	profile, err := s.repo.GetProfile(ctx)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("get business profile: %w", err)
		}
		profile = &BusinessProfile{ID: 1}
	}

	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.GSTIN != nil {
		profile.GSTIN = req.GSTIN
	}
	if req.Address != nil {
		profile.Address = req.Address
	}
	if req.State != nil {
		profile.State = *req.State
	}

	if err := s.repo.SaveProfile(ctx, *profile); err != nil {
		return nil, fmt.Errorf("save business profile: %w", err)
	}
	return profile, nil
}

// States resolves the two registration states for a document's GST split.
// Either state may come back empty (unregistered profile, party without a
// state); the comparator's unknown-state policy decides that case. A lookup
// failure logs and degrades to empty rather than blocking the document.
func (s *Service) States(ctx context.Context, partyID int64) (businessState, partyState string) {
	if profile, err := s.repo.GetProfile(ctx); err == nil {
		businessState = profile.State
	} else if !errors.Is(err, shared.ErrNotFound) && s.logger != nil {
		s.logger.Warn("load business profile", slog.Any("error", err))
	}

	if partyID != 0 {
		if party, err := s.repo.Get(ctx, partyID); err == nil {
			partyState = party.State
		} else if !errors.Is(err, shared.ErrNotFound) && s.logger != nil {
			s.logger.Warn("load party", slog.Int64("party_id", partyID), slog.Any("error", err))
		}
	}
	return businessState, partyState
}
