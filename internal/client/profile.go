package client

import (
	"context"
	"net/http"

	"fileportal/internal/domain/entity"
)

// Profile is the aggregate the profile page shows.
type Profile struct {
	User         entity.User           `json:"user"`
	Addresses    []*entity.Address     `json:"addresses"`
	PhoneNumbers []*entity.PhoneNumber `json:"phone_numbers"`
}

// ProfileUpdate is a partial update; nil fields are left unchanged.
type ProfileUpdate struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// ProfileService reads and updates the account's personal information.
type ProfileService struct {
	client *Client
}

func NewProfileService(c *Client) *ProfileService {
	return &ProfileService{client: c}
}

func (s *ProfileService) Get(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := s.client.getJSON(ctx, "profile/", &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

func (s *ProfileService) Update(ctx context.Context, update ProfileUpdate) (*entity.User, error) {
	var user entity.User
	if err := s.client.sendJSON(ctx, http.MethodPatch, "profile/", update, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// StatsService fetches the portal-wide file counts.
type StatsService struct {
	client *Client
}

func NewStatsService(c *Client) *StatsService {
	return &StatsService{client: c}
}

func (s *StatsService) Get(ctx context.Context) (*entity.PortalStats, error) {
	var stats entity.PortalStats
	if err := s.client.getJSON(ctx, "stats/", &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}
