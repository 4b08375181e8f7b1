package client

import (
	"context"
	"net/http"

	"fileportal/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// AddressParams are the fields for creating or updating an address.
type AddressParams struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

// AddressService manages the account's postal addresses.
type AddressService struct {
	client *Client
}

func NewAddressService(c *Client) *AddressService {
	return &AddressService{client: c}
}

func (s *AddressService) List(ctx context.Context) ([]*entity.Address, error) {
	var addresses []*entity.Address
	if err := s.client.getJSON(ctx, "addresses/", &addresses); err != nil {
		return nil, err
	}

	return addresses, nil
}

func (s *AddressService) Create(ctx context.Context, params AddressParams) (*entity.Address, error) {
	var address entity.Address
	if err := s.client.sendJSON(ctx, http.MethodPost, "addresses/", params, &address); err != nil {
		return nil, err
	}

	return &address, nil
}

func (s *AddressService) Update(ctx context.Context, id uuid.UUID, params AddressParams) (*entity.Address, error) {
	var address entity.Address
	if err := s.client.sendJSON(ctx, http.MethodPut, "addresses/"+id.String()+"/", params, &address); err != nil {
		return nil, err
	}

	return &address, nil
}

func (s *AddressService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.sendJSON(ctx, http.MethodDelete, "addresses/"+id.String()+"/", nil, nil)
}

// SetDefault marks one address as the default. After the server confirms,
// the returned list carries the flag on exactly that entry and no other,
// regardless of how many entries had it before.
func (s *AddressService) SetDefault(ctx context.Context, addresses []*entity.Address, id uuid.UUID) ([]*entity.Address, error) {
	target := findAddress(addresses, id)
	if target == nil {
		return nil, errors.New("address not in list")
	}

	params := AddressParams{
		Street:     target.Street,
		City:       target.City,
		State:      target.State,
		PostalCode: target.PostalCode,
		Country:    target.Country,
		IsDefault:  true,
	}
	updated, err := s.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}

	result := make([]*entity.Address, 0, len(addresses))
	for _, address := range addresses {
		if address.ID == id {
			result = append(result, updated)

			continue
		}
		copied := *address
		copied.IsDefault = false
		result = append(result, &copied)
	}

	return result, nil
}

func findAddress(addresses []*entity.Address, id uuid.UUID) *entity.Address {
	for _, address := range addresses {
		if address.ID == id {
			return address
		}
	}

	return nil
}

// PhoneParams are the fields for creating or updating a phone number.
type PhoneParams struct {
	Number    string `json:"number"`
	IsPrimary bool   `json:"is_primary"`
}

// PhoneService manages the account's phone numbers.
type PhoneService struct {
	client *Client
}

func NewPhoneService(c *Client) *PhoneService {
	return &PhoneService{client: c}
}

func (s *PhoneService) List(ctx context.Context) ([]*entity.PhoneNumber, error) {
	var phones []*entity.PhoneNumber
	if err := s.client.getJSON(ctx, "phone-numbers/", &phones); err != nil {
		return nil, err
	}

	return phones, nil
}

func (s *PhoneService) Create(ctx context.Context, params PhoneParams) (*entity.PhoneNumber, error) {
	var phone entity.PhoneNumber
	if err := s.client.sendJSON(ctx, http.MethodPost, "phone-numbers/", params, &phone); err != nil {
		return nil, err
	}

	return &phone, nil
}

func (s *PhoneService) Update(ctx context.Context, id uuid.UUID, params PhoneParams) (*entity.PhoneNumber, error) {
	var phone entity.PhoneNumber
	if err := s.client.sendJSON(ctx, http.MethodPut, "phone-numbers/"+id.String()+"/", params, &phone); err != nil {
		return nil, err
	}

	return &phone, nil
}

func (s *PhoneService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.sendJSON(ctx, http.MethodDelete, "phone-numbers/"+id.String()+"/", nil, nil)
}

// SetPrimary marks one phone number as primary, rewriting the list the same
// way SetDefault does for addresses.
func (s *PhoneService) SetPrimary(ctx context.Context, phones []*entity.PhoneNumber, id uuid.UUID) ([]*entity.PhoneNumber, error) {
	var target *entity.PhoneNumber
	for _, phone := range phones {
		if phone.ID == id {
			target = phone

			break
		}
	}
	if target == nil {
		return nil, errors.New("phone number not in list")
	}

	updated, err := s.Update(ctx, id, PhoneParams{Number: target.Number, IsPrimary: true})
	if err != nil {
		return nil, err
	}

	result := make([]*entity.PhoneNumber, 0, len(phones))
	for _, phone := range phones {
		if phone.ID == id {
			result = append(result, updated)

			continue
		}
		copied := *phone
		copied.IsPrimary = false
		result = append(result, &copied)
	}

	return result, nil
}
