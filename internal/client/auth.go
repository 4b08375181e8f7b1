package client

import (
	"context"
	"net/http"

	"fileportal/internal/domain/entity"
)

// AuthService handles account creation and the session lifecycle. Login
// saves the credential through the store so later commands and restarts find
// an active session; Logout clears it.
type AuthService struct {
	client *Client
}

func NewAuthService(c *Client) *AuthService {
	return &AuthService{client: c}
}

// RegisterParams are the fields for a new account.
type RegisterParams struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register creates an account. It does not log in; call Login afterwards.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (*entity.User, error) {
	var user entity.User
	if err := s.client.sendJSON(ctx, http.MethodPost, "register/", params, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    entity.User `json:"user"`
}

// Login exchanges a username and password for tokens and persists them.
func (s *AuthService) Login(ctx context.Context, username, password string) (*entity.User, error) {
	var resp loginResponse
	payload := loginPayload{Username: username, Password: password}
	if err := s.client.sendJSON(ctx, http.MethodPost, "token/", payload, &resp); err != nil {
		return nil, err
	}

	cred := &Credential{
		AccessToken:  resp.Access,
		RefreshToken: resp.Refresh,
		DisplayName:  resp.User.DisplayName(),
	}
	if err := s.client.Store().Save(cred); err != nil {
		return nil, err
	}

	return &resp.User, nil
}

// Logout revokes the server-side session and clears the local credential.
// The local credential is cleared even when the server call fails, so the
// user is never stuck logged in.
func (s *AuthService) Logout(ctx context.Context) error {
	cred, ok := s.client.Store().Load()
	if !ok {
		return nil
	}

	payload := map[string]string{"refresh": cred.RefreshToken}
	err := s.client.sendJSON(ctx, http.MethodPost, "token/logout/", payload, nil)
	if clearErr := s.client.Store().Clear(); clearErr != nil {
		return clearErr
	}

	return err
}
