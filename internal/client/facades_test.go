package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fileportal/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFacadeClient(t *testing.T, handler http.Handler) (*Client, *MemoryCredentialStore) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := NewMemoryCredentialStore()

	return New(server.URL+"/api", store), store
}

func TestAuthService_LoginSavesCredential(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/", func(w http.ResponseWriter, r *http.Request) {
		var payload loginPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "jane", payload.Username)

		_ = json.NewEncoder(w).Encode(loginResponse{
			Access:  "access-token",
			Refresh: "refresh-token",
			User:    entity.User{Username: "jane", FirstName: "Jane", LastName: "Doe"},
		})
	})

	c, store := newFacadeClient(t, mux)

	user, err := NewAuthService(c).Login(context.Background(), "jane", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jane", user.Username)

	cred, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "access-token", cred.AccessToken)
	assert.Equal(t, "refresh-token", cred.RefreshToken)
	assert.Equal(t, "Jane Doe", cred.DisplayName)
}

func TestAuthService_LoginFailureLeavesStoreEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "No active account found with the given credentials"})
	})

	c, store := newFacadeClient(t, mux)

	_, err := NewAuthService(c).Login(context.Background(), "jane", "wrong")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "No active account found with the given credentials", apiErr.Message)

	_, ok := store.Load()
	assert.False(t, ok)
}

func TestAuthService_LogoutClearsCredentialEvenOnServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/logout/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	c, store := newFacadeClient(t, mux)
	require.NoError(t, store.Save(&Credential{AccessToken: "a", RefreshToken: "r"}))

	err := NewAuthService(c).Logout(context.Background())
	require.Error(t, err)

	_, ok := store.Load()
	assert.False(t, ok, "local session must end regardless of the server")
}

func TestAddressService_SetDefaultLeavesExactlyOneFlag(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/addresses/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		var params AddressParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.True(t, params.IsDefault)

		_ = json.NewEncoder(w).Encode(entity.Address{ID: ids[2], Street: params.Street, IsDefault: true})
	})

	c, store := newFacadeClient(t, mux)
	require.NoError(t, store.Save(&Credential{AccessToken: "a", RefreshToken: "r"}))

	tests := []struct {
		name     string
		starting []*entity.Address
	}{
		{
			name: "previous default demoted",
			starting: []*entity.Address{
				{ID: ids[0], Street: "1 First St", IsDefault: true},
				{ID: ids[1], Street: "2 Second St"},
				{ID: ids[2], Street: "3 Third St"},
			},
		},
		{
			name: "all false to start",
			starting: []*entity.Address{
				{ID: ids[0], Street: "1 First St"},
				{ID: ids[1], Street: "2 Second St"},
				{ID: ids[2], Street: "3 Third St"},
			},
		},
		{
			name: "target already default",
			starting: []*entity.Address{
				{ID: ids[0], Street: "1 First St"},
				{ID: ids[1], Street: "2 Second St"},
				{ID: ids[2], Street: "3 Third St", IsDefault: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewAddressService(c).SetDefault(context.Background(), tt.starting, ids[2])
			require.NoError(t, err)
			require.Len(t, result, 3)

			defaults := 0
			for _, address := range result {
				if address.IsDefault {
					defaults++
					assert.Equal(t, ids[2], address.ID)
				}
			}
			assert.Equal(t, 1, defaults, "exactly one default after the rewrite")
		})
	}
}

func TestAddressService_SetDefaultFailureLeavesListUntouched(t *testing.T) {
	id := uuid.New()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/addresses/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Not found."})
	})

	c, store := newFacadeClient(t, mux)
	require.NoError(t, store.Save(&Credential{AccessToken: "a", RefreshToken: "r"}))

	starting := []*entity.Address{{ID: id, Street: "1 First St", IsDefault: true}}
	other := &entity.Address{ID: uuid.New(), Street: "2 Second St"}
	starting = append(starting, other)

	_, err := NewAddressService(c).SetDefault(context.Background(), starting, other.ID)
	require.Error(t, err)
	assert.True(t, starting[0].IsDefault, "the input list is never mutated")
	assert.False(t, starting[1].IsDefault)
}

func TestPhoneService_SetPrimaryLeavesExactlyOneFlag(t *testing.T) {
	target := uuid.New()
	other := uuid.New()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/phone-numbers/", func(w http.ResponseWriter, r *http.Request) {
		var params PhoneParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.True(t, params.IsPrimary)

		_ = json.NewEncoder(w).Encode(entity.PhoneNumber{ID: target, Number: params.Number, IsPrimary: true})
	})

	c, store := newFacadeClient(t, mux)
	require.NoError(t, store.Save(&Credential{AccessToken: "a", RefreshToken: "r"}))

	phones := []*entity.PhoneNumber{
		{ID: other, Number: "+1 555 0100", IsPrimary: true},
		{ID: target, Number: "+1 555 0101"},
	}

	result, err := NewPhoneService(c).SetPrimary(context.Background(), phones, target)
	require.NoError(t, err)

	primaries := 0
	for _, phone := range result {
		if phone.IsPrimary {
			primaries++
			assert.Equal(t, target, phone.ID)
		}
	}
	assert.Equal(t, 1, primaries)
}

func TestProfileService_GetAndUpdate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/profile/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(Profile{
				User:      entity.User{Username: "jane"},
				Addresses: []*entity.Address{{Street: "1 First St"}},
			})
		case http.MethodPatch:
			var update ProfileUpdate
			require.NoError(t, json.NewDecoder(r.Body).Decode(&update))
			require.NotNil(t, update.FirstName)
			assert.Nil(t, update.Email, "unset fields must be omitted from the patch")

			_ = json.NewEncoder(w).Encode(entity.User{Username: "jane", FirstName: *update.FirstName})
		}
	})

	c, store := newFacadeClient(t, mux)
	require.NoError(t, store.Save(&Credential{AccessToken: "a", RefreshToken: "r"}))

	svc := NewProfileService(c)

	profile, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jane", profile.User.Username)
	assert.Len(t, profile.Addresses, 1)

	firstName := "Janet"
	user, err := svc.Update(context.Background(), ProfileUpdate{FirstName: &firstName})
	require.NoError(t, err)
	assert.Equal(t, "Janet", user.FirstName)
}

func TestStatsService_Get(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stats/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(entity.PortalStats{
			TotalFiles:  3,
			FilesByType: []entity.TypeCount{{FileType: entity.FileTypePDF, Count: 2}, {FileType: entity.FileTypeText, Count: 1}},
			FilesByUser: []entity.UserCount{{Username: "jane", Count: 3}},
		})
	})

	c, store := newFacadeClient(t, mux)
	require.NoError(t, store.Save(&Credential{AccessToken: "a", RefreshToken: "r"}))

	stats, err := NewStatsService(c).Get(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalFiles)
	assert.Len(t, stats.FilesByType, 2)
	assert.Equal(t, "jane", stats.FilesByUser[0].Username)
}
