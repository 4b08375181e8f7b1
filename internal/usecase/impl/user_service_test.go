package impl

import (
	"context"
	"testing"
	"time"

	"fileportal/internal/domain/entity"
	domainerrors "fileportal/internal/domain/errors"
	"fileportal/internal/domain/repository"
	"fileportal/internal/domain/service"
	"fileportal/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserService(
	userRepo repository.UserRepository,
	refreshRepo repository.RefreshTokenRepository,
	hasher *mockHasher,
	tokens *mockTokenService,
) usecase.UserUsecase {
	return &userService{
		txManager:        &stubTxManager{factory: &stubFactory{userRepo: userRepo, refreshRepo: refreshRepo}},
		userRepo:         userRepo,
		refreshTokenRepo: refreshRepo,
		hasher:           hasher,
		tokenService:     tokens,
		logger:           newDiscardLogger(),
	}
}

func TestUserService_Register_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	hasher := new(mockHasher)

	hasher.On("Hash", "Sup3rSecret!").Return("hashed", nil)
	userRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, repository.ErrUserNotFound)
	userRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, repository.ErrUserNotFound)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			u := args.Get(1).(*entity.User)
			u.ID = uuid.New()
		}).
		Return(nil)

	service := newUserService(userRepo, nil, hasher, nil)

	out, err := service.Register(context.Background(), usecase.RegisterInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "Sup3rSecret!",
		FirstName: "Alice",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, out.User.ID)
	assert.Equal(t, "alice", out.User.Username)
	assert.Equal(t, "hashed", out.User.PasswordHash)
	userRepo.AssertExpectations(t)
}

func TestUserService_Register_UsernameTaken(t *testing.T) {
	userRepo := new(mockUserRepo)
	hasher := new(mockHasher)

	hasher.On("Hash", mock.Anything).Return("hashed", nil)
	userRepo.On("FindByUsername", mock.Anything, "alice").
		Return(&entity.User{ID: uuid.New(), Username: "alice"}, nil)

	service := newUserService(userRepo, nil, hasher, nil)

	out, err := service.Register(context.Background(), usecase.RegisterInput{
		Username: "alice",
		Email:    "new@example.com",
		Password: "pw",
	})

	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domainerrors.ErrUsernameTaken))
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Register_EmailTaken(t *testing.T) {
	userRepo := new(mockUserRepo)
	hasher := new(mockHasher)

	hasher.On("Hash", mock.Anything).Return("hashed", nil)
	userRepo.On("FindByUsername", mock.Anything, "bob").Return(nil, repository.ErrUserNotFound)
	userRepo.On("FindByEmail", mock.Anything, "taken@example.com").
		Return(&entity.User{ID: uuid.New()}, nil)

	service := newUserService(userRepo, nil, hasher, nil)

	out, err := service.Register(context.Background(), usecase.RegisterInput{
		Username: "bob",
		Email:    "taken@example.com",
		Password: "pw",
	})

	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailTaken))
}

func TestUserService_Login_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	refreshRepo := new(mockRefreshTokenRepo)
	hasher := new(mockHasher)
	tokens := new(mockTokenService)

	userID := uuid.New()
	user := &entity.User{ID: userID, Username: "alice", PasswordHash: "stored-hash"}

	userRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	hasher.On("Check", "correct horse", "stored-hash").Return(true)
	tokens.On("GenerateTokens", userID).Return("access-jwt", "refresh-jwt", nil)
	tokens.On("HashToken", "refresh-jwt").Return("refresh-hash")
	tokens.On("RefreshTokenDuration").Return(7 * 24 * time.Hour)
	refreshRepo.On("CreateRefreshToken", mock.Anything, mock.MatchedBy(func(tok *entity.RefreshToken) bool {
		return tok.UserID == userID && tok.TokenHash == "refresh-hash" && tok.ExpiresAt.After(time.Now())
	})).Return(nil)

	service := newUserService(userRepo, refreshRepo, hasher, tokens)

	out, err := service.Login(context.Background(), usecase.LoginInput{Username: "alice", Password: "correct horse"})

	require.NoError(t, err)
	assert.Equal(t, "access-jwt", out.AccessToken)
	assert.Equal(t, "refresh-jwt", out.RefreshToken)
	assert.Equal(t, user, out.User)
	refreshRepo.AssertExpectations(t)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	userRepo := new(mockUserRepo)
	hasher := new(mockHasher)

	user := &entity.User{ID: uuid.New(), Username: "alice", PasswordHash: "stored-hash"}
	userRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	hasher.On("Check", "wrong", "stored-hash").Return(false)

	service := newUserService(userRepo, nil, hasher, nil)

	out, err := service.Login(context.Background(), usecase.LoginInput{Username: "alice", Password: "wrong"})

	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestUserService_Login_UnknownUserSameError(t *testing.T) {
	userRepo := new(mockUserRepo)
	hasher := new(mockHasher)

	userRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, repository.ErrUserNotFound)

	service := newUserService(userRepo, nil, hasher, nil)

	out, err := service.Login(context.Background(), usecase.LoginInput{Username: "ghost", Password: "pw"})

	assert.Nil(t, out)
	// Unknown users and wrong passwords must be indistinguishable.
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestUserService_Refresh_Success(t *testing.T) {
	refreshRepo := new(mockRefreshTokenRepo)
	tokens := new(mockTokenService)

	userID := uuid.New()
	tokens.On("ValidateRefreshToken", "refresh-jwt").
		Return(&service.Claims{UserID: userID, Type: "refresh"}, nil)
	tokens.On("HashToken", "refresh-jwt").Return("refresh-hash")
	refreshRepo.On("FindRefreshTokenByHash", mock.Anything, "refresh-hash").
		Return(&entity.RefreshToken{ID: uuid.New(), UserID: userID, TokenHash: "refresh-hash"}, nil)
	tokens.On("GenerateTokens", userID).Return("new-access", "unused-refresh", nil)

	service := newUserService(new(mockUserRepo), refreshRepo, new(mockHasher), tokens)

	out, err := service.Refresh(context.Background(), usecase.RefreshInput{RefreshToken: "refresh-jwt"})

	require.NoError(t, err)
	assert.Equal(t, "new-access", out.AccessToken)
}

func TestUserService_Refresh_SessionRevoked(t *testing.T) {
	refreshRepo := new(mockRefreshTokenRepo)
	tokens := new(mockTokenService)

	userID := uuid.New()
	tokens.On("ValidateRefreshToken", "refresh-jwt").Return(&service.Claims{UserID: userID, Type: "refresh"}, nil)
	tokens.On("HashToken", "refresh-jwt").Return("refresh-hash")
	refreshRepo.On("FindRefreshTokenByHash", mock.Anything, "refresh-hash").
		Return(nil, repository.ErrRefreshTokenNotFound)

	service := newUserService(new(mockUserRepo), refreshRepo, new(mockHasher), tokens)

	out, err := service.Refresh(context.Background(), usecase.RefreshInput{RefreshToken: "refresh-jwt"})

	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestUserService_Refresh_InvalidToken(t *testing.T) {
	tokens := new(mockTokenService)
	tokens.On("ValidateRefreshToken", "garbage").Return(nil, errors.New("parse token"))

	service := newUserService(new(mockUserRepo), new(mockRefreshTokenRepo), new(mockHasher), tokens)

	out, err := service.Refresh(context.Background(), usecase.RefreshInput{RefreshToken: "garbage"})

	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestUserService_Logout_UnknownTokenIsNoop(t *testing.T) {
	refreshRepo := new(mockRefreshTokenRepo)
	tokens := new(mockTokenService)

	tokens.On("HashToken", "stale-jwt").Return("stale-hash")
	refreshRepo.On("DeleteRefreshTokenByHash", mock.Anything, "stale-hash").
		Return(repository.ErrRefreshTokenNotFound)

	service := newUserService(new(mockUserRepo), refreshRepo, new(mockHasher), tokens)

	err := service.Logout(context.Background(), usecase.LogoutInput{RefreshToken: "stale-jwt"})

	assert.NoError(t, err)
}
