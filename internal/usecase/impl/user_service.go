// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "fileportal/internal/delivery/context"
	"fileportal/internal/domain/entity"
	domainerrors "fileportal/internal/domain/errors"
	"fileportal/internal/domain/repository"
	"fileportal/internal/domain/service"
	"fileportal/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager        repository.TransactionManager
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	hasher           service.PasswordHasher
	tokenService     service.TokenService
	logger           *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	Logger           *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:        params.TxManager,
		userRepo:         params.UserRepo,
		refreshTokenRepo: params.RefreshTokenRepo,
		hasher:           params.Hasher,
		tokenService:     params.TokenService,
		logger:           params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new portal account.
func (srv *userService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("username", input.Username))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	var registeredUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		// 1. Reject usernames and emails that are already taken. The unique
		// constraints are the real guard; these lookups just produce the
		// friendlier error.
		if _, err := userRepo.FindByUsername(ctx, input.Username); err == nil {
			return domainerrors.ErrUsernameTaken
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check username availability")
		}

		if _, err := userRepo.FindByEmail(ctx, input.Email); err == nil {
			return domainerrors.ErrEmailTaken
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check email availability")
		}

		// 2. Persist the account.
		newUser := &entity.User{
			Username:     input.Username,
			Email:        input.Email,
			FirstName:    input.FirstName,
			LastName:     input.LastName,
			PasswordHash: hashedPassword,
		}
		if err := userRepo.Create(ctx, newUser); err != nil {
			if errors.Is(err, repository.ErrDuplicateUsername) {
				return domainerrors.ErrUsernameTaken
			}
			if errors.Is(err, repository.ErrDuplicateEmail) {
				return domainerrors.ErrEmailTaken
			}

			return errors.Wrap(err, "failed to create user during registration")
		}

		registeredUser = newUser

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", registeredUser.ID))

	return &usecase.RegisterOutput{User: registeredUser}, nil
}

// Login verifies credentials and opens a new session.
func (srv *userService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	// 1. Find the account. A missing user and a bad password produce the
	// same error, so login probing cannot enumerate usernames.
	user, err := srv.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to find user during login")
	}

	// 2. Verify the password.
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Password mismatch during login", slog.String("username", input.Username))

		return nil, domainerrors.ErrInvalidCredentials
	}

	// 3. Issue the token pair.
	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens during login")
	}

	// 4. Persist the session as a hashed refresh token.
	session := &entity.RefreshToken{
		UserID:    user.ID,
		TokenHash: srv.tokenService.HashToken(refreshToken),
		ExpiresAt: time.Now().Add(srv.tokenService.RefreshTokenDuration()),
	}
	if err := srv.refreshTokenRepo.CreateRefreshToken(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to persist session during login")
	}

	srv.log(ctx).Info("Login succeeded", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
// The refresh token itself keeps its original expiry and is not rotated.
func (srv *userService) Refresh(ctx context.Context, input usecase.RefreshInput) (*usecase.RefreshOutput, error) {
	// 1. The token must be a structurally valid, unexpired refresh JWT.
	claims, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	// 2. The session must still exist server-side. Logout deletes the row,
	// which invalidates the token even before its JWT expiry.
	session, err := srv.refreshTokenRepo.FindRefreshTokenByHash(ctx, srv.tokenService.HashToken(input.RefreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) || errors.Is(err, repository.ErrRefreshTokenExpired) {
			return nil, domainerrors.ErrRefreshTokenInvalid
		}

		return nil, errors.Wrap(err, "failed to look up session during refresh")
	}
	if session.UserID != claims.UserID {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	// 3. Issue a fresh access token only.
	accessToken, _, err := srv.tokenService.GenerateTokens(claims.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token during refresh")
	}

	return &usecase.RefreshOutput{AccessToken: accessToken}, nil
}

// Logout ends the session identified by the refresh token. Unknown tokens
// are treated as already logged out.
func (srv *userService) Logout(ctx context.Context, input usecase.LogoutInput) error {
	err := srv.refreshTokenRepo.DeleteRefreshTokenByHash(ctx, srv.tokenService.HashToken(input.RefreshToken))
	if err != nil && !errors.Is(err, repository.ErrRefreshTokenNotFound) {
		return errors.Wrap(err, "failed to delete session during logout")
	}

	return nil
}
