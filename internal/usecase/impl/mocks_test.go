package impl

import (
	"context"
	"io"
	"log/slog"
	"time"

	"fileportal/internal/domain/entity"
	"fileportal/internal/domain/repository"
	"fileportal/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubTxManager runs the callback immediately against a fixed factory, so
// tests exercise the transactional flows without a database.
type stubTxManager struct {
	factory repository.RepositoryFactory
}

func (m *stubTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.factory)
}

// stubFactory hands out the same mock repositories the test configured.
type stubFactory struct {
	userRepo    repository.UserRepository
	fileRepo    repository.FileRepository
	addressRepo repository.AddressRepository
	phoneRepo   repository.PhoneRepository
	refreshRepo repository.RefreshTokenRepository
}

func (f *stubFactory) UserRepo() repository.UserRepository                 { return f.userRepo }
func (f *stubFactory) FileRepo() repository.FileRepository                 { return f.fileRepo }
func (f *stubFactory) AddressRepo() repository.AddressRepository           { return f.addressRepo }
func (f *stubFactory) PhoneRepo() repository.PhoneRepository               { return f.phoneRepo }
func (f *stubFactory) RefreshTokenRepo() repository.RefreshTokenRepository { return f.refreshRepo }

// --- Repository mocks ---

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*entity.User), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*entity.User), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*entity.User), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

type mockFileRepo struct{ mock.Mock }

func (m *mockFileRepo) CreateFile(ctx context.Context, record *entity.FileRecord) error {
	args := m.Called(ctx, record)

	return args.Error(0)
}

func (m *mockFileRepo) FindFileByID(ctx context.Context, id uuid.UUID) (*entity.FileRecord, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*entity.FileRecord), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockFileRepo) FindFilesByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.FileRecord, error) {
	args := m.Called(ctx, userID)
	if r := args.Get(0); r != nil {
		return r.([]*entity.FileRecord), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockFileRepo) DeleteFile(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *mockFileRepo) CountFiles(ctx context.Context) (int64, error) {
	args := m.Called(ctx)

	return args.Get(0).(int64), args.Error(1)
}

func (m *mockFileRepo) CountFilesByType(ctx context.Context) ([]entity.TypeCount, error) {
	args := m.Called(ctx)
	if c := args.Get(0); c != nil {
		return c.([]entity.TypeCount), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockFileRepo) CountFilesByUser(ctx context.Context) ([]entity.UserCount, error) {
	args := m.Called(ctx)
	if c := args.Get(0); c != nil {
		return c.([]entity.UserCount), args.Error(1)
	}

	return nil, args.Error(1)
}

type mockAddressRepo struct{ mock.Mock }

func (m *mockAddressRepo) CreateAddress(ctx context.Context, address *entity.Address) error {
	args := m.Called(ctx, address)

	return args.Error(0)
}

func (m *mockAddressRepo) FindAddressByID(ctx context.Context, id uuid.UUID) (*entity.Address, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*entity.Address), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockAddressRepo) FindAddressesByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	args := m.Called(ctx, userID)
	if a := args.Get(0); a != nil {
		return a.([]*entity.Address), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockAddressRepo) UpdateAddress(ctx context.Context, address *entity.Address) error {
	args := m.Called(ctx, address)

	return args.Error(0)
}

func (m *mockAddressRepo) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *mockAddressRepo) ClearDefaultAddresses(ctx context.Context, userID uuid.UUID, exceptID uuid.UUID) error {
	args := m.Called(ctx, userID, exceptID)

	return args.Error(0)
}

type mockPhoneRepo struct{ mock.Mock }

func (m *mockPhoneRepo) CreatePhoneNumber(ctx context.Context, phone *entity.PhoneNumber) error {
	args := m.Called(ctx, phone)

	return args.Error(0)
}

func (m *mockPhoneRepo) FindPhoneNumberByID(ctx context.Context, id uuid.UUID) (*entity.PhoneNumber, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*entity.PhoneNumber), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockPhoneRepo) FindPhoneNumbersByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.PhoneNumber, error) {
	args := m.Called(ctx, userID)
	if p := args.Get(0); p != nil {
		return p.([]*entity.PhoneNumber), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockPhoneRepo) UpdatePhoneNumber(ctx context.Context, phone *entity.PhoneNumber) error {
	args := m.Called(ctx, phone)

	return args.Error(0)
}

func (m *mockPhoneRepo) DeletePhoneNumber(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *mockPhoneRepo) ClearPrimaryPhoneNumbers(ctx context.Context, userID uuid.UUID, exceptID uuid.UUID) error {
	args := m.Called(ctx, userID, exceptID)

	return args.Error(0)
}

type mockRefreshTokenRepo struct{ mock.Mock }

func (m *mockRefreshTokenRepo) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	args := m.Called(ctx, token)

	return args.Error(0)
}

func (m *mockRefreshTokenRepo) FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if t := args.Get(0); t != nil {
		return t.(*entity.RefreshToken), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockRefreshTokenRepo) DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)

	return args.Error(0)
}

func (m *mockRefreshTokenRepo) DeleteRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)

	return args.Error(0)
}

func (m *mockRefreshTokenRepo) DeleteExpiredRefreshTokens(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

// --- Domain service mocks ---

type mockTokenService struct{ mock.Mock }

func (m *mockTokenService) GenerateTokens(userID uuid.UUID) (string, string, error) {
	args := m.Called(userID)

	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockTokenService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if c := args.Get(0); c != nil {
		return c.(*service.Claims), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockTokenService) ValidateRefreshToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if c := args.Get(0); c != nil {
		return c.(*service.Claims), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockTokenService) HashToken(token string) string {
	args := m.Called(token)

	return args.String(0)
}

func (m *mockTokenService) RefreshTokenDuration() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}

type mockHasher struct{ mock.Mock }

func (m *mockHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *mockHasher) Check(password, hash string) bool {
	args := m.Called(password, hash)

	return args.Bool(0)
}

type mockFileStore struct{ mock.Mock }

func (m *mockFileStore) Save(ctx context.Context, key string, r io.Reader) error {
	args := m.Called(ctx, key, r)

	return args.Error(0)
}

func (m *mockFileStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockFileStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)

	return args.Error(0)
}
