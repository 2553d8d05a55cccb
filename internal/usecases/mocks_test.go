package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/zhravan/juztadrop-sub000/internal/domain/entities"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	args := m.Called(ctx, f)
	if err := args.Error(0); err != nil {
		return err
	}
	return f(ctx)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, input *entities.UpdateProfileInput) error {
	return m.Called(ctx, id, input).Error(0)
}

func (m *MockUserRepository) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	return m.Called(ctx, id, banned).Error(0)
}

func (m *MockUserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, filter entities.UserListFilter) ([]*entities.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.User), args.Get(1).(int64), args.Error(2)
}

// Mock ModeratorRepository
type MockModeratorRepository struct {
	mock.Mock
}

func (m *MockModeratorRepository) Create(ctx context.Context, moderator *entities.Moderator) error {
	return m.Called(ctx, moderator).Error(0)
}

func (m *MockModeratorRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Moderator, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Moderator), args.Error(1)
}

func (m *MockModeratorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Moderator, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Moderator), args.Error(1)
}

func (m *MockModeratorRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockModeratorRepository) ClaimSeedSlot(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

// Mock OtpTokenRepository
type MockOtpTokenRepository struct {
	mock.Mock
}

func (m *MockOtpTokenRepository) Create(ctx context.Context, token *entities.OtpToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockOtpTokenRepository) Consume(ctx context.Context, email, code string, now time.Time) error {
	return m.Called(ctx, email, code, now).Error(0)
}

func (m *MockOtpTokenRepository) DeleteStale(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// Mock SessionRepository
type MockSessionRepository struct {
	mock.Mock
	kind entities.PrincipalKind
}

func (m *MockSessionRepository) Kind() entities.PrincipalKind {
	return m.kind
}

func (m *MockSessionRepository) Create(ctx context.Context, session *entities.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockSessionRepository) GetByToken(ctx context.Context, token string) (*entities.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Session), args.Error(1)
}

func (m *MockSessionRepository) TouchLastAccessed(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockSessionRepository) DeleteByPrincipal(ctx context.Context, principalID uuid.UUID) (int64, error) {
	args := m.Called(ctx, principalID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// Mock OtpMailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendOTP(ctx context.Context, to, code string) error {
	return m.Called(ctx, to, code).Error(0)
}

// Mock OtpRateLimiter
type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
