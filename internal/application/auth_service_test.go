package application_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/secureweb/auth-service/internal/application"
	"github.com/secureweb/auth-service/internal/domain/autherr"
	"github.com/secureweb/auth-service/internal/domain/entity"
	"github.com/secureweb/auth-service/internal/domain/repository"
	"github.com/secureweb/auth-service/pkg/helpers"
)

type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) Create(u *entity.User) error {
	args := m.Called(u)
	return args.Error(0)
}

func (m *UserRepoMock) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *UserRepoMock) GetByUsernameAndEmail(username, email string) (*entity.User, error) {
	args := m.Called(username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *UserRepoMock) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *UserRepoMock) Update(u *entity.User) error {
	args := m.Called(u)
	return args.Error(0)
}

type ResetMailerMock struct {
	mock.Mock
}

func (m *ResetMailerMock) SendPasswordReset(ctx context.Context, to, newPassword string) error {
	args := m.Called(ctx, to, newPassword)
	return args.Error(0)
}

func newService(repo *UserRepoMock, mail *ResetMailerMock) *application.Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return application.NewService(repo, mail, nil, nil, nil, logger)
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := helpers.HashPassword(plain)
	require.NoError(t, err)
	return h
}

func validInput() application.RegisterInput {
	return application.RegisterInput{
		Username: "Alice",
		Password: "Passw0rd!",
		Confirm:  "Passw0rd!",
		Email:    "alice@example.com",
	}
}

func TestRegister_Success(t *testing.T) {
	repo := new(UserRepoMock)
	repo.On("GetByUsernameAndEmail", "alice", "alice@example.com").
		Return(nil, repository.ErrNotFound).Once()
	repo.On("Create", mock.MatchedBy(func(u *entity.User) bool {
		return u.Username == "alice" &&
			u.Email == "alice@example.com" &&
			u.Password != "" &&
			u.Password != "Passw0rd!" &&
			helpers.CheckPassword(u.Password, "Passw0rd!")
	})).Run(func(args mock.Arguments) {
		args.Get(0).(*entity.User).ID = "some-uuid"
	}).Return(nil).Once()

	svc := newService(repo, new(ResetMailerMock))
	got, err := svc.Register(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "some-uuid", got.ID)
	assert.Empty(t, got.Password)
	repo.AssertExpectations(t)
}

func TestRegister_ValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*application.RegisterInput)
		wantErr *autherr.Error
	}{
		{"confirm mismatch", func(in *application.RegisterInput) { in.Confirm = "Other0ne!" }, autherr.ErrPasswordMismatch},
		{"too short", func(in *application.RegisterInput) { in.Password, in.Confirm = "abc", "abc" }, autherr.ErrWeakPassword},
		{"no uppercase", func(in *application.RegisterInput) { in.Password, in.Confirm = "alllowercase1", "alllowercase1" }, autherr.ErrWeakPassword},
		{"no lowercase", func(in *application.RegisterInput) { in.Password, in.Confirm = "ALLUPPERCASE1", "ALLUPPERCASE1" }, autherr.ErrWeakPassword},
		{"no digits", func(in *application.RegisterInput) { in.Password, in.Confirm = "NoDigitsHere", "NoDigitsHere" }, autherr.ErrWeakPassword},
		{"bad email", func(in *application.RegisterInput) { in.Email = "not-an-email" }, autherr.ErrInvalidEmail},
		{"email missing tld", func(in *application.RegisterInput) { in.Email = "alice@localhost" }, autherr.ErrInvalidEmail},
		// mismatch is checked before strength, strength before email
		{"mismatch wins over weak", func(in *application.RegisterInput) { in.Password, in.Confirm = "abc", "xyz" }, autherr.ErrPasswordMismatch},
		{"weak wins over bad email", func(in *application.RegisterInput) {
			in.Password, in.Confirm = "weak", "weak"
			in.Email = "broken"
		}, autherr.ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			svc := newService(repo, new(ResetMailerMock))

			in := validInput()
			tt.mutate(&in)

			got, err := svc.Register(context.Background(), in)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "Create", mock.Anything)
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	t.Run("existing pair reported before insert", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("GetByUsernameAndEmail", "alice", "alice@example.com").
			Return(&entity.User{ID: "u1", Username: "alice"}, nil).Once()

		svc := newService(repo, new(ResetMailerMock))
		got, err := svc.Register(context.Background(), validInput())

		assert.Nil(t, got)
		assert.ErrorIs(t, err, autherr.ErrUserExists)
		repo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("unique index violation is authoritative", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("GetByUsernameAndEmail", "alice", "alice@example.com").
			Return(nil, repository.ErrNotFound).Once()
		repo.On("Create", mock.Anything).Return(repository.ErrDuplicateUsername).Once()

		svc := newService(repo, new(ResetMailerMock))
		got, err := svc.Register(context.Background(), validInput())

		assert.Nil(t, got)
		assert.ErrorIs(t, err, autherr.ErrUserExists)
	})
}

func TestLogin(t *testing.T) {
	stored := &entity.User{
		ID:       "u1",
		Username: "alice",
		Email:    "alice@example.com",
		Password: mustHash(t, "Passw0rd!"),
	}

	t.Run("success is case-insensitive on username", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("GetByUsername", "alice").Return(stored, nil).Once()

		svc := newService(repo, new(ResetMailerMock))
		got, err := svc.Login(context.Background(), "ALICE", "Passw0rd!")

		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
		assert.Empty(t, got.Password)
		repo.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("GetByUsername", "ghost").Return(nil, repository.ErrNotFound).Once()

		svc := newService(repo, new(ResetMailerMock))
		got, err := svc.Login(context.Background(), "ghost", "Passw0rd!")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, autherr.ErrUserNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("GetByUsername", "alice").Return(stored, nil).Once()

		svc := newService(repo, new(ResetMailerMock))
		got, err := svc.Login(context.Background(), "alice", "wrong")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, autherr.ErrInvalidCredentials)
	})
}

func TestChangePassword(t *testing.T) {
	t.Run("success rotates the stored hash", func(t *testing.T) {
		stored := &entity.User{
			ID:       "u1",
			Username: "alice",
			Password: mustHash(t, "OldPassw0rd"),
		}
		repo := new(UserRepoMock)
		repo.On("GetByUsername", "alice").Return(stored, nil).Once()
		repo.On("Update", mock.MatchedBy(func(u *entity.User) bool {
			return helpers.CheckPassword(u.Password, "NewPassw0rd") &&
				!helpers.CheckPassword(u.Password, "OldPassw0rd")
		})).Return(nil).Once()

		svc := newService(repo, new(ResetMailerMock))
		got, err := svc.ChangePassword(context.Background(), "Alice", "OldPassw0rd", "NewPassw0rd", "NewPassw0rd")

		require.NoError(t, err)
		assert.Empty(t, got.Password)
		repo.AssertExpectations(t)

		// the old credential no longer verifies, the new one does
		assert.False(t, helpers.CheckPassword(stored.Password, "OldPassw0rd"))
		assert.True(t, helpers.CheckPassword(stored.Password, "NewPassw0rd"))
	})

	t.Run("confirm mismatch", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := newService(repo, new(ResetMailerMock))
		_, err := svc.ChangePassword(context.Background(), "alice", "old", "new1", "new2")
		assert.ErrorIs(t, err, autherr.ErrPasswordMismatch)
		repo.AssertNotCalled(t, "GetByUsername", mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("GetByUsername", "ghost").Return(nil, repository.ErrNotFound).Once()
		svc := newService(repo, new(ResetMailerMock))
		_, err := svc.ChangePassword(context.Background(), "ghost", "old", "NewPassw0rd", "NewPassw0rd")
		assert.ErrorIs(t, err, autherr.ErrUserNotFound)
	})

	t.Run("wrong old password", func(t *testing.T) {
		stored := &entity.User{Username: "alice", Password: mustHash(t, "OldPassw0rd")}
		repo := new(UserRepoMock)
		repo.On("GetByUsername", "alice").Return(stored, nil).Once()
		svc := newService(repo, new(ResetMailerMock))
		_, err := svc.ChangePassword(context.Background(), "alice", "wrong", "NewPassw0rd", "NewPassw0rd")
		assert.ErrorIs(t, err, autherr.ErrInvalidCredentials)
		repo.AssertNotCalled(t, "Update", mock.Anything)
	})
}

func TestForgotPassword(t *testing.T) {
	t.Run("send-then-commit on success", func(t *testing.T) {
		oldHash := mustHash(t, "OldPassw0rd")
		stored := &entity.User{ID: "u1", Username: "alice", Email: "alice@example.com", Password: oldHash}

		repo := new(UserRepoMock)
		mail := new(ResetMailerMock)

		repo.On("GetByEmail", "alice@example.com").Return(stored, nil).Once()
		var sent string
		mail.On("SendPasswordReset", mock.Anything, "alice@example.com", mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { sent = args.String(2) }).
			Return(nil).Once()
		repo.On("Update", mock.MatchedBy(func(u *entity.User) bool {
			return u.ID == "u1" && u.Password != oldHash
		})).Return(nil).Once()

		svc := newService(repo, mail)
		err := svc.ForgotPassword(context.Background(), "Alice@Example.com")

		require.NoError(t, err)
		require.Len(t, sent, 12)
		assert.True(t, helpers.CheckPassword(stored.Password, sent))
		assert.False(t, helpers.CheckPassword(stored.Password, "OldPassw0rd"))
		repo.AssertExpectations(t)
		mail.AssertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(UserRepoMock)
		mail := new(ResetMailerMock)
		repo.On("GetByEmail", "ghost@example.com").Return(nil, repository.ErrNotFound).Once()

		svc := newService(repo, mail)
		err := svc.ForgotPassword(context.Background(), "ghost@example.com")

		assert.ErrorIs(t, err, autherr.ErrUserNotFound)
		mail.AssertNotCalled(t, "SendPasswordReset", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("delivery failure leaves credential untouched", func(t *testing.T) {
		oldHash := mustHash(t, "OldPassw0rd")
		stored := &entity.User{ID: "u1", Username: "alice", Email: "alice@example.com", Password: oldHash}

		repo := new(UserRepoMock)
		mail := new(ResetMailerMock)
		repo.On("GetByEmail", "alice@example.com").Return(stored, nil).Once()
		mail.On("SendPasswordReset", mock.Anything, "alice@example.com", mock.AnythingOfType("string")).
			Return(errors.New("smtp down")).Once()

		svc := newService(repo, mail)
		err := svc.ForgotPassword(context.Background(), "alice@example.com")

		assert.ErrorIs(t, err, autherr.ErrDeliveryFailed)
		assert.Equal(t, oldHash, stored.Password)
		repo.AssertNotCalled(t, "Update", mock.Anything)
	})
}
