package service

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn     func(context.Context, *models.User) error
	getByIDFn    func(context.Context, string) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, u *models.User) error {
			if u.ID == "" {
				u.ID = ownerID
			}
			return nil
		},
		getByIDFn: func(_ context.Context, id string) (*models.User, error) {
			return &models.User{ID: id, Email: "author@example.com", Name: "Author"}, nil
		},
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
	}
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Password stored as bcrypt hash", func(t *testing.T) {
		repo := noopUserRepo()
		var created *models.User
		repo.createFn = func(_ context.Context, u *models.User) error {
			u.ID = ownerID
			created = u
			return nil
		}
		svc := NewUserService(repo)

		user, err := svc.Register(ctx, RegisterInput{
			Email:    "Author@Example.com",
			Name:     "  Author  ",
			Password: "hunter22",
		})
		require.NoError(t, err)
		assert.Equal(t, "author@example.com", user.Email, "email is lowercased")
		assert.Equal(t, "Author", user.Name)
		assert.NotEqual(t, "hunter22", created.Password)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("hunter22")))

		cost, err := bcrypt.Cost([]byte(created.Password))
		require.NoError(t, err)
		assert.Equal(t, BcryptCost, cost)
	})

	t.Run("Invalid email rejected", func(t *testing.T) {
		svc := NewUserService(noopUserRepo())
		_, err := svc.Register(ctx, RegisterInput{Email: "not-an-email", Name: "A", Password: "hunter22"})
		assert.Equal(t, models.CodeValidation, appErrCode(t, err))
	})

	t.Run("Short password rejected", func(t *testing.T) {
		svc := NewUserService(noopUserRepo())
		_, err := svc.Register(ctx, RegisterInput{Email: "a@b.co", Name: "A", Password: "12345"})
		assert.Equal(t, models.CodeValidation, appErrCode(t, err))
	})

	t.Run("Blank name rejected", func(t *testing.T) {
		svc := NewUserService(noopUserRepo())
		_, err := svc.Register(ctx, RegisterInput{Email: "a@b.co", Name: "   ", Password: "hunter22"})
		assert.Equal(t, models.CodeValidation, appErrCode(t, err))
	})

	t.Run("Taken email surfaces as conflict", func(t *testing.T) {
		repo := noopUserRepo()
		repo.createFn = func(_ context.Context, _ *models.User) error {
			return models.NewConflictError("Email already registered")
		}
		svc := NewUserService(repo)

		_, err := svc.Register(ctx, RegisterInput{Email: "a@b.co", Name: "A", Password: "hunter22"})
		assert.Equal(t, models.CodeConflict, appErrCode(t, err))
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)

	account := func() *models.User {
		return &models.User{ID: ownerID, Email: "author@example.com", Name: "Author", Password: string(hash)}
	}

	t.Run("Valid credentials", func(t *testing.T) {
		repo := noopUserRepo()
		repo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
			assert.Equal(t, "author@example.com", email)
			return account(), nil
		}
		svc := NewUserService(repo)

		user, err := svc.Login(ctx, LoginInput{Email: " Author@example.com ", Password: "hunter22"})
		require.NoError(t, err)
		assert.Equal(t, ownerID, user.ID)
	})

	t.Run("Unknown email and wrong password look identical", func(t *testing.T) {
		unknownRepo := noopUserRepo()
		svc := NewUserService(unknownRepo)
		_, errUnknown := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "hunter22"})

		wrongRepo := noopUserRepo()
		wrongRepo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) {
			return account(), nil
		}
		svc = NewUserService(wrongRepo)
		_, errWrong := svc.Login(ctx, LoginInput{Email: "author@example.com", Password: "wrong-pass"})

		assert.Equal(t, models.CodeUnauthorized, appErrCode(t, errUnknown))
		assert.Equal(t, models.CodeUnauthorized, appErrCode(t, errWrong))
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})
}
