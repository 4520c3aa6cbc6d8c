package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Service - сценарии API. Каждый метод - ровно одна транзакция Store.Tx.
type Service struct {
	store    Store
	hasher   PasswordHasher
	validate *validator.Validate

	// Now подменяется в тестах
	Now func() time.Time
}

func NewService(store Store, hasher PasswordHasher) *Service {
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	return &Service{store: store, hasher: hasher, validate: newValidator(), Now: time.Now}
}

func (s *Service) now() time.Time {
	// Postgres хранит микросекунды
	return s.Now().UTC().Truncate(time.Microsecond)
}

type RegisterInput struct {
	Username string `json:"username" validate:"username"`
	Email    string `json:"email" validate:"user_email"`
	Password string `json:"password" validate:"required"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (UserView, error) {
	if err := s.check(in); err != nil {
		return UserView{}, err
	}

	// bcrypt медленный, считаем до открытия транзакции
	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return UserView{}, fmt.Errorf("hash password: %w", err)
	}

	var out UserView
	err = s.store.Tx(ctx, "register", func(tx Store) error {
		if _, err := tx.UserByUsername(ctx, in.Username); err == nil {
			return Conflict("Username already registered")
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		if _, err := tx.UserByEmail(ctx, in.Email); err == nil {
			return Conflict("Email already registered")
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		u := User{
			Username:       in.Username,
			Email:          in.Email,
			HashedPassword: hashed,
			CreatedAt:      s.now(),
		}
		if err := tx.CreateUser(ctx, &u); err != nil {
			if errors.Is(err, ErrDuplicateEmail) {
				return Conflict("Email already registered")
			}
			if errors.Is(err, ErrDuplicate) {
				return Conflict("Username already registered")
			}
			return err
		}
		out = toUserView(u)
		return nil
	})
	return out, err
}

// Authenticate проверяет пару логин/пароль для выдачи токена
func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	var out User
	err := s.store.Tx(ctx, "authenticate", func(tx Store) error {
		u, err := tx.UserByUsername(ctx, username)
		if errors.Is(err, ErrNotFound) {
			return Unauthorized("Incorrect username or password")
		}
		if err != nil {
			return err
		}
		if !s.hasher.Verify(u.HashedPassword, password) {
			return Unauthorized("Incorrect username or password")
		}
		out = u
		return nil
	})
	return out, err
}

// requireActor - пользователь из токена должен существовать в этой же транзакции
func requireActor(ctx context.Context, tx Store, actorID int64) (User, error) {
	u, err := tx.UserByID(ctx, actorID)
	if errors.Is(err, ErrNotFound) {
		return User{}, Unauthorized("Could not validate credentials")
	}
	return u, err
}

func validatePage(skip, limit int) error {
	if skip < 0 {
		return BadRequest("skip must be >= 0")
	}
	if limit < 0 {
		return BadRequest("limit must be >= 0")
	}
	return nil
}
