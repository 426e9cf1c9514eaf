package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"files_manager/server/files/domain"
)

type userAccounts interface {
	Create(ctx context.Context, email, passwordHash string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Count(ctx context.Context) (int64, error)
}

type fileCounter interface {
	Count(ctx context.Context) (int64, error)
}

type UserService struct {
	users userAccounts
	files fileCounter
}

func NewUserService(users userAccounts, files fileCounter) *UserService {
	return &UserService{users: users, files: files}
}

func (s *UserService) Register(ctx context.Context, email, password string) (domain.User, error) {
	if email == "" {
		return domain.User{}, domain.ErrMissingEmail
	}
	if password == "" {
		return domain.User{}, domain.ErrMissingPassword
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.User{}, domain.ErrAlreadyExist
	case !errors.Is(err, pgx.ErrNoRows):
		return domain.User{}, err
	}

	return s.users.Create(ctx, email, hashPassword(password))
}

func (s *UserService) Stats(ctx context.Context) (users, files int64, err error) {
	users, err = s.users.Count(ctx)
	if err != nil {
		return 0, 0, err
	}
	files, err = s.files.Count(ctx)
	if err != nil {
		return 0, 0, err
	}
	return users, files, nil
}
