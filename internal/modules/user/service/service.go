package user

import (
	"context"
	"fmt"
	"strings"

	"anoa.com/fatetable/internal/actor"
	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/internal/modules/user/dto"
	"anoa.com/fatetable/internal/modules/user/repository"
	"anoa.com/fatetable/pkg/apperror"
)

type CreateInput struct {
	Username     string
	Email        string
	IsGameMaster bool
	Bio          string
}

type Service interface {
	Me(ctx context.Context, a actor.Actor) (*dto.MeResponse, error)
	// CreateUser opens an account. Staff only; authentication itself is
	// delegated to whoever issues the bearer tokens.
	CreateUser(ctx context.Context, a actor.Actor, in CreateInput) (*entity.User, error)
	List(ctx context.Context, a actor.Actor) ([]entity.User, error)
}

type service struct {
	repo repository.UserRepository
}

func NewService(repo repository.UserRepository) Service {
	return &service{repo: repo}
}

func (s *service) Me(ctx context.Context, a actor.Actor) (*dto.MeResponse, error) {
	u, err := s.repo.FindByID(ctx, a.UserID)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		IsGameMaster: u.IsGameMaster(),
	}, nil
}

func (s *service) CreateUser(ctx context.Context, a actor.Actor, in CreateInput) (*entity.User, error) {
	if !a.IsStaff {
		return nil, apperror.Permission(apperror.ReasonNotGameMaster, "only staff can create accounts")
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	taken, err := s.repo.Taken(ctx, in.Username, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Validation(apperror.ReasonInvalidValue, "username or email already registered")
	}

	u := &entity.User{
		Username: in.Username,
		Email:    in.Email,
		Profile:  &entity.Profile{IsGameMaster: in.IsGameMaster, Bio: in.Bio},
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *service) List(ctx context.Context, a actor.Actor) ([]entity.User, error) {
	if !a.IsStaff {
		return nil, apperror.Permission(apperror.ReasonNotGameMaster, "only staff can list accounts")
	}
	return s.repo.List(ctx)
}
