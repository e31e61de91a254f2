package catalog

import (
	"context"
	"fmt"

	"anoa.com/fatetable/internal/actor"
	"anoa.com/fatetable/internal/entity"
	campaignRepo "anoa.com/fatetable/internal/modules/campaign/repository"
	catalogRepo "anoa.com/fatetable/internal/modules/catalog/repository"
	"anoa.com/fatetable/pkg/apperror"
	"github.com/google/uuid"
)

type EntryInput struct {
	Name        string
	Description string
	UseStatus   string
	Bonus       int
	CampaignID  *uuid.UUID
}

type Service interface {
	CreateSkill(ctx context.Context, a actor.Actor, in EntryInput) (*entity.Skill, error)
	ListSkills(ctx context.Context, campaignID *uuid.UUID) ([]entity.Skill, error)
	CreateTrait(ctx context.Context, a actor.Actor, in EntryInput) (*entity.PersonalityTrait, error)
	ListTraits(ctx context.Context, campaignID *uuid.UUID) ([]entity.PersonalityTrait, error)
}

type service struct {
	catalog   catalogRepo.CatalogRepository
	campaigns campaignRepo.CampaignRepository
}

func NewService(catalog catalogRepo.CatalogRepository, campaigns campaignRepo.CampaignRepository) Service {
	return &service{catalog: catalog, campaigns: campaigns}
}

// authorize lets staff write global entries and a campaign's game master
// write that campaign's entries.
func (s *service) authorize(ctx context.Context, a actor.Actor, campaignID *uuid.UUID) error {
	if campaignID == nil {
		if !a.IsStaff {
			return apperror.Permission(apperror.ReasonNotGameMaster, "only staff can create global entries")
		}
		return nil
	}
	campaign, err := s.campaigns.FindByID(ctx, *campaignID)
	if err != nil {
		return err
	}
	if !a.IsGameMasterOf(campaign) {
		return apperror.Permission(apperror.ReasonNotGameMaster, "only the game master can add to this campaign's catalog")
	}
	return nil
}

func (s *service) CreateSkill(ctx context.Context, a actor.Actor, in EntryInput) (*entity.Skill, error) {
	if err := s.authorize(ctx, a, in.CampaignID); err != nil {
		return nil, err
	}
	skill := &entity.Skill{
		Name:        in.Name,
		Description: in.Description,
		UseStatus:   in.UseStatus,
		Bonus:       in.Bonus,
		CampaignID:  in.CampaignID,
	}
	if err := s.catalog.CreateSkill(ctx, skill); err != nil {
		return nil, fmt.Errorf("create skill: %w", err)
	}
	return skill, nil
}

func (s *service) ListSkills(ctx context.Context, campaignID *uuid.UUID) ([]entity.Skill, error) {
	if campaignID != nil {
		if _, err := s.campaigns.FindByID(ctx, *campaignID); err != nil {
			return nil, err
		}
	}
	return s.catalog.ListSkills(ctx, campaignID)
}

func (s *service) CreateTrait(ctx context.Context, a actor.Actor, in EntryInput) (*entity.PersonalityTrait, error) {
	if err := s.authorize(ctx, a, in.CampaignID); err != nil {
		return nil, err
	}
	trait := &entity.PersonalityTrait{
		Name:        in.Name,
		Description: in.Description,
		UseStatus:   in.UseStatus,
		Bonus:       in.Bonus,
		CampaignID:  in.CampaignID,
	}
	if err := s.catalog.CreateTrait(ctx, trait); err != nil {
		return nil, fmt.Errorf("create trait: %w", err)
	}
	return trait, nil
}

func (s *service) ListTraits(ctx context.Context, campaignID *uuid.UUID) ([]entity.PersonalityTrait, error) {
	if campaignID != nil {
		if _, err := s.campaigns.FindByID(ctx, *campaignID); err != nil {
			return nil, err
		}
	}
	return s.catalog.ListTraits(ctx, campaignID)
}
