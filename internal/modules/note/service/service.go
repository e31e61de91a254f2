package note

import (
	"context"
	"fmt"
	"strings"

	"anoa.com/fatetable/internal/actor"
	"anoa.com/fatetable/internal/entity"
	campaignRepo "anoa.com/fatetable/internal/modules/campaign/repository"
	characterRepo "anoa.com/fatetable/internal/modules/character/repository"
	noteRepo "anoa.com/fatetable/internal/modules/note/repository"
	"anoa.com/fatetable/pkg/apperror"
	"github.com/google/uuid"
)

type Service interface {
	Create(ctx context.Context, a actor.Actor, characterID uuid.UUID, content string) (*entity.CharacterNote, error)
	// List returns the notes the actor may read. The owner never sees the
	// game master's notes.
	List(ctx context.Context, a actor.Actor, characterID uuid.UUID) ([]entity.CharacterNote, error)
	Update(ctx context.Context, a actor.Actor, noteID uuid.UUID, content string) (*entity.CharacterNote, error)
	Delete(ctx context.Context, a actor.Actor, noteID uuid.UUID) error
}

type service struct {
	notes      noteRepo.NoteRepository
	characters characterRepo.CharacterRepository
	campaigns  campaignRepo.CampaignRepository
}

func NewService(
	notes noteRepo.NoteRepository,
	characters characterRepo.CharacterRepository,
	campaigns campaignRepo.CampaignRepository,
) Service {
	return &service{notes: notes, characters: characters, campaigns: campaigns}
}

// access loads the character and reports whether the actor reads it as the
// campaign's game master.
func (s *service) access(ctx context.Context, a actor.Actor, characterID uuid.UUID) (*entity.Character, bool, error) {
	ch, err := s.characters.FindByID(ctx, characterID)
	if err != nil {
		return nil, false, err
	}
	c, err := s.campaigns.FindByID(ctx, ch.CampaignID)
	if err != nil {
		return nil, false, err
	}
	if !a.CanActFor(ch, c) {
		return nil, false, apperror.Permission(apperror.ReasonNotOwner, "only the owner or the game master can read these notes")
	}
	gm := a.IsGameMasterOf(c)
	if !gm {
		banned, err := s.campaigns.IsBanned(ctx, c.ID, a.UserID)
		if err != nil {
			return nil, false, err
		}
		if banned {
			return nil, false, apperror.Permission(apperror.ReasonBanned, "you are banned from this campaign")
		}
	}
	return ch, gm, nil
}

func validContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return apperror.Validation(apperror.ReasonInvalidValue, "note content is empty")
	}
	return nil
}

func (s *service) Create(ctx context.Context, a actor.Actor, characterID uuid.UUID, content string) (*entity.CharacterNote, error) {
	if err := validContent(content); err != nil {
		return nil, err
	}
	ch, gm, err := s.access(ctx, a, characterID)
	if err != nil {
		return nil, err
	}

	n := &entity.CharacterNote{
		CharacterID:  ch.ID,
		AuthorID:     a.UserID,
		Content:      content,
		IsMasterNote: gm && ch.OwnerID != a.UserID,
	}
	if err := s.notes.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	n.Author = &entity.User{ID: a.UserID, Username: a.Username}
	return n, nil
}

func (s *service) List(ctx context.Context, a actor.Actor, characterID uuid.UUID) ([]entity.CharacterNote, error) {
	ch, gm, err := s.access(ctx, a, characterID)
	if err != nil {
		return nil, err
	}
	notes, err := s.notes.ListByCharacter(ctx, ch.ID, gm)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []entity.CharacterNote{}
	}
	return notes, nil
}

// editable loads a note the actor may change: its author, or the game master.
func (s *service) editable(ctx context.Context, a actor.Actor, noteID uuid.UUID) (*entity.CharacterNote, error) {
	n, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	_, gm, err := s.access(ctx, a, n.CharacterID)
	if err != nil {
		return nil, err
	}
	if !gm && n.IsMasterNote {
		// Hidden from the owner, so it does not exist for them.
		return nil, apperror.NotFound(apperror.ReasonNoteNotFound, "note not found")
	}
	if !gm && n.AuthorID != a.UserID {
		return nil, apperror.Permission(apperror.ReasonNotOwner, "only the author can change this note")
	}
	return n, nil
}

func (s *service) Update(ctx context.Context, a actor.Actor, noteID uuid.UUID, content string) (*entity.CharacterNote, error) {
	if err := validContent(content); err != nil {
		return nil, err
	}
	n, err := s.editable(ctx, a, noteID)
	if err != nil {
		return nil, err
	}
	n.Content = content
	if err := s.notes.Save(ctx, n); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return n, nil
}

func (s *service) Delete(ctx context.Context, a actor.Actor, noteID uuid.UUID) error {
	n, err := s.editable(ctx, a, noteID)
	if err != nil {
		return err
	}
	return s.notes.Delete(ctx, n.ID)
}
