package repository

import (
	"context"
	"errors"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/pkg/apperror"
	"anoa.com/fatetable/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteRepository interface {
	Create(ctx context.Context, note *entity.CharacterNote) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CharacterNote, error)
	Save(ctx context.Context, note *entity.CharacterNote) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByCharacter returns notes newest first. Master notes are left out
	// unless withMaster is set.
	ListByCharacter(ctx context.Context, characterID uuid.UUID, withMaster bool) ([]entity.CharacterNote, error)
}

type noteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *entity.CharacterNote) error {
	return database.Conn(ctx, r.db).Create(note).Error
}

func (r *noteRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CharacterNote, error) {
	var note entity.CharacterNote
	if err := database.Conn(ctx, r.db).Preload("Author").Where("id = ?", id).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(apperror.ReasonNoteNotFound, "note not found")
		}
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) Save(ctx context.Context, note *entity.CharacterNote) error {
	return database.Conn(ctx, r.db).Omit("Character", "Author").Save(note).Error
}

func (r *noteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := database.Conn(ctx, r.db).Delete(&entity.CharacterNote{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(apperror.ReasonNoteNotFound, "note not found")
	}
	return nil
}

func (r *noteRepository) ListByCharacter(ctx context.Context, characterID uuid.UUID, withMaster bool) ([]entity.CharacterNote, error) {
	var notes []entity.CharacterNote
	query := database.Conn(ctx, r.db).
		Preload("Author").
		Where("character_id = ?", characterID)
	if !withMaster {
		query = query.Where("is_master_note = ?", false)
	}
	err := query.Order("created_at DESC").Order("id DESC").Find(&notes).Error
	return notes, err
}
