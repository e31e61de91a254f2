package bootstrap

import (
	"context"
	"log/slog"

	"anoa.com/fatetable/internal/entity"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(entity.Models()...)
}

// SeedStaffUser creates the global game master account when it is missing.
func SeedStaffUser(ctx context.Context, db *gorm.DB, username, email string) error {
	var count int64
	if err := db.WithContext(ctx).Model(&entity.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		slog.Info("staff user already exists, skipping seed", "username", username)
		return nil
	}

	user := entity.User{
		Username: username,
		Email:    email,
		IsStaff:  true,
		Profile:  &entity.Profile{IsGameMaster: true},
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return err
	}

	slog.Info("staff user seeded", "username", username, "id", user.ID)
	return nil
}

// DefaultSkills is the global skill catalog available in every campaign.
var DefaultSkills = []entity.Skill{
	{Name: "Atletismo", Description: "Correr, saltar, escalar", UseStatus: "Força", Bonus: 1},
	{Name: "Furtividade", Description: "Mover-se sem ser notado", UseStatus: "Destreza", Bonus: 1},
	{Name: "Resistência", Description: "Aguentar dor e cansaço", UseStatus: "Vigor", Bonus: 1},
	{Name: "Investigação", Description: "Encontrar pistas", UseStatus: "Inteligência", Bonus: 1},
	{Name: "Percepção", Description: "Notar detalhes", UseStatus: "Sabedoria", Bonus: 1},
	{Name: "Persuasão", Description: "Convencer pessoas", UseStatus: "Carisma", Bonus: 1},
}

// DefaultTraits is the global personality trait catalog.
var DefaultTraits = []entity.PersonalityTrait{
	{Name: "Corajoso", UseStatus: "Força", Bonus: 1},
	{Name: "Ágil", UseStatus: "Destreza", Bonus: 1},
	{Name: "Teimoso", UseStatus: "Vigor", Bonus: 1},
	{Name: "Curioso", UseStatus: "Inteligência", Bonus: 1},
	{Name: "Paciente", UseStatus: "Sabedoria", Bonus: 1},
	{Name: "Carismático", UseStatus: "Carisma", Bonus: 1},
	{Name: "Leal", Bonus: 0},
	{Name: "Impulsivo", Bonus: 0},
}

// SeedCatalog inserts the global skills and traits that are not there yet.
func SeedCatalog(ctx context.Context, db *gorm.DB) error {
	for _, skill := range DefaultSkills {
		var count int64
		if err := db.WithContext(ctx).Model(&entity.Skill{}).
			Where("name = ? AND campaign_id IS NULL", skill.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			s := skill
			if err := db.WithContext(ctx).Create(&s).Error; err != nil {
				return err
			}
		}
	}

	for _, trait := range DefaultTraits {
		var count int64
		if err := db.WithContext(ctx).Model(&entity.PersonalityTrait{}).
			Where("name = ? AND campaign_id IS NULL", trait.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			t := trait
			if err := db.WithContext(ctx).Create(&t).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
