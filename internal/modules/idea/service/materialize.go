package idea

import (
	"context"
	"fmt"
	"strings"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/pkg/apperror"
	"anoa.com/fatetable/pkg/validator"
)

// StandStats are the six letters a game master grades a stand with.
type StandStats struct {
	DestructivePower     string
	Speed                string
	RangeStat            string
	Stamina              string
	Precision            string
	DevelopmentPotential string
}

// ApprovePowerInput carries the fields a game master fills in on approval.
// Only the fields of the idea's type are read.
type ApprovePowerInput struct {
	ResponseMessage string

	StandType string
	Stats     StandStats

	ShikaiCommand string
	ShikaiName    string
	BankaiCommand string
	BankaiName    string

	TechniqueType string
}

func statLetter(field, value string) (string, error) {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == "" {
		return "", apperror.Validation(apperror.ReasonMissingApprovalField, field+" is required")
	}
	if !validator.IsStatLetter(value) {
		return "", apperror.Validation(apperror.ReasonInvalidStatLetter,
			fmt.Sprintf("%s must be one of %s", field, strings.Join(validator.StatLetters, ",")))
	}
	return value, nil
}

func (in StandStats) graded() (StandStats, error) {
	fields := []struct {
		name string
		dst  *string
	}{
		{"destructive_power", &in.DestructivePower},
		{"speed", &in.Speed},
		{"range_stat", &in.RangeStat},
		{"stamina", &in.Stamina},
		{"precision", &in.Precision},
		{"development_potential", &in.DevelopmentPotential},
	}
	for _, f := range fields {
		v, err := statLetter(f.name, *f.dst)
		if err != nil {
			return StandStats{}, err
		}
		*f.dst = v
	}
	return in, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

// materialize creates the power an approved idea describes.
func (s *service) materialize(ctx context.Context, idea *entity.PowerIdea, payload Payload, in ApprovePowerInput) error {
	switch p := payload.(type) {
	case StandPayload:
		stats, err := in.Stats.graded()
		if err != nil {
			return err
		}
		return s.powers.CreateStand(ctx, &entity.Stand{
			CharacterID:          idea.CharacterID,
			Name:                 idea.Name,
			Description:          idea.Description,
			StandType:            orDefault(in.StandType, p.StandType),
			DestructivePower:     stats.DestructivePower,
			Speed:                stats.Speed,
			RangeStat:            stats.RangeStat,
			Stamina:              stats.Stamina,
			Precision:            stats.Precision,
			DevelopmentPotential: stats.DevelopmentPotential,
		})

	case ZanpakutoPayload:
		spirit := orDefault(p.SpiritName, idea.Name)
		return s.powers.CreateZanpakuto(ctx, &entity.Zanpakuto{
			CharacterID:   idea.CharacterID,
			Name:          idea.Name,
			Description:   idea.Description,
			SpiritName:    spirit,
			ShikaiCommand: orDefault(in.ShikaiCommand, "Awaken, "+spirit),
			ShikaiName:    orDefault(in.ShikaiName, idea.Name+" (Shikai)"),
			BankaiCommand: orDefault(in.BankaiCommand, "Bankai"),
			BankaiName:    orDefault(in.BankaiName, idea.Name+" (Bankai)"),
		})

	case CursedPayload:
		technique := orDefault(in.TechniqueType, p.TechniqueType)
		if technique == "" {
			return apperror.Validation(apperror.ReasonMissingApprovalField, "technique_type is required")
		}
		return s.powers.CreateCursedTechnique(ctx, &entity.CursedTechnique{
			CharacterID:   idea.CharacterID,
			Name:          idea.Name,
			Description:   idea.Description,
			TechniqueType: technique,
		})
	}
	return fmt.Errorf("materialize: unsupported payload %T", payload)
}
