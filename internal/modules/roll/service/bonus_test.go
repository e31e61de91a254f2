package roll

import (
	"testing"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHiddenBonus(t *testing.T) {
	campaignID := uuid.New()
	ch := &entity.Character{
		CampaignID: campaignID,
		Forca:      3,
		Carisma:    2,
		PersonalityTraits: []entity.PersonalityTrait{
			{Name: "Corajoso", UseStatus: "forca", Bonus: 1},
			{Name: "Bruto", UseStatus: "FORÇA", Bonus: 2},
			{Name: "Gentil", UseStatus: "Carisma", Bonus: 5},
		},
	}

	cases := []struct {
		name  string
		skill *entity.Skill
		want  Breakdown
	}{
		{"no skill", nil, Breakdown{}},
		{
			"accented attribute",
			&entity.Skill{UseStatus: "Força", Bonus: 2},
			Breakdown{SkillBonus: 2, Attribute: entity.AttrForca, AttributeValue: 3, TraitBonus: 3, Total: 8},
		},
		{
			"campaign skill",
			&entity.Skill{UseStatus: "carisma", Bonus: 0, CampaignID: &campaignID},
			Breakdown{Attribute: entity.AttrCarisma, AttributeValue: 2, TraitBonus: 5, Total: 7},
		},
		{
			"unknown attribute keeps only the skill bonus",
			&entity.Skill{UseStatus: "sorte", Bonus: 4},
			Breakdown{SkillBonus: 4, Total: 4},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComputeHiddenBonus(ch, tc.skill)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestComputeHiddenBonusForeignSkill(t *testing.T) {
	other := uuid.New()
	ch := &entity.Character{CampaignID: uuid.New()}

	_, err := ComputeHiddenBonus(ch, &entity.Skill{UseStatus: "forca", CampaignID: &other})
	assert.Equal(t, apperror.ReasonInvalidSkillForCampaign, apperror.ReasonOf(err))
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
