package roll

import (
	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/pkg/apperror"
)

// Breakdown explains how a hidden bonus was built.
type Breakdown struct {
	SkillBonus     int
	Attribute      entity.Attribute
	AttributeValue int
	TraitBonus     int
	Total          int
}

// ComputeHiddenBonus returns the bonus added to a roll made with skill. The
// skill's use_status names an attribute; its value and the bonus of every
// trait tied to the same attribute are added on top of the skill bonus.
// A use_status naming no attribute contributes only the skill bonus.
func ComputeHiddenBonus(ch *entity.Character, skill *entity.Skill) (Breakdown, error) {
	var b Breakdown
	if skill == nil {
		return b, nil
	}
	if !skill.UsableIn(ch.CampaignID) {
		return b, apperror.Validation(apperror.ReasonInvalidSkillForCampaign, "skill does not belong to this campaign")
	}

	b.SkillBonus = skill.Bonus
	b.Total = skill.Bonus

	attr, ok := entity.ParseAttribute(skill.UseStatus)
	if !ok {
		return b, nil
	}
	b.Attribute = attr
	b.AttributeValue = ch.AttributeValue(attr)

	for _, t := range ch.PersonalityTraits {
		if ta, ok := entity.ParseAttribute(t.UseStatus); ok && ta == attr {
			b.TraitBonus += t.Bonus
		}
	}

	b.Total += b.AttributeValue + b.TraitBonus
	return b, nil
}
