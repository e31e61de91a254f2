package power

import (
	"fmt"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/internal/modules/power/dto"
	"anoa.com/fatetable/pkg/apperror"
)

// Flags is the unlock state of a character's powers.
type Flags struct {
	StandUnlocked   bool
	ExtraStandSlots int

	CursedEnergyUnlocked bool
	CursedEnergy         int
	ExtraCursedSlots     int

	ZanpakutoUnlocked   bool
	ExtraZanpakutoSlots int
	ShikaiUnlocked      bool
	BankaiUnlocked      bool
	ShikaiActive        bool
	BankaiActive        bool
}

func FlagsOf(ch *entity.Character) Flags {
	return Flags{
		StandUnlocked:        ch.StandUnlocked,
		ExtraStandSlots:      ch.ExtraStandSlots,
		CursedEnergyUnlocked: ch.CursedEnergyUnlocked,
		CursedEnergy:         ch.CursedEnergy,
		ExtraCursedSlots:     ch.ExtraCursedSlots,
		ZanpakutoUnlocked:    ch.ZanpakutoUnlocked,
		ExtraZanpakutoSlots:  ch.ExtraZanpakutoSlots,
		ShikaiUnlocked:       ch.ShikaiUnlocked,
		BankaiUnlocked:       ch.BankaiUnlocked,
		ShikaiActive:         ch.ShikaiActive,
		BankaiActive:         ch.BankaiActive,
	}
}

func (f Flags) ApplyTo(ch *entity.Character) {
	ch.StandUnlocked = f.StandUnlocked
	ch.ExtraStandSlots = f.ExtraStandSlots
	ch.CursedEnergyUnlocked = f.CursedEnergyUnlocked
	ch.CursedEnergy = f.CursedEnergy
	ch.ExtraCursedSlots = f.ExtraCursedSlots
	ch.ZanpakutoUnlocked = f.ZanpakutoUnlocked
	ch.ExtraZanpakutoSlots = f.ExtraZanpakutoSlots
	ch.ShikaiUnlocked = f.ShikaiUnlocked
	ch.BankaiUnlocked = f.BankaiUnlocked
	ch.ShikaiActive = f.ShikaiActive
	ch.BankaiActive = f.BankaiActive
}

// Transition is an unlock flag that went from false to true.
type Transition struct {
	Type  entity.NotificationType
	Title string
}

var (
	unlockStand     = Transition{entity.NotifyUnlockStand, "Stand unlocked"}
	unlockCursed    = Transition{entity.NotifyUnlockCursed, "Cursed energy unlocked"}
	unlockZanpakuto = Transition{entity.NotifyUnlockZanpak, "Zanpakuto unlocked"}
	unlockShikai    = Transition{entity.NotifyUnlockShikai, "Shikai unlocked"}
	unlockBankai    = Transition{entity.NotifyUnlockBankai, "Bankai unlocked"}
)

type gate struct {
	campaignType entity.CampaignType
	changed      bool
	field        string
}

func setBool(dst *bool, v *bool) bool {
	if v == nil || *dst == *v {
		return false
	}
	*dst = *v
	return true
}

func setInt(dst *int, v *int) bool {
	if v == nil || *dst == *v {
		return false
	}
	*dst = *v
	return true
}

func nonNegative(field string, v *int) error {
	if v != nil && *v < 0 {
		return apperror.Validation(apperror.ReasonInvalidValue, fmt.Sprintf("%s must not be negative", field))
	}
	return nil
}

// ApplyStatsPatch applies the unlock part of patch to f. It enforces campaign
// type gating, the zanpakuto -> shikai -> bankai chain and returns every
// unlock flag that newly became true.
func ApplyStatsPatch(campaignType entity.CampaignType, f Flags, patch dto.UpdateStatsRequest) (Flags, []Transition, error) {
	for _, c := range []struct {
		field string
		v     *int
	}{
		{"extra_stand_slots", patch.ExtraStandSlots},
		{"extra_cursed_technique_slots", patch.ExtraCursedSlots},
		{"extra_zanpakuto_slots", patch.ExtraZanpakutoSlots},
		{"cursed_energy", patch.CursedEnergy},
	} {
		if err := nonNegative(c.field, c.v); err != nil {
			return f, nil, err
		}
	}

	old := f
	next := f

	gates := []gate{
		{entity.CampaignJojo, setBool(&next.StandUnlocked, patch.StandUnlocked), "stand_unlocked"},
		{entity.CampaignJojo, setInt(&next.ExtraStandSlots, patch.ExtraStandSlots), "extra_stand_slots"},
		{entity.CampaignJJK, setBool(&next.CursedEnergyUnlocked, patch.CursedEnergyUnlocked), "cursed_energy_unlocked"},
		{entity.CampaignJJK, setInt(&next.CursedEnergy, patch.CursedEnergy), "cursed_energy"},
		{entity.CampaignJJK, setInt(&next.ExtraCursedSlots, patch.ExtraCursedSlots), "extra_cursed_technique_slots"},
		{entity.CampaignBleach, setBool(&next.ZanpakutoUnlocked, patch.ZanpakutoUnlocked), "zanpakuto_unlocked"},
		{entity.CampaignBleach, setInt(&next.ExtraZanpakutoSlots, patch.ExtraZanpakutoSlots), "extra_zanpakuto_slots"},
		{entity.CampaignBleach, setBool(&next.ShikaiUnlocked, patch.ShikaiUnlocked), "shikai_unlocked"},
		{entity.CampaignBleach, setBool(&next.BankaiUnlocked, patch.BankaiUnlocked), "bankai_unlocked"},
	}
	for _, g := range gates {
		if g.changed && campaignType != g.campaignType {
			return f, nil, apperror.Validation(apperror.ReasonWrongCampaignType,
				fmt.Sprintf("%s can only change in %s campaigns", g.field, g.campaignType))
		}
	}

	if next.ShikaiUnlocked && !next.ZanpakutoUnlocked {
		return f, nil, apperror.Validation(apperror.ReasonPrerequisiteMissing, "shikai requires an unlocked zanpakuto")
	}
	if next.BankaiUnlocked && !next.ShikaiUnlocked {
		return f, nil, apperror.Validation(apperror.ReasonPrerequisiteMissing, "bankai requires an unlocked shikai")
	}

	// A locked release cannot stay active.
	if !next.ShikaiUnlocked {
		next.ShikaiActive = false
	}
	if !next.BankaiUnlocked {
		next.BankaiActive = false
	}
	if next.BankaiActive {
		next.ShikaiActive = true
	}

	var transitions []Transition
	if !old.StandUnlocked && next.StandUnlocked {
		transitions = append(transitions, unlockStand)
	}
	if !old.CursedEnergyUnlocked && next.CursedEnergyUnlocked {
		transitions = append(transitions, unlockCursed)
	}
	if !old.ZanpakutoUnlocked && next.ZanpakutoUnlocked {
		transitions = append(transitions, unlockZanpakuto)
	}
	if !old.ShikaiUnlocked && next.ShikaiUnlocked {
		transitions = append(transitions, unlockShikai)
	}
	if !old.BankaiUnlocked && next.BankaiUnlocked {
		transitions = append(transitions, unlockBankai)
	}

	return next, transitions, nil
}

// ApplySheetPatch copies the attribute and descriptive fields of patch onto ch.
func ApplySheetPatch(ch *entity.Character, patch dto.UpdateStatsRequest) error {
	if err := nonNegative("fate_points", patch.FatePoints); err != nil {
		return err
	}
	setInt(&ch.Forca, patch.Forca)
	setInt(&ch.Destreza, patch.Destreza)
	setInt(&ch.Vigor, patch.Vigor)
	setInt(&ch.Inteligencia, patch.Inteligencia)
	setInt(&ch.Sabedoria, patch.Sabedoria)
	setInt(&ch.Carisma, patch.Carisma)
	setInt(&ch.FatePoints, patch.FatePoints)
	if patch.Status != nil {
		ch.Status = *patch.Status
	}
	if patch.Hierarchy != nil {
		ch.Hierarchy = *patch.Hierarchy
	}
	if patch.Role != nil {
		ch.Role = *patch.Role
	}
	return nil
}

// ApplyRelease toggles the shikai and bankai releases. Bankai never stays
// active without shikai.
func ApplyRelease(f Flags, patch dto.SetReleaseRequest) (Flags, error) {
	next := f

	if patch.ShikaiActive != nil {
		if *patch.ShikaiActive && !f.ShikaiUnlocked {
			return f, apperror.Validation(apperror.ReasonReleaseLocked, "shikai is not unlocked")
		}
		next.ShikaiActive = *patch.ShikaiActive
		if !*patch.ShikaiActive && patch.BankaiActive == nil {
			next.BankaiActive = false
		}
	}

	if patch.BankaiActive != nil {
		if *patch.BankaiActive && !f.BankaiUnlocked {
			return f, apperror.Validation(apperror.ReasonReleaseLocked, "bankai is not unlocked")
		}
		next.BankaiActive = *patch.BankaiActive
	}

	if next.BankaiActive {
		next.ShikaiActive = true
	}
	return next, nil
}
