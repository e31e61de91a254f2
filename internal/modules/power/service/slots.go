package power

import (
	"fmt"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/pkg/apperror"
)

// Capacity is how many powers of type t the character may hold: one base
// slot plus the extra slots granted by the game master.
func Capacity(ch *entity.Character, t entity.PowerType) int {
	extra := 0
	switch t {
	case entity.PowerStand:
		extra = ch.ExtraStandSlots
	case entity.PowerZanpakuto:
		extra = ch.ExtraZanpakutoSlots
	case entity.PowerCursed:
		extra = ch.ExtraCursedSlots
	}
	if extra < 0 {
		extra = 0
	}
	return 1 + extra
}

// Unlocked reports whether the character may hold powers of type t at all.
func Unlocked(ch *entity.Character, t entity.PowerType) bool {
	switch t {
	case entity.PowerStand:
		return ch.StandUnlocked
	case entity.PowerZanpakuto:
		return ch.ZanpakutoUnlocked
	case entity.PowerCursed:
		return ch.CursedEnergyUnlocked
	}
	return false
}

type SlotUsage struct {
	Type     entity.PowerType
	Existing int
	Pending  int
	Capacity int
}

// CanSubmit is the advisory check run when an idea is submitted.
func (u SlotUsage) CanSubmit() bool {
	return u.Existing+u.Pending < u.Capacity
}

// CanApprove is the authoritative check run when an idea is approved.
func (u SlotUsage) CanApprove() bool {
	return u.Existing < u.Capacity
}

func (u SlotUsage) limitError() error {
	return apperror.Validation(apperror.ReasonSlotLimitReached,
		fmt.Sprintf("no free %s slot (%d of %d used)", u.Type, u.Existing, u.Capacity))
}

// CheckSubmit returns SlotLimitReached when no slot is left for a new idea.
func (u SlotUsage) CheckSubmit() error {
	if !u.CanSubmit() {
		return u.limitError()
	}
	return nil
}

// CheckApprove returns SlotLimitReached when no slot is left to materialise an idea.
func (u SlotUsage) CheckApprove() error {
	if !u.CanApprove() {
		return u.limitError()
	}
	return nil
}
