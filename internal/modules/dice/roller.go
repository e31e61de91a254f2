// Package dice rolls the four ternary dice of a FATE check.
package dice

//go:generate mockgen -destination=mock/mock_roller.go -package=dicemock anoa.com/fatetable/internal/modules/dice Roller

import (
	"context"
	"fmt"

	toolkit "github.com/KirkDiggler/rpg-toolkit/dice"
)

// Count is the number of dice in every roll.
const Count = 4

// Roller produces four independent faces, each -1, 0 or +1.
type Roller interface {
	Roll(ctx context.Context) ([Count]int, error)
}

type roller struct {
	src toolkit.Roller
}

// NewRoller adapts a d3 source: face 1 reads as -1, 2 as 0 and 3 as +1.
func NewRoller(src toolkit.Roller) Roller {
	return &roller{src: src}
}

// NewDefaultRoller draws from the toolkit's crypto backed roller.
func NewDefaultRoller() Roller {
	return NewRoller(toolkit.DefaultRoller)
}

func (r *roller) Roll(ctx context.Context) ([Count]int, error) {
	var out [Count]int
	if err := ctx.Err(); err != nil {
		return out, err
	}

	faces, err := r.src.RollN(Count, 3)
	if err != nil {
		return out, fmt.Errorf("roll dice: %w", err)
	}
	if len(faces) != Count {
		return out, fmt.Errorf("roll dice: expected %d faces, got %d", Count, len(faces))
	}

	for i, f := range faces {
		if f < 1 || f > 3 {
			return out, fmt.Errorf("roll dice: face %d out of range", f)
		}
		out[i] = f - 2
	}
	return out, nil
}

// Sum adds the faces of a roll.
func Sum(faces [Count]int) int {
	total := 0
	for _, f := range faces {
		total += f
	}
	return total
}

// FatePointFaces is the outcome forced by spending a fate point.
func FatePointFaces() [Count]int {
	return [Count]int{1, 1, 1, 1}
}
