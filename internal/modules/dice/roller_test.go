package dice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource replays fixed d3 faces.
type scriptedSource struct {
	faces []int
	err   error
}

func (s *scriptedSource) Roll(size int) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	f := s.faces[0]
	s.faces = s.faces[1:]
	return f, nil
}

func (s *scriptedSource) RollN(count, size int) ([]int, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := s.faces[:count]
	s.faces = s.faces[count:]
	return out, nil
}

func TestRollMapsFaces(t *testing.T) {
	r := NewRoller(&scriptedSource{faces: []int{1, 2, 3, 3}})

	got, err := r.Roll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [Count]int{-1, 0, 1, 1}, got)
	assert.Equal(t, 1, Sum(got))
}

func TestRollRejectsOutOfRangeFace(t *testing.T) {
	r := NewRoller(&scriptedSource{faces: []int{1, 4, 2, 2}})

	_, err := r.Roll(context.Background())
	assert.Error(t, err)
}

func TestRollPropagatesSourceError(t *testing.T) {
	boom := errors.New("entropy exhausted")
	r := NewRoller(&scriptedSource{err: boom})

	_, err := r.Roll(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestRollHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRoller(&scriptedSource{faces: []int{2, 2, 2, 2}}).Roll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultRollerStaysInRange(t *testing.T) {
	r := NewDefaultRoller()
	for i := 0; i < 200; i++ {
		faces, err := r.Roll(context.Background())
		require.NoError(t, err)
		for _, f := range faces {
			assert.GreaterOrEqual(t, f, -1)
			assert.LessOrEqual(t, f, 1)
		}
		total := Sum(faces)
		assert.GreaterOrEqual(t, total, -4)
		assert.LessOrEqual(t, total, 4)
	}
}

func TestFatePointFaces(t *testing.T) {
	assert.Equal(t, 4, Sum(FatePointFaces()))
}
