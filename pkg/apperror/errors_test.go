package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsMatchSentinels(t *testing.T) {
	perm := Permission(ReasonNotGameMaster, "only the game master may do that")
	val := Validation(ReasonSlotLimitReached, "no free slot")
	nf := NotFound(ReasonCharacterNotFound, "character not found")

	assert.ErrorIs(t, perm, ErrForbidden)
	assert.ErrorIs(t, val, ErrInvalidInput)
	assert.ErrorIs(t, val, ErrBadRequest)
	assert.ErrorIs(t, nf, ErrNotFound)

	assert.False(t, errors.Is(perm, ErrNotFound))
	assert.False(t, errors.Is(nf, ErrInvalidInput))
}

func TestReasonSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("complete roll: %w", Validation(ReasonAlreadyFulfilled, "request already fulfilled"))

	assert.Equal(t, ReasonAlreadyFulfilled, ReasonOf(err))
	assert.True(t, HasReason(err, ReasonAlreadyFulfilled))
	assert.Equal(t, http.StatusBadRequest, MapErrorToStatus(err))
}

func TestMapErrorToStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"permission", Permission(ReasonBanned, "banned"), http.StatusForbidden},
		{"not found", NotFound(ReasonRollNotFound, "missing"), http.StatusNotFound},
		{"sentinel rate limit", ErrRateLimitExceeded, http.StatusTooManyRequests},
		{"sentinel unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatus(tc.err))
		})
	}
}
