package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindSurvivesWrapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"validation", Validation("bad input", map[string]string{"query": "too short"}), ErrValidation},
		{"conflict", Conflict("friendship between %d and %d already exists", 1, 2), ErrConflict},
		{"not found", NotFound("user %d not found", 7), ErrNotFound},
		{"not authorized", NotAuthorized("only the recipient can accept"), ErrNotAuthorized},
		{"invalid transition", InvalidTransition("accepted", "pending"), ErrInvalidTransition},
		{"storage", Storage("find friendship", errors.New("connection reset")), ErrStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("accept request: %w", tt.err)

			assert.ErrorIs(t, wrapped, tt.kind)
			assert.Equal(t, tt.kind, Kind(wrapped))
		})
	}
}

func TestStorageKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Storage("delete friendship", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrStorage)
	assert.Equal(t, "delete friendship: connection reset", err.Error())
	assert.Nil(t, Storage("noop", nil))
}

func TestMessageAndFields(t *testing.T) {
	err := fmt.Errorf("search: %w", Validation("invalid search query", map[string]string{"query": "must be at least 2 characters"}))

	assert.Equal(t, "invalid search query", Message(err))
	assert.Equal(t, map[string]string{"query": "must be at least 2 characters"}, FieldErrors(err))
	assert.Contains(t, err.Error(), "query: must be at least 2 characters")
}

func TestKindOfForeignError(t *testing.T) {
	err := errors.New("boom")

	assert.Nil(t, Kind(err))
	assert.Equal(t, "boom", Message(err))
	assert.Nil(t, FieldErrors(err))
}
