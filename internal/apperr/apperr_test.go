package apperr

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestKindOfSurvivesWrapping(t *testing.T) {
	err := New(NotFound, "deliverable %s not found", "abc")
	wrapped := fmt.Errorf("loading review page: %w", err)

	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, NotFound, kind)
	assert.True(t, Is(wrapped, NotFound))
	assert.False(t, Is(wrapped, Conflict))
}

func TestKindOfPlainError(t *testing.T) {
	_, ok := KindOf(fmt.Errorf("connection reset"))
	assert.False(t, ok)
}

func TestWrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("duplicate key 23505")
	err := Wrap(Conflict, cause, "invoice number taken")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "invoice number taken")
	assert.Contains(t, err.Error(), "23505")
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{Validation, fiber.StatusBadRequest},
		{MultiProjectSelection, fiber.StatusBadRequest},
		{InvalidReference, fiber.StatusUnprocessableEntity},
		{InvalidTransition, fiber.StatusConflict},
		{AlreadyFinalized, fiber.StatusConflict},
		{Conflict, fiber.StatusConflict},
		{NotFound, fiber.StatusNotFound},
		{Forbidden, fiber.StatusForbidden},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(New(tc.kind, "x")))
	}
	assert.Equal(t, fiber.StatusInternalServerError, HTTPStatus(fmt.Errorf("boom")))
}
