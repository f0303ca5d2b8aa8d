package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NotFound("event not found"), http.StatusNotFound},
		{InvalidInput("bad status"), http.StatusBadRequest},
		{Conflict("duplicate email"), http.StatusConflict},
		{Forbidden("club not allowed"), http.StatusForbidden},
		{Unauthenticated("missing token"), http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, HTTPStatus(c.err), c.err.Error())
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("loading event: %w", NotFound("event %s not found", "abc"))

	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, errors.Is(err, NotFound("")))
	assert.False(t, errors.Is(err, Conflict("")))
	assert.Equal(t, "event abc not found", Message(err))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("E11000 duplicate key")
	err := Wrap(KindConflict, cause, "invitation code already exists")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "invitation code already exists: E11000 duplicate key", err.Error())
	assert.Equal(t, "internal server error", Message(cause))
}
