package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(New(KindNotFound, "gone")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))

	// Classification survives fmt.Errorf wrapping.
	wrapped := fmt.Errorf("context: %w", New(KindForbidden, "nope"))
	assert.Equal(t, KindForbidden, KindOf(wrapped))
}

func TestMessage(t *testing.T) {
	err := Wrap(KindConflict, "email already in use", errors.New("dup key"))
	assert.Equal(t, "email already in use", Message(err))
	assert.Contains(t, err.Error(), "dup key")

	assert.Equal(t, "plain", Message(errors.New("plain")))
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := Wrap(KindInternal, "outer", inner)
	assert.ErrorIs(t, err, inner)
}

func TestNewf(t *testing.T) {
	err := Newf(KindValidation, "missing: %s", "location")
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "missing: location", Message(err))
}
