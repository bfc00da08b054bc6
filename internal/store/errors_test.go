package store

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestUnavailableMatchesStandardErrorsIs(t *testing.T) {
	err := errors.Wrap(Unavailable(context.Canceled, "memory read"), "building material view")

	assert.True(t, stderrors.Is(err, ErrUnavailable))
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, stderrors.Is(err, ErrNotFound))
	assert.Equal(t, "building material view: memory read: context canceled", err.Error())
}

func TestUnavailableKeepsNotFound(t *testing.T) {
	err := Unavailable(NotFound("Person", "p1"), "getting node")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, stderrors.Is(err, ErrUnavailable))
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestUnavailableNil(t *testing.T) {
	assert.NoError(t, Unavailable(nil, "ignored"))
}
