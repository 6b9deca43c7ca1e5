package errdefer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClose(t *testing.T) {
	t.Parallel()

	t.Run("nil", func(t *testing.T) {
		t.Parallel()

		var err error
		Close(&err, stubCloser{})
		assert.NoError(t, err)
	})

	t.Run("non-nil", func(t *testing.T) {
		t.Parallel()

		give := errors.New("sadness")

		var err error
		Close(&err, stubCloser{err: give})
		assert.ErrorIs(t, err, give)
	})
}

func TestRun(t *testing.T) {
	t.Parallel()

	first := errors.New("first")
	second := errors.New("second")

	err := first
	Run(&err, func() error { return second })
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)

	err = nil
	Run(&err, func() error { return nil })
	assert.NoError(t, err)
}

type stubCloser struct {
	err error
}

func (s stubCloser) Close() error {
	return s.err
}
