//go:build unit

package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"worklab/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestMark(t *testing.T) {
	sentinel := errs.New("restriction violated")
	cause := errs.New("duration exceeds maximum")

	t.Run("mark is visible to stdlib errors.Is", func(t *testing.T) {
		marked := errs.Mark(cause, sentinel)
		assert.True(t, errors.Is(marked, sentinel))
	})

	t.Run("cause stays matchable", func(t *testing.T) {
		marked := errs.Mark(cause, sentinel)
		assert.True(t, errors.Is(marked, cause))
	})

	t.Run("wrapped mark still matches both", func(t *testing.T) {
		wrapped := errs.Wrap(errs.Mark(cause, sentinel), "create reservation")
		assert.True(t, errors.Is(wrapped, sentinel))
		assert.True(t, errors.Is(wrapped, cause))
	})

	t.Run("stdlib cause chains survive marking", func(t *testing.T) {
		inner := errors.New("no rows")
		marked := errs.Mark(fmt.Errorf("lookup: %w", inner), sentinel)
		assert.True(t, errors.Is(marked, inner))
		assert.True(t, errors.Is(marked, sentinel))
	})

	t.Run("nil cause yields the mark itself", func(t *testing.T) {
		assert.Equal(t, sentinel, errs.Mark(nil, sentinel))
	})

	t.Run("unrelated sentinel does not match", func(t *testing.T) {
		other := errs.New("conflict")
		marked := errs.Mark(cause, sentinel)
		assert.False(t, errors.Is(marked, other))
	})
}
