package guard_test

import (
	"errors"
	"testing"

	"courierhub/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("properly_constructed_guard_returns_nil", func(t *testing.T) {
		// Given
		g := guard.NewConstructorGuard()
		customError := errors.New("not constructed")

		// When
		err := g.Validate(customError)

		// Then
		require.NoError(t, err)
	})

	t.Run("constructed_guard_accepts_nil_error", func(t *testing.T) {
		g := guard.NewConstructorGuard()
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard // zero value
		expectedError := errors.New("entity not constructed")

		// When
		err := g.Validate(expectedError)

		// Then
		require.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

// TestConstructorGuardUsage shows the intended embedding pattern on a domain
// value object.
func TestConstructorGuardUsage(t *testing.T) {
	type pushAddress struct {
		value string
		guard guard.ConstructorGuard
	}

	errNotConstructed := errors.New("pushAddress must be created via newPushAddress")

	newPushAddress := func(value string) (pushAddress, error) {
		if value == "" {
			return pushAddress{}, errors.New("value is required")
		}
		return pushAddress{value: value, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructed_value_passes_validation", func(t *testing.T) {
		addr, err := newPushAddress("ExponentPushToken[abc]")
		require.NoError(t, err)
		require.NoError(t, addr.guard.Validate(errNotConstructed))
		assert.Equal(t, "ExponentPushToken[abc]", addr.value)
	})

	t.Run("zero_value_fails_validation", func(t *testing.T) {
		var addr pushAddress

		err := addr.guard.Validate(errNotConstructed)

		require.Error(t, err)
		assert.Equal(t, errNotConstructed, err)
	})
}

func TestConstructorGuardDefaultError(t *testing.T) {
	require.Error(t, guard.ErrDefaultConstructorGuard)
	assert.Equal(t, "object must be created via its constructor", guard.ErrDefaultConstructorGuard.Error())
}
