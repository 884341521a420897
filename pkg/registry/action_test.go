package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthadana/alur/pkg/models"
)

func TestActionRegistryLookup(t *testing.T) {
	reg := NewActionRegistry()

	called := false
	reg.Register("do_thing", func(context.Context, *models.StatusTransition) error {
		called = true

		return nil
	})

	fn, err := reg.Lookup("do_thing")
	require.NoError(t, err)
	require.NoError(t, fn(context.Background(), nil))
	assert.True(t, called)

	_, err = reg.Lookup("missing")
	assert.Error(t, err)
}

func TestRegisterDeprecatedFailsLoudly(t *testing.T) {
	reg := NewActionRegistry()
	reg.RegisterDeprecated("old_thing")

	fn, err := reg.Lookup("old_thing")
	require.NoError(t, err)

	err = fn(context.Background(), nil)
	require.Error(t, err)

	var deprecated *DeprecatedActionError
	require.True(t, errors.As(err, &deprecated))
	assert.Equal(t, "old_thing", deprecated.Name)
}
