package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventlens-io/eventlens/pkg/errs"
)

type validateFixture struct {
	Name string `validate:"required"`
	Kind string `validate:"oneof=a b"`
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(&validateFixture{Name: "x", Kind: "a"}))

	err := Validate(&validateFixture{Kind: "c"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrRequestValidate))

	var validateErr *errs.ValidateError
	require.True(t, errors.As(err, &validateErr))
	assert.Equal(t, "required field missing", validateErr.Fields["name"])
	assert.Equal(t, "invalid value: c", validateErr.Fields["kind"])
}
