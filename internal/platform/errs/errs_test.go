package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_PreservesChain(t *testing.T) {
	base := errors.New("connection refused")

	err := Wrapf(Wrap(base, "query animal"), "lookup %s", "A1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, base))
	assert.Equal(t, "lookup A1: query animal: connection refused", err.Error())
	assert.Equal(t, []string{
		"lookup A1: query animal: connection refused",
		"query animal: connection refused",
		"connection refused",
	}, Chain(err))
}

func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "x"))
	assert.NoError(t, Wrapf(nil, "x %d", 1))
	assert.Nil(t, Chain(nil))
}
