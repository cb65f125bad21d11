package pollers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRegistersBuiltinPollersLazily(t *testing.T) {
	p, err := Get("CA")
	require.NoError(t, err)
	assert.IsType(t, &FederalPoller{}, p)

	p, err = Get("ON")
	require.NoError(t, err)
	assert.IsType(t, &OntarioPoller{}, p)

	p, err = Get("QC")
	require.NoError(t, err)
	assert.IsType(t, &QuebecPoller{}, p)
}

func TestGetReturnsErrorForUnknownCode(t *testing.T) {
	_, err := Get("ZZ")
	assert.Error(t, err)
}

func TestRegisterOverridesBuiltin(t *testing.T) {
	fake := &FederalPoller{}
	Register("CA", fake)

	p, err := Get("CA")
	require.NoError(t, err)
	assert.Same(t, fake, p)
}
