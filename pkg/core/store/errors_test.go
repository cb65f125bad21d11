package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnavailableWrapsErrStoreUnavailable(t *testing.T) {
	cause := errors.New("connection refused")
	err := unavailable(cause)

	assert.True(t, errors.Is(err, ErrStoreUnavailable))
	assert.True(t, errors.Is(err, cause))
}
