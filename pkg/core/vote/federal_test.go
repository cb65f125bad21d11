package vote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

func TestExtractBillNumberFromURL(t *testing.T) {
	assert.Equal(t, "C-11", extractBillNumber("/bills/44-1/C-11/"))
	assert.Equal(t, "S-5", extractBillNumber("/bills/44-1/S-5/"))
	assert.Equal(t, "", extractBillNumber(""))
	assert.Equal(t, "", extractBillNumber("/bills/44-1/unrecognized/"))
}

func TestExtractDispatchesByLegislatureCode(t *testing.T) {
	votes := Extract(context.Background(), legislature.Debate{}, legislature.Legislature{Code: "ZZ"})
	assert.Nil(t, votes, "an unrecognised legislature code has no vote extraction source")
}
