package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	orig := log.Writer()
	flags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	defer func() {
		log.SetOutput(orig)
		log.SetFlags(flags)
	}()

	fn()
	return buf.String()
}

func TestInfofTagsWithoutLevel(t *testing.T) {
	out := captureLog(t, func() { Infof("pipeline", "debate %s advanced to %s", "d1", "published") })
	assert.True(t, strings.HasPrefix(out, "[pipeline] debate d1 advanced to published"))
}

func TestWarnfTagsWithWarnLevel(t *testing.T) {
	out := captureLog(t, func() { Warnf("dispatch", "skipping candidate %s", "c1") })
	assert.True(t, strings.HasPrefix(out, "[dispatch] WARN: skipping candidate c1"))
}

func TestErrorfTagsWithErrorLevel(t *testing.T) {
	out := captureLog(t, func() { Errorf("pipeline", "stage %s failed", "transcribing") })
	assert.True(t, strings.HasPrefix(out, "[pipeline] ERROR: stage transcribing failed"))
}
