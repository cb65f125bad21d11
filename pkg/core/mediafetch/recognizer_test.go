package mediafetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

func TestFixtureRecognizerReturnsDeterministicSegment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audio.wav")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o644))

	transcript, err := (&FixtureRecognizer{}).Recognize(context.Background(), path, "en")

	require.NoError(t, err)
	assert.Equal(t, "en", transcript.Language)
	assert.Contains(t, transcript.RawText, "10 bytes")
	require.Len(t, transcript.Segments, 1)
	assert.Equal(t, 1.0, transcript.Segments[0].Confidence)
}

func TestFixtureRecognizerToleratesMissingFile(t *testing.T) {
	transcript, err := (&FixtureRecognizer{}).Recognize(context.Background(), "/does/not/exist.wav", "fr")
	require.NoError(t, err)
	assert.Contains(t, transcript.RawText, "0 bytes")
}

func TestHTTPRecognizerPostsAudioPathAndDecodesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req recognizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "en", req.Language)
		assert.True(t, req.VADFilter)
		assert.Contains(t, req.InitialPrompt, "Hansard")

		resp := recognizeResponse{
			RawText:       "hello parliament",
			Segments:      []legislature.TranscriptSegment{{Start: 0, End: 2, Text: "hello parliament", Confidence: 0.9}},
			Model:         "large-v3",
			AvgConfidence: 0.9,
			WordCount:     2,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	r := &HTTPRecognizer{Endpoint: server.URL, Client: server.Client()}
	transcript, err := r.Recognize(context.Background(), "/tmp/audio.wav", "en")

	require.NoError(t, err)
	assert.Equal(t, "hello parliament", transcript.RawText)
	assert.Equal(t, "large-v3", transcript.Model)
	assert.Equal(t, 2, transcript.WordCount)
}

func TestHTTPRecognizerReturnsErrorOnServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	r := &HTTPRecognizer{Endpoint: server.URL, Client: server.Client()}
	_, err := r.Recognize(context.Background(), "/tmp/audio.wav", "en")

	assert.Error(t, err)
}
