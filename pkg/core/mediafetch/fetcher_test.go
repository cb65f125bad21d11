package mediafetch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

func TestInferLanguage(t *testing.T) {
	assert.Equal(t, "en+fr", inferLanguage("CA"))
	assert.Equal(t, "en", inferLanguage("ON"))
	assert.Equal(t, "fr", inferLanguage("QC"))
	assert.Equal(t, "en", inferLanguage("ZZ"))
}

func TestExpectedLanguagesSplitsBilingualFederal(t *testing.T) {
	assert.Equal(t, []string{"en", "fr"}, ExpectedLanguages("CA"))
	assert.Equal(t, []string{"fr"}, ExpectedLanguages("QC"))
}

func TestFindYouTubeURLPrefersMetadataThenSourceURLs(t *testing.T) {
	debate := legislature.Debate{
		Metadata: map[string]interface{}{"youtube_url": "https://youtu.be/abc"},
	}
	assert.Equal(t, "https://youtu.be/abc", findYouTubeURL(debate))

	debate = legislature.Debate{
		SourceURLs: []legislature.SourceURL{{URL: "https://example.com/x"}, {URL: "https://www.youtube.com/watch?v=xyz"}},
	}
	assert.Equal(t, "https://www.youtube.com/watch?v=xyz", findYouTubeURL(debate))

	debate = legislature.Debate{}
	assert.Equal(t, "", findYouTubeURL(debate))
}

func TestCandidatesOrdersPrimaryThenSourcesThenYouTube(t *testing.T) {
	f := &Fetcher{}
	debate := legislature.Debate{
		VideoURL: "https://example.com/primary.mp4",
		SourceURLs: []legislature.SourceURL{
			{Kind: legislature.SourceKindVideo, URL: "https://example.com/alt.mp4", Label: "alt"},
			{Kind: legislature.SourceKindHansard, URL: "https://example.com/transcript"},
		},
		Metadata: map[string]interface{}{"youtube_url": "https://youtu.be/fallback"},
	}

	candidates := f.candidates(debate)

	require.Len(t, candidates, 3)
	assert.Equal(t, "https://example.com/primary.mp4", candidates[0].url)
	assert.Equal(t, "alt", candidates[1].label)
	assert.Equal(t, "youtube", candidates[2].label)
}

func TestClipErrTruncatesLongOutput(t *testing.T) {
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, clipErr(string(long)), 500)
	assert.Equal(t, "short", clipErr("short"))
}

func TestAssetFromFileReadsSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audio.wav")
	require.NoError(t, os.WriteFile(path, []byte("fake-audio-bytes"), 0o644))

	asset, err := assetFromFile(candidateURL{label: "primary", url: "https://example.com/a.mp4"}, path)

	require.NoError(t, err)
	assert.Equal(t, path, asset.LocalPath)
	assert.Equal(t, int64(len("fake-audio-bytes")), asset.FileSizeBytes)
}

func TestAssetFromFileErrorsOnMissingFile(t *testing.T) {
	_, err := assetFromFile(candidateURL{}, filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}
