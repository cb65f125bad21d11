// Package mediafetch acquires a debate's audio for transcription and runs
// it through a speech recogniser when no scraped transcript is available.
package mediafetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/voxvote/parliament-pipeline/pkg/core/legislature"
)

// ErrNoMediaSource is returned when every candidate source failed.
var ErrNoMediaSource = errors.New("mediafetch: no usable media source")

const userAgent = "Vox.Vote Parliament Tracker/1.0"

// Fetcher downloads and normalises a debate's audio to 16kHz mono WAV.
type Fetcher struct {
	StorageRoot string
	HTTPClient  *http.Client
}

// NewFetcher builds a Fetcher rooted at storageRoot, where storageRoot/<debate_id>/audio.wav
// is the canonical output location for every debate.
func NewFetcher(storageRoot string) *Fetcher {
	return &Fetcher{
		StorageRoot: storageRoot,
		HTTPClient:  &http.Client{Timeout: 600 * time.Second},
	}
}

// candidateURL is one source worth trying, in priority order.
type candidateURL struct {
	label string
	url   string
}

// Fetch tries every candidate URL for a debate in order and returns the
// resulting media asset on the first success. It never partially succeeds:
// any audio.wav a failed candidate left behind is removed before the next
// candidate is tried.
func (f *Fetcher) Fetch(ctx context.Context, debate legislature.Debate, legislatureCode string) (legislature.MediaAsset, error) {
	outputDir := filepath.Join(f.StorageRoot, debate.ID)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return legislature.MediaAsset{}, fmt.Errorf("mediafetch: creating output dir: %w", err)
	}
	outputPath := filepath.Join(outputDir, "audio.wav")

	for _, c := range f.candidates(debate) {
		asset, err := f.fetchOne(ctx, c, outputPath)
		if err == nil {
			asset.DebateID = debate.ID
			asset.Language = inferLanguage(legislatureCode)
			asset.Status = legislature.MediaAssetReady
			return asset, nil
		}
		os.Remove(outputPath)
	}

	return legislature.MediaAsset{}, ErrNoMediaSource
}

func (f *Fetcher) candidates(debate legislature.Debate) []candidateURL {
	var out []candidateURL
	if debate.VideoURL != "" {
		out = append(out, candidateURL{label: "primary", url: debate.VideoURL})
	}
	for _, src := range debate.SourceURLs {
		if src.Kind == legislature.SourceKindVideo && src.URL != "" {
			label := src.Label
			if label == "" {
				label = "source"
			}
			out = append(out, candidateURL{label: label, url: src.URL})
		}
	}
	if yt := findYouTubeURL(debate); yt != "" {
		out = append(out, candidateURL{label: "youtube", url: yt})
	}
	return out
}

func (f *Fetcher) fetchOne(ctx context.Context, c candidateURL, outputPath string) (legislature.MediaAsset, error) {
	switch {
	case strings.Contains(c.url, ".m3u8") || strings.Contains(strings.ToLower(c.url), "manifest"):
		return f.fetchHLS(ctx, c, outputPath)
	case c.label == "youtube" || strings.Contains(c.url, "youtube.com") || strings.Contains(c.url, "youtu.be"):
		return f.fetchYouTube(ctx, c, outputPath)
	default:
		return f.fetchDirect(ctx, c, outputPath)
	}
}

func (f *Fetcher) fetchDirect(ctx context.Context, c candidateURL, outputPath string) (legislature.MediaAsset, error) {
	tempPath := strings.TrimSuffix(outputPath, ".wav") + ".tmp"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return legislature.MediaAsset{}, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return legislature.MediaAsset{}, fmt.Errorf("downloading %s: %w", c.url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return legislature.MediaAsset{}, fmt.Errorf("downloading %s: status %d", c.url, resp.StatusCode)
	}

	out, err := os.Create(tempPath)
	if err != nil {
		return legislature.MediaAsset{}, err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tempPath)
		return legislature.MediaAsset{}, fmt.Errorf("writing %s: %w", tempPath, err)
	}
	out.Close()
	defer os.Remove(tempPath)

	if err := extractAudio(ctx, tempPath, outputPath); err != nil {
		return legislature.MediaAsset{}, err
	}

	return assetFromFile(c, outputPath)
}

func (f *Fetcher) fetchHLS(ctx context.Context, c candidateURL, outputPath string) (legislature.MediaAsset, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Hour)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", c.url,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		outputPath,
	)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return legislature.MediaAsset{}, fmt.Errorf("ffmpeg HLS download from %s failed: %w: %s", c.url, err, clipErr(stderr.String()))
	}

	return assetFromFile(c, outputPath)
}

func (f *Fetcher) fetchYouTube(ctx context.Context, c candidateURL, outputPath string) (legislature.MediaAsset, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Hour)
	defer cancel()

	cmd := exec.CommandContext(ctx, "yt-dlp",
		"--extract-audio",
		"--audio-format", "wav",
		"--audio-quality", "0",
		"--postprocessor-args", "ffmpeg:-ar 16000 -ac 1",
		"-o", strings.TrimSuffix(outputPath, ".wav")+".%(ext)s",
		c.url,
	)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return legislature.MediaAsset{}, fmt.Errorf("yt-dlp download from %s failed: %w: %s", c.url, err, clipErr(stderr.String()))
	}
	if _, err := os.Stat(outputPath); err != nil {
		return legislature.MediaAsset{}, fmt.Errorf("yt-dlp did not produce %s", outputPath)
	}

	return assetFromFile(c, outputPath)
}

func extractAudio(ctx context.Context, inputPath, outputPath string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", inputPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		outputPath,
	)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg audio extraction failed: %w: %s", err, clipErr(stderr.String()))
	}
	return nil
}

func probeDuration(path string) int {
	cmd := exec.Command("ffprobe",
		"-v", "quiet",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0
	}
	return int(seconds)
}

func assetFromFile(c candidateURL, path string) (legislature.MediaAsset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return legislature.MediaAsset{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return legislature.MediaAsset{
		SourceURL:       c.url,
		LocalPath:       path,
		FileSizeBytes:   info.Size(),
		DurationSeconds: probeDuration(path),
	}, nil
}

func findYouTubeURL(debate legislature.Debate) string {
	if debate.Metadata != nil {
		if v, ok := debate.Metadata["youtube_url"].(string); ok && v != "" {
			return v
		}
	}
	for _, src := range debate.SourceURLs {
		if strings.Contains(src.URL, "youtube.com") || strings.Contains(src.URL, "youtu.be") {
			return src.URL
		}
	}
	return ""
}

// inferLanguage returns the expected recognition languages for a
// legislature, joined for the bilingual federal case.
func inferLanguage(legislatureCode string) string {
	switch legislatureCode {
	case "CA":
		return "en+fr"
	case "ON":
		return "en"
	case "QC":
		return "fr"
	default:
		return "en"
	}
}

// ExpectedLanguages splits inferLanguage's output into the individual
// recognition passes the orchestrator must run.
func ExpectedLanguages(legislatureCode string) []string {
	return strings.Split(inferLanguage(legislatureCode), "+")
}

func clipErr(s string) string {
	if len(s) > 500 {
		return s[:500]
	}
	return s
}
