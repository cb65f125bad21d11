package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePromptFile(t *testing.T, dir, relPath, contents string) {
	t.Helper()
	full := filepath.Join(dir, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(contents), 0o644))
}

func TestLoadFromDirectoryRegistersPromptsAndSchemas(t *testing.T) {
	base := t.TempDir()
	writePromptFile(t, base, "prompts/summarize/en.json", `{"system_prompt":"Summarize for a lay audience."}`)
	writePromptFile(t, base, "schemas/summary.json", `{"type":"object"}`)

	r := Get()
	r.Clear()
	defer r.Clear()

	require.NoError(t, LoadFromDirectory(base))

	pt, err := r.GetPrompt("summarize.en")
	require.NoError(t, err)
	assert.Equal(t, "summarize", pt.Category)
	assert.Equal(t, "Summarize for a lay audience.", pt.SystemPrompt)

	schema, err := r.GetSchema("summary")
	require.NoError(t, err)
	assert.Equal(t, `{"type":"object"}`, schema.JSONSchema)
}

func TestLoadFromDirectoryErrorsWhenPromptsDirMissing(t *testing.T) {
	base := t.TempDir()
	r := Get()
	r.Clear()
	defer r.Clear()

	err := LoadFromDirectory(base)
	assert.Error(t, err)
}

func TestGenerateIDFromPathJoinsWithDots(t *testing.T) {
	id := generateIDFromPath(filepath.Join("base", "summarize", "en.json"), "base")
	assert.Equal(t, "summarize.en", id)
}

func TestDetectCategoryUsesFirstPathSegment(t *testing.T) {
	category := detectCategory(filepath.Join("base", "summarize", "en.json"), "base")
	assert.Equal(t, "summarize", category)

	category = detectCategory(filepath.Join("base", "flat.json"), "base")
	assert.Equal(t, "default", category)
}

func TestRenderUserPromptSubstitutesVariables(t *testing.T) {
	pt := &PromptTemplate{ID: "greet", UserPromptTmpl: "Hello {{.Name}}, today is {{.Date}}."}
	ctx := NewContext().Set("Name", "Jane").Set("Date", "2026-02-09")

	rendered, err := RenderUserPrompt(pt, ctx)

	require.NoError(t, err)
	assert.Equal(t, "Hello Jane, today is 2026-02-09.", rendered)
}

func TestRenderUserPromptEmptyTemplateReturnsEmptyString(t *testing.T) {
	pt := &PromptTemplate{ID: "empty"}
	rendered, err := RenderUserPrompt(pt, NewContext())

	require.NoError(t, err)
	assert.Equal(t, "", rendered)
}
