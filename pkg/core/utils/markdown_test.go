package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanMarkdownStripsLanguageTaggedFence(t *testing.T) {
	input := "```markdown\n{\"summary\":\"ok\"}\n```"
	assert.Equal(t, `{"summary":"ok"}`, CleanMarkdown(input))
}

func TestCleanMarkdownStripsGenericFence(t *testing.T) {
	input := "```\n{\"summary\":\"ok\"}\n```"
	assert.Equal(t, `{"summary":"ok"}`, CleanMarkdown(input))
}

func TestCleanMarkdownLeavesUnfencedTextAlone(t *testing.T) {
	input := "  {\"summary\":\"ok\"}  "
	assert.Equal(t, `{"summary":"ok"}`, CleanMarkdown(input))
}

func TestValidateMarkdownAlwaysParsesPermissively(t *testing.T) {
	assert.True(t, ValidateMarkdown("# Heading\n\nSome **bold** text."))
	assert.True(t, ValidateMarkdown(""))
}
