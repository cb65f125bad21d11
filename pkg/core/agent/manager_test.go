package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxvote/parliament-pipeline/pkg/core/llm"
)

func TestGetProviderUsesTaskOverrideWhenPresent(t *testing.T) {
	m := NewManager(Config{
		ActiveProvider: "gemini",
		Tasks:          map[string]TaskConfig{"summarize": {Provider: "deepseek"}},
	})

	p := m.GetProvider("summarize")

	assert.IsType(t, &llm.DeepSeekProvider{}, p)
}

func TestGetProviderFallsBackToActiveProvider(t *testing.T) {
	m := NewManager(Config{ActiveProvider: "qwen"})

	p := m.GetProvider("categorize")

	assert.IsType(t, &llm.QwenProvider{}, p)
}

func TestGetProviderFallsBackToGeminiWhenActiveUnknown(t *testing.T) {
	m := NewManager(Config{ActiveProvider: "not-a-real-provider"})

	p := m.GetProvider("summarize")

	assert.IsType(t, &llm.GeminiProvider{}, p)
}

func TestGetProviderByNameReturnsNilForUnknownName(t *testing.T) {
	m := NewManager(Config{ActiveProvider: "gemini"})
	assert.Nil(t, m.GetProviderByName("not-a-real-provider"))
	assert.IsType(t, &llm.GeminiProvider{}, m.GetProviderByName("gemini"))
}

func TestSetGlobalProviderRejectsUnknownProvider(t *testing.T) {
	m := NewManager(Config{ActiveProvider: "gemini"})

	err := m.SetGlobalProvider("not-a-real-provider")

	assert.Error(t, err)
	assert.Equal(t, "gemini", m.GetActiveProvider())
}

func TestSetGlobalProviderUpdatesActiveProvider(t *testing.T) {
	m := NewManager(Config{ActiveProvider: "gemini"})

	err := m.SetGlobalProvider("deepseek")

	require.NoError(t, err)
	assert.Equal(t, "deepseek", m.GetActiveProvider())
	assert.IsType(t, &llm.DeepSeekProvider{}, m.GetProvider("anything"))
}
