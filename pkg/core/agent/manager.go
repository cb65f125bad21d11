// Package agent selects and drives the LLM provider used by the
// summarization and categorization stages.
package agent

import (
	"context"
	"fmt"

	"github.com/voxvote/parliament-pipeline/pkg/core/llm"
)

// Config controls which LLM provider backs each task, with a global
// fallback when a task has no explicit override.
type Config struct {
	ActiveProvider string                `yaml:"active_provider"`
	Tasks          map[string]TaskConfig `yaml:"tasks"`
}

// TaskConfig overrides the provider for a single task, e.g. "summarize" or
// "categorize".
type TaskConfig struct {
	Provider    string `yaml:"provider"`
	Description string `yaml:"description"`
}

// Manager is a registry of LLM providers keyed by name, with task-level
// routing on top.
type Manager struct {
	config    Config
	providers map[string]llm.Provider
}

// NewManager builds a Manager with the providers wired to real API clients.
func NewManager(config Config) *Manager {
	return &Manager{
		config: config,
		providers: map[string]llm.Provider{
			"gemini":   &llm.GeminiProvider{},
			"deepseek": &llm.DeepSeekProvider{},
			"qwen":     &llm.QwenProvider{},
		},
	}
}

// GetProvider resolves the provider for a task: task override, then the
// global active provider, then gemini as the final fallback.
func (m *Manager) GetProvider(task string) llm.Provider {
	if taskConfig, ok := m.config.Tasks[task]; ok && taskConfig.Provider != "" {
		if p, ok := m.providers[taskConfig.Provider]; ok {
			return p
		}
	}

	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p
	}

	return m.providers["gemini"]
}

// GetProviderByName retrieves a provider instance by its specific name
// (e.g. "deepseek", "gemini", "qwen").
func (m *Manager) GetProviderByName(name string) llm.Provider {
	return m.providers[name]
}

// ExecutePrompt adapts the system prompt to the resolved provider's style
// and generates a response.
func (m *Manager) ExecutePrompt(ctx context.Context, task string, rawPrompt string, rawSystemPrompt string, options map[string]interface{}) (string, error) {
	provider := m.GetProvider(task)
	if provider == nil {
		return "", fmt.Errorf("no provider available for task %q", task)
	}

	adaptedSystemPrompt := provider.AdaptInstructions(rawSystemPrompt)
	return provider.GenerateResponse(ctx, rawPrompt, adaptedSystemPrompt, options)
}

// SetGlobalProvider changes the default provider used when a task has no
// override.
func (m *Manager) SetGlobalProvider(newProvider string) error {
	if _, ok := m.providers[newProvider]; !ok {
		return fmt.Errorf("provider %s not found", newProvider)
	}
	m.config.ActiveProvider = newProvider
	return nil
}

// GetActiveProvider returns the name of the current default provider.
func (m *Manager) GetActiveProvider() string {
	return m.config.ActiveProvider
}
