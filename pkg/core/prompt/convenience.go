package prompt

// Convenience functions for common prompt operations

// GetSummarizerPrompt returns the lay-audience summariser system prompt for a language.
func GetSummarizerPrompt(language string) (string, error) {
	id := "summarize." + language
	return Get().GetSystemPrompt(id)
}

// GetCategorizerPrompt returns the topic-classification system prompt.
func GetCategorizerPrompt() (string, error) {
	return Get().GetSystemPrompt("categorize.topics")
}

// MustGetSummarizerPrompt is like GetSummarizerPrompt but panics on error.
func MustGetSummarizerPrompt(language string) string {
	p, err := GetSummarizerPrompt(language)
	if err != nil {
		panic(err)
	}
	return p
}

// MustGetCategorizerPrompt is like GetCategorizerPrompt but panics on error.
func MustGetCategorizerPrompt() string {
	p, err := GetCategorizerPrompt()
	if err != nil {
		panic(err)
	}
	return p
}

// PromptIDs contains all known prompt identifiers.
var PromptIDs = struct {
	SummarizeEN string
	SummarizeFR string
	Categorize  string
}{
	SummarizeEN: "summarize.en",
	SummarizeFR: "summarize.fr",
	Categorize:  "categorize.topics",
}
