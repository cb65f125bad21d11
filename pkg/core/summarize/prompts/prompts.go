// Package prompts bundles the summariser and categoriser prompt templates
// so the binary ships them without depending on a runtime directory path.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sync"

	"github.com/voxvote/parliament-pipeline/pkg/core/prompt"
)

//go:embed prompts/summarize/*.json prompts/categorize/*.json
var files embed.FS

var loadOnce sync.Once
var loadErr error

// Load registers every bundled prompt into the global prompt registry. It
// is idempotent and safe to call from multiple package init paths.
func Load() error {
	loadOnce.Do(func() {
		loadErr = fs.WalkDir(files, "prompts", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}

			data, err := files.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading bundled prompt %s: %w", path, err)
			}

			var pt prompt.PromptTemplate
			if err := json.Unmarshal(data, &pt); err != nil {
				return fmt.Errorf("parsing bundled prompt %s: %w", path, err)
			}

			return prompt.Get().Register(&pt)
		})
	})
	return loadErr
}
