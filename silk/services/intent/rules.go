package intent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// rulesFile is the YAML shape for per-deployment overrides. Only the keys
// present in the file replace defaults; classification priority never
// changes.
type rulesFile struct {
	Keywords map[string][]string `yaml:"keywords"`
	Prompts  struct {
		Base   string            `yaml:"base"`
		Stages map[string]string `yaml:"stages"`
	} `yaml:"prompts"`
}

// LoadRuleset reads keyword and prompt overrides from a YAML file on top of
// the built-in defaults. An empty path returns the defaults unchanged.
func LoadRuleset(path string) (*Ruleset, error) {
	rs := DefaultRuleset()
	if path == "" {
		return rs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read intent rules: %w", err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse intent rules: %w", err)
	}

	for name, words := range file.Keywords {
		it := Intent(name)
		if _, known := rs.keywords[it]; !known {
			return nil, fmt.Errorf("intent rules: unknown intent %q", name)
		}
		if len(words) > 0 {
			rs.keywords[it] = append([]string(nil), words...)
		}
	}
	if file.Prompts.Base != "" {
		rs.base = file.Prompts.Base
	}
	for name, text := range file.Prompts.Stages {
		it := Intent(name)
		if _, known := rs.stages[it]; !known {
			return nil, fmt.Errorf("intent rules: unknown stage %q", name)
		}
		if text != "" {
			rs.stages[it] = text
		}
	}
	return rs, nil
}
