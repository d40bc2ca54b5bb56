package category

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a rules file.
type File struct {
	Categories []Category `yaml:"categories"`
	Rules      []Rule     `yaml:"rules"`
}

// Parse builds a classifier from YAML. Missing sections fall back to the built-in tables.
func Parse(data []byte) (*Classifier, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse category rules: %w", err)
	}

	categories := f.Categories
	if len(categories) == 0 {
		categories = DefaultCategories()
	}
	rules := f.Rules
	if len(rules) == 0 {
		rules = DefaultRules()
	}

	return NewClassifier(categories, rules)
}

// Load reads a rules file. An empty path yields the built-in classifier.
func Load(path string) (*Classifier, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category rules %s: %w", path, err)
	}
	return Parse(data)
}
