package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/cardex/internal/domain/contact"
	"github.com/kailas-cloud/cardex/internal/domain/contact/extract"
)

// vocabularyFile is the on-disk keyword table.
type vocabularyFile struct {
	ExtendDefaults bool     `yaml:"extend_defaults"`
	Position       []string `yaml:"position"`
	Company        []string `yaml:"company"`
}

// LoadVocabulary reads a keyword table. An empty path returns the built-in table.
// Keywords are matched case-insensitively. A keyword listed under both position and
// company, in the file or in the extended defaults, is a position keyword.
func LoadVocabulary(path string) (extract.Vocabulary, error) {
	if path == "" {
		return extract.DefaultVocabulary(), nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary %s: %w", path, err)
	}

	var f vocabularyFile
	if err := yaml.Unmarshal(expandEnvVars(data), &f); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary: %w", err)
	}

	vocab := extract.Vocabulary{}
	if f.ExtendDefaults {
		vocab = extract.DefaultVocabulary()
	}
	for _, k := range f.Company {
		k = normalizeKeyword(k)
		if vocab[k] != contact.FieldPosition {
			vocab[k] = contact.FieldCompany
		}
	}
	for _, k := range f.Position {
		vocab[normalizeKeyword(k)] = contact.FieldPosition
	}

	if len(vocab) == 0 {
		return nil, fmt.Errorf("vocabulary %s defines no keywords", path)
	}
	if err := vocab.Validate(); err != nil {
		return nil, fmt.Errorf("invalid vocabulary %s: %w", path, err)
	}
	return vocab, nil
}

func normalizeKeyword(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}
