// Package store provides persistence for the classification rule dataset.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/logging"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/parsererror"

	"gopkg.in/yaml.v3"
)

// DefaultRulesFile is the rule file name looked up when none is configured.
const DefaultRulesFile = "rules.yaml"

// RuleStoreInterface defines the interface for rule data storage.
// This allows for dependency injection and easier testing.
type RuleStoreInterface interface {
	LoadRules() (models.RuleSet, error)
	SaveRules(set models.RuleSet) error
}

// RuleStore manages loading and saving of the rule dataset as YAML.
type RuleStore struct {
	RulesFile string
	logger    logging.Logger
}

// NewRuleStore creates a new store for the given rule file.
func NewRuleStore(rulesFile string, logger logging.Logger) *RuleStore {
	return &RuleStore{
		RulesFile: rulesFile,
		logger:    logging.ForComponent(logger, "RuleStore"),
	}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *RuleStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join("database", filename),
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	// If still not found, check in user's home directory under .config/financial-dashboard/
	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "financial-dashboard", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

func (s *RuleStore) filename() string {
	if s.RulesFile == "" {
		return DefaultRulesFile
	}
	return s.RulesFile
}

// LoadRules loads the rule set. A missing file yields an empty set at version 0.
func (s *RuleStore) LoadRules() (models.RuleSet, error) {
	filename := s.filename()

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Rules file not found, starting with an empty rule set",
				logging.F(logging.FieldFile, filename))
			return models.RuleSet{}, nil
		}
		return models.RuleSet{}, &parsererror.RuleStoreError{FilePath: filename, Operation: "resolve", Err: err}
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return models.RuleSet{}, &parsererror.RuleStoreError{FilePath: filePath, Operation: "read", Err: err}
	}

	var set models.RuleSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		// Fallback: a bare list of rules without the version envelope
		var rules []models.ClassificationRule
		if listErr := yaml.Unmarshal(data, &rules); listErr != nil {
			return models.RuleSet{}, &parsererror.RuleStoreError{
				FilePath: filePath, Operation: "parse", Err: fmt.Errorf("error parsing rules file: %w", err),
			}
		}
		set = models.RuleSet{Rules: rules}
	}

	s.logger.Debug("Loaded classification rules",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(set.Rules)),
		logging.F(logging.FieldRuleVersion, set.Version))
	return set, nil
}

// SaveRules writes the rule set, creating the database directory when the
// file does not exist yet.
func (s *RuleStore) SaveRules(set models.RuleSet) error {
	filename := s.filename()

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return &parsererror.RuleStoreError{FilePath: filename, Operation: "resolve", Err: err}
		}
		filePath = filename
		if !filepath.IsAbs(filename) {
			filePath = filepath.Join("database", filename)
		}
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return &parsererror.RuleStoreError{FilePath: filePath, Operation: "mkdir", Err: err}
	}

	data, err := yaml.Marshal(set)
	if err != nil {
		return &parsererror.RuleStoreError{FilePath: filePath, Operation: "marshal", Err: err}
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return &parsererror.RuleStoreError{FilePath: filePath, Operation: "write", Err: err}
	}

	s.logger.Debug("Saved classification rules",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(set.Rules)),
		logging.F(logging.FieldRuleVersion, set.Version))
	return nil
}
