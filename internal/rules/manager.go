package rules

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/logging"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/store"
)

// Manager is the versioned, thread-safe rule set backed by a rule store.
type Manager struct {
	store   store.RuleStoreInterface
	logger  logging.Logger
	mu      sync.RWMutex // Protects rules and version
	rules   map[string]models.Classification
	version int
}

// NewManager creates a Manager and loads the current rule set from the store.
// A load failure is logged and leaves the manager empty.
func NewManager(ruleStore store.RuleStoreInterface, logger logging.Logger) *Manager {
	m := &Manager{
		store:  ruleStore,
		logger: logging.ForComponent(logger, "RuleManager"),
		rules:  make(map[string]models.Classification),
	}
	if err := m.Reload(); err != nil {
		m.logger.WithError(err).Warn("Failed to load classification rules")
	}
	return m
}

// Reload replaces the in-memory rules with the store's contents.
func (m *Manager) Reload() error {
	if m.store == nil {
		return nil
	}
	set, err := m.store.LoadRules()
	if err != nil {
		return fmt.Errorf("error loading rules: %w", err)
	}

	rules := make(map[string]models.Classification, len(set.Rules))
	duplicates := 0
	for _, r := range set.Rules {
		code := strings.TrimSpace(r.Code)
		if existing, ok := rules[code]; ok {
			duplicates++
			if existing != r.Classification {
				m.logger.Warn("Conflicting duplicate rule ignored, first entry wins",
					logging.Code(code),
					logging.F("kept", existing.Pattern()),
					logging.F("ignored", r.Classification.Pattern()))
			}
			continue
		}
		rules[code] = r.Classification
	}

	m.mu.Lock()
	m.rules = rules
	m.version = set.Version
	m.mu.Unlock()

	m.logger.Info("Classification rules loaded",
		logging.F(logging.FieldCount, len(rules)),
		logging.F(logging.FieldRuleVersion, set.Version),
		logging.F("duplicates", duplicates))
	return nil
}

// GetClassification implements Lookup.
func (m *Manager) GetClassification(code string) (models.Classification, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.rules[strings.TrimSpace(code)]
	return c, ok
}

// Version returns the current rule set version.
func (m *Manager) Version() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// Len returns the number of codes with a rule.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rules)
}

// Snapshot returns an immutable copy of the current rules, for callers that
// must not observe a concurrent Apply halfway through a run.
func (m *Manager) Snapshot() MapLookup {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(MapLookup, len(m.rules))
	for k, v := range m.rules {
		out[k] = v
	}
	return out
}

// Apply persists approved deltas and bumps the version. Deltas with an empty
// classification remove the rule. Nothing changes in memory if the store
// rejects the write.
func (m *Manager) Apply(deltas []models.ClassificationDelta) (int, error) {
	if len(deltas) == 0 {
		return m.Version(), nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next := make(map[string]models.Classification, len(m.rules)+len(deltas))
	for k, v := range m.rules {
		next[k] = v
	}
	for _, d := range deltas {
		code := strings.TrimSpace(d.Code)
		if d.NewClassification.IsEmpty() {
			delete(next, code)
		} else {
			next[code] = d.NewClassification
		}
		m.logger.Debug("Applying classification delta",
			logging.Code(code),
			logging.F("reason", d.Reason))
	}

	version := m.version + 1
	if m.store != nil {
		if err := m.store.SaveRules(toRuleSet(next, version)); err != nil {
			return m.version, fmt.Errorf("error saving rules: %w", err)
		}
	}
	m.rules = next
	m.version = version

	m.logger.Info("Classification rules updated",
		logging.F(logging.FieldCount, len(deltas)),
		logging.F(logging.FieldRuleVersion, version))
	return version, nil
}

func toRuleSet(rules map[string]models.Classification, version int) models.RuleSet {
	codes := make([]string, 0, len(rules))
	for code := range rules {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	set := models.RuleSet{Version: version, Rules: make([]models.ClassificationRule, 0, len(codes))}
	for _, code := range codes {
		set.Rules = append(set.Rules, models.ClassificationRule{Code: code, Classification: rules[code]})
	}
	return set
}
