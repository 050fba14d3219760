package store

import (
	"sync"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
)

// MockRuleStore is an in-memory RuleStoreInterface for testing.
type MockRuleStore struct {
	mu    sync.Mutex
	Set   models.RuleSet
	Saves int

	// Error flags for testing error conditions
	LoadRulesError error
	SaveRulesError error
}

// LoadRules returns a copy of the mock rule set.
func (m *MockRuleStore) LoadRules() (models.RuleSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadRulesError != nil {
		return models.RuleSet{}, m.LoadRulesError
	}
	set := models.RuleSet{Version: m.Set.Version}
	set.Rules = append(set.Rules, m.Set.Rules...)
	return set, nil
}

// SaveRules replaces the mock rule set.
func (m *MockRuleStore) SaveRules(set models.RuleSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveRulesError != nil {
		return m.SaveRulesError
	}
	m.Set = models.RuleSet{Version: set.Version}
	m.Set.Rules = append(m.Set.Rules, set.Rules...)
	m.Saves++
	return nil
}
