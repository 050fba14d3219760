// Package container provides dependency injection for the financial dashboard
// validation tools. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"fmt"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/batch"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/common"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/config"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/engine"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/family"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/hierarchy"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/logging"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/reconcile"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/report"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/retro"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/rules"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	store     store.RuleStoreInterface
	rules     *rules.Manager
	engine    *engine.Engine
	runner    *retro.Runner
	generator *report.Generator
	loader    *batch.Loader
}

// NewContainer creates and wires all application dependencies, using the
// YAML rule store named in the configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger := config.ConfigureLoggingFromConfig(cfg)
	return NewContainerWithStore(cfg, store.NewRuleStore(cfg.Rules.File, logger), logger)
}

// NewContainerWithStore wires the dependencies around an existing rule store.
// A nil logger is built from the configuration.
func NewContainerWithStore(cfg *config.Config, ruleStore store.RuleStoreInterface, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if ruleStore == nil {
		return nil, fmt.Errorf("rule store cannot be nil")
	}
	if logger == nil {
		logger = config.ConfigureLoggingFromConfig(cfg)
	}

	manager := rules.NewManager(ruleStore, logger)

	builder := hierarchy.NewBuilder(cfg.HierarchyOptions(), logger)
	validator := family.NewValidator(manager, cfg.FamilyOptions(), logger)
	reconciler := reconcile.NewReconciler(manager, cfg.ReconcileOptions(), logger)
	eng := engine.New(builder, validator, reconciler, manager, logger)

	runner := retro.NewRunner(eng, manager, cfg.RetroOptions(), logger)

	logger.Info("Container initialized successfully",
		logging.F("rules", manager.Len()),
		logging.F(logging.FieldRuleVersion, manager.Version()))

	return &Container{
		logger:    logger,
		config:    cfg,
		store:     ruleStore,
		rules:     manager,
		engine:    eng,
		runner:    runner,
		generator: report.NewGenerator(logger),
		loader:    batch.NewLoader(logger),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the rule store.
func (c *Container) GetStore() store.RuleStoreInterface {
	return c.store
}

// GetRules returns the versioned classification rule manager.
func (c *Container) GetRules() *rules.Manager {
	return c.rules
}

// GetEngine returns the validation engine.
func (c *Container) GetEngine() *engine.Engine {
	return c.engine
}

// GetRunner returns the retroactive recomputation runner.
func (c *Container) GetRunner() *retro.Runner {
	return c.runner
}

// GetGenerator returns the report generator.
func (c *Container) GetGenerator() *report.Generator {
	return c.generator
}

// GetLoader returns the report batch loader.
func (c *Container) GetLoader() *batch.Loader {
	return c.loader
}

// Delimiter returns the configured CSV delimiter.
func (c *Container) Delimiter() rune {
	return common.DelimiterRune(c.config.CSV.Delimiter)
}

// ReadReport reads one report snapshot using the configured delimiter.
func (c *Container) ReadReport(path string) ([]models.ReportRow, error) {
	return common.ReadReportRows(path, c.Delimiter(), c.logger)
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Info("Container closed")
	return nil
}
