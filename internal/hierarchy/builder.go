// Package hierarchy infers the account tree of one report from its codes.
//
// Every code gets a level (1 = top total … 4 = detail line) from two
// independent heuristics, then a parent through a cascade that prefers the
// most specific ancestor present in the same report. Both steps depend only on
// which codes exist in the report, never on a global chart of accounts.
package hierarchy

import (
	"fmt"
	"sort"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/accountcode"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/logging"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/parsererror"
)

// Builder turns a report's accounts into a Forest.
type Builder struct {
	parser *accountcode.Parser
	opts   Options
	logger logging.Logger
}

// NewBuilder creates a Builder. Unset option fields take their defaults.
func NewBuilder(opts Options, logger logging.Logger) *Builder {
	logger = logging.ForComponent(logger, "HierarchyBuilder")
	return &Builder{
		parser: accountcode.NewParser(logger),
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

// Build infers the hierarchy. The result does not depend on input order.
// Only an empty account list is an error; malformed codes become warned roots.
func (b *Builder) Build(accounts []models.Account) (*Forest, error) {
	if len(accounts) == 0 {
		return nil, &parsererror.EmptyInputError{Component: "hierarchy builder"}
	}

	type entry struct {
		code       accountcode.Code
		account    models.Account
		duplicates int
	}

	entries := make(map[string]*entry, len(accounts))
	var keys []string
	for i, acct := range accounts {
		code := b.parser.Parse(acct.Code)
		key := code.String()
		if key == "" {
			key = fmt.Sprintf("(empty code #%d)", i+1)
			code.Raw = key
		}
		if e, seen := entries[key]; seen {
			e.duplicates++
			continue
		}
		acct.Code = key
		entries[key] = &entry{code: code, account: acct}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	codes := make([]accountcode.Code, 0, len(keys))
	for _, k := range keys {
		codes = append(codes, entries[k].code)
	}

	ctx := newCodeContext(codes, b.opts)

	levels := make(map[string]int, len(codes))
	detected := make(map[string]models.DetectionStrategy, len(codes))
	for _, c := range codes {
		if !c.Valid {
			continue
		}
		level, by := ResolveLevel(ctx.FamilyAnalysisLevel(c), ZeroPatternLevel(c), c, b.opts)
		levels[c.String()] = level
		detected[c.String()] = by
	}

	parents := newParentResolver(ctx, codes, levels, b.opts)

	nodes := make([]models.HierarchyNode, 0, len(codes))
	children := make(map[string][]string)
	for _, c := range codes {
		e := entries[c.String()]
		node := models.HierarchyNode{
			Account: e.account,
			Code:    c.String(),
			Family:  c.Family(),
		}

		if !c.Valid {
			node.Level = 4
			node.DetectedBy = models.DetectedByZeroPattern
			node.ParentType = models.ParentRoot
			node.Malformed = true
			node.Family = ""
			node.Warnings = append(node.Warnings, fmt.Sprintf(
				"could not parse account code %q; expected four hyphen-separated segments like %s",
				c.Raw, models.DefaultCode))
		} else {
			node.Level = levels[node.Code]
			node.DetectedBy = detected[node.Code]
			res := parents.Resolve(c, node.Level)
			node.Parent = res.Parent
			node.ParentType = res.Type
			node.SiblingGroup = res.SiblingGroup
			node.Warnings = append(node.Warnings, res.Warnings...)
		}

		if e.duplicates > 0 {
			node.Warnings = append(node.Warnings, fmt.Sprintf(
				"code appears %d more time(s) in the report; only the first row is used", e.duplicates))
		}
		if node.Parent != "" {
			children[node.Parent] = append(children[node.Parent], node.Code)
		}
		nodes = append(nodes, node)
	}

	orphans := 0
	for i := range nodes {
		// codes were visited in sorted order, so children are already sorted
		nodes[i].Children = children[nodes[i].Code]
		if nodes[i].IsRoot() && nodes[i].Level > 1 {
			orphans++
			b.logger.Debug("Account left without parent",
				logging.Code(nodes[i].Code),
				logging.F(logging.FieldLevel, nodes[i].Level),
				logging.F("sibling_group", nodes[i].SiblingGroup))
		}
	}

	b.logger.Info("Built account hierarchy",
		logging.F(logging.FieldCount, len(nodes)),
		logging.F("input_rows", len(accounts)),
		logging.F("roots_above_level_1", orphans))

	return newForest(nodes), nil
}
