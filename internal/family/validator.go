// Package family checks classification consistency within account families:
// level-4 siblings classified unevenly, and parents classified together with
// all of their children.
package family

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/accountcode"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/hierarchy"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/logging"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/rules"
)

// Priority ranks; lower is more urgent.
const (
	rankOverClassification = 1
	rankOrphan             = 6
)

// Family is one family key with its member codes per level.
type Family struct {
	Key     string           `json:"key" yaml:"key"`
	Members map[int][]string `json:"members" yaml:"members"`
}

// Result is the outcome of one validation pass.
type Result struct {
	Issues          []models.ClassificationIssue
	Recommendations []models.FamilyRecommendation
	Families        []Family

	states *stateTable
}

// StateOf returns the derived classification status of code, including
// IMPLICITLY_CLASSIFIED parents. Unknown codes are UNCLASSIFIED.
func (r *Result) StateOf(code string) models.ClassificationStatus {
	if r == nil || r.states == nil {
		return models.StatusUnclassified
	}
	return r.states.of(code)
}

// Validator runs the family checks against a rule lookup.
type Validator struct {
	lookup rules.Lookup
	opts   Options
	logger logging.Logger
}

// NewValidator creates a Validator. Unset option fields take their defaults.
func NewValidator(lookup rules.Lookup, opts Options, logger logging.Logger) *Validator {
	return &Validator{
		lookup: lookup,
		opts:   opts.withDefaults(),
		logger: logging.ForComponent(logger, "FamilyValidator"),
	}
}

// Validate checks every family of the forest. It never fails on malformed
// rows; those are reported as ORPHAN_ACCOUNT issues.
func (v *Validator) Validate(forest *hierarchy.Forest) *Result {
	return v.ValidateWith(forest, v.lookup)
}

// ValidateWith is Validate against a different lookup, e.g. a preview overlay.
func (v *Validator) ValidateWith(forest *hierarchy.Forest, lookup rules.Lookup) *Result {
	result := &Result{}
	if forest == nil || forest.Len() == 0 {
		return result
	}

	states := newStateTable(forest, lookup)
	result.states = states

	var issues []models.ClassificationIssue
	issues = append(issues, v.siblingIssues(forest, states)...)
	issues = append(issues, v.overClassificationIssues(forest, states)...)
	issues = append(issues, orphanIssues(forest)...)
	sortIssues(issues)

	result.Issues = issues
	result.Families = groupFamilies(forest)
	result.Recommendations = v.recommend(result.Families, states)

	for _, issue := range issues {
		v.logger.Debug("Classification issue found",
			logging.F(logging.FieldIssueType, issue.Type),
			logging.F(logging.FieldSeverity, issue.Severity),
			logging.F(logging.FieldParent, issue.ParentAccount),
			logging.Amount(logging.FieldAmount, issue.FinancialImpact))
	}
	v.logger.Info("Family validation completed",
		logging.F("families", len(result.Families)),
		logging.F("issues", len(issues)),
		logging.F("recommendations", len(result.Recommendations)))

	return result
}

// siblingKey groups level-4 nodes by resolved parent, falling back to the
// expected sub-account for parentless ones.
func siblingKey(n models.HierarchyNode) string {
	if n.Parent != "" {
		return n.Parent
	}
	return accountcode.MustParse(n.Code).SubAccount().String()
}

func (v *Validator) siblingIssues(forest *hierarchy.Forest, states *stateTable) []models.ClassificationIssue {
	groups := make(map[string][]models.HierarchyNode)
	var keys []string
	for _, n := range forest.ByLevel(4) {
		key := siblingKey(n)
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], n)
	}
	sort.Strings(keys)

	var issues []models.ClassificationIssue
	for _, key := range keys {
		if issue, ok := v.checkSiblings(key, groups[key], states); ok {
			issues = append(issues, issue)
		}
	}
	return issues
}

func (v *Validator) checkSiblings(parent string, members []models.HierarchyNode, states *stateTable) (models.ClassificationIssue, bool) {
	var (
		classified, unclassified []string
		templates                []models.Classification
		impact                   = decimal.Zero
	)
	for _, n := range members {
		if states.of(n.Code) == models.StatusClassified {
			classified = append(classified, n.Code)
			c, _ := states.classification(n.Code)
			templates = append(templates, c)
			continue
		}
		unclassified = append(unclassified, n.Code)
		impact = impact.Add(n.Account.Amount.Abs())
	}
	if len(classified) == 0 || len(unclassified) == 0 {
		return models.ClassificationIssue{}, false
	}

	severity := v.opts.Severity(impact)
	pct := float64(len(classified)) / float64(len(members)) * 100
	issue := models.ClassificationIssue{
		Type:                 models.IssueMixedLevel4Siblings,
		Severity:             severity,
		Family:               members[0].Family,
		ParentAccount:        parent,
		ClassifiedChildren:   classified,
		UnclassifiedChildren: unclassified,
		FinancialImpact:      impact,
		CompletenessPct:      &pct,
		Message: fmt.Sprintf(
			"%d of %d detail accounts under %s are unclassified; %s would be missing from detail reports",
			len(unclassified), len(members), parent, models.FormatAmount(impact)),
		PriorityRank: mixedRank(severity),
	}

	template, uniform := sharedTemplate(templates)
	issue.AutoFixable = uniform && len(unclassified) <= v.opts.AutoFixMaxUnclassified
	if issue.AutoFixable {
		issue.ResolutionSteps = []string{
			fmt.Sprintf("Review the suggested classification %s / %s / %s copied from the classified siblings",
				template.Tipo, template.Categoria1, template.SubCategoria),
			"Approve the suggestions to apply them to the unclassified accounts",
		}
		for _, code := range unclassified {
			issue.Suggestions = append(issue.Suggestions, models.ClassificationDelta{
				Code:              code,
				NewClassification: template,
				Reason: fmt.Sprintf("copy classification shared by %d classified sibling(s) under %s",
					len(classified), parent),
			})
		}
	} else {
		issue.ResolutionSteps = []string{
			fmt.Sprintf("Classify the remaining accounts: %s", joinCodes(unclassified)),
			fmt.Sprintf("Or remove the detail classifications and classify %s at summary level", parent),
		}
	}
	return issue, true
}

// sharedTemplate returns the common (tipo, categoria_1, sub_categoria) of the
// classified siblings. clasificacion is kept only when it is uniform too.
func sharedTemplate(templates []models.Classification) (models.Classification, bool) {
	if len(templates) == 0 {
		return models.Classification{}, false
	}
	template := templates[0]
	for _, t := range templates[1:] {
		if t.Pattern() != template.Pattern() {
			return models.Classification{}, false
		}
		if t.Clasificacion != template.Clasificacion {
			template.Clasificacion = ""
		}
	}
	return template, true
}

func (v *Validator) overClassificationIssues(forest *hierarchy.Forest, states *stateTable) []models.ClassificationIssue {
	var issues []models.ClassificationIssue
	for _, level := range []int{2, 3} {
		for _, n := range forest.ByLevel(level) {
			if !n.HasChildren() || states.of(n.Code) != models.StatusClassified {
				continue
			}
			if !states.allCovered(n.Children) {
				continue
			}

			impact := n.Account.Amount.Abs()
			pct := 100.0
			issues = append(issues, models.ClassificationIssue{
				Type:               models.IssueOverClassification,
				Severity:           models.SeverityCritical,
				Family:             n.Family,
				ParentAccount:      n.Code,
				ClassifiedChildren: append([]string(nil), n.Children...),
				FinancialImpact:    impact,
				CompletenessPct:    &pct,
				Message: fmt.Sprintf(
					"%s is classified and so are all %d of its children; %s would be counted twice",
					n.Code, len(n.Children), models.FormatAmount(impact)),
				ResolutionSteps: []string{
					fmt.Sprintf("Keep the parent-level classification: remove the classification of %s", joinCodes(n.Children)),
					fmt.Sprintf("Keep the detail-level classification: remove the classification of %s", n.Code),
				},
				AutoFixable:  false,
				PriorityRank: rankOverClassification,
			})
		}
	}
	return issues
}

func orphanIssues(forest *hierarchy.Forest) []models.ClassificationIssue {
	var issues []models.ClassificationIssue
	for _, n := range forest.Nodes() {
		if !n.Malformed {
			continue
		}
		issues = append(issues, models.ClassificationIssue{
			Type:               models.IssueOrphanAccount,
			Severity:           models.SeverityLow,
			ParentAccount:      n.Code,
			ClassifiedChildren: []string{},
			FinancialImpact:    n.Account.Amount.Abs(),
			Message: fmt.Sprintf("account code %q could not be parsed and was left out of family checks",
				n.Code),
			ResolutionSteps: []string{
				fmt.Sprintf("Correct the code in the source report to the %s shape", models.DefaultCode),
			},
			PriorityRank: rankOrphan,
		})
	}
	return issues
}

func mixedRank(s models.Severity) int {
	switch s {
	case models.SeverityCritical:
		return 2
	case models.SeverityHigh:
		return 3
	case models.SeverityMedium:
		return 4
	default:
		return 5
	}
}

func sortIssues(issues []models.ClassificationIssue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.PriorityRank != b.PriorityRank {
			return a.PriorityRank < b.PriorityRank
		}
		if c := a.FinancialImpact.Cmp(b.FinancialImpact); c != 0 {
			return c > 0
		}
		return a.ParentAccount < b.ParentAccount
	})
}

func joinCodes(codes []string) string {
	const limit = 5
	if len(codes) <= limit {
		return strings.Join(codes, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(codes[:limit], ", "), len(codes)-limit)
}
