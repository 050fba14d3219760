package hierarchy

import (
	"fmt"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/accountcode"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
)

// ParentResolution is the outcome of the parent cascade for one code.
type ParentResolution struct {
	Parent       string
	Type         models.ParentType
	SiblingGroup string
	Warnings     []string
}

// parentResolver walks the "best available ancestor" cascade. It only ever
// links a code to a strictly shallower level, so the result is always a forest.
type parentResolver struct {
	ctx    *codeContext
	levels map[string]int         // resolved level of every valid code
	groups map[int]map[string]int // level → sibling group key → member count
	opts   Options
}

func newParentResolver(ctx *codeContext, codes []accountcode.Code, levels map[string]int, opts Options) *parentResolver {
	groups := map[int]map[string]int{2: {}, 3: {}}
	for _, c := range codes {
		if !c.Valid {
			continue
		}
		switch levels[c.String()] {
		case 2:
			groups[2][siblingGroupKey(c, 2)]++
		case 3:
			groups[3][siblingGroupKey(c, 3)]++
		}
	}
	return &parentResolver{ctx: ctx, levels: levels, groups: groups, opts: opts}
}

// siblingGroupKey is s1 for level-2 codes and the family for level-3 codes.
func siblingGroupKey(c accountcode.Code, level int) string {
	if level == 2 {
		return c.S1()
	}
	return c.Family()
}

type parentCandidate struct {
	code accountcode.Code
	kind models.ParentType
}

// Resolve returns the parent of c, which sits at the given level.
func (r *parentResolver) Resolve(c accountcode.Code, level int) ParentResolution {
	switch level {
	case 1:
		return ParentResolution{Type: models.ParentRoot}
	case 2:
		return r.resolveLevel2(c)
	case 3:
		return r.resolveLevel3(c)
	default:
		return r.resolveLevel4(c)
	}
}

func (r *parentResolver) resolveLevel4(c accountcode.Code) ParentResolution {
	expected := c.SubAccount()
	candidates := []parentCandidate{{code: expected, kind: models.ParentDirect}}
	if bucket, ok := r.bucketRoot(c); ok {
		candidates = append(candidates, parentCandidate{code: bucket, kind: models.ParentFamilyRoot})
	}
	candidates = append(candidates,
		parentCandidate{code: c.FamilyRoot(), kind: models.ParentFamilyRoot},
		parentCandidate{code: c.TopRoot(), kind: models.ParentOrphanAdoption},
	)

	if res, ok := r.firstExisting(c, 4, expected, candidates); ok {
		return res
	}
	return orphan(4, expected)
}

func (r *parentResolver) resolveLevel3(c accountcode.Code) ParentResolution {
	expected := c.FamilyRoot()
	if head, _, inRun := r.ctx.sequences.Lookup(c); inRun && c.HasZeroTail() {
		expected = c.WithS2Root(head)
	}

	candidates := []parentCandidate{{code: expected, kind: models.ParentDirect}}
	if bucket, ok := r.bucketRoot(c); ok {
		candidates = append(candidates, parentCandidate{code: bucket, kind: models.ParentFamilyRoot})
	}
	candidates = append(candidates, parentCandidate{code: c.TopRoot(), kind: models.ParentOrphanAdoption})

	if res, ok := r.firstExisting(c, 3, expected, candidates); ok {
		return res
	}
	if res, ok := r.siblingGroup(3, c.Family()); ok {
		return res
	}
	return orphan(3, expected)
}

func (r *parentResolver) resolveLevel2(c accountcode.Code) ParentResolution {
	expected := c.TopRoot()
	candidates := []parentCandidate{{code: expected, kind: models.ParentDirect}}
	if bucket, ok := r.bucketRoot(c); ok {
		candidates = append(candidates, parentCandidate{code: bucket, kind: models.ParentFamilyRoot})
	}

	if res, ok := r.firstExisting(c, 2, expected, candidates); ok {
		return res
	}
	if res, ok := r.siblingGroup(2, c.S1()); ok {
		return res
	}
	return orphan(2, expected)
}

// bucketRoot maps the leading digit of s2 to its family bucket root.
func (r *parentResolver) bucketRoot(c accountcode.Code) (accountcode.Code, bool) {
	s2 := c.S2()
	if s2 == "" {
		return accountcode.Code{}, false
	}
	root, ok := r.opts.BucketRoots[s2[:1]]
	if !ok {
		return accountcode.Code{}, false
	}
	return c.WithS2Root(root), true
}

// firstExisting picks the first candidate that exists in the report, is not c
// itself, and sits at a shallower level.
func (r *parentResolver) firstExisting(c accountcode.Code, level int, expected accountcode.Code, candidates []parentCandidate) (ParentResolution, bool) {
	self := c.String()
	for _, cand := range candidates {
		key := cand.code.String()
		if key == self {
			continue
		}
		parentLevel, ok := r.levels[key]
		if !ok || parentLevel >= level {
			continue
		}

		res := ParentResolution{Parent: key, Type: cand.kind}
		if key != expected.String() {
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"expected parent %s not found; attached to %s %s",
				expected.String(), describeParentType(cand.kind), key))
		}
		return res, true
	}
	return ParentResolution{}, false
}

// siblingGroup links a parentless code with same-level siblings under a
// synthetic group instead of leaving it fully orphaned.
func (r *parentResolver) siblingGroup(level int, group string) (ParentResolution, bool) {
	siblings := r.groups[level][group] - 1
	if siblings <= 0 {
		return ParentResolution{}, false
	}
	return ParentResolution{
		Type:         models.ParentRoot,
		SiblingGroup: group,
		Warnings: []string{fmt.Sprintf(
			"no formal parent for level-%d account; grouped with %d sibling(s) under synthetic group %s",
			level, siblings, group)},
	}, true
}

func orphan(level int, expected accountcode.Code) ParentResolution {
	return ParentResolution{
		Type: models.ParentRoot,
		Warnings: []string{fmt.Sprintf(
			"orphan: no ancestor found for level-%d account (expected %s)", level, expected.String())},
	}
}

func describeParentType(t models.ParentType) string {
	switch t {
	case models.ParentFamilyRoot:
		return "family root"
	case models.ParentOrphanAdoption:
		return "top-level root"
	default:
		return "parent"
	}
}
