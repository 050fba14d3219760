package hierarchy

import (
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/accountcode"
	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/models"
)

// zeroPatternConfidence is the fixed confidence of the zero-pattern baseline.
const zeroPatternConfidence = 0.8

// LevelEstimate is one heuristic's opinion. Level 0 with confidence 0 means
// the heuristic could not decide.
type LevelEstimate struct {
	Level      int
	Confidence float64
}

// ZeroPatternLevel derives the level purely from which trailing segments are zero.
func ZeroPatternLevel(c accountcode.Code) LevelEstimate {
	switch {
	case c.IsTopLevel():
		return LevelEstimate{Level: 1, Confidence: zeroPatternConfidence}
	case c.HasZeroTail():
		return LevelEstimate{Level: 2, Confidence: zeroPatternConfidence}
	case accountcode.IsZero(c.S4()):
		return LevelEstimate{Level: 3, Confidence: zeroPatternConfidence}
	default:
		return LevelEstimate{Level: 4, Confidence: zeroPatternConfidence}
	}
}

// codeContext is what the family analysis needs to know about the rest of
// the report.
type codeContext struct {
	codes       map[string]struct{} // canonical valid codes
	withDetail  map[string]struct{} // sub-accounts (s1-s2-s3-000) that have detail lines
	familyRoots map[string]struct{}
	sequences   *SequenceIndex
}

func newCodeContext(codes []accountcode.Code, opts Options) *codeContext {
	ctx := &codeContext{
		codes:       make(map[string]struct{}, len(codes)),
		withDetail:  make(map[string]struct{}),
		familyRoots: make(map[string]struct{}, len(opts.FamilyRootNumerals)),
		sequences:   NewSequenceIndex(codes),
	}
	for _, n := range opts.FamilyRootNumerals {
		ctx.familyRoots[n] = struct{}{}
	}
	for _, c := range codes {
		if !c.Valid {
			continue
		}
		ctx.codes[c.String()] = struct{}{}
		if !accountcode.IsZero(c.S4()) {
			ctx.withDetail[c.SubAccount().String()] = struct{}{}
		}
	}
	return ctx
}

func (ctx *codeContext) has(c accountcode.Code) bool {
	_, ok := ctx.codes[c.String()]
	return ok
}

// FamilyAnalysisLevel derives the level from how the code relates to the
// other codes of its family.
func (ctx *codeContext) FamilyAnalysisLevel(c accountcode.Code) LevelEstimate {
	switch {
	case c.IsTopLevel():
		return LevelEstimate{Level: 1, Confidence: 1.0}

	case c.HasZeroTail():
		if _, ok := ctx.familyRoots[c.S2()]; ok {
			return LevelEstimate{Level: 2, Confidence: 0.9}
		}
		_, isHead, inRun := ctx.sequences.Lookup(c)
		if !inRun {
			return LevelEstimate{}
		}
		if isHead {
			return LevelEstimate{Level: 2, Confidence: 0.85}
		}
		return LevelEstimate{Level: 3, Confidence: 0.85}

	case accountcode.IsZero(c.S4()):
		if _, ok := ctx.withDetail[c.String()]; ok {
			return LevelEstimate{Level: 3, Confidence: 0.95}
		}
		return LevelEstimate{Level: 3, Confidence: 0.7}

	default:
		if ctx.has(c.SubAccount()) {
			return LevelEstimate{Level: 4, Confidence: 1.0}
		}
		return LevelEstimate{Level: 4, Confidence: 0.7}
	}
}

// isProblematicShape matches codes like 5000-1000-001-000, where a non-zero
// sub-account with a zero detail segment is historically misread by the zero
// pattern alone.
func isProblematicShape(c accountcode.Code) bool {
	if !accountcode.IsZero(c.S4()) || accountcode.IsZero(c.S3()) {
		return false
	}
	n, ok := accountcode.SegmentInt(c.S3())
	return ok && n > 0
}

// ResolveLevel combines the two heuristics and reports which one decided.
func ResolveLevel(family, zero LevelEstimate, c accountcode.Code, opts Options) (int, models.DetectionStrategy) {
	switch {
	case family.Level > 0 && family.Confidence >= opts.AcceptConfidence:
		return family.Level, models.DetectedByFamilyAnalysis
	case family.Level == 0 || family.Confidence < opts.RejectConfidence:
		return zero.Level, models.DetectedByZeroPattern
	case isProblematicShape(c):
		return family.Level, models.DetectedByHybrid
	case family.Confidence > zero.Confidence:
		return family.Level, models.DetectedByFamilyAnalysis
	default:
		return zero.Level, models.DetectedByZeroPattern
	}
}
