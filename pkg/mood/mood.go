package mood

import (
	"sort"

	"github.com/a-h/templ/lsp/protocol"
)

type Counts struct {
	Errors   int
	Warnings int
}

// Bucket is the mood shown in the panel, from 0 (calm) to 3 (alarmed).
type Bucket int

const (
	BucketCalm Bucket = iota
	BucketUneasy
	BucketUpset
	BucketAlarmed
)

const (
	upsetThreshold   = 5
	alarmedThreshold = 10
)

// Aggregate counts error and warning diagnostics. Information and hint
// severities are ignored.
func Aggregate(diagnostics []protocol.Diagnostic) Counts {
	counts := Counts{}
	for _, d := range diagnostics {
		switch d.Severity {
		case protocol.DiagnosticSeverityError:
			counts.Errors++
		case protocol.DiagnosticSeverityWarning:
			counts.Warnings++
		}
	}
	return counts
}

// Score returns the effective error score. When blend is set every warning
// counts as half an error.
func Score(errors, warnings int, blend bool) float64 {
	score := float64(errors)
	if blend {
		score += float64(warnings) / 2
	}
	return score
}

func SelectBucket(errors, warnings int, blend bool) Bucket {
	score := Score(errors, warnings, blend)
	switch {
	case score <= 0:
		return BucketCalm
	case score < upsetThreshold:
		return BucketUneasy
	case score < alarmedThreshold:
		return BucketUpset
	}
	return BucketAlarmed
}

type LineGroup struct {
	Line        uint32
	Diagnostics []protocol.Diagnostic
}

func (g LineGroup) Counts() Counts {
	return Aggregate(g.Diagnostics)
}

// GroupByLine groups diagnostics by their start line. Groups are ordered by
// line and keep the input order within a line.
func GroupByLine(diagnostics []protocol.Diagnostic) []LineGroup {
	byLine := make(map[uint32][]protocol.Diagnostic)
	for _, d := range diagnostics {
		line := d.Range.Start.Line
		byLine[line] = append(byLine[line], d)
	}
	groups := make([]LineGroup, 0, len(byLine))
	for line, ds := range byLine {
		groups = append(groups, LineGroup{Line: line, Diagnostics: ds})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Line < groups[j].Line
	})
	return groups
}
