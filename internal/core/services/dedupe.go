package services

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
)

// candidate is the currently selected file for one bill.
type candidate struct {
	stage string
	rank  int
	path  string
}

// Dedupe keeps exactly one file per bill: the one with the most advanced
// stage. Files whose names do not resolve are dropped and counted. The
// canonical set is sorted and independent of input order. An unknown stage
// code aborts with domain.ErrUnknownStage.
func Dedupe(paths []string) (*domain.DedupeReport, error) {
	selected := make(map[domain.BillKey]candidate)
	report := &domain.DedupeReport{Input: len(paths)}

	for _, path := range paths {
		id, ok := domain.ResolveIdentity(filepath.Base(path))
		if !ok {
			report.Unidentifiable++
			continue
		}

		rank, err := domain.StageRank(id.Stage)
		if err != nil {
			return nil, fmt.Errorf("dedupe %s: %w", path, err)
		}

		next := candidate{stage: id.Stage, rank: rank, path: path}
		current, exists := selected[id.BillKey]
		if !exists || outranks(next, current) {
			selected[id.BillKey] = next
		}
	}

	report.Canonical = make([]string, 0, len(selected))
	for _, c := range selected {
		report.Canonical = append(report.Canonical, c.path)
	}
	sort.Strings(report.Canonical)

	return report, nil
}

// outranks reports whether next should replace current. A higher stage
// always wins. On equal stages the smaller path wins, which keeps the
// current choice for a repeated path and stays order-independent when the
// same name appears in two directories.
func outranks(next, current candidate) bool {
	if next.rank != current.rank {
		return next.rank > current.rank
	}
	return next.path < current.path
}
