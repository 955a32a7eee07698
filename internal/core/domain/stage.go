package domain

import "fmt"

// StagePriority is the fixed total order of bill version codes, from least to
// most advanced. Codes are grouped as introduced, reported/referred, engrossed,
// committee and procedural actions, passed, amendment-related, enrolled.
// Enrolled is always last.
var StagePriority = []string{
	// Introduced
	"ih", "is", "iph", "ips",

	// Reported, referred, received
	"rfh", "rfs", "rdh", "rds", "rih", "ris", "rth", "rts",
	"rch", "rcs", "rh", "rs",

	// Engrossed
	"eh", "es", "eph", "eps",

	// Committee and procedural
	"cdh", "cds", "hdh", "hds", "lth", "lts", "oph", "ops",
	"pch", "pcs", "sc", "fph", "fps", "pav",

	// Passed
	"cph", "cps", "ath", "ats", "pp", "pap",

	// Amendment-related
	"ash", "as", "eah", "eas", "pwah", "re",

	// Enrolled
	"enr",
}

// stageRank maps each stage code to its index in StagePriority.
var stageRank = func() map[string]int {
	m := make(map[string]int, len(StagePriority))
	for i, s := range StagePriority {
		m[s] = i
	}
	return m
}()

// StageRank returns the position of a stage code in the priority order.
// Unknown codes return ErrUnknownStage.
func StageRank(stage string) (int, error) {
	rank, ok := stageRank[stage]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStage, stage)
	}
	return rank, nil
}
