package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// BillFilePrefix is the literal prefix of every identifiable bill file.
const BillFilePrefix = "BILLS-"

// billFilePattern matches <prefix><congress:3 digits><type><number><stage>.xml.
var billFilePattern = regexp.MustCompile(`^BILLS-(\d{3})([a-z]+)(\d+)([a-z]+)\.xml$`)

// BillKey identifies a bill independently of its drafting stage.
// It is the deduplication key.
type BillKey struct {
	Congress          int
	LegislationType   string
	LegislationNumber int
}

// String returns the key in "118-hres-211" form.
func (k BillKey) String() string {
	return fmt.Sprintf("%d-%s-%d", k.Congress, k.LegislationType, k.LegislationNumber)
}

// Identity is the structural identity parsed from a bill file name.
type Identity struct {
	BillKey

	// Stage is the drafting-stage code (e.g. "ih", "enr").
	Stage string
}

// FileName rebuilds the canonical file name for this identity.
func (id Identity) FileName() string {
	return fmt.Sprintf("%s%03d%s%d%s.xml",
		BillFilePrefix, id.Congress, id.LegislationType, id.LegislationNumber, id.Stage)
}

// ResolveIdentity parses a bare file name into its identity.
// Returns false when the name does not follow the bill naming convention;
// such files are opaque to deduplication, not errors.
func ResolveIdentity(fileName string) (Identity, bool) {
	m := billFilePattern.FindStringSubmatch(fileName)
	if m == nil {
		return Identity{}, false
	}

	congress, err := strconv.Atoi(m[1])
	if err != nil {
		return Identity{}, false
	}
	number, err := strconv.Atoi(m[3])
	if err != nil {
		return Identity{}, false
	}

	return Identity{
		BillKey: BillKey{
			Congress:          congress,
			LegislationType:   m[2],
			LegislationNumber: number,
		},
		Stage: m[4],
	}, true
}
