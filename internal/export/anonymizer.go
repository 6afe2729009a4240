package export

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"servicegov/internal/ticket"
)

// Size of the agent pool and its L1/L2 tier boundaries. L1 names come from the
// head of the pool, L2 from the next slice, everything else from the remainder.
const (
	agentPoolSize = 1015
	l1PoolEnd     = 40
	l2PoolEnd     = 50
)

// assetTagPattern matches internal asset tags like "(AP1234567)" that leak
// hardware identities into free-text group fields.
var assetTagPattern = regexp.MustCompile(`\(AP\d{7}\)`)

// Anonymizer masks PII in a raw incident export before it leaves the service
// desk: the company name, caller and operator identities, incident numbers and
// asset tags are all replaced.
type Anonymizer struct {
	companyPattern *regexp.Regexp
	firstNames     []string
	lastNames      []string
	agents         []string
	rng            *rand.Rand
}

// NewAnonymizer builds an anonymizer for the given company name and name
// pools. The seed makes runs reproducible; pass a clock-derived value for
// production exports.
func NewAnonymizer(company string, firstNames, lastNames []string, seed uint64) (*Anonymizer, error) {
	if company == "" {
		return nil, fmt.Errorf("company name must not be empty")
	}
	if len(firstNames) == 0 || len(lastNames) == 0 {
		return nil, fmt.Errorf("name pools must not be empty")
	}

	a := &Anonymizer{
		companyPattern: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(company)),
		firstNames:     firstNames,
		lastNames:      lastNames,
		rng:            rand.New(rand.NewPCG(seed, seed)),
	}

	a.agents = make([]string, agentPoolSize)
	for i := range a.agents {
		a.agents[i] = a.randomName()
	}
	return a, nil
}

// Scrub returns anonymized copies of the records. The input is never mutated.
func (a *Anonymizer) Scrub(records []ticket.Record) []ticket.Record {
	out := make([]ticket.Record, len(records))
	for i, rec := range records {
		out[i] = a.scrubOne(rec)
	}
	return out
}

func (a *Anonymizer) scrubOne(rec ticket.Record) ticket.Record {
	rec.Number = fmt.Sprintf("INC%07d", 1000000+a.rng.IntN(9000000))
	rec.OpenedBy = a.randomName()
	rec.Caller = a.randomName()
	rec.AssignedTo = a.assignAgent(rec.AssignmentGroup)

	rec.FirstAssignmentGroup = a.maskText(rec.FirstAssignmentGroup)
	rec.AssignmentGroup = a.maskText(rec.AssignmentGroup)
	rec.ResolutionCode = a.maskText(rec.ResolutionCode)
	return rec
}

// assignAgent draws a replacement operator from the tier matching the ticket's
// assignment group, mirroring the real staffing shape of the desk.
func (a *Anonymizer) assignAgent(group string) string {
	switch {
	case strings.Contains(group, "L1"):
		return a.agents[a.rng.IntN(l1PoolEnd)]
	case strings.Contains(group, "L2"):
		return a.agents[l1PoolEnd+a.rng.IntN(l2PoolEnd-l1PoolEnd)]
	default:
		return a.agents[l2PoolEnd+a.rng.IntN(len(a.agents)-l2PoolEnd)]
	}
}

func (a *Anonymizer) maskText(s string) string {
	s = a.companyPattern.ReplaceAllString(s, "Company")
	s = assetTagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func (a *Anonymizer) randomName() string {
	first := a.firstNames[a.rng.IntN(len(a.firstNames))]
	last := a.lastNames[a.rng.IntN(len(a.lastNames))]
	return first + " " + last
}
