// Package seed generates synthetic survey snapshots for loading into a record
// store. The generator is deterministic for a given Options.Seed and salts in
// the defects the quality checks look for.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"hdss-monitor/internal/config"
	"hdss-monitor/internal/survey"
)

type Options struct {
	Households int
	Seed       int64

	// Start is the first interview day; interviews spread over Days days.
	Start time.Time
	Days  int
}

var (
	villages   = []string{"Baruni", "Hanuabada", "Kila Kila", "Tubusereia", "Gerehu", "Koki", "Pari"}
	collectors = []string{"agnes", "bernard", "clement", "dorcas", "elijah", "fiona"}
	firstNames = []string{"Mary", "John", "Grace", "Peter", "Ruth", "Paul", "Helen", "Michael"}
	lastNames  = []string{"Kila", "Tau", "Morea", "Vagi", "Gari", "Iamo"}
	relations  = []string{"Head", "Spouse", "Child", "Parent", "Sibling"}
)

type generator struct {
	rng  *rand.Rand
	opts Options
	cfg  config.Survey
}

// Generate builds a snapshot of opts.Households households across the
// configured sites, with individuals for the interviewed ones.
func Generate(cfg config.Survey, opts Options) (*survey.Snapshot, error) {
	if len(cfg.Sites) == 0 {
		return nil, survey.NewConfigurationError("survey.sites")
	}
	if opts.Start.IsZero() {
		opts.Start = time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)
	}
	if opts.Days < 1 {
		opts.Days = 90
	}

	g := &generator{rng: rand.New(rand.NewSource(opts.Seed)), opts: opts, cfg: cfg}
	snap := &survey.Snapshot{
		Households:  make([]survey.Household, 0, opts.Households),
		Individuals: make([]survey.Individual, 0, opts.Households*4),
	}

	dwellings := make(map[string]int)
	for i := 0; i < opts.Households; i++ {
		h, err := g.household(dwellings)
		if err != nil {
			return nil, err
		}
		snap.Households = append(snap.Households, h)
		if h.Outcome != nil && *h.Outcome <= 2 {
			snap.Individuals = append(snap.Individuals, g.members(h)...)
		}
	}
	return snap, nil
}

func (g *generator) key(prefix string) (string, error) {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return "", err
	}
	return prefix + id.String(), nil
}

func (g *generator) chance(p float64) bool {
	return g.rng.Float64() < p
}

func (g *generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

func (g *generator) household(dwellings map[string]int) (survey.Household, error) {
	key, err := g.key("uuid:")
	if err != nil {
		return survey.Household{}, err
	}

	village := g.pick(villages)
	dwellings[village]++
	collector := g.pick(collectors)

	h := survey.Household{
		Key:            key,
		Site:           g.pick(g.cfg.Sites),
		Village:        village,
		LocationNumber: intPtr(1 + g.rng.Intn(20)),
		DwellingNumber: intPtr(dwellings[village]),
		Sector:         g.code(g.cfg.SectorCodes(), 0.03),
		Submitter:      collector,
		Collector:      collector,
		QualityOfficer: g.pick(collectors),
		Outcome:        g.outcome(),
		HouseholdGPS:   g.fix(),
		WaterGPS:       g.fix(),
		ToiletGPS:      g.fix(),
		Consent:        g.chance(0.9),
		DeathConsent:   g.chance(0.6),
		InterviewedAt:  g.interviewedAt(),
	}
	h.District = h.Site + " district"
	h.LLG = h.Site + " urban llg"
	h.Ward = fmt.Sprintf("ward %d", 1+g.rng.Intn(12))

	if !g.chance(0.05) {
		h.RespondentName = strPtr(g.pick(firstNames) + " " + g.pick(lastNames))
	}
	if !g.chance(0.05) {
		h.RespondentRelationship = strPtr(g.pick(relations))
	}
	if !g.chance(0.05) {
		h.TotalMembers = intPtr(1 + g.rng.Intn(8))
	}
	if h.DeathConsent && !g.chance(0.1) {
		h.Deaths = intPtr(g.rng.Intn(3))
	}

	submitted := g.opts.Start.Add(time.Duration(g.rng.Intn(g.opts.Days*24)) * time.Hour)
	h.SubmittedAt = &submitted
	return h, nil
}

// code picks one of codes, or a nil/unmapped code with probability unmapped.
func (g *generator) code(codes []int, unmapped float64) *int {
	if len(codes) == 0 || g.chance(unmapped) {
		if g.chance(0.5) {
			return nil
		}
		return intPtr(99)
	}
	return intPtr(codes[g.rng.Intn(len(codes))])
}

// outcome is weighted towards completed interviews, as in the field.
func (g *generator) outcome() *int {
	switch r := g.rng.Float64(); {
	case r < 0.70:
		return intPtr(1)
	case r < 0.78:
		return intPtr(2)
	case r < 0.84:
		return intPtr(3)
	case r < 0.89:
		return intPtr(4)
	case r < 0.93:
		return intPtr(5)
	case r < 0.96:
		return intPtr(6)
	case r < 0.98:
		return intPtr(96)
	default:
		return nil
	}
}

func (g *generator) fix() survey.GPS {
	fix := survey.GPS{
		Latitude:  floatPtr(-9.4 - g.rng.Float64()*0.2),
		Longitude: floatPtr(147.1 + g.rng.Float64()*0.2),
		Altitude:  floatPtr(g.rng.Float64() * 80),
		Accuracy:  floatPtr(1 + g.rng.Float64()*6),
	}
	switch {
	case g.chance(0.03):
		fix.Altitude = nil
	case g.chance(0.03):
		fix.Latitude, fix.Longitude = nil, nil
	case g.chance(0.02):
		fix.Accuracy = nil
	}
	return fix
}

// interviewedAt is usually ISO text but sometimes in the device's locale
// format or garbled, like the raw form exports.
func (g *generator) interviewedAt() string {
	at := g.opts.Start.
		Add(time.Duration(g.rng.Intn(g.opts.Days)) * 24 * time.Hour).
		Add(time.Duration(7*60+g.rng.Intn(10*60)) * time.Minute)
	switch {
	case g.chance(0.03):
		return at.Format("Jan 2, 2006 3:04:05 PM")
	case g.chance(0.01):
		return "unknown"
	default:
		return at.Format("2006-01-02T15:04:05.000-07:00")
	}
}

func (g *generator) members(h survey.Household) []survey.Individual {
	n := 1 + g.rng.Intn(7)
	if h.TotalMembers != nil {
		n = *h.TotalMembers
	}

	out := make([]survey.Individual, n)
	for i := range out {
		out[i] = survey.Individual{
			Key:           fmt.Sprintf("%s/individual_roster[%d]", h.Key, i+1),
			ParentKey:     h.Key,
			LineNumber:    intPtr(i + 1),
			Relationship:  intPtr(1 + g.rng.Intn(len(relations))),
			AgeCategory:   intPtr(1 + g.rng.Intn(5)),
			Age:           intPtr(g.rng.Intn(80)),
			MaritalStatus: intPtr(1 + g.rng.Intn(4)),
		}
		if !g.chance(0.04) {
			out[i].FirstName = strPtr(g.pick(firstNames))
		}
		if !g.chance(0.04) {
			out[i].LastName = strPtr(g.pick(lastNames))
		}
		if !g.chance(0.03) {
			out[i].Sex = strPtr([]string{"M", "F"}[g.rng.Intn(2)])
		}
	}
	return out
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }
