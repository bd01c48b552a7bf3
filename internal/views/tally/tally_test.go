package tally

import (
	"testing"

	"github.com/stretchr/testify/require"

	"hdss-monitor/internal/config"
	"hdss-monitor/internal/survey"
	"hdss-monitor/internal/views"
)

func ptr[T any](v T) *T { return &v }

var sectors = map[int]string{1: "Urban", 2: "Peri-Urban", 3: "Settlement", 4: "Rural"}

func testSurvey() config.Survey {
	return config.Survey{
		Sites:   []string{"central"},
		Sectors: sectors,
		Outcomes: map[int]string{
			1: "Completed", 2: "Partially completed", 3: "Refused", 4: "Migrated/Absent",
			5: "No competent respondent", 6: "Other", 96: "Don't know",
		},
		GPSAccuracyThreshold: ptr(5.0),
	}
}

type hhOpt func(*survey.Classified)

func hh(key string, opts ...hhOpt) survey.Classified {
	h := survey.Classified{Household: survey.Household{
		Key:           key,
		Site:          "central",
		Collector:     "Joe",
		Village:       "Gaire",
		Consent:       true,
		InterviewedAt: "2024-03-05T09:15:00.000+10:00",
	}}
	for _, opt := range opts {
		opt(&h)
	}
	return h
}

func outcome(code int) hhOpt { return func(h *survey.Classified) { h.Outcome = ptr(code) } }
func sector(code int) hhOpt { return func(h *survey.Classified) { h.Sector = ptr(code) } }
func at(raw string) hhOpt { return func(h *survey.Classified) { h.InterviewedAt = raw } }
func noConsent() hhOpt { return func(h *survey.Classified) { h.Consent = false } }
func collector(name string) hhOpt {
	return func(h *survey.Classified) { h.Collector = name }
}
func deaths(n *int) hhOpt {
	return func(h *survey.Classified) { h.DeathConsent = true; h.Deaths = n }
}

func members(parent string, n int) []survey.Individual {
	out := make([]survey.Individual, n)
	for i := range out {
		out[i] = survey.Individual{Key: parent + "-" + string(rune('a'+i)), ParentKey: parent}
	}
	return out
}

func TestInterviewDates(t *testing.T) {
	day, ok := interviewDay("2024-03-05T23:59:00Z")
	require.True(t, ok)
	require.Equal(t, "2024-03-05", day)

	day, ok = interviewDay("Mar 5, 2024 4:10:00 PM")
	require.True(t, ok)
	require.Equal(t, "2024-03-05", day)

	_, ok = interviewDay("yesterday")
	require.False(t, ok)

	month, ok := interviewMonth("2024-11-30 08:00:00")
	require.True(t, ok)
	require.Equal(t, "2024-11", month)

	for _, raw := range []string{"", "Mar 5, 2024 4:10:00 PM", "24-03-05", " 2024-03-05", "2024-13-01", "2024/03/05"} {
		_, ok := interviewMonth(raw)
		require.False(t, ok, raw)
	}
}

func TestDailyScenario(t *testing.T) {
	rows := Daily([]survey.Classified{
		hh("a", outcome(1)),
		hh("b", outcome(1)),
		hh("c", outcome(3)),
	})

	require.Len(t, rows, 1)
	r := rows[0]
	require.Equal(t, "Joe", r.Collector)
	require.Equal(t, "Gaire", r.Village)
	require.Equal(t, "2024-03-05", r.Date)
	require.Equal(t, 2, r.Counts[0])
	require.Equal(t, 0, r.Counts[1])
	require.Equal(t, 1, r.Counts[2])
	require.Equal(t, 3, r.Total)
}

func TestDailyGroupingAndScope(t *testing.T) {
	in := &views.Input{Households: []survey.Classified{
		hh("a", outcome(1), at("not a date")),
		hh("b", outcome(2), at("")),
		hh("c", outcome(4), at("2024-03-04 10:00")),
		hh("d", outcome(6), collector("Amy")),
		hh("e", outcome(5)),
		hh("f", outcome(1), noConsent()),
		hh("g", outcome(96)),
		hh("h"),
	}}
	rows := Daily(in.Consenting())

	require.Len(t, rows, 4)
	require.Equal(t, "2024-03-04", rows[0].Date)
	require.Equal(t, "2024-03-05", rows[1].Date)
	require.Equal(t, "Amy", rows[1].Collector)
	require.Equal(t, "2024-03-05", rows[2].Date)
	require.Equal(t, "Joe", rows[2].Collector)
	require.Equal(t, 1, rows[2].Counts[4])
	require.Equal(t, "", rows[3].Date)
	require.Equal(t, 2, rows[3].Total)

	for _, r := range rows {
		require.Equal(t, sum(r.Counts[:]), r.Total)
	}
}

func TestDailyTallyTable(t *testing.T) {
	in := &views.Input{Survey: testSurvey(), Households: []survey.Classified{
		hh("a", outcome(1)), hh("b", outcome(1)), hh("c", outcome(3)), hh("d", outcome(2), at("??")),
	}}

	res, err := DailyTally{}.Compute(in)
	require.NoError(t, err)

	table := res.Tables[0]
	require.Equal(t, []string{
		"data_collector", "village_name", "collection_date",
		"completed", "partially_completed", "refused", "migrated_absent", "no_competent_respondent", "other",
		"total_interviews",
	}, table.Columns)
	require.Equal(t, [][]string{
		{"Joe", "Gaire", "2024-03-05", "2", "0", "1", "0", "0", "0", "3"},
		{"Joe", "Gaire", "", "0", "1", "0", "0", "0", "0", "1"},
	}, table.Strings())
	require.Nil(t, table.Rows[1][2])
	require.Equal(t, 4, res.Stats[0].Count)
}

func TestMonthly(t *testing.T) {
	households := []survey.Classified{
		hh("a", outcome(1), sector(1), at("2024-01-10")),
		hh("b", outcome(1), sector(1), at("2024-01-20")),
		hh("c", outcome(1), sector(4), at("2024-02-01 07:00")),
		hh("d", outcome(1), sector(2), at("2024-02-15")),
		hh("e", outcome(2), sector(1), at("2024-02-15")),
		hh("f", outcome(1), sector(9), at("2024-02-15")),
		hh("g", outcome(1), sector(3), at("Feb 15, 2024")),
		hh("h", outcome(1), at("2024-02-15")),
		hh("a", outcome(1), sector(1), at("2024-01-10")),
	}
	var individuals []survey.Individual
	individuals = append(individuals, members("a", 3)...)
	individuals = append(individuals, members("b", 2)...)
	individuals = append(individuals, members("c", 5)...)
	individuals = append(individuals, members("e", 4)...)
	individuals = append(individuals, members("orphan", 7)...)

	rows := Monthly(households, survey.PopulationByHousehold(individuals), []int{1, 2, 3, 4})

	require.Len(t, rows, 3)
	require.Equal(t, MonthlyRow{Month: "2024-01", Households: []int{2, 0, 0, 0}, Population: []int{5, 0, 0, 0}, TotalHouseholds: 2, TotalPopulation: 5}, rows[0])
	require.Equal(t, MonthlyRow{Month: "2024-02", Households: []int{0, 1, 0, 1}, Population: []int{0, 0, 0, 5}, TotalHouseholds: 2, TotalPopulation: 5}, rows[1])
	require.Equal(t, MonthlyRow{Month: GrandTotalLabel, Households: []int{2, 1, 0, 1}, Population: []int{5, 0, 0, 5}, TotalHouseholds: 4, TotalPopulation: 10}, rows[2])
}

func TestMonthlyGrandTotalIsColumnSum(t *testing.T) {
	var households []survey.Classified
	for i, raw := range []string{"2023-12-01", "2024-01-02", "2024-01-03", "2024-03-09", "bad"} {
		households = append(households, hh(string(rune('a'+i)), outcome(1), sector(i%4+1), at(raw)))
	}
	individuals := append(members("a", 2), members("d", 6)...)

	rows := Monthly(households, survey.PopulationByHousehold(individuals), []int{1, 2, 3, 4})
	months, grand := rows[:len(rows)-1], rows[len(rows)-1]

	require.Equal(t, GrandTotal(months, 4), grand)
	require.Equal(t, GrandTotal(months, 4), GrandTotal(months, 4))
	for col := 0; col < 4; col++ {
		hhSum, popSum := 0, 0
		for _, r := range months {
			hhSum += r.Households[col]
			popSum += r.Population[col]
		}
		require.Equal(t, hhSum, grand.Households[col])
		require.Equal(t, popSum, grand.Population[col])
	}
	require.Equal(t, sum(grand.Households), grand.TotalHouseholds)
	require.Equal(t, sum(grand.Population), grand.TotalPopulation)
}

func TestMonthlyEmptyStillHasGrandTotal(t *testing.T) {
	rows := Monthly(nil, nil, []int{1, 2, 3, 4})
	require.Len(t, rows, 1)
	require.Equal(t, GrandTotalLabel, rows[0].Month)
	require.Equal(t, 0, rows[0].TotalHouseholds)
}

func TestMonthlyProgressiveTable(t *testing.T) {
	in := &views.Input{Survey: testSurvey(), Households: []survey.Classified{hh("a", outcome(1), sector(2))}, Individuals: members("a", 2)}

	res, err := MonthlyProgressive{}.Compute(in)
	require.NoError(t, err)

	table := res.Tables[0]
	require.Equal(t, []string{
		"month",
		"urban_households", "urban_population",
		"peri_urban_households", "peri_urban_population",
		"settlement_households", "settlement_population",
		"rural_households", "rural_population",
		"total_households", "total_population",
	}, table.Columns)
	require.Equal(t, [][]string{
		{"2024-03", "0", "0", "1", "2", "0", "0", "0", "0", "1", "2"},
		{GrandTotalLabel, "0", "0", "1", "2", "0", "0", "0", "0", "1", "2"},
	}, table.Strings())
}

func TestOutcomes(t *testing.T) {
	households := []survey.Classified{
		hh("a", outcome(1)),
		hh("b", outcome(1), noConsent()),
		hh("c", outcome(2)),
		hh("d", outcome(3)),
		hh("e", outcome(4)),
		hh("f", outcome(5)),
		hh("g", outcome(6)),
		hh("h", outcome(96)),
		hh("i"),
	}
	individuals := append(members("a", 4), members("b", 1)...)
	individuals = append(individuals, members("e", 2)...)
	individuals = append(individuals, members("g", 9)...)

	rows := Outcomes(households, survey.PopulationByHousehold(individuals), testSurvey().Outcomes)

	require.Equal(t, []OutcomeRow{
		{Code: 1, Label: "Completed", Households: 2, Population: 5},
		{Code: 2, Label: "Partially completed", Households: 1},
		{Code: 3, Label: "Refused", Households: 1},
		{Code: 5, Label: "No competent respondent", Households: 1},
		{Code: 4, Label: "Migrated/Absent", Households: 1, Population: 2},
	}, rows)

	counted := 0
	for _, r := range rows {
		counted += r.Households
	}
	require.Equal(t, 6, counted)
	require.Less(t, counted, len(households))
}

func TestMortality(t *testing.T) {
	households := []survey.Classified{
		hh("a", sector(1), deaths(ptr(2))),
		hh("b", sector(1), deaths(nil)),
		hh("c", sector(4), deaths(ptr(1))),
		hh("d", sector(3), deaths(ptr(0))),
		hh("e", sector(2)),
		hh("f", sector(7), deaths(ptr(5))),
		hh("g", deaths(ptr(3))),
	}
	households[4].Deaths = ptr(4)

	rows := Mortality(households, sectors, []int{1, 2, 3, 4})

	require.Equal(t, []MortalityRow{
		{Sector: "Urban", Households: 2, Deaths: 2},
		{Sector: "Peri-Urban"},
		{Sector: "Settlement", Households: 1},
		{Sector: "Rural", Households: 1, Deaths: 1},
		{Sector: "TOTAL", Households: 4, Deaths: 3},
	}, rows)
}

func TestMortalityTableOrder(t *testing.T) {
	res, err := MortalityBySector{}.Compute(&views.Input{Survey: testSurvey()})
	require.NoError(t, err)

	var order []string
	for _, row := range res.Tables[0].Strings() {
		order = append(order, row[0])
	}
	require.Equal(t, []string{"Urban", "Peri-Urban", "Settlement", "Rural", "TOTAL"}, order)
}

func TestColumnSlug(t *testing.T) {
	require.Equal(t, "peri_urban", columnSlug("Peri-Urban"))
	require.Equal(t, "rural", columnSlug(" Rural "))
	require.Equal(t, "no_competent_respondent", columnSlug("No competent respondent"))
}
