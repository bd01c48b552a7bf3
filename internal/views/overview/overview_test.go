package overview

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"hdss-monitor/internal/survey"
	"hdss-monitor/internal/views"
)

func ptr[T any](v T) *T { return &v }

func input() *views.Input {
	hh := func(key, status, sector, submitter string) survey.Classified {
		return survey.Classified{
			Household:       survey.Household{Key: key, Submitter: submitter},
			InterviewStatus: status,
			SectorName:      sector,
		}
	}
	households := []survey.Classified{
		hh("a", "Completed", "Urban", "ann"),
		hh("b", "Completed", "Rural", "ann"),
		hh("c", "Refused", "Rural", "bob"),
		hh("d", "", "", ""),
	}
	households[0].HouseholdGPS = survey.GPS{Latitude: ptr(-9.47), Longitude: ptr(147.19)}
	households[1].HouseholdGPS = survey.GPS{Latitude: ptr(-9.5)}

	return &views.Input{
		Households:     households,
		Individuals:    make([]survey.Individual, 10),
		AllHouseholds:  40,
		AllIndividuals: 150,
	}
}

func TestTotals(t *testing.T) {
	res, err := Totals{}.Compute(input())
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"site_households", "4"},
		{"site_individuals", "10"},
		{"average_household_size", "2.5"},
		{"all_households", "40"},
		{"all_individuals", "150"},
	}, res.Tables[0].Strings())
	require.Equal(t, 40, res.Stats[0].Of)
	require.Equal(t, 150, res.Stats[1].Of)
}

func TestTotalsEmptySite(t *testing.T) {
	res, err := Totals{}.Compute(&views.Input{})
	require.NoError(t, err)
	require.Equal(t, "0", res.Tables[0].Strings()[2][1])
}

func TestStatusDistribution(t *testing.T) {
	res, err := StatusDistribution{}.Compute(input())
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"Completed", "2", "66.7%"},
		{"Refused", "1", "33.3%"},
	}, res.Tables[0].Strings())
}

func TestSectorDistribution(t *testing.T) {
	res, err := SectorDistribution{}.Compute(input())
	require.NoError(t, err)
	require.Equal(t, [][]string{{"Rural", "2"}, {"Urban", "1"}}, res.Tables[0].Strings())
}

func TestCollectorsKeepsTop(t *testing.T) {
	in := &views.Input{}
	for i := 0; i < TopCollectors+5; i++ {
		for j := 0; j <= i; j++ {
			in.Households = append(in.Households, survey.Classified{Household: survey.Household{
				Key:       fmt.Sprintf("%d-%d", i, j),
				Submitter: fmt.Sprintf("collector-%02d", i),
			}})
		}
	}

	res, err := Collectors{}.Compute(in)
	require.NoError(t, err)
	rows := res.Tables[0].Strings()
	require.Len(t, rows, TopCollectors)
	require.Equal(t, []string{"collector-19", "20"}, rows[0])
}

func TestGPSPoints(t *testing.T) {
	res, err := GPSPoints{}.Compute(input())
	require.NoError(t, err)
	require.Equal(t, [][]string{{"a", "", "-9.47", "147.19"}}, res.Tables[0].Strings())
}
