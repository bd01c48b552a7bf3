package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestSiteLabel(t *testing.T) {
	sites := []string{"central", "NCD"}
	require.Equal(t, "central", SiteLabel("Central", sites))
	require.Equal(t, "NCD", SiteLabel("ncd", sites))
	require.Equal(t, UnknownSite, SiteLabel("atlantis", sites))
	require.Equal(t, UnknownSite, SiteLabel("", nil))
}

func TestRecordPassLabels(t *testing.T) {
	RecordPass(SiteLabel("Atlantis", []string{"central"}), 10*time.Millisecond, time.Unix(1700000000, 0))

	require.Contains(t, passSites(t), UnknownSite)
	require.NotContains(t, passSites(t), "Atlantis")
}

// passSites lists the site label values of the pass histogram.
func passSites(t *testing.T) []string {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	var sites []string
	for _, f := range families {
		if f.GetName() != "hdss_monitor_pipeline_pass_duration_seconds" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "site" {
					sites = append(sites, l.GetValue())
				}
			}
		}
	}
	return sites
}
