// Package site scopes a classified snapshot to one survey site.
package site

import (
	"strings"

	"hdss-monitor/internal/survey"
)

// Filter returns copies of the households whose site equals site (ignoring
// case) and the individuals owned by them. An unknown site yields empty,
// non-nil slices.
func Filter(site string, households []survey.Classified, individuals []survey.Individual) ([]survey.Classified, []survey.Individual) {
	hh := make([]survey.Classified, 0)
	keys := make(map[string]struct{})
	for _, h := range households {
		if strings.EqualFold(h.Site, site) {
			hh = append(hh, h)
			keys[h.Key] = struct{}{}
		}
	}

	ind := make([]survey.Individual, 0)
	for _, i := range individuals {
		if _, ok := keys[i.ParentKey]; ok {
			ind = append(ind, i)
		}
	}
	return hh, ind
}
