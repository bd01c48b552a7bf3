package survey

// PopulationByHousehold counts individuals per parent key. Individuals whose
// parent is not in the caller's household set simply never get looked up.
func PopulationByHousehold(individuals []Individual) map[string]int {
	counts := make(map[string]int, len(individuals))
	for _, ind := range individuals {
		counts[ind.ParentKey]++
	}
	return counts
}
