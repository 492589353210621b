package coexstats

import (
	"fmt"
	"strings"
)

// SampleIndices converts a comma-separated list of sample IDs into their
// positions within sampleIDs. An empty list yields nil.
func SampleIndices(list string, sampleIDs []string) ([]int, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}

	pos := make(map[string]int, len(sampleIDs))
	for i, id := range sampleIDs {
		pos[id] = i
	}

	out := make([]int, 0)
	for _, id := range strings.Split(list, ",") {
		id = strings.TrimSpace(id)
		i, exists := pos[id]
		if !exists {
			return nil, fmt.Errorf("Sample %s is not among the %d samples", id, len(sampleIDs))
		}
		out = append(out, i)
	}

	return out, nil
}
