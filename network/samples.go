package network

import (
	"fmt"
)

// Member is the Samples flag for a sample that belongs to an edge's cluster.
// Any other digit (0 for non-members, 6-9 for samples excluded as missing,
// outliers or below threshold) is a non-member.
const Member = '1'

// DecodeSamples converts a Samples string into the ascending zero-based
// indices of member samples. Every character must be a digit.
func DecodeSamples(samples string) ([]int, error) {
	out := make([]int, 0, len(samples))
	for i := 0; i < len(samples); i++ {
		c := samples[i]
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("Samples string has non-numeric flag %q at position %d", c, i)
		}
		if c == Member {
			out = append(out, i)
		}
	}

	return out, nil
}

// SampleIndices decodes the edge's Samples string.
func (e Edge) SampleIndices() ([]int, error) {
	if e.Samples == "" {
		return nil, fmt.Errorf("Edge %s-%s has no Samples string", e.Source, e.Target)
	}

	idx, err := DecodeSamples(e.Samples)
	if err != nil {
		return nil, fmt.Errorf("Edge %s-%s: %w", e.Source, e.Target, err)
	}

	return idx, nil
}

// Membership returns the Samples string as a 0/1 vector.
func (e Edge) Membership() ([]float64, error) {
	idx, err := e.SampleIndices()
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(e.Samples))
	for _, i := range idx {
		out[i] = 1
	}

	return out, nil
}
