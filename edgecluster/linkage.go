package edgecluster

import (
	"fmt"
	"math"
	"strings"
)

// Linkage names the rule used to compute the distance from a newly merged
// cluster to every other cluster.
type Linkage string

const (
	// WardD applies Ward's minimum variance update to the distances as given.
	WardD Linkage = "ward.D"

	// WardD2 squares the distances first and reports square-rooted heights.
	WardD2   Linkage = "ward.D2"
	Single   Linkage = "single"
	Complete Linkage = "complete"
	Average  Linkage = "average"
	McQuitty Linkage = "mcquitty"
	Median   Linkage = "median"
	Centroid Linkage = "centroid"
)

var Linkages = []Linkage{WardD, WardD2, Single, Complete, Average, McQuitty, Median, Centroid}

// ParseLinkage resolves a linkage name. "ward" is accepted for ward.D and
// "upgma" for average.
func ParseLinkage(name string) (Linkage, error) {
	switch strings.ToLower(name) {
	case "ward":
		return WardD, nil
	case "upgma":
		return Average, nil
	case "wpgma":
		return McQuitty, nil
	}

	for _, l := range Linkages {
		if strings.EqualFold(name, string(l)) {
			return l, nil
		}
	}

	names := make([]string, 0, len(Linkages))
	for _, l := range Linkages {
		names = append(names, string(l))
	}

	return "", fmt.Errorf("Linkage method %s is not found. Valid methods include: %s", name, strings.Join(names, ", "))
}

// update returns the Lance-Williams distance from the union of clusters i and
// j (sizes ni, nj) to cluster k (size nk), given dik, djk and dij.
func (l Linkage) update(dik, djk, dij, ni, nj, nk float64) float64 {
	switch l {
	case WardD, WardD2:
		return ((ni+nk)*dik + (nj+nk)*djk - nk*dij) / (ni + nj + nk)
	case Single:
		return math.Min(dik, djk)
	case Complete:
		return math.Max(dik, djk)
	case Average:
		return (ni*dik + nj*djk) / (ni + nj)
	case McQuitty:
		return 0.5*dik + 0.5*djk
	case Median:
		return 0.5*dik + 0.5*djk - 0.25*dij
	case Centroid:
		return (ni*dik+nj*djk)/(ni+nj) - ni*nj*dij/((ni+nj)*(ni+nj))
	}

	return math.NaN()
}
