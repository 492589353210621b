package heatmap

import (
	"bytes"
	"image/color"
	"image/png"
	"math/rand"
	"reflect"
	"testing"

	"github.com/carbocation/coexstats"
	"github.com/carbocation/coexstats/annotation"
	"github.com/carbocation/coexstats/edgecluster"
	"github.com/carbocation/coexstats/network"
)

var sampleIDs = []string{"S1", "S2", "S3", "S4"}

func exampleAnnotation(t *testing.T) *annotation.Table {
	ann, err := annotation.FromTable(&coexstats.Table{
		Header: []string{"Sample", "Group", "Sex"},
		Rows: [][]string{
			{"S1", "B", "F"},
			{"S2", "A", "M"},
			{"S3", "NA", "F"},
			{"S4", "A", "F"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	return ann
}

func TestColumnOrder(t *testing.T) {
	ann := exampleAnnotation(t)

	for _, v := range []struct {
		SortBy   []string
		Expected []int
	}{
		{nil, []int{0, 1, 2, 3}},
		{[]string{"Group"}, []int{1, 3, 0, 2}},
		{[]string{"Sex", "Group"}, []int{3, 0, 2, 1}},
	} {
		got, err := ColumnOrder(ann, sampleIDs, v.SortBy)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, v.Expected) {
			t.Errorf("%v: got %v, expected %v", v.SortBy, got, v.Expected)
		}
	}

	if _, err := ColumnOrder(ann, sampleIDs, []string{"Tissue"}); err == nil {
		t.Error("Expected an error for an unknown field")
	}
}

func TestColors(t *testing.T) {
	c, err := Colors([]string{"A", "B"}, map[string]string{"A": "#ff0000"}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if c["A"] != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("Expected red for A, got %v", c["A"])
	}

	// Seeded sources repeat their colors
	again, err := Colors([]string{"A", "B"}, map[string]string{"A": "#ff0000"}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if c["B"] != again["B"] {
		t.Errorf("Expected the same color from the same seed, got %v and %v", c["B"], again["B"])
	}

	if _, err := Colors([]string{"A"}, map[string]string{"A": "red"}, rand.New(rand.NewSource(1))); err == nil {
		t.Error("Expected an error for a malformed hex color")
	}
}

func sameColor(a, b color.Color) bool {
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()

	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}

func TestRender(t *testing.T) {
	ann := exampleAnnotation(t)
	net := &network.Network{Edges: []network.Edge{
		{Source: "G1", Target: "G2", Samples: "1100"},
		{Source: "G1", Target: "G3", Samples: "0011"},
		{Source: "G2", Target: "G3", Samples: "1110"},
	}}

	tree, m, err := edgecluster.Cluster(net, edgecluster.Options{})
	if err != nil {
		t.Fatal(err)
	}

	opts := Options{
		SortBy:          []string{"Group"},
		Palette:         map[string]string{"A": "#00ff00"},
		Rand:            rand.New(rand.NewSource(7)),
		CellWidth:       10,
		CellHeight:      10,
		StripHeight:     10,
		DendrogramWidth: 50,
	}

	var buf bytes.Buffer
	if err := Render(&buf, m, tree, ann, sampleIDs, opts); err != nil {
		t.Fatal(err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 90 || b.Dy() != 40 {
		t.Fatalf("Expected a 90x40 image, got %v", b)
	}

	colOrder, err := ColumnOrder(ann, sampleIDs, opts.SortBy)
	if err != nil {
		t.Fatal(err)
	}

	// First strip cell is a sample in group A
	if c := img.At(55, 5); !sameColor(c, color.RGBA{0, 255, 0, 255}) {
		t.Errorf("Expected the palette color in the strip, got %v", c)
	}
	// Last strip cell has no group
	if c := img.At(85, 5); !sameColor(c, MissingColor) {
		t.Errorf("Expected the missing color in the strip, got %v", c)
	}

	for y, i := range tree.Order {
		for x, j := range colOrder {
			expected := color.Color(AbsentColor)
			if m.At(i, j) == 1 {
				expected = MemberColor
			}
			if c := img.At(55+10*x, 15+10*y); !sameColor(c, expected) {
				t.Errorf("Cell (%d,%d): got %v, expected %v", y, x, c, expected)
			}
		}
	}
}

func TestRenderDimensionMismatch(t *testing.T) {
	ann := exampleAnnotation(t)
	net := &network.Network{Edges: []network.Edge{
		{Source: "G1", Target: "G2", Samples: "1100"},
		{Source: "G1", Target: "G3", Samples: "0011"},
	}}
	tree, m, err := edgecluster.Cluster(net, edgecluster.Options{})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Render(&buf, m, tree, ann, sampleIDs[:3], Options{}); err == nil {
		t.Error("Expected an error when sample IDs do not match the columns")
	}

	tree.N = 5
	if err := Render(&buf, m, tree, ann, sampleIDs, Options{}); err == nil {
		t.Error("Expected an error when the tree does not match the rows")
	}
}

func TestRenderWithoutTree(t *testing.T) {
	ann := exampleAnnotation(t)
	net := &network.Network{Edges: []network.Edge{{Source: "G1", Target: "G2", Samples: "1100"}}}
	m, err := edgecluster.MembershipMatrix(net)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Render(&buf, m, nil, ann, sampleIDs, Options{}); err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatal(err)
	}
}
