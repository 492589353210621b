package network

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/guregu/null.v3"
)

const exampleNetwork = "Source\tTarget\tSimilarity_Score\tInteraction\tSamples\n" +
	"GeneA\tGeneB\t0.91\tCo\t1100\n" +
	"GeneC\tGeneD\t-0.85\tCo\t0011\n"

func TestDecodeSamples(t *testing.T) {
	for _, v := range []struct {
		Input    string
		Expected []int
	}{
		{"1100", []int{0, 1}},
		{"0011", []int{2, 3}},
		{"0000", []int{}},
		{"1061917", []int{0, 3, 5}},
		{"", []int{}},
	} {
		got, err := DecodeSamples(v.Input)
		if err != nil {
			t.Fatalf("%s: %v", v.Input, err)
		}
		if !reflect.DeepEqual(got, v.Expected) {
			t.Errorf("%s: got %v, expected %v", v.Input, got, v.Expected)
		}

		// Decoding is idempotent and stays within range
		again, _ := DecodeSamples(v.Input)
		if !reflect.DeepEqual(got, again) {
			t.Errorf("%s: decoding was not idempotent", v.Input)
		}
		for _, idx := range got {
			if idx < 0 || idx >= len(v.Input) {
				t.Errorf("%s: index %d out of range", v.Input, idx)
			}
		}
	}
}

func TestDecodeSamplesNonNumeric(t *testing.T) {
	for _, input := range []string{"11x0", "1 00", "*"} {
		if _, err := DecodeSamples(input); err == nil {
			t.Errorf("%q: expected a parse error", input)
		}
	}
}

func TestReadNetwork(t *testing.T) {
	net, err := Read(strings.NewReader(exampleNetwork))
	if err != nil {
		t.Fatal(err)
	}

	if net.Len() != 2 {
		t.Fatalf("Expected 2 edges, got %d", net.Len())
	}
	if e := net.Edges[1]; e.Source != "GeneC" || e.Target != "GeneD" || e.Similarity != -0.85 || e.Samples != "0011" {
		t.Errorf("Unexpected edge: %+v", e)
	}
	if !reflect.DeepEqual(net.ExtraHeader, []string{"Interaction"}) {
		t.Errorf("Unexpected extra header: %v", net.ExtraHeader)
	}

	n, err := net.SampleCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("Expected 4 samples, got %d", n)
	}
	if err := net.ValidateSamples(5); err == nil {
		t.Error("Expected a length mismatch error")
	}
}

func TestReadNetworkMissingColumn(t *testing.T) {
	if _, err := Read(strings.NewReader("Source\tSimilarity\nA\t1\n")); err == nil {
		t.Error("Expected an error for a missing Target column")
	}
}

func TestSampleCountMismatch(t *testing.T) {
	net := &Network{Edges: []Edge{{Source: "A", Target: "B", Samples: "110"}, {Source: "C", Target: "D", Samples: "0011"}}}
	if _, err := net.SampleCount(); err == nil {
		t.Error("Expected an error for unequal Samples lengths")
	}
}

func TestAnnotatedRoundTrip(t *testing.T) {
	net, err := Read(strings.NewReader(exampleNetwork))
	if err != nil {
		t.Fatal(err)
	}

	ann := NewAnnotated(net, []string{"GroupA", "GroupB"})
	ann.Values[0][0] = null.FloatFrom(0.25)

	// The input is untouched and stripping recovers it exactly
	if !reflect.DeepEqual(ann.Strip(), net) {
		t.Error("Stripped annotation differs from the input network")
	}

	ann.Edges[0].Source = "Changed"
	if net.Edges[0].Source != "GeneA" {
		t.Error("Annotating modified the input network")
	}
}

func TestAnnotatedWrite(t *testing.T) {
	net, err := Read(strings.NewReader(exampleNetwork))
	if err != nil {
		t.Fatal(err)
	}

	ann := NewAnnotated(net, []string{"GroupA"})
	ann.Values[0][0] = null.FloatFrom(0.5)

	var buf bytes.Buffer
	if err := ann.Write(&buf); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Source\tTarget\tSimilarity\tSamples\tInteraction\tGroupA" {
		t.Errorf("Unexpected header %q", lines[0])
	}
	if lines[1] != "GeneA\tGeneB\t0.91\t1100\tCo\t0.5" {
		t.Errorf("Unexpected row %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "\t"+Missing) {
		t.Errorf("Expected a missing value, got %q", lines[2])
	}
}

func TestAnnotatedMerge(t *testing.T) {
	net := &Network{Edges: []Edge{{Source: "A", Target: "B"}}}
	a := NewAnnotated(net, []string{"x"})
	b := NewAnnotated(net, []string{"y", "z"})
	b.Values[0][1] = null.FloatFrom(3)

	m, err := a.Merge(b)
	if err != nil {
		t.Fatal(err)
	}
	col, err := m.Column("y")
	if err != nil {
		t.Fatal(err)
	}
	if col[0].Valid {
		t.Error("Expected y to be missing")
	}
	col, _ = m.Column("z")
	if col[0].Float64 != 3 {
		t.Errorf("Expected z=3, got %v", col[0])
	}
	if _, err := m.Column("nope"); err == nil {
		t.Error("Expected an error for an unknown column")
	}
}
