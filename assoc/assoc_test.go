package assoc

import (
	"math"
	"reflect"
	"testing"

	"github.com/carbocation/coexstats"
	"github.com/carbocation/coexstats/annotation"
	"github.com/carbocation/coexstats/expression"
	"github.com/carbocation/coexstats/network"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/guregu/null.v3"
)

// Samples S1-S5 carry a clean dose response; S6 has no dose; S7-S9 sit at
// dose 3 on, far above, and far below the fitted line.
func exampleData(t *testing.T) (*expression.Matrix, *annotation.Table) {
	samples := []string{"S1", "S2", "S3", "S4", "S5", "S6", "S7", "S8", "S9"}
	genes := []string{"G1", "G2", "G3"}
	data := mat.NewDense(3, 9, []float64{
		2.1, 3.9, 6.2, 7.8, 10.1, 100, 6.02, 100, -100,
		0, 0, 0, 0, 0, 0, 0, 0, 0,
		5, 5, 5, 5, 5, 5, 5, 5, 5,
	})
	expr, err := expression.New(genes, samples, data)
	if err != nil {
		t.Fatal(err)
	}

	ann, err := annotation.FromTable(&coexstats.Table{
		Header: []string{"Sample", "Dose", "Batch", "Set"},
		Rows: [][]string{
			{"S1", "1", "X", "train"},
			{"S2", "2", "X", "train"},
			{"S3", "3", "X", "train"},
			{"S4", "4", "X", "train"},
			{"S5", "5", "X", "train"},
			{"S6", "NA", "X", "NA"},
			{"S7", "3", "X", "test"},
			{"S8", "3", "X", "test"},
			{"S9", "3", "X", "test"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	return expr, ann
}

// Truth values from R: summary(lm(y ~ x)) with x = 1:5 and
// y = c(2.1, 3.9, 6.2, 7.8, 10.1)
func TestTest(t *testing.T) {
	expr, ann := exampleData(t)
	edge := network.Edge{Source: "G1", Target: "G2", Samples: "111111000"}

	res, err := Test(edge, expr, ann, "Dose", nil)
	if err != nil {
		t.Fatal(err)
	}

	if res.N != 5 {
		t.Errorf("Expected 5 usable samples, got %d", res.N)
	}
	if !res.Effect.Valid || math.Abs(res.Effect.Float64-1.99) > 1e-9 {
		t.Errorf("Expected an effect of 1.99, got %+v", res.Effect)
	}
	if !res.P.Valid || math.Abs(res.P.Float64-5.9415391e-05)/5.9415391e-05 > 1e-6 {
		t.Errorf("Expected P=5.9415391e-05, got %+v", res.P)
	}
}

func TestTestOverride(t *testing.T) {
	expr, ann := exampleData(t)

	// The edge's own samples are too few, but the override is not
	edge := network.Edge{Source: "G1", Target: "G2", Samples: "110000000"}
	res, err := Test(edge, expr, ann, "Dose", []int{0, 1, 2, 3, 4})
	if err != nil {
		t.Fatal(err)
	}
	if !res.P.Valid {
		t.Error("Expected a P value when overriding the samples")
	}
}

func TestTestDegenerate(t *testing.T) {
	expr, ann := exampleData(t)

	for _, v := range []struct {
		Name   string
		Edge   network.Edge
		Field  string
		Effect null.Float
	}{
		{"single-valued covariate", network.Edge{Source: "G1", Target: "G2", Samples: "111111111"}, "Batch", null.Float{}},
		{"single sample", network.Edge{Source: "G1", Target: "G2", Samples: "100000000"}, "Dose", null.Float{}},

		// The slope is defined, but cannot be tested
		{"two samples", network.Edge{Source: "G1", Target: "G2", Samples: "110000000"}, "Dose", null.FloatFrom(1.8)},
		{"constant response", network.Edge{Source: "G3", Target: "G2", Samples: "111110000"}, "Dose", null.FloatFrom(0)},
	} {
		res, err := Test(v.Edge, expr, ann, v.Field, nil)
		if err != nil {
			t.Fatalf("%s: %v", v.Name, err)
		}
		if res.P.Valid {
			t.Errorf("%s: expected a missing P, got %v", v.Name, res.P.Float64)
		}
		if res.Effect.Valid != v.Effect.Valid || math.Abs(res.Effect.Float64-v.Effect.Float64) > 1e-9 {
			t.Errorf("%s: expected effect %+v, got %+v", v.Name, v.Effect, res.Effect)
		}
	}
}

func TestTestErrors(t *testing.T) {
	expr, ann := exampleData(t)

	if _, err := Test(network.Edge{Source: "G1", Target: "G9", Samples: "111111111"}, expr, ann, "Dose", nil); err == nil {
		t.Error("Expected an error for an unknown gene")
	}
	if _, err := Test(network.Edge{Source: "G1", Target: "G2", Samples: "111111111"}, expr, ann, "Age", nil); err == nil {
		t.Error("Expected an error for an unknown field")
	}
	if _, err := Test(network.Edge{Source: "G1", Target: "G2", Samples: "11x111111"}, expr, ann, "Dose", nil); err == nil {
		t.Error("Expected an error for a malformed Samples string")
	}
}

func TestNetwork(t *testing.T) {
	expr, ann := exampleData(t)
	net := &network.Network{Edges: []network.Edge{
		{Source: "G1", Target: "G2", Similarity: 0.9, Samples: "111111000"},
		{Source: "G3", Target: "G2", Similarity: 0.8, Samples: "111110000"},
	}}
	before := net.Clone()

	out, err := Network(net, expr, ann, "Dose", Options{})
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(out.Columns, []string{"Dose_pval", "Dose_effect"}) {
		t.Errorf("Got columns %v", out.Columns)
	}
	if len(out.Values) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(out.Values))
	}
	if !out.Values[0][0].Valid || !out.Values[0][1].Valid {
		t.Errorf("Edge 1 should have results, got %+v", out.Values[0])
	}
	// Constant response: a flat slope with no P value
	if out.Values[1][0].Valid || !out.Values[1][1].Valid || out.Values[1][1].Float64 != 0 {
		t.Errorf("Edge 2 should have a zero effect and no P value, got %+v", out.Values[1])
	}
	if !reflect.DeepEqual(out.Strip(), before) {
		t.Error("Stripped output differs from the input network")
	}
}

func TestNetworkSampleLengthMismatch(t *testing.T) {
	expr, ann := exampleData(t)
	net := &network.Network{Edges: []network.Edge{{Source: "G1", Target: "G2", Samples: "1111"}}}

	if _, err := Network(net, expr, ann, "Dose", Options{}); err == nil {
		t.Error("Expected an error")
	}
}

func TestIntervalScore(t *testing.T) {
	for _, v := range []struct {
		Y, Lwr, Upr float64
		Expected    float64
	}{
		{5, 0, 10, 0},
		{0, 0, 10, -1},
		{10, 0, 10, 1},
		{7.5, 0, 10, 0.5},
		{20, 0, 10, 1},
		{-3, 0, 10, -1},
		{1, 1, 1, 0},
	} {
		if s := intervalScore(v.Y, v.Lwr, v.Upr); math.Abs(s-v.Expected) > 1e-12 {
			t.Errorf("%+v: got %v", v, s)
		}
	}
}

func TestDifferential(t *testing.T) {
	expr, ann := exampleData(t)
	edge := network.Edge{Source: "G1", Target: "G2", Samples: "111111111"}

	model, err := GroupSamples(expr, ann, "Set", "train")
	if err != nil {
		t.Fatal(err)
	}

	// Scores are 0, 1 and -1
	v, err := Differential(edge, expr, ann, "Dose", model, []int{6, 7, 8}, DefaultLevel)
	if err != nil {
		t.Fatal(err)
	}
	if !v.Valid || math.Abs(v.Float64) > 1e-9 {
		t.Errorf("Expected a median score of 0, got %+v", v)
	}

	v, err = Differential(edge, expr, ann, "Dose", model, []int{7}, DefaultLevel)
	if err != nil {
		t.Fatal(err)
	}
	if v.Float64 != 1 {
		t.Errorf("Expected a score of 1, got %+v", v)
	}

	// S6 has no dose
	v, err = Differential(edge, expr, ann, "Dose", model, []int{5}, DefaultLevel)
	if err != nil {
		t.Fatal(err)
	}
	if v.Valid {
		t.Errorf("Expected a missing score, got %v", v.Float64)
	}

	// A two-sample model has a slope but no prediction interval
	v, err = Differential(edge, expr, ann, "Dose", []int{0, 1}, []int{6}, DefaultLevel)
	if err != nil {
		t.Fatal(err)
	}
	if v.Valid {
		t.Errorf("Expected a missing score for a two-sample model, got %v", v.Float64)
	}

	if _, err := Differential(edge, expr, ann, "Dose", model, []int{6}, 1.5); err == nil {
		t.Error("Expected an error for an invalid level")
	}
}

func TestDifferentialNetwork(t *testing.T) {
	expr, ann := exampleData(t)
	net := &network.Network{Edges: []network.Edge{
		{Source: "G1", Target: "G2", Similarity: 0.9, Samples: "111110000"},
		{Source: "G3", Target: "G2", Similarity: 0.8, Samples: "111110000"},
	}}

	groups, err := GroupsFromField(expr, ann, "Set")
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 || groups[0].Name != "train" || groups[1].Name != "test" {
		t.Fatalf("Unexpected groups %+v", groups)
	}

	out, err := DifferentialNetwork(net, expr, ann, "Dose", nil, groups, DefaultLevel, nil)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(out.Columns, []string{"Dose_train_diff", "Dose_test_diff"}) {
		t.Errorf("Got columns %v", out.Columns)
	}
	if v := out.Values[0][1]; !v.Valid || math.Abs(v.Float64) > 1e-9 {
		t.Errorf("Edge 1, test group: expected 0, got %+v", v)
	}
	for k, v := range out.Values[1] {
		if v.Valid {
			t.Errorf("Edge 2 has a constant response; column %d should be missing", k)
		}
	}
}
