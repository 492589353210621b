package exact

import (
	"math"
	"testing"
)

type fisherExpectations struct {
	Table Table2x2

	Greater  float64
	Less     float64
	TwoSided float64
}

// Truth values calculated with R's fisher.test
func TestFisher(t *testing.T) {
	for _, v := range []fisherExpectations{
		{Table2x2{2, 0, 0, 2}, 1.0 / 6.0, 1, 1.0 / 3.0},
		{Table2x2{0, 2, 2, 0}, 1, 1.0 / 6.0, 1.0 / 3.0},
		{Table2x2{3, 1, 1, 3}, 0.2428571, 0.9857143, 0.4857143},
		{Table2x2{0, 2, 0, 2}, 1, 1, 1},
	} {
		r, err := Fisher(v.Table)
		if err != nil {
			t.Fatal(err)
		}
		for _, check := range []struct {
			Alt      Alternative
			Expected float64
		}{
			{Greater, v.Greater},
			{Less, v.Less},
			{TwoSided, v.TwoSided},
		} {
			if p := r.P(check.Alt); math.Abs(p-check.Expected) > 1e-6 {
				t.Errorf("\nTable: %s\nAlternative: %s\nP: %.7f\nExpected: %.7f\n", v.Table, check.Alt, p, check.Expected)
			}
		}
	}
}

func TestFisherNegative(t *testing.T) {
	if _, err := Fisher(Table2x2{-1, 2, 3, 4}); err == nil {
		t.Error("Expected an error for a negative cell")
	}
}

// Truth values calculated with R's binom.test
func TestBinomial(t *testing.T) {
	for _, v := range []struct {
		X, N int
		P    float64
		Alt  Alternative
		Conf float64

		Expected float64
	}{
		{682, 925, 0.75, TwoSided, 0.95, 0.3824916},
		{3, 10, 0.2, TwoSided, 0.95, 0.4295747},
		{0, 10, 0.3, TwoSided, 0.95, 0.0388396},
		{7, 20, 0.5, Less, 0.99, 0.1315880},
		{6, 10, 0.2, Greater, 0.99, 0.0063694},
		{2, 4, 0.5, TwoSided, 0.99, 1},
		{0, 4, 0.5, Less, 0.99, 0.0625},
		{2, 2, 1, Less, 0.99, 1},
	} {
		r, err := Binomial(v.X, v.N, v.P, v.Alt, v.Conf)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(r.P-v.Expected) > 1e-6 {
			t.Errorf("\nInput: %+v\nP: %.7f\nExpected: %.7f\n", v, r.P, v.Expected)
		}
		if r.Lower > r.Estimate || r.Upper < r.Estimate {
			t.Errorf("Estimate %v lies outside of its interval [%v, %v]", r.Estimate, r.Lower, r.Upper)
		}
	}
}

func TestBinomialConfidenceInterval(t *testing.T) {
	r, err := Binomial(682, 925, 0.75, TwoSided, 0.95)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(r.Lower-0.7076683) > 1e-5 || math.Abs(r.Upper-0.7654066) > 1e-5 {
		t.Errorf("Got interval [%.7f, %.7f], expected [0.7076683, 0.7654066]", r.Lower, r.Upper)
	}

	r, err = Binomial(0, 10, 0.3, Less, 0.99)
	if err != nil {
		t.Fatal(err)
	}
	if r.Lower != 0 || r.Upper <= 0 || r.Upper >= 1 {
		t.Errorf("Unexpected one-sided interval [%v, %v]", r.Lower, r.Upper)
	}
}

func TestBinomialInvalid(t *testing.T) {
	for _, v := range []struct {
		X, N int
		P    float64
	}{
		{0, 0, 0.5},
		{5, 4, 0.5},
		{1, 4, 1.5},
	} {
		if _, err := Binomial(v.X, v.N, v.P, Less, 0.99); err == nil {
			t.Errorf("Expected an error for %+v", v)
		}
	}
}

func TestApproximate(t *testing.T) {
	if x := ChiSquare(Table2x2{3, 1, 1, 3}); math.Abs(x-2) > 1e-12 {
		t.Errorf("Expected a chi square of 2, got %v", x)
	}
	if p := Approximate(Table2x2{3, 1, 1, 3}); math.Abs(p-0.1572992) > 1e-6 {
		t.Errorf("Expected P=0.1572992, got %v", p)
	}
	if p := Approximate(Table2x2{0, 2, 0, 2}); p != 1 {
		t.Errorf("Expected P=1 for an empty column, got %v", p)
	}
}

func TestFast(t *testing.T) {
	// chi-square = 2 for both tables, two-sided P = 0.1572992
	for _, v := range []struct {
		Table    Table2x2
		Alt      Alternative
		Expected float64
	}{
		{Table2x2{3, 1, 1, 3}, TwoSided, 0.1572992},
		{Table2x2{3, 1, 1, 3}, Greater, 0.0786496},
		{Table2x2{3, 1, 1, 3}, Less, 0.9213504},

		// Depleted: the upper tail stays near 1
		{Table2x2{1, 3, 3, 1}, Greater, 0.9213504},
		{Table2x2{1, 3, 3, 1}, Less, 0.0786496},

		// No association
		{Table2x2{2, 2, 2, 2}, Greater, 0.5},
	} {
		p, err := Fast(v.Table, v.Alt, 0.05)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(p-v.Expected) > 1e-6 {
			t.Errorf("%s %s: expected P=%v, got %v", v.Table, v.Alt, v.Expected, p)
		}
	}

	// Remarkable: the exact value replaces it
	p, err := Fast(Table2x2{20, 0, 0, 20}, Greater, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	exactP, _ := FisherP(Table2x2{20, 0, 0, 20}, Greater)
	if p != exactP {
		t.Errorf("Expected the exact P %v, got %v", exactP, p)
	}

	// Strongly depleted tables are screened out under Greater but tested
	// exactly under Less
	p, err = Fast(Table2x2{0, 20, 20, 0}, Greater, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	if p < 0.99 {
		t.Errorf("Expected P near 1 for a depleted table, got %v", p)
	}
	p, err = Fast(Table2x2{0, 20, 20, 0}, Less, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	exactP, _ = FisherP(Table2x2{0, 20, 20, 0}, Less)
	if p != exactP {
		t.Errorf("Expected the exact P %v, got %v", exactP, p)
	}
}

func TestParseAlternative(t *testing.T) {
	for s, expected := range map[string]Alternative{
		"greater":   Greater,
		"less":      Less,
		"two.sided": TwoSided,
		"two-sided": TwoSided,
	} {
		a, err := ParseAlternative(s)
		if err != nil {
			t.Fatal(err)
		}
		if a != expected {
			t.Errorf("%s: got %s", s, a)
		}
	}
	if _, err := ParseAlternative("sideways"); err == nil {
		t.Error("Expected an error")
	}
}
