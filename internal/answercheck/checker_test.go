package answercheck

import "testing"

func TestStageOneCorrectSolution(t *testing.T) {
	c := New()
	if !c.Check("(1+2)*7+3", "24", 1) {
		t.Fatalf("expected a valid 24 expression to be accepted")
	}
	// Both use 1 twice and omit 2; the multiset check must reject them even
	// though they evaluate to 24.
	for _, expr := range []string{"(1+3)*(7-1)", "(7-1)*(3+1)"} {
		if c.Check(expr, "24", 1) {
			t.Fatalf("expected %q to fail: 1 used twice, 2 missing", expr)
		}
	}
}

func TestStageOneSolutionsRegardlessOfOrdering(t *testing.T) {
	c := New()
	// Permutations and regroupings of {1,2,3,7} that all evaluate to 24.
	valid := []string{
		"(1+2)*7+3",
		"3+7*(2+1)",
		"7*(1+2)+3",
		"(2+1)*7+3",
		"3 + 7 * (1 + 2)",
		"(3*7)+1+2",
		"2+1+(3*7)",
		"1+2+3*7",
	}
	for _, expr := range valid {
		if !c.Check(expr, "24", 1) {
			t.Fatalf("expected %q to be accepted", expr)
		}
	}
}

func TestStageOneLetterMultiplication(t *testing.T) {
	c := New()
	if !c.Check("(1+2)x7+3", "24", 1) {
		t.Fatalf("expected lowercase x to act as multiplication")
	}
	if !c.Check("(1+2)X7+3", "24", 1) {
		t.Fatalf("expected uppercase X to act as multiplication")
	}
}

func TestStageOneRejections(t *testing.T) {
	c := New()
	cases := []struct {
		name string
		expr string
	}{
		{"letter", "7*3+1a"},
		{"missing required number", "1+3*7"},
		{"number outside set", "1+2+3+8"},
		{"division by zero", "7/(1+2-3)"},
		{"division by zero with repeats", "(1-1)/(2-2)*3*7"},
		{"fractional literal", "1+2+3*7.5"},
		{"unbalanced parens", "((1+2)*7+3"},
		{"empty operand", "1+2+3*7*"},
		{"empty input", ""},
	}
	for _, tc := range cases {
		if c.Check(tc.expr, "24", 1) {
			t.Fatalf("%s: expected %q to be rejected", tc.name, tc.expr)
		}
	}
}

func TestStageOneWholeDecimalAccepted(t *testing.T) {
	c := New()
	if !c.Check("1.0+2+3*7", "24", 1) {
		t.Fatalf("expected a zero-fraction decimal to count as its integer value")
	}
}

func TestStageOneToleranceOnTarget(t *testing.T) {
	c := New(WithRule(4, StageRule{RequiredNumbers: []int{1, 3}}))
	if !c.Check("3/1", "3.0000000000", 4) {
		t.Fatalf("expected float targets to compare within tolerance")
	}
	if c.Check("3/1", "3.5", 4) {
		t.Fatalf("expected an off-target result to be incorrect")
	}
}

func TestLaterStagesExactMatch(t *testing.T) {
	c := New()
	if !c.Check("  The Answer!! ", "the answer", 2) {
		t.Fatalf("expected normalized comparison to match")
	}
	if c.Check("different", "the answer", 2) {
		t.Fatalf("expected mismatch to be incorrect")
	}
	if !c.Check("Foo-Bar  42", "foo bar 42", 3) {
		t.Fatalf("expected punctuation and spacing to be ignored")
	}
}

func TestCheckIsIdempotent(t *testing.T) {
	c := New()
	first := c.Check("(1+2)*7+3", "24", 1)
	second := c.Check("(1+2)*7+3", "24", 1)
	if !first || first != second {
		t.Fatalf("identical inputs produced different results: %v vs %v", first, second)
	}
}

func TestDefensiveLimits(t *testing.T) {
	c := New(WithLimits(64, 8))

	long := make([]byte, 65)
	for i := range long {
		long[i] = '1'
	}
	if c.Check(string(long), "24", 1) {
		t.Fatalf("expected over-length input to be rejected")
	}

	deep := "((((((((( 1 )))))))))+2+3*7"
	if c.Check(deep, "24", 1) {
		t.Fatalf("expected nesting beyond the depth limit to be rejected")
	}
}

func TestCustomStageRule(t *testing.T) {
	c := New(WithRule(5, StageRule{RequiredNumbers: []int{4, 5}}))
	if !c.Check("4*5", "20", 5) {
		t.Fatalf("expected custom rule to apply")
	}
	if c.Check("5*4*1", "20", 5) {
		t.Fatalf("expected extra literal to be rejected under custom rule")
	}
}
