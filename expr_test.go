package gopn_test

import (
	"errors"
	"testing"

	"github.com/njchilds90/gopn"
)

// ============================================================
// Num tests
// ============================================================

func TestNum_Integer(t *testing.T) {
	n := gopn.Int(42)
	if n.String() != "42" {
		t.Errorf("want 42, got %s", n.String())
	}
}

func TestNum_Rational(t *testing.T) {
	n := gopn.Frac(2, 6)
	if n.String() != "1/3" {
		t.Errorf("want 1/3, got %s", n.String())
	}
}

func TestNum_LaTeX_Rational(t *testing.T) {
	if got := gopn.Frac(2, 5).LaTeX(); got != `\frac{2}{5}` {
		t.Errorf("want \\frac{2}{5}, got %s", got)
	}
	if got := gopn.Frac(-3, 4).LaTeX(); got != `-\frac{3}{4}` {
		t.Errorf("want -\\frac{3}{4}, got %s", got)
	}
}

func TestParseNum(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"3", "3"},
		{"-7/14", "-1/2"},
		{"1.25", "5/4"},
		{" 2 ", "2"},
	}
	for _, tt := range tests {
		n, err := gopn.ParseNum(tt.in)
		if err != nil {
			t.Errorf("ParseNum(%q): %v", tt.in, err)
			continue
		}
		if n.String() != tt.want {
			t.Errorf("ParseNum(%q): want %s, got %s", tt.in, tt.want, n)
		}
	}
	if _, err := gopn.ParseNum("one"); err == nil {
		t.Error("expected error for non-numeric input")
	}
}

func TestFrac_ZeroDenominatorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	gopn.Frac(1, 0)
}

// ============================================================
// Construction and canonical form
// ============================================================

func TestSym_String(t *testing.T) {
	if s := gopn.S("x").String(); s != "x" {
		t.Errorf("want x, got %s", s)
	}
}

func TestSym_InvalidNamePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid symbol name")
		}
	}()
	gopn.S("1x")
}

func TestAdd_ConstantLast(t *testing.T) {
	e := gopn.AddOf(gopn.N(3), gopn.S("x"))
	if e.String() != "x + 3" {
		t.Errorf("want x + 3, got %s", e)
	}
}

func TestAdd_Cancellation(t *testing.T) {
	x := gopn.S("x")
	e := x.Add(x.Neg())
	if !e.IsZero() || e.String() != "0" {
		t.Errorf("x - x should be 0, got %s", e)
	}
}

func TestAdd_CollectsLikeTerms(t *testing.T) {
	x := gopn.S("x")
	if e := gopn.AddOf(x, x); e.String() != "2*x" {
		t.Errorf("want 2*x, got %s", e)
	}
}

func TestMul_Expands(t *testing.T) {
	x := gopn.S("x")
	e := x.Add(gopn.N(-2)).Pow(2)
	if e.String() != "-4*x + x^2 + 4" {
		t.Errorf("want -4*x + x^2 + 4, got %s", e)
	}
}

func TestMul_Commutative(t *testing.T) {
	x, y := gopn.S("x"), gopn.S("y")
	a := x.Add(gopn.N(1)).Mul(y.Add(gopn.F(1, 2)))
	b := y.Add(gopn.F(1, 2)).Mul(x.Add(gopn.N(1)))
	if !a.Equal(b) {
		t.Errorf("products differ: %s vs %s", a, b)
	}
}

func TestBinomialSquare(t *testing.T) {
	x, y := gopn.S("x"), gopn.S("y")
	lhs := x.Add(y).Pow(2)
	rhs := gopn.AddOf(x.Pow(2), gopn.MulOf(gopn.N(2), x, y), y.Pow(2))
	if !lhs.Equal(rhs) {
		t.Errorf("(x+y)^2: got %s", lhs)
	}
}

func TestString_Fraction(t *testing.T) {
	m1, m2 := gopn.S("m1"), gopn.S("m2")
	e := gopn.MulOf(gopn.F(3, 2), m2, m1.Pow(-1))
	if e.String() != "3*m2/(2*m1)" {
		t.Errorf("want 3*m2/(2*m1), got %s", e)
	}
}

func TestString_NegativePower(t *testing.T) {
	if e := gopn.S("r").Pow(-2); e.String() != "1/r^2" {
		t.Errorf("want 1/r^2, got %s", e)
	}
}

func TestString_Signs(t *testing.T) {
	x, y := gopn.S("x"), gopn.S("y")
	if e := x.Add(y.Neg()); e.String() != "x - y" {
		t.Errorf("want x - y, got %s", e)
	}
	if e := x.Neg(); e.String() != "-x" {
		t.Errorf("want -x, got %s", e)
	}
}

func TestLaTeX(t *testing.T) {
	x, y := gopn.S("x"), gopn.S("y")
	e := gopn.MulOf(x.Pow(2), y.Pow(-1), gopn.F(1, 2))
	if got := e.LaTeX(); got != `\frac{x^{2}}{2 y}` {
		t.Errorf("got %s", got)
	}
	if got := gopn.F(2, 5).LaTeX(); got != `\frac{2}{5}` {
		t.Errorf("got %s", got)
	}
	if got := x.Add(y.Neg()).LaTeX(); got != "x - y" {
		t.Errorf("got %s", got)
	}
}

func TestPrettyPrint(t *testing.T) {
	if got := gopn.PrettyPrint("H", gopn.S("x")); got != "H = x\n" {
		t.Errorf("got %q", got)
	}
}

func TestPow_Zero(t *testing.T) {
	if e := gopn.S("x").Add(gopn.N(1)).Pow(0); e.String() != "1" {
		t.Errorf("want 1, got %s", e)
	}
}

func TestPow_NegativeOfSumPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	gopn.S("x").Add(gopn.N(1)).Pow(-1)
}

func TestPow_ExponentBeyondLimitPanics(t *testing.T) {
	x := gopn.S("x").Pow(gopn.MaxExponent)
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	x.Mul(gopn.S("x"))
}

func TestPow_LargeMonomialIsDirect(t *testing.T) {
	e := gopn.MulOf(gopn.N(-1), gopn.S("x")).Pow(gopn.MaxExponent - 1)
	if e.Len() != 1 || e.Exponents("x")[0] != gopn.MaxExponent-1 {
		t.Errorf("want a single x^%d term, got %s", gopn.MaxExponent-1, e)
	}
	if c := e.Terms()[0].Coeff.String(); c != "-1" {
		t.Errorf("want coefficient -1, got %s", c)
	}
}

func TestPow_NegativeMonomial(t *testing.T) {
	e := gopn.MulOf(gopn.N(2), gopn.S("x")).Pow(-2)
	if e.String() != "1/(4*x^2)" {
		t.Errorf("want 1/(4*x^2), got %s", e)
	}
	if back := e.Pow(-1).Pow(-1); !back.Equal(e) {
		t.Errorf("double inverse changed the value: %s", back)
	}
}

// ============================================================
// Calculus and substitution
// ============================================================

func TestDiff_Polynomial(t *testing.T) {
	x := gopn.S("x")
	e := gopn.AddOf(x.Pow(3), gopn.MulOf(gopn.N(2), x))
	if d := e.Diff("x"); d.String() != "3*x^2 + 2" {
		t.Errorf("want 3*x^2 + 2, got %s", d)
	}
}

func TestDiff_NegativePower(t *testing.T) {
	if d := gopn.S("r").Pow(-1).Diff("r"); d.String() != "-1/r^2" {
		t.Errorf("want -1/r^2, got %s", d)
	}
}

func TestDiff_Constant(t *testing.T) {
	if d := gopn.N(5).Diff("x"); !d.IsZero() {
		t.Errorf("d/dx(5) should be 0, got %s", d)
	}
}

func TestSub_Expands(t *testing.T) {
	x, y := gopn.S("x"), gopn.S("y")
	e, err := x.Pow(2).Add(y).Sub("x", y.Add(gopn.N(1)))
	if err != nil {
		t.Fatal(err)
	}
	if e.String() != "3*y + y^2 + 1" {
		t.Errorf("want 3*y + y^2 + 1, got %s", e)
	}
}

func TestSub_NoMatch(t *testing.T) {
	x := gopn.S("x")
	e, err := x.Sub("y", gopn.N(3))
	if err != nil || !e.Equal(x) {
		t.Errorf("want x, got %s (%v)", e, err)
	}
}

func TestSub_NegativePowerOfSum(t *testing.T) {
	x, y := gopn.S("x"), gopn.S("y")
	_, err := x.Pow(-1).Sub("x", y.Add(gopn.N(1)))
	if !errors.Is(err, gopn.ErrNonMonomialInverse) {
		t.Errorf("want ErrNonMonomialInverse, got %v", err)
	}
}

func TestSub_LargePowerOfSum(t *testing.T) {
	x, y := gopn.S("x"), gopn.S("y")
	_, err := x.Pow(100).Sub("x", y.Add(gopn.N(1)))
	if !errors.Is(err, gopn.ErrTooLarge) {
		t.Errorf("want ErrTooLarge, got %v", err)
	}

	e, err := x.Pow(100).Sub("x", gopn.MulOf(gopn.N(2), y))
	if err != nil {
		t.Fatal(err)
	}
	if e.String() != "1267650600228229401496703205376*y^100" {
		t.Errorf("want 2^100*y^100, got %s", e)
	}
}

func TestSub_ExponentOverflow(t *testing.T) {
	x, y := gopn.S("x"), gopn.S("y")
	_, err := x.Pow(64).Sub("x", y.Pow(gopn.MaxExponent))
	if !errors.Is(err, gopn.ErrTooLarge) {
		t.Errorf("want ErrTooLarge, got %v", err)
	}
}

func TestSub_NegativePowerOfZero(t *testing.T) {
	_, err := gopn.S("x").Pow(-1).Sub("x", gopn.N(0))
	if !errors.Is(err, gopn.ErrDivisionByZero) {
		t.Errorf("want ErrDivisionByZero, got %v", err)
	}
}

func TestEval(t *testing.T) {
	x, y := gopn.S("x"), gopn.S("y")
	e := x.Pow(2).Mul(y.Pow(-1))
	n, err := e.Eval(map[string]*gopn.Num{"x": gopn.Frac(3, 2), "y": gopn.Int(3)})
	if err != nil {
		t.Fatal(err)
	}
	if n.String() != "3/4" {
		t.Errorf("want 3/4, got %s", n)
	}
}

func TestEval_Unbound(t *testing.T) {
	_, err := gopn.S("x").Eval(map[string]*gopn.Num{})
	if !errors.Is(err, gopn.ErrUnboundSymbol) {
		t.Errorf("want ErrUnboundSymbol, got %v", err)
	}
}

func TestEval_DivisionByZero(t *testing.T) {
	_, err := gopn.S("y").Pow(-1).Eval(map[string]*gopn.Num{"y": gopn.Int(0)})
	if !errors.Is(err, gopn.ErrDivisionByZero) {
		t.Errorf("want ErrDivisionByZero, got %v", err)
	}
}

func TestRename_Simultaneous(t *testing.T) {
	x, y := gopn.S("x"), gopn.S("y")
	e := x.Mul(y.Pow(2)).Rename(map[string]string{"x": "y", "y": "x"})
	if e.String() != "x^2*y" {
		t.Errorf("want x^2*y, got %s", e)
	}
}

func TestRename_Merges(t *testing.T) {
	x, y := gopn.S("x"), gopn.S("y")
	if e := x.Add(y).Rename(map[string]string{"y": "x"}); e.String() != "2*x" {
		t.Errorf("want 2*x, got %s", e)
	}
}

// ============================================================
// Inspection
// ============================================================

func TestAsNum(t *testing.T) {
	if n, ok := gopn.F(7, 3).AsNum(); !ok || n.String() != "7/3" {
		t.Errorf("want 7/3, got %v %v", n, ok)
	}
	if n, ok := gopn.N(0).AsNum(); !ok || !n.IsZero() {
		t.Errorf("zero expression should be the constant 0")
	}
	if _, ok := gopn.S("x").AsNum(); ok {
		t.Error("symbol should not be a constant")
	}
}

func TestSymbol(t *testing.T) {
	if name, ok := gopn.S("m1").Symbol(); !ok || name != "m1" {
		t.Errorf("want m1, got %q %v", name, ok)
	}
	if _, ok := gopn.S("m1").Neg().Symbol(); ok {
		t.Error("-m1 is not a bare symbol")
	}
}

func TestFreeSymbols(t *testing.T) {
	e := gopn.AddOf(gopn.S("b"), gopn.S("a").Pow(-1), gopn.N(4))
	got := e.FreeSymbols()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("want [a b], got %v", got)
	}
}

func TestExponents(t *testing.T) {
	r := gopn.S("r")
	e := gopn.AddOf(r.Pow(-3), r.Pow(-2), gopn.S("x"))
	got := e.Exponents("r")
	want := []int{-3, -2, 0}
	if len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("want %v, got %v", want, got)
		}
	}
}

func TestTerms(t *testing.T) {
	e := gopn.AddOf(gopn.MulOf(gopn.F(-1, 2), gopn.S("y"), gopn.S("x").Pow(-1)), gopn.N(3))
	ts := e.Terms()
	if len(ts) != 2 {
		t.Fatalf("want 2 terms, got %d", len(ts))
	}
	if ts[0].Coeff.String() != "-1/2" || len(ts[0].Powers) != 2 {
		t.Errorf("unexpected first term %+v", ts[0])
	}
	if ts[0].Powers[0] != (gopn.Power{Symbol: "x", Exp: -1}) {
		t.Errorf("powers should be sorted by symbol, got %v", ts[0].Powers)
	}
	if ts[1].Coeff.String() != "3" || len(ts[1].Powers) != 0 {
		t.Errorf("constant term should come last, got %+v", ts[1])
	}
}
