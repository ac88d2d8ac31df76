package gopn_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/njchilds90/gopn"
)

func numGen(positive bool) *rapid.Generator[*gopn.Num] {
	return rapid.Custom(func(t *rapid.T) *gopn.Num {
		lo := int64(-6)
		if positive {
			lo = 1
		}
		p := rapid.Int64Range(lo, 6).Draw(t, "num")
		q := rapid.Int64Range(1, 4).Draw(t, "den")
		return gopn.Frac(p, q)
	})
}

func vecGen() *rapid.Generator[[3]*gopn.Num] {
	return rapid.Custom(func(t *rapid.T) [3]*gopn.Num {
		g := numGen(false)
		return [3]*gopn.Num{g.Draw(t, "x"), g.Draw(t, "y"), g.Draw(t, "z")}
	})
}

func pointGen() *rapid.Generator[gopn.Point] {
	return rapid.Custom(func(t *rapid.T) gopn.Point {
		pos := numGen(true)
		p := gopn.Point{
			M1:  pos.Draw(t, "m1"),
			M2:  pos.Draw(t, "m2"),
			R12: pos.Draw(t, "r12"),
			N12: vecGen().Draw(t, "n12"),
			S1:  vecGen().Draw(t, "S1"),
			S2:  vecGen().Draw(t, "S2"),
			P1:  vecGen().Draw(t, "p1"),
			P2:  vecGen().Draw(t, "p2"),
		}
		for i, n := range p.N12 {
			p.N21[i] = n.Neg()
		}
		return p
	})
}

func swapPoint(p gopn.Point) gopn.Point {
	return gopn.Point{
		M1:  p.M2,
		M2:  p.M1,
		R12: p.R12,
		N12: p.N21,
		N21: p.N12,
		S1:  p.S2,
		S2:  p.S1,
		P1:  p.P2,
		P2:  p.P1,
	}
}

func scaleVec(v [3]*gopn.Num, c *gopn.Num) [3]*gopn.Num {
	return [3]*gopn.Num{v[0].Mul(c), v[1].Mul(c), v[2].Mul(c)}
}

func valueAt(t *rapid.T, o gopn.Order, p gopn.Point) *gopn.Num {
	h, err := gopn.Hamiltonian(o, p.Binary())
	if err != nil {
		t.Fatal(err)
	}
	n, ok := h.AsNum()
	if !ok {
		t.Fatalf("%s: numeric inputs gave %s", o, h)
	}
	return n
}

func TestProperty_BodyExchange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := pointGen().Draw(t, "point")
		o := rapid.SampledFrom(gopn.Orders).Draw(t, "order")
		if a, b := valueAt(t, o, p), valueAt(t, o, swapPoint(p)); !a.Equal(b) {
			t.Fatalf("%s: %s != %s after exchanging bodies", o, a, b)
		}
	})
}

func TestProperty_SpinScaling(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := pointGen().Draw(t, "point")
		o := rapid.SampledFrom(gopn.Orders).Draw(t, "order")
		c := numGen(false).Draw(t, "scale")
		scaled := p
		scaled.S1 = scaleVec(p.S1, c)
		scaled.S2 = scaleVec(p.S2, c)
		want := valueAt(t, o, p).Mul(c)
		if got := valueAt(t, o, scaled); !got.Equal(want) {
			t.Fatalf("%s: want %s, got %s", o, want, got)
		}
	})
}

func TestProperty_SymbolicMatchesNumeric(t *testing.T) {
	b := gopn.SymbolicBinary()
	res, err := gopn.Compute(b, gopn.Order1p5PN, gopn.Order2p5PN)
	if err != nil {
		t.Fatal(err)
	}
	rapid.Check(t, func(t *rapid.T) {
		p := pointGen().Draw(t, "point")
		vals, err := res.Eval(b.Env(p))
		if err != nil {
			t.Fatal(err)
		}
		if got := valueAt(t, gopn.Order1p5PN, p); !got.Equal(vals.H1p5PN) {
			t.Fatalf("1.5PN: evaluated %s, direct %s", vals.H1p5PN, got)
		}
		if got := valueAt(t, gopn.Order2p5PN, p); !got.Equal(vals.H2p5PN) {
			t.Fatalf("2.5PN: evaluated %s, direct %s", vals.H2p5PN, got)
		}
	})
}
