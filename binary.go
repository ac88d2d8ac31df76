package gopn

import "fmt"

// ============================================================
// Binary: symbolic inputs of a two-body system
// ============================================================

// Binary holds the inputs of every Hamiltonian assembler. N21 = -N12 is a
// physical convention that is not enforced; see TieN21.
type Binary struct {
	M1, M2   *Expr
	N12, N21 Vec3
	S1, S2   Vec3
	P1, P2   Vec3
	R12      *Expr
}

// SymbolNames names the scalar symbols and the vector prefixes used by
// NewBinary. A vector prefix "p1" yields p1x, p1y, p1z.
type SymbolNames struct {
	M1, M2   string
	N12, N21 string
	S1, S2   string
	P1, P2   string
	R12      string
}

func DefaultSymbolNames() SymbolNames {
	return SymbolNames{
		M1:  "m1",
		M2:  "m2",
		N12: "n12",
		N21: "n21",
		S1:  "S1",
		S2:  "S2",
		P1:  "p1",
		P2:  "p2",
		R12: "r12",
	}
}

// Validate reports names that are not identifiers or that collide once
// vector components are expanded.
func (n SymbolNames) Validate() error {
	seen := map[string]string{}
	add := func(field, sym string) error {
		if !validSymbol(sym) {
			return fmt.Errorf("%s: invalid symbol name %q", field, sym)
		}
		if other, ok := seen[sym]; ok {
			return fmt.Errorf("%s: symbol %q already used by %s", field, sym, other)
		}
		seen[sym] = field
		return nil
	}
	for _, s := range []struct{ field, sym string }{{"m1", n.M1}, {"m2", n.M2}, {"r12", n.R12}} {
		if err := add(s.field, s.sym); err != nil {
			return err
		}
	}
	for _, v := range []struct{ field, prefix string }{
		{"n12", n.N12}, {"n21", n.N21}, {"S1", n.S1}, {"S2", n.S2}, {"p1", n.P1}, {"p2", n.P2},
	} {
		for _, c := range []string{"x", "y", "z"} {
			if err := add(v.field, v.prefix+c); err != nil {
				return err
			}
		}
	}
	return nil
}

// NewBinary builds symbolic inputs from names, which must pass Validate.
func NewBinary(names SymbolNames) Binary {
	return Binary{
		M1:  S(names.M1),
		M2:  S(names.M2),
		N12: SymVec(names.N12),
		N21: SymVec(names.N21),
		S1:  SymVec(names.S1),
		S2:  SymVec(names.S2),
		P1:  SymVec(names.P1),
		P2:  SymVec(names.P2),
		R12: S(names.R12),
	}
}

// SymbolicBinary is NewBinary(DefaultSymbolNames()).
func SymbolicBinary() Binary { return NewBinary(DefaultSymbolNames()) }

// TieN21 replaces N21 with -N12.
func (b Binary) TieN21() Binary {
	b.N21 = b.N12.Neg()
	return b
}

// Swapped exchanges the roles of the two bodies.
func (b Binary) Swapped() Binary {
	return Binary{
		M1:  b.M2,
		M2:  b.M1,
		N12: b.N21,
		N21: b.N12,
		S1:  b.S2,
		S2:  b.S1,
		P1:  b.P2,
		P2:  b.P1,
		R12: b.R12,
	}
}

// BodySwap is the relabeling map that exchanges body 1 and body 2 symbols.
func (n SymbolNames) BodySwap() map[string]string {
	m := map[string]string{n.M1: n.M2, n.M2: n.M1}
	for _, pair := range [][2]string{{n.N12, n.N21}, {n.S1, n.S2}, {n.P1, n.P2}} {
		for _, c := range []string{"x", "y", "z"} {
			m[pair[0]+c] = pair[1] + c
			m[pair[1]+c] = pair[0] + c
		}
	}
	return m
}

// Point is a numeric configuration of a binary.
type Point struct {
	M1, M2, R12 *Num
	N12, N21    [3]*Num
	S1, S2      [3]*Num
	P1, P2      [3]*Num
}

// Binary returns the constant-valued Binary at p.
func (p Point) Binary() Binary {
	return Binary{
		M1:  Const(p.M1),
		M2:  Const(p.M2),
		N12: NumVec(p.N12),
		N21: NumVec(p.N21),
		S1:  NumVec(p.S1),
		S2:  NumVec(p.S2),
		P1:  NumVec(p.P1),
		P2:  NumVec(p.P2),
		R12: Const(p.R12),
	}
}

// Env binds every slot of b that is a bare symbol to the matching value of
// p. Slots holding derived expressions, such as a tied N21, are skipped.
func (b Binary) Env(p Point) map[string]*Num {
	env := map[string]*Num{}
	bind := func(e *Expr, v *Num) {
		if name, ok := e.Symbol(); ok && v != nil {
			env[name] = v
		}
	}
	bindVec := func(e Vec3, v [3]*Num) {
		for i := range e {
			bind(e[i], v[i])
		}
	}
	bind(b.M1, p.M1)
	bind(b.M2, p.M2)
	bind(b.R12, p.R12)
	bindVec(b.N12, p.N12)
	bindVec(b.N21, p.N21)
	bindVec(b.S1, p.S1)
	bindVec(b.S2, p.S2)
	bindVec(b.P1, p.P1)
	bindVec(b.P2, p.P2)
	return env
}

// AnchorPoint is the regression configuration n12=(1,0,0), n21=-n12,
// p1=(0,1,0), p2=(0,0,1), S1=(1,0,0), S2=(0,1,0), m1=m2=r12=1.
func AnchorPoint() Point {
	zero, one := Int(0), Int(1)
	return Point{
		M1:  one,
		M2:  one,
		R12: one,
		N12: [3]*Num{one, zero, zero},
		N21: [3]*Num{Int(-1), zero, zero},
		S1:  [3]*Num{one, zero, zero},
		S2:  [3]*Num{zero, one, zero},
		P1:  [3]*Num{zero, one, zero},
		P2:  [3]*Num{zero, zero, one},
	}
}
