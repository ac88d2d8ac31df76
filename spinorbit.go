package gopn

import (
	"fmt"
	"strings"
)

// ============================================================
// PN orders
// ============================================================

type Order int

const (
	Order1p5PN Order = iota + 1
	Order2p5PN
	Order3p5PN
)

// Orders lists every supported order, lowest first.
var Orders = []Order{Order1p5PN, Order2p5PN, Order3p5PN}

func (o Order) String() string {
	switch o {
	case Order1p5PN:
		return "1.5PN"
	case Order2p5PN:
		return "2.5PN"
	case Order3p5PN:
		return "3.5PN"
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

// Name is the output name of the Hamiltonian term at this order.
func (o Order) Name() string {
	switch o {
	case Order1p5PN:
		return "H_SO_1p5PN"
	case Order2p5PN:
		return "H_SO_2p5PN"
	case Order3p5PN:
		return "H_SO_3p5PN"
	}
	return ""
}

// ParseOrder accepts "1.5", "1.5PN", "1p5", "1p5PN" or the output name.
func ParseOrder(s string) (Order, error) {
	t := strings.TrimPrefix(strings.TrimSpace(s), "H_SO_")
	t = strings.TrimSuffix(strings.TrimSuffix(t, "PN"), "pn")
	switch strings.Replace(t, "p", ".", 1) {
	case "1.5":
		return Order1p5PN, nil
	case "2.5":
		return Order2p5PN, nil
	case "3.5":
		return Order3p5PN, nil
	}
	return 0, fmt.Errorf("unknown PN order %q", s)
}

// ============================================================
// Omega assembly tables
// ============================================================

type crossFactor int

const (
	nCrossP1 crossFactor = iota
	nCrossP2
	p1CrossP2
)

// kin holds the scalar building blocks every Omega coefficient is a
// polynomial in.
type kin struct {
	m1, m2                     *Expr
	np1, np2, p1p1, p1p2, p2p2 *Expr
}

func newKin(m1, m2 *Expr, n12, p1, p2 Vec3) *kin {
	return &kin{
		m1:   m1,
		m2:   m2,
		np1:  Dot(n12, p1),
		np2:  Dot(n12, p2),
		p1p1: Dot(p1, p1),
		p1p2: Dot(p1, p2),
		p2p2: Dot(p2, p2),
	}
}

// over returns 1/(m1^a m2^b).
func (k *kin) over(a, b int) *Expr { return k.m1.Pow(-a).Mul(k.m2.Pow(-b)) }

// mono is num/den times the product of factors.
func mono(num, den int64, factors ...*Expr) *Expr {
	return F(num, den).Mul(MulOf(factors...))
}

// soTerm is one additive cluster of an Omega vector:
// coeff * cross / r12^rPow.
type soTerm struct {
	cross crossFactor
	rPow  int
	coeff func(k *kin) *Expr
}

// assemble is the shared reduction routine behind every Omega assembler.
func assemble(table []soTerm, m1, m2 *Expr, n12, p1, p2 Vec3, r12 *Expr) Vec3 {
	k := newKin(m1, m2, n12, p1, p2)
	crosses := [...]Vec3{
		nCrossP1:  Cross(n12, p1),
		nCrossP2:  Cross(n12, p2),
		p1CrossP2: Cross(p1, p2),
	}
	omega := ZeroVec()
	for _, t := range table {
		scale := t.coeff(k).Mul(r12.Pow(-t.rPow))
		omega = omega.Add(crosses[t.cross].Scale(scale))
	}
	return omega
}

// Damour, Jaranowski & Schäfer (2008), Eq. 4.11a.
var omega1p5PN = []soTerm{
	{nCrossP1, 2, func(k *kin) *Expr { return mono(3, 2, k.m2, k.over(1, 0)) }},
	{nCrossP2, 2, func(k *kin) *Expr { return N(-2) }},
}

// Damour, Jaranowski & Schäfer (2008), Eq. 4.11b.
var omega2p5PN = []soTerm{
	{nCrossP1, 3, func(k *kin) *Expr {
		return AddOf(
			mono(-11, 2, k.m2),
			mono(-5, 1, k.m2.Pow(2), k.over(1, 0)))
	}},
	{nCrossP2, 3, func(k *kin) *Expr {
		return AddOf(
			mono(6, 1, k.m1),
			mono(15, 2, k.m2))
	}},
	{nCrossP1, 2, func(k *kin) *Expr {
		return AddOf(
			mono(-5, 8, k.m2, k.p1p1, k.over(3, 0)),
			mono(-3, 4, k.p1p2, k.over(2, 0)),
			mono(3, 4, k.p2p2, k.over(1, 1)),
			mono(-3, 4, k.np1, k.np2, k.over(2, 0)),
			mono(-3, 2, k.np2.Pow(2), k.over(1, 1)))
	}},
	{nCrossP2, 2, func(k *kin) *Expr {
		return AddOf(
			mono(1, 1, k.p1p2, k.over(1, 1)),
			mono(3, 1, k.np1, k.np2, k.over(1, 1)))
	}},
	{p1CrossP2, 2, func(k *kin) *Expr {
		return AddOf(
			mono(3, 4, k.np1, k.over(2, 0)),
			mono(-2, 1, k.np2, k.over(1, 1)))
	}},
}

// Hartung & Steinhoff (2011), Eq. 5, split into seven parts by cross
// factor and power of r12.
var omega3p5PNParts = [7][]soTerm{
	{{nCrossP1, 2, func(k *kin) *Expr {
		return AddOf(
			mono(7, 16, k.m2, k.p1p1.Pow(2), k.over(5, 0)),
			mono(9, 16, k.np1, k.np2, k.p1p1, k.over(4, 0)),
			mono(3, 4, k.p1p1, k.np2.Pow(2), k.over(3, 1)),
			mono(45, 16, k.np1, k.np2.Pow(3), k.over(2, 2)),
			mono(9, 16, k.p1p1, k.p1p2, k.over(4, 0)),
			mono(-3, 16, k.np2.Pow(2), k.p1p2, k.over(2, 2)),
			mono(-3, 16, k.p1p1, k.p2p2, k.over(3, 1)),
			mono(-15, 16, k.np1, k.np2, k.p2p2, k.over(2, 2)),
			mono(3, 4, k.np2.Pow(2), k.p2p2, k.over(1, 3)),
			mono(-3, 16, k.p1p2, k.p2p2, k.over(2, 2)),
			mono(-3, 16, k.p2p2.Pow(2), k.over(1, 3)))
	}}},
	{{nCrossP2, 2, func(k *kin) *Expr {
		return AddOf(
			mono(-3, 2, k.np1, k.np2, k.p1p1, k.over(3, 1)),
			mono(-15, 4, k.np1.Pow(2), k.np2.Pow(2), k.over(2, 2)),
			mono(3, 4, k.p1p1, k.np2.Pow(2), k.over(2, 2)),
			mono(-1, 2, k.p1p1, k.p1p2, k.over(3, 1)),
			mono(1, 2, k.p1p2.Pow(2), k.over(2, 2)),
			mono(3, 4, k.np1.Pow(2), k.p2p2, k.over(2, 2)),
			mono(-1, 4, k.p1p1, k.p2p2, k.over(2, 2)),
			mono(-3, 2, k.np1, k.np2, k.p2p2, k.over(1, 3)),
			mono(-1, 2, k.p1p2, k.p2p2, k.over(1, 3)))
	}}},
	{{p1CrossP2, 2, func(k *kin) *Expr {
		return AddOf(
			mono(-9, 16, k.np1, k.p1p1, k.over(4, 0)),
			mono(1, 1, k.p1p1, k.np2, k.over(3, 1)),
			mono(27, 16, k.np1, k.np2.Pow(2), k.over(2, 2)),
			mono(-1, 8, k.np2, k.p1p2, k.over(2, 2)),
			mono(-5, 16, k.np1, k.p2p2, k.over(2, 2)),
			mono(1, 1, k.np2, k.p2p2, k.over(1, 3)))
	}}},
	{{nCrossP1, 3, func(k *kin) *Expr {
		return AddOf(
			mono(-3, 2, k.m2, k.np1.Pow(2), k.over(2, 0)),
			AddOf(mono(-3, 2, k.m2, k.over(2, 0)), mono(27, 8, k.m2.Pow(2), k.over(3, 0))).Mul(k.p1p1),
			AddOf(mono(177, 16, k.over(1, 0)), mono(11, 1, k.over(0, 1))).Mul(k.np2.Pow(2)),
			AddOf(mono(11, 2, k.over(1, 0)), mono(9, 2, k.m2, k.over(2, 0))).Mul(k.np1).Mul(k.np2),
			AddOf(mono(23, 4, k.over(1, 0)), mono(9, 2, k.m2, k.over(2, 0))).Mul(k.p1p2),
			AddOf(mono(159, 16, k.over(1, 0)), mono(37, 8, k.over(0, 1))).Mul(k.p2p2).Neg())
	}}},
	{{nCrossP2, 3, func(k *kin) *Expr {
		return AddOf(
			mono(4, 1, k.np1.Pow(2), k.over(1, 0)),
			mono(13, 2, k.p1p1, k.over(1, 0)),
			mono(5, 1, k.np2.Pow(2), k.over(0, 1)),
			mono(53, 8, k.p2p2, k.over(0, 1)),
			AddOf(mono(211, 8, k.over(1, 0)), mono(22, 1, k.over(0, 1))).Mul(k.np1).Mul(k.np2).Neg(),
			AddOf(mono(47, 8, k.over(1, 0)), mono(5, 1, k.over(0, 1))).Mul(k.p1p2).Neg())
	}}},
	{{p1CrossP2, 3, func(k *kin) *Expr {
		return AddOf(
			AddOf(mono(8, 1, k.over(1, 0)), mono(9, 2, k.m2, k.over(2, 0))).Mul(k.np1).Neg(),
			AddOf(mono(59, 4, k.over(1, 0)), mono(27, 2, k.over(0, 1))).Mul(k.np2))
	}}},
	{
		{nCrossP1, 4, func(k *kin) *Expr {
			return AddOf(
				mono(181, 16, k.m1, k.m2),
				mono(95, 4, k.m2.Pow(2)),
				mono(75, 8, k.m2.Pow(3), k.over(1, 0)))
		}},
		{nCrossP2, 4, func(k *kin) *Expr {
			return AddOf(
				mono(-21, 2, k.m1.Pow(2)),
				mono(-473, 16, k.m1, k.m2),
				mono(-63, 4, k.m2.Pow(2)))
		}},
	},
}

// omega3p5PN is the concatenation of all seven parts.
var omega3p5PN = func() []soTerm {
	var all []soTerm
	for _, part := range omega3p5PNParts {
		all = append(all, part...)
	}
	return all
}()

// ============================================================
// Omega assemblers
// ============================================================

// OmegaFunc computes the angular-velocity-like vector of body 1 from
// (m1, m2, n12, p1, p2, r12). Body 2 uses (m2, m1, n21, p2, p1, r12).
type OmegaFunc func(m1, m2 *Expr, n12, p1, p2 Vec3, r12 *Expr) Vec3

func OmegaSO1p5PN(m1, m2 *Expr, n12, p1, p2 Vec3, r12 *Expr) Vec3 {
	return assemble(omega1p5PN, m1, m2, n12, p1, p2, r12)
}

func OmegaSO2p5PN(m1, m2 *Expr, n12, p1, p2 Vec3, r12 *Expr) Vec3 {
	return assemble(omega2p5PN, m1, m2, n12, p1, p2, r12)
}

func OmegaSO3p5PN(m1, m2 *Expr, n12, p1, p2 Vec3, r12 *Expr) Vec3 {
	return assemble(omega3p5PN, m1, m2, n12, p1, p2, r12)
}

// NumOmega3p5PNParts is the number of parts OmegaSO3p5PNPart accepts.
const NumOmega3p5PNParts = len(omega3p5PNParts)

// OmegaSO3p5PNPart computes one of the seven 3.5PN parts, numbered from 1.
func OmegaSO3p5PNPart(part int, m1, m2 *Expr, n12, p1, p2 Vec3, r12 *Expr) (Vec3, error) {
	if part < 1 || part > NumOmega3p5PNParts {
		return Vec3{}, fmt.Errorf("3.5PN Omega part %d out of range 1..%d", part, NumOmega3p5PNParts)
	}
	return assemble(omega3p5PNParts[part-1], m1, m2, n12, p1, p2, r12), nil
}

// Omega returns the assembler for order.
func Omega(order Order) (OmegaFunc, error) {
	switch order {
	case Order1p5PN:
		return OmegaSO1p5PN, nil
	case Order2p5PN:
		return OmegaSO2p5PN, nil
	case Order3p5PN:
		return OmegaSO3p5PN, nil
	}
	return nil, fmt.Errorf("unsupported order %v", order)
}

// ============================================================
// Hamiltonian assemblers
// ============================================================

// Contract returns Ω1·S1 + Ω2·S2 with both Omegas built by omega.
func Contract(omega OmegaFunc, b Binary) *Expr {
	o1 := omega(b.M1, b.M2, b.N12, b.P1, b.P2, b.R12)
	o2 := omega(b.M2, b.M1, b.N21, b.P2, b.P1, b.R12)
	return Dot(o1, b.S1).Add(Dot(o2, b.S2))
}

func HSO1p5PN(b Binary) *Expr { return Contract(OmegaSO1p5PN, b) }
func HSO2p5PN(b Binary) *Expr { return Contract(OmegaSO2p5PN, b) }
func HSO3p5PN(b Binary) *Expr { return Contract(OmegaSO3p5PN, b) }

func Hamiltonian(order Order, b Binary) (*Expr, error) {
	omega, err := Omega(order)
	if err != nil {
		return nil, err
	}
	return Contract(omega, b), nil
}
