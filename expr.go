// Package gopn builds exact symbolic expressions for the spin-orbit part of
// the post-Newtonian (PN) two-body Hamiltonian.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat), never floating point
//   - Canonical Laurent-polynomial form, so equality is structural
//   - Deterministic simplification and stable output
//   - JSON, LaTeX, and tool-call friendly for agent backends
package gopn

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"
)

var (
	// ErrDivisionByZero is returned when a negative power meets a zero value.
	ErrDivisionByZero = errors.New("gopn: division by zero")
	// ErrUnboundSymbol is returned by Eval when a symbol has no value.
	ErrUnboundSymbol = errors.New("gopn: unbound symbol")
	// ErrNonMonomialInverse is returned when a negative power would have to
	// be taken of a sum.
	ErrNonMonomialInverse = errors.New("gopn: negative power of a non-monomial")
	// ErrTooLarge is returned when an exponent leaves [-MaxExponent,
	// MaxExponent] or an expansion built from untrusted input outgrows its
	// budget.
	ErrTooLarge = errors.New("gopn: expression too large")
)

// MaxExponent bounds the absolute exponent of any symbol in a monomial.
const MaxExponent = 1 << 12

// Limits on expansions reached from FromJSON and Sub.
const (
	maxExpandExp = 64
	maxProducts  = 1 << 22
	maxTerms     = 1 << 16
	maxCoeffBits = 1 << 20
)

// ============================================================
// Num: exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func Int(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

func Frac(p, q int64) *Num {
	if q == 0 {
		panic("gopn: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// ParseNum accepts integers, fractions ("3/2") and decimals ("1.25"), all
// converted exactly.
func ParseNum(s string) (*Num, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(s))
	if !ok {
		return nil, fmt.Errorf("gopn: invalid rational %q", s)
	}
	return &Num{val: r}, nil
}

func (n *Num) Rat() *big.Rat                { return new(big.Rat).Set(n.val) }
func (n *Num) IsZero() bool                 { return n.val.Sign() == 0 }
func (n *Num) IsInteger() bool              { return n.val.IsInt() }
func (n *Num) Sign() int                    { return n.val.Sign() }
func (n *Num) Equal(o *Num) bool            { return n.val.Cmp(o.val) == 0 }
func (n *Num) Float64() float64             { f, _ := n.val.Float64(); return f }
func (n *Num) Neg() *Num                    { return &Num{val: new(big.Rat).Neg(n.val)} }
func (n *Num) Add(o *Num) *Num              { return &Num{val: new(big.Rat).Add(n.val, o.val)} }
func (n *Num) Mul(o *Num) *Num              { return &Num{val: new(big.Rat).Mul(n.val, o.val)} }
func (n *Num) Expr() *Expr                  { return Const(n) }
func (n *Num) MarshalText() ([]byte, error) { return []byte(n.String()), nil }

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

// ratPow raises r to an integer power. Callers guarantee r != 0 when exp < 0.
func ratPow(r *big.Rat, exp int) *big.Rat {
	if exp == 0 {
		return big.NewRat(1, 1)
	}
	e := exp
	if e < 0 {
		e = -e
	}
	k := big.NewInt(int64(e))
	num := new(big.Int).Exp(r.Num(), k, nil)
	den := new(big.Int).Exp(r.Denom(), k, nil)
	if exp < 0 {
		num, den = den, num
	}
	return new(big.Rat).SetFrac(num, den)
}

// ============================================================
// Monomials
// ============================================================

// Power is one symbol raised to a non-zero integer exponent.
type Power struct {
	Symbol string
	Exp    int
}

// monomial is a product of powers sorted by symbol name, no zero exponents,
// no repeated symbols.
type monomial []Power

func (m monomial) key() string {
	var b strings.Builder
	for i, p := range m {
		if i > 0 {
			b.WriteByte('*')
		}
		b.WriteString(p.Symbol)
		if p.Exp != 1 {
			fmt.Fprintf(&b, "^%d", p.Exp)
		}
	}
	return b.String()
}

func (m monomial) exp(sym string) int {
	for _, p := range m {
		if p.Symbol == sym {
			return p.Exp
		}
	}
	return 0
}

func (m monomial) without(sym string) monomial {
	out := make(monomial, 0, len(m))
	for _, p := range m {
		if p.Symbol != sym {
			out = append(out, p)
		}
	}
	return out
}

func addExp(a, b int) (int, error) {
	s := int64(a) + int64(b)
	if s < -MaxExponent || s > MaxExponent {
		return 0, fmt.Errorf("%w: exponent %d", ErrTooLarge, s)
	}
	return int(s), nil
}

func mulExp(a, b int) (int, error) {
	if b < -MaxExponent || b > MaxExponent {
		return 0, fmt.Errorf("%w: exponent %d", ErrTooLarge, b)
	}
	p := int64(a) * int64(b)
	if p < -MaxExponent || p > MaxExponent {
		return 0, fmt.Errorf("%w: exponent %d", ErrTooLarge, p)
	}
	return int(p), nil
}

func mulMono(a, b monomial) (monomial, error) {
	out := make(monomial, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Symbol < b[j].Symbol:
			out = append(out, a[i])
			i++
		case a[i].Symbol > b[j].Symbol:
			out = append(out, b[j])
			j++
		default:
			e, err := addExp(a[i].Exp, b[j].Exp)
			if err != nil {
				return nil, err
			}
			if e != 0 {
				out = append(out, Power{Symbol: a[i].Symbol, Exp: e})
			}
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...), nil
}

// normalize sorts powers, merges repeated symbols and drops zero exponents.
func normalize(ps []Power) monomial {
	sorted := append([]Power(nil), ps...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Symbol < sorted[j].Symbol })
	out := make(monomial, 0, len(sorted))
	for _, p := range sorted {
		if n := len(out); n > 0 && out[n-1].Symbol == p.Symbol {
			out[n-1].Exp += p.Exp
			if out[n-1].Exp == 0 {
				out = out[:n-1]
			}
			continue
		}
		if p.Exp != 0 {
			out = append(out, p)
		}
	}
	return out
}

// ============================================================
// Expr: Laurent polynomial with exact rational coefficients
// ============================================================

type term struct {
	mono  monomial
	coeff *big.Rat
}

// Expr is an immutable sum of rational multiples of monomials. Exponents
// may be negative. Terms with zero coefficients are never stored, so two
// expressions are equal exactly when their term maps are.
type Expr struct{ terms map[string]*term }

func newExpr(capacity int) *Expr { return &Expr{terms: make(map[string]*term, capacity)} }

// accumulate adds c*mono in place. Stored terms are replaced, never mutated,
// so terms may be shared between expressions.
func (e *Expr) accumulate(mono monomial, c *big.Rat) {
	if c.Sign() == 0 {
		return
	}
	k := mono.key()
	if t, ok := e.terms[k]; ok {
		sum := new(big.Rat).Add(t.coeff, c)
		if sum.Sign() == 0 {
			delete(e.terms, k)
			return
		}
		e.terms[k] = &term{mono: t.mono, coeff: sum}
		return
	}
	e.terms[k] = &term{mono: mono, coeff: new(big.Rat).Set(c)}
}

func N(n int64) *Expr    { return Const(Int(n)) }
func F(p, q int64) *Expr { return Const(Frac(p, q)) }
func Const(n *Num) *Expr {
	e := newExpr(1)
	e.accumulate(nil, n.val)
	return e
}

// S returns the symbol with the given name. Names must be identifiers.
func S(name string) *Expr {
	if !validSymbol(name) {
		panic(fmt.Sprintf("gopn: invalid symbol name %q", name))
	}
	e := newExpr(1)
	e.accumulate(monomial{{Symbol: name, Exp: 1}}, big.NewRat(1, 1))
	return e
}

func validSymbol(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func AddOf(terms ...*Expr) *Expr {
	n := 0
	for _, t := range terms {
		n += len(t.terms)
	}
	out := newExpr(n)
	for _, t := range terms {
		for _, tt := range t.terms {
			out.accumulate(tt.mono, tt.coeff)
		}
	}
	return out
}

func MulOf(factors ...*Expr) *Expr {
	out := N(1)
	for _, f := range factors {
		out = out.Mul(f)
	}
	return out
}

func PowOf(base *Expr, exp int) *Expr { return base.Pow(exp) }

func (e *Expr) Add(o *Expr) *Expr { return AddOf(e, o) }

// Mul panics when an exponent leaves [-MaxExponent, MaxExponent].
func (e *Expr) Mul(o *Expr) *Expr {
	out, err := e.mul(o, nil)
	if err != nil {
		panic(err.Error())
	}
	return out
}

func (e *Expr) mul(o *Expr, b *budget) (*Expr, error) {
	if err := b.spend(len(e.terms) * len(o.terms)); err != nil {
		return nil, err
	}
	out := newExpr(len(e.terms) * len(o.terms))
	for _, x := range e.terms {
		for _, y := range o.terms {
			mono, err := mulMono(x.mono, y.mono)
			if err != nil {
				return nil, err
			}
			out.accumulate(mono, new(big.Rat).Mul(x.coeff, y.coeff))
		}
	}
	if err := b.check(out); err != nil {
		return nil, err
	}
	return out, nil
}

// budget caps the work of expansions driven by untrusted input. A nil
// budget is unlimited.
type budget struct{ products int }

func newBudget() *budget { return &budget{products: maxProducts} }

func (b *budget) spend(n int) error {
	if b == nil {
		return nil
	}
	if b.products -= n; b.products < 0 {
		return fmt.Errorf("%w: more than %d coefficient products", ErrTooLarge, maxProducts)
	}
	return nil
}

func (b *budget) check(e *Expr) error {
	if b == nil || len(e.terms) <= maxTerms {
		return nil
	}
	return fmt.Errorf("%w: more than %d terms", ErrTooLarge, maxTerms)
}

func (e *Expr) Neg() *Expr { return e.Scale(Int(-1)) }

func (e *Expr) Scale(c *Num) *Expr {
	out := newExpr(len(e.terms))
	for _, t := range e.terms {
		out.accumulate(t.mono, new(big.Rat).Mul(t.coeff, c.val))
	}
	return out
}

// Pow raises e to an integer power. Negative powers are only defined for
// a single non-zero term; anything else panics, as does an exponent
// beyond MaxExponent.
func (e *Expr) Pow(exp int) *Expr {
	out, err := e.pow(exp, nil)
	if err != nil {
		panic(err.Error())
	}
	return out
}

func (e *Expr) pow(exp int, b *budget) (*Expr, error) {
	switch {
	case exp == 0:
		return N(1), nil
	case exp < 0 || len(e.terms) == 1:
		return e.powMonomial(exp, b)
	case b != nil && exp > maxExpandExp:
		return nil, fmt.Errorf("%w: expanding a sum to the power %d", ErrTooLarge, exp)
	}
	out := e
	for i := 1; i < exp; i++ {
		var err error
		if out, err = out.mul(e, b); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (e *Expr) powMonomial(exp int, b *budget) (*Expr, error) {
	if err := e.invertible(); err != nil {
		return nil, err
	}
	var t *term
	for _, tt := range e.terms {
		t = tt
	}
	mono := make(monomial, len(t.mono))
	for i, p := range t.mono {
		k, err := mulExp(p.Exp, exp)
		if err != nil {
			return nil, err
		}
		mono[i] = Power{Symbol: p.Symbol, Exp: k}
	}
	if b != nil {
		n := int64(exp)
		if n < 0 {
			n = -n
		}
		if bits := int64(t.coeff.Num().BitLen() + t.coeff.Denom().BitLen()); n*bits > maxCoeffBits {
			return nil, fmt.Errorf("%w: coefficient to the power %d", ErrTooLarge, exp)
		}
	}
	out := newExpr(1)
	out.accumulate(mono, ratPow(t.coeff, exp))
	return out, nil
}

func (e *Expr) invertible() error {
	switch len(e.terms) {
	case 0:
		return ErrDivisionByZero
	case 1:
		return nil
	}
	return ErrNonMonomialInverse
}

// Sub substitutes value for every occurrence of the symbol varName. Powers
// of value are expanded under the same limits as FromJSON.
func (e *Expr) Sub(varName string, value *Expr) (*Expr, error) {
	b := newBudget()
	powers := map[int]*Expr{}
	out := newExpr(len(e.terms))
	for _, t := range e.terms {
		k := t.mono.exp(varName)
		if k == 0 {
			out.accumulate(t.mono, t.coeff)
			continue
		}
		f, ok := powers[k]
		if !ok {
			var err error
			if f, err = value.pow(k, b); err != nil {
				return nil, fmt.Errorf("substituting %s: %w", varName, err)
			}
			powers[k] = f
		}
		rest := t.mono.without(varName)
		if err := b.spend(len(f.terms)); err != nil {
			return nil, fmt.Errorf("substituting %s: %w", varName, err)
		}
		for _, ft := range f.terms {
			mono, err := mulMono(rest, ft.mono)
			if err != nil {
				return nil, fmt.Errorf("substituting %s: %w", varName, err)
			}
			out.accumulate(mono, new(big.Rat).Mul(t.coeff, ft.coeff))
		}
	}
	return out, nil
}

// Eval evaluates e exactly with every free symbol bound in env.
func (e *Expr) Eval(env map[string]*Num) (*Num, error) {
	acc := new(big.Rat)
	for _, t := range e.sorted() {
		v := new(big.Rat).Set(t.coeff)
		for _, p := range t.mono {
			x, ok := env[p.Symbol]
			if !ok || x == nil {
				return nil, fmt.Errorf("%w: %s", ErrUnboundSymbol, p.Symbol)
			}
			if p.Exp < 0 && x.IsZero() {
				return nil, fmt.Errorf("evaluating %s^%d: %w", p.Symbol, p.Exp, ErrDivisionByZero)
			}
			v.Mul(v, ratPow(x.val, p.Exp))
		}
		acc.Add(acc, v)
	}
	return &Num{val: acc}, nil
}

// Rename relabels symbols simultaneously; symbols missing from the map are
// kept.
func (e *Expr) Rename(names map[string]string) *Expr {
	out := newExpr(len(e.terms))
	for _, t := range e.terms {
		ps := make([]Power, len(t.mono))
		for i, p := range t.mono {
			if to, ok := names[p.Symbol]; ok {
				p.Symbol = to
			}
			ps[i] = p
		}
		out.accumulate(normalize(ps), t.coeff)
	}
	return out
}

// Diff is the partial derivative with respect to varName.
func (e *Expr) Diff(varName string) *Expr {
	out := newExpr(len(e.terms))
	for _, t := range e.terms {
		k := t.mono.exp(varName)
		if k == 0 {
			continue
		}
		ps := append([]Power(nil), t.mono...)
		ps = append(ps, Power{Symbol: varName, Exp: -1})
		out.accumulate(normalize(ps), new(big.Rat).Mul(t.coeff, big.NewRat(int64(k), 1)))
	}
	return out
}

func (e *Expr) Equal(o *Expr) bool {
	if len(e.terms) != len(o.terms) {
		return false
	}
	for k, t := range e.terms {
		u, ok := o.terms[k]
		if !ok || t.coeff.Cmp(u.coeff) != 0 {
			return false
		}
	}
	return true
}

func (e *Expr) IsZero() bool { return len(e.terms) == 0 }
func (e *Expr) Len() int     { return len(e.terms) }

// AsNum reports the value of a constant expression.
func (e *Expr) AsNum() (*Num, bool) {
	switch len(e.terms) {
	case 0:
		return Int(0), true
	case 1:
		if t, ok := e.terms[""]; ok {
			return &Num{val: new(big.Rat).Set(t.coeff)}, true
		}
	}
	return nil, false
}

// Symbol reports the name of a bare symbol.
func (e *Expr) Symbol() (string, bool) {
	if len(e.terms) != 1 {
		return "", false
	}
	for _, t := range e.terms {
		if len(t.mono) == 1 && t.mono[0].Exp == 1 && t.coeff.Cmp(big.NewRat(1, 1)) == 0 {
			return t.mono[0].Symbol, true
		}
	}
	return "", false
}

// Term is an exported view of one coefficient-monomial pair.
type Term struct {
	Coeff  *Num
	Powers []Power
}

func (e *Expr) Terms() []Term {
	ts := e.sorted()
	out := make([]Term, len(ts))
	for i, t := range ts {
		out[i] = Term{Coeff: &Num{val: new(big.Rat).Set(t.coeff)}, Powers: append([]Power(nil), t.mono...)}
	}
	return out
}

func (e *Expr) FreeSymbols() []string {
	seen := map[string]struct{}{}
	for _, t := range e.terms {
		for _, p := range t.mono {
			seen[p.Symbol] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Exponents lists the distinct exponents of sym across all terms, ascending.
// A term without sym contributes 0.
func (e *Expr) Exponents(sym string) []int {
	seen := map[int]struct{}{}
	for _, t := range e.terms {
		seen[t.mono.exp(sym)] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// sorted returns terms in display order: by monomial key, constant last.
func (e *Expr) sorted() []*term {
	keys := make([]string, 0, len(e.terms))
	for k := range e.terms {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == "" || keys[j] == "" {
			return keys[j] == "" && keys[i] != ""
		}
		return keys[i] < keys[j]
	})
	out := make([]*term, len(keys))
	for i, k := range keys {
		out[i] = e.terms[k]
	}
	return out
}
