package gopn

import (
	"fmt"
	"math/big"
	"strings"
)

// ============================================================
// Text and LaTeX rendering
// ============================================================

var bigOne = big.NewInt(1)

func (e *Expr) String() string {
	ts := e.sorted()
	if len(ts) == 0 {
		return "0"
	}
	var b strings.Builder
	for i, t := range ts {
		writeSign(&b, i, t.coeff.Sign() < 0)
		num, den := t.split(func(sym string, exp int) string {
			if exp == 1 {
				return sym
			}
			return fmt.Sprintf("%s^%d", sym, exp)
		})
		s := strings.Join(num, "*")
		switch len(den) {
		case 0:
		case 1:
			s += "/" + den[0]
		default:
			s += "/(" + strings.Join(den, "*") + ")"
		}
		b.WriteString(s)
	}
	return b.String()
}

func (e *Expr) LaTeX() string {
	ts := e.sorted()
	if len(ts) == 0 {
		return "0"
	}
	var b strings.Builder
	for i, t := range ts {
		writeSign(&b, i, t.coeff.Sign() < 0)
		num, den := t.split(func(sym string, exp int) string {
			if exp == 1 {
				return sym
			}
			return fmt.Sprintf("%s^{%d}", sym, exp)
		})
		if len(den) == 0 {
			b.WriteString(strings.Join(num, " "))
			continue
		}
		fmt.Fprintf(&b, "\\frac{%s}{%s}", strings.Join(num, " "), strings.Join(den, " "))
	}
	return b.String()
}

func writeSign(b *strings.Builder, i int, neg bool) {
	switch {
	case i == 0 && neg:
		b.WriteString("-")
	case neg:
		b.WriteString(" - ")
	case i > 0:
		b.WriteString(" + ")
	}
}

// split renders the absolute coefficient and the powers of t as numerator
// and denominator factor lists.
func (t *term) split(pow func(sym string, exp int) string) (num, den []string) {
	abs := new(big.Rat).Abs(t.coeff)
	for _, p := range t.mono {
		if p.Exp > 0 {
			num = append(num, pow(p.Symbol, p.Exp))
		} else {
			den = append(den, pow(p.Symbol, -p.Exp))
		}
	}
	if abs.Num().Cmp(bigOne) != 0 || len(num) == 0 {
		num = append([]string{abs.Num().String()}, num...)
	}
	if !abs.IsInt() {
		den = append([]string{abs.Denom().String()}, den...)
	}
	return num, den
}

// PrettyPrint renders one named output per line.
func PrettyPrint(name string, e *Expr) string { return name + " = " + e.String() + "\n" }
