package gopn

import (
	"fmt"
	"strings"
)

// Result collects the Hamiltonian terms of one computation. Orders that
// were not requested are nil.
type Result struct {
	H1p5PN *Expr
	H2p5PN *Expr
	H3p5PN *Expr
}

// Compute assembles the requested orders for b; no orders means all of
// them.
func Compute(b Binary, orders ...Order) (Result, error) {
	if len(orders) == 0 {
		orders = Orders
	}
	var r Result
	for _, o := range orders {
		h, err := Hamiltonian(o, b)
		if err != nil {
			return Result{}, err
		}
		r.set(o, h)
	}
	return r, nil
}

func (r *Result) set(o Order, h *Expr) {
	switch o {
	case Order1p5PN:
		r.H1p5PN = h
	case Order2p5PN:
		r.H2p5PN = h
	case Order3p5PN:
		r.H3p5PN = h
	}
}

func (r Result) Get(o Order) *Expr {
	switch o {
	case Order1p5PN:
		return r.H1p5PN
	case Order2p5PN:
		return r.H2p5PN
	case Order3p5PN:
		return r.H3p5PN
	}
	return nil
}

// Named maps output names to the computed terms.
func (r Result) Named() map[string]*Expr {
	out := map[string]*Expr{}
	for _, o := range Orders {
		if h := r.Get(o); h != nil {
			out[o.Name()] = h
		}
	}
	return out
}

func (r Result) String() string {
	var b strings.Builder
	for _, o := range Orders {
		if h := r.Get(o); h != nil {
			b.WriteString(PrettyPrint(o.Name(), h))
		}
	}
	return b.String()
}

// Values are the exact numeric values of a Result.
type Values struct {
	H1p5PN *Num `json:"H_SO_1p5PN,omitempty" yaml:"H_SO_1p5PN,omitempty"`
	H2p5PN *Num `json:"H_SO_2p5PN,omitempty" yaml:"H_SO_2p5PN,omitempty"`
	H3p5PN *Num `json:"H_SO_3p5PN,omitempty" yaml:"H_SO_3p5PN,omitempty"`
}

func (r Result) Eval(env map[string]*Num) (Values, error) {
	var v Values
	for _, o := range Orders {
		h := r.Get(o)
		if h == nil {
			continue
		}
		x, err := h.Eval(env)
		if err != nil {
			return Values{}, fmt.Errorf("evaluating %s: %w", o.Name(), err)
		}
		switch o {
		case Order1p5PN:
			v.H1p5PN = x
		case Order2p5PN:
			v.H2p5PN = x
		case Order3p5PN:
			v.H3p5PN = x
		}
	}
	return v, nil
}

func (v Values) String() string { return v.format((*Num).String) }

// LaTeX renders each value with \frac, one line per order.
func (v Values) LaTeX() string { return v.format((*Num).LaTeX) }

func (v Values) format(render func(*Num) string) string {
	var b strings.Builder
	for _, e := range []struct {
		name string
		x    *Num
	}{
		{Order1p5PN.Name(), v.H1p5PN},
		{Order2p5PN.Name(), v.H2p5PN},
		{Order3p5PN.Name(), v.H3p5PN},
	} {
		if e.x != nil {
			fmt.Fprintf(&b, "%s = %s\n", e.name, render(e.x))
		}
	}
	return b.String()
}
