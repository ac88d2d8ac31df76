package gopn

import "fmt"

// ============================================================
// Partial Derivatives and Vector Calculus
// ============================================================

// symbols returns the symbol names of v, which must be bare symbols.
func (v Vec3) symbols() ([3]string, error) {
	var out [3]string
	for i, c := range v {
		name, ok := c.Symbol()
		if !ok {
			return out, fmt.Errorf("component %d (%s) is not a symbol", i, c)
		}
		out[i] = name
	}
	return out, nil
}

// Gradient returns (∂e/∂v_x, ∂e/∂v_y, ∂e/∂v_z). The components of v must be
// bare symbols.
func Gradient(e *Expr, v Vec3) (Vec3, error) {
	names, err := v.symbols()
	if err != nil {
		return Vec3{}, fmt.Errorf("gradient: %w", err)
	}
	return Vec3{e.Diff(names[0]), e.Diff(names[1]), e.Diff(names[2])}, nil
}

// Divergence returns ∇·F with respect to the symbols of v.
func Divergence(field, v Vec3) (*Expr, error) {
	names, err := v.symbols()
	if err != nil {
		return nil, fmt.Errorf("divergence: %w", err)
	}
	return AddOf(field[0].Diff(names[0]), field[1].Diff(names[1]), field[2].Diff(names[2])), nil
}

// Curl returns ∇×F with respect to the symbols of v.
func Curl(field, v Vec3) (Vec3, error) {
	x, err := v.symbols()
	if err != nil {
		return Vec3{}, fmt.Errorf("curl: %w", err)
	}
	return Vec3{
		field[2].Diff(x[1]).Add(field[1].Diff(x[2]).Neg()),
		field[0].Diff(x[2]).Add(field[2].Diff(x[0]).Neg()),
		field[1].Diff(x[0]).Add(field[0].Diff(x[1]).Neg()),
	}, nil
}

// SpinPrecession returns dS/dt = {S, H} = (∂H/∂S) × S for a spin whose
// components are bare symbols. For a spin-orbit Hamiltonian ∂H/∂S is the
// Omega of that body.
func SpinPrecession(h *Expr, spin Vec3) (Vec3, error) {
	omega, err := Gradient(h, spin)
	if err != nil {
		return Vec3{}, err
	}
	return Cross(omega, spin), nil
}
