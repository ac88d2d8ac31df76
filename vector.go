package gopn

import "fmt"

// ============================================================
// Vec3: symbolic 3-vector
// ============================================================

// Vec3 is a fixed-length symbolic vector. Components are never nil for
// vectors built by this package.
type Vec3 [3]*Expr

// ZeroVec allocates a zero-filled vector.
func ZeroVec() Vec3 { return Vec3{N(0), N(0), N(0)} }

// SymVec returns the vector (prefix+"x", prefix+"y", prefix+"z").
func SymVec(prefix string) Vec3 {
	return Vec3{S(prefix + "x"), S(prefix + "y"), S(prefix + "z")}
}

func VecOf(x, y, z *Expr) Vec3 { return Vec3{x, y, z} }

// NumVec builds a constant vector from three exact values.
func NumVec(v [3]*Num) Vec3 { return Vec3{Const(v[0]), Const(v[1]), Const(v[2])} }

func Dot(a, b Vec3) *Expr {
	return AddOf(a[0].Mul(b[0]), a[1].Mul(b[1]), a[2].Mul(b[2]))
}

func Cross(a, b Vec3) Vec3 {
	return Vec3{
		a[1].Mul(b[2]).Add(a[2].Mul(b[1]).Neg()),
		a[2].Mul(b[0]).Add(a[0].Mul(b[2]).Neg()),
		a[0].Mul(b[1]).Add(a[1].Mul(b[0]).Neg()),
	}
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v[0].Add(o[0]), v[1].Add(o[1]), v[2].Add(o[2])} }
func (v Vec3) Neg() Vec3       { return Vec3{v[0].Neg(), v[1].Neg(), v[2].Neg()} }

// Scale multiplies every component by the scalar expression c.
func (v Vec3) Scale(c *Expr) Vec3 { return Vec3{v[0].Mul(c), v[1].Mul(c), v[2].Mul(c)} }

func (v Vec3) Rename(names map[string]string) Vec3 {
	return Vec3{v[0].Rename(names), v[1].Rename(names), v[2].Rename(names)}
}

func (v Vec3) Equal(o Vec3) bool {
	return v[0].Equal(o[0]) && v[1].Equal(o[1]) && v[2].Equal(o[2])
}

func (v Vec3) IsZero() bool { return v[0].IsZero() && v[1].IsZero() && v[2].IsZero() }

func (v Vec3) String() string {
	return fmt.Sprintf("[%s, %s, %s]", v[0], v[1], v[2])
}

func (v Vec3) LaTeX() string {
	return fmt.Sprintf("\\left(%s,\\ %s,\\ %s\\right)", v[0].LaTeX(), v[1].LaTeX(), v[2].LaTeX())
}
