package gopn

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
)

// ============================================================
// JSON Serialization
// ============================================================

// Expressions are written in canonical form:
//
//	{"type":"poly","terms":[{"coeff":"3/2","powers":{"m1":-1,"m2":1}}]}
//
// FromJSON also reads the tree forms num, sym, add, mul and pow (integer
// exponent, at most 64 in absolute value), so callers can build inputs by
// hand. Expansions share one budget per call and fail with ErrTooLarge
// once it runs out.

func (e *Expr) toJSON() map[string]interface{} {
	ts := e.sorted()
	terms := make([]map[string]interface{}, len(ts))
	for i, t := range ts {
		powers := make(map[string]int, len(t.mono))
		for _, p := range t.mono {
			powers[p.Symbol] = p.Exp
		}
		terms[i] = map[string]interface{}{
			"coeff":  (&Num{val: t.coeff}).String(),
			"powers": powers,
		}
	}
	return map[string]interface{}{"type": "poly", "terms": terms}
}

func ToJSON(e *Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

func (e *Expr) MarshalJSON() ([]byte, error) { return json.Marshal(e.toJSON()) }

func (e *Expr) UnmarshalJSON(data []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	parsed, err := FromJSON(m)
	if err != nil {
		return err
	}
	*e = *parsed
	return nil
}

func FromJSON(data map[string]interface{}) (*Expr, error) {
	return fromJSON(data, newBudget())
}

func fromJSON(data map[string]interface{}, b *budget) (*Expr, error) {
	if data == nil {
		return nil, fmt.Errorf("expression must be an object")
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, fmt.Errorf("missing 'type' field")
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("field 'type' must be a non-empty string")
	}

	subObjArray := func(field string) ([]map[string]interface{}, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an array", typ, field)
		}
		out := make([]map[string]interface{}, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%s: %q[%d] must be an object", typ, field, i)
			}
			out[i] = m
		}
		return out, nil
	}

	subList := func(field string) ([]*Expr, error) {
		objs, err := subObjArray(field)
		if err != nil {
			return nil, err
		}
		out := make([]*Expr, len(objs))
		for i, o := range objs {
			e, err := fromJSON(o, b)
			if err != nil {
				return nil, fmt.Errorf("%s: %s[%d]: %w", typ, field, i, err)
			}
			out[i] = e
		}
		return out, nil
	}

	switch typ {
	case "num":
		val, err := numParam(data["value"])
		if err != nil {
			return nil, fmt.Errorf("num: %w", err)
		}
		return Const(val), nil

	case "sym":
		name, ok := data["name"].(string)
		if !ok || !validSymbol(name) {
			return nil, fmt.Errorf("sym: 'name' must be an identifier")
		}
		return S(name), nil

	case "add":
		terms, err := subList("terms")
		if err != nil {
			return nil, err
		}
		return AddOf(terms...), nil

	case "mul":
		factors, err := subList("factors")
		if err != nil {
			return nil, err
		}
		out := N(1)
		for _, f := range factors {
			if out, err = out.mul(f, b); err != nil {
				return nil, fmt.Errorf("mul: %w", err)
			}
		}
		return out, nil

	case "pow":
		baseM, ok := data["base"].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("pow: 'base' must be an object")
		}
		base, err := fromJSON(baseM, b)
		if err != nil {
			return nil, fmt.Errorf("pow: base: %w", err)
		}
		exp, err := intParam(data["exp"])
		if err != nil {
			return nil, fmt.Errorf("pow: exp: %w", err)
		}
		if exp < -maxExpandExp || exp > maxExpandExp {
			return nil, fmt.Errorf("pow: %w: exponent %d exceeds %d", ErrTooLarge, exp, maxExpandExp)
		}
		out, err := base.pow(exp, b)
		if err != nil {
			return nil, fmt.Errorf("pow: %w", err)
		}
		return out, nil

	case "poly":
		objs, err := subObjArray("terms")
		if err != nil {
			return nil, err
		}
		out := newExpr(len(objs))
		for i, o := range objs {
			coeff, err := numParam(o["coeff"])
			if err != nil {
				return nil, fmt.Errorf("poly: terms[%d]: coeff: %w", i, err)
			}
			var ps []Power
			if raw, ok := o["powers"]; ok && raw != nil {
				pm, ok := raw.(map[string]interface{})
				if !ok {
					return nil, fmt.Errorf("poly: terms[%d]: 'powers' must be an object", i)
				}
				for sym, v := range pm {
					if !validSymbol(sym) {
						return nil, fmt.Errorf("poly: terms[%d]: invalid symbol %q", i, sym)
					}
					k, err := intParam(v)
					if err != nil {
						return nil, fmt.Errorf("poly: terms[%d]: %s: %w", i, sym, err)
					}
					if k < -MaxExponent || k > MaxExponent {
						return nil, fmt.Errorf("poly: terms[%d]: %s: %w: exponent %d", i, sym, ErrTooLarge, k)
					}
					ps = append(ps, Power{Symbol: sym, Exp: k})
				}
			}
			out.accumulate(normalize(ps), coeff.val)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown expression type: %s", typ)
}

// VecFromJSON reads an array of exactly three expressions.
func VecFromJSON(v interface{}) (Vec3, error) {
	raw, ok := v.([]interface{})
	if !ok {
		return Vec3{}, fmt.Errorf("vector must be an array")
	}
	if len(raw) != 3 {
		return Vec3{}, fmt.Errorf("vector must have 3 components, got %d", len(raw))
	}
	var out Vec3
	for i, r := range raw {
		m, ok := r.(map[string]interface{})
		if !ok {
			return Vec3{}, fmt.Errorf("vector[%d] must be an expression object", i)
		}
		e, err := FromJSON(m)
		if err != nil {
			return Vec3{}, fmt.Errorf("vector[%d]: %w", i, err)
		}
		out[i] = e
	}
	return out, nil
}

func (v Vec3) toJSON() []map[string]interface{} {
	return []map[string]interface{}{v[0].toJSON(), v[1].toJSON(), v[2].toJSON()}
}

// numParam reads an exact rational from a JSON string or number.
func numParam(v interface{}) (*Num, error) {
	switch x := v.(type) {
	case string:
		return ParseNum(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("value must be finite")
		}
		r, ok := new(big.Rat).SetString(fmt.Sprintf("%v", x))
		if !ok {
			return nil, fmt.Errorf("invalid number %v", x)
		}
		return &Num{val: r}, nil
	case nil:
		return nil, fmt.Errorf("missing value")
	}
	return nil, fmt.Errorf("value must be a string or number")
}

func intParam(v interface{}) (int, error) {
	x, ok := v.(float64)
	if !ok || x != math.Trunc(x) || math.Abs(x) > 1<<30 {
		return 0, fmt.Errorf("must be an integer")
	}
	return int(x), nil
}
