package gopn

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ============================================================
// MCP Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Terms  int         `json:"terms,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func HandleToolCall(req ToolRequest) ToolResponse {
	getExpr := func(key string) (*Expr, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		val, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid type for param %s", key)
		}
		return FromJSON(val)
	}
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	optString := func(key, def string) (string, error) {
		if _, ok := req.Params[key]; !ok {
			return def, nil
		}
		return getString(key)
	}
	optInt := func(key string, def int) (int, error) {
		v, ok := req.Params[key]
		if !ok {
			return def, nil
		}
		n, err := intParam(v)
		if err != nil {
			return 0, fmt.Errorf("param %s %w", key, err)
		}
		return n, nil
	}
	optBool := func(key string) (bool, error) {
		v, ok := req.Params[key]
		if !ok {
			return false, nil
		}
		b, ok := v.(bool)
		if !ok {
			return false, fmt.Errorf("param %s must be a boolean", key)
		}
		return b, nil
	}
	getValues := func(key string) (map[string]*Num, bool, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, false, nil
		}
		raw, ok := v.(map[string]interface{})
		if !ok {
			return nil, false, fmt.Errorf("param %s must be an object of symbol values", key)
		}
		env := make(map[string]*Num, len(raw))
		for name, x := range raw {
			n, err := numParam(x)
			if err != nil {
				return nil, false, fmt.Errorf("param %s.%s: %w", key, name, err)
			}
			env[name] = n
		}
		return env, true, nil
	}
	getBinary := func() (Binary, error) {
		b := SymbolicBinary()
		tie, err := optBool("tie_n21")
		if err != nil {
			return Binary{}, err
		}
		if tie {
			b = b.TieN21()
		}
		return b, nil
	}
	exprResp := func(e *Expr) ToolResponse {
		return ToolResponse{Result: e.toJSON(), LaTeX: e.LaTeX(), String: e.String(), Terms: e.Len()}
	}
	numResp := func(n *Num) ToolResponse {
		return ToolResponse{Result: n.String(), LaTeX: n.LaTeX(), String: n.String()}
	}
	errResp := func(err error) ToolResponse { return ToolResponse{Error: err.Error()} }

	switch req.Tool {
	case "hamiltonian":
		b, err := getBinary()
		if err != nil {
			return errResp(err)
		}
		orderStr, err := optString("order", "all")
		if err != nil {
			return errResp(err)
		}
		var orders []Order
		if orderStr != "all" {
			o, err := ParseOrder(orderStr)
			if err != nil {
				return errResp(err)
			}
			orders = []Order{o}
		}
		res, err := Compute(b, orders...)
		if err != nil {
			return errResp(err)
		}
		env, hasValues, err := getValues("values")
		if err != nil {
			return errResp(err)
		}
		if hasValues {
			vals, err := res.Eval(env)
			if err != nil {
				return errResp(err)
			}
			return ToolResponse{Result: vals, String: vals.String()}
		}
		if len(orders) == 1 {
			return exprResp(res.Get(orders[0]))
		}
		named := res.Named()
		out := make(map[string]interface{}, len(named))
		latex := make([]string, 0, len(named))
		terms := 0
		for _, o := range Orders {
			h := named[o.Name()]
			out[o.Name()] = h.toJSON()
			latex = append(latex, o.Name()+" = "+h.LaTeX())
			terms += h.Len()
		}
		return ToolResponse{Result: out, LaTeX: strings.Join(latex, "\n"), String: res.String(), Terms: terms}

	case "omega":
		orderStr, err := getString("order")
		if err != nil {
			return errResp(err)
		}
		order, err := ParseOrder(orderStr)
		if err != nil {
			return errResp(err)
		}
		body, err := optInt("body", 1)
		if err != nil {
			return errResp(err)
		}
		part, err := optInt("part", 0)
		if err != nil {
			return errResp(err)
		}
		b, err := getBinary()
		if err != nil {
			return errResp(err)
		}
		m1, m2, n, p1, p2 := b.M1, b.M2, b.N12, b.P1, b.P2
		switch body {
		case 1:
		case 2:
			m1, m2, n, p1, p2 = b.M2, b.M1, b.N21, b.P2, b.P1
		default:
			return errResp(fmt.Errorf("param body must be 1 or 2"))
		}
		var omega Vec3
		if part != 0 {
			if order != Order3p5PN {
				return errResp(fmt.Errorf("param part is only defined for 3.5PN"))
			}
			omega, err = OmegaSO3p5PNPart(part, m1, m2, n, p1, p2, b.R12)
		} else {
			var f OmegaFunc
			if f, err = Omega(order); err == nil {
				omega = f(m1, m2, n, p1, p2, b.R12)
			}
		}
		if err != nil {
			return errResp(err)
		}
		return ToolResponse{
			Result: omega.toJSON(),
			LaTeX:  omega.LaTeX(),
			String: omega.String(),
			Terms:  omega[0].Len() + omega[1].Len() + omega[2].Len(),
		}

	case "precession":
		orderStr, err := getString("order")
		if err != nil {
			return errResp(err)
		}
		order, err := ParseOrder(orderStr)
		if err != nil {
			return errResp(err)
		}
		body, err := optInt("body", 1)
		if err != nil {
			return errResp(err)
		}
		b, err := getBinary()
		if err != nil {
			return errResp(err)
		}
		spin := b.S1
		switch body {
		case 1:
		case 2:
			spin = b.S2
		default:
			return errResp(fmt.Errorf("param body must be 1 or 2"))
		}
		h, err := Hamiltonian(order, b)
		if err != nil {
			return errResp(err)
		}
		dS, err := SpinPrecession(h, spin)
		if err != nil {
			return errResp(err)
		}
		return ToolResponse{
			Result: dS.toJSON(),
			LaTeX:  dS.LaTeX(),
			String: dS.String(),
			Terms:  dS[0].Len() + dS[1].Len() + dS[2].Len(),
		}

	case "evaluate":
		e, err := getExpr("expr")
		if err != nil {
			return errResp(err)
		}
		env, _, err := getValues("values")
		if err != nil {
			return errResp(err)
		}
		n, err := e.Eval(env)
		if err != nil {
			return errResp(err)
		}
		return numResp(n)

	case "substitute":
		e, err := getExpr("expr")
		if err != nil {
			return errResp(err)
		}
		name, err := getString("var")
		if err != nil {
			return errResp(err)
		}
		val, err := getExpr("value")
		if err != nil {
			return errResp(err)
		}
		out, err := e.Sub(name, val)
		if err != nil {
			return errResp(err)
		}
		return exprResp(out)

	case "diff":
		e, err := getExpr("expr")
		if err != nil {
			return errResp(err)
		}
		name, err := getString("var")
		if err != nil {
			return errResp(err)
		}
		return exprResp(e.Diff(name))

	case "to_latex":
		e, err := getExpr("expr")
		if err != nil {
			return errResp(err)
		}
		return ToolResponse{Result: e.LaTeX(), LaTeX: e.LaTeX()}

	case "free_symbols":
		e, err := getExpr("expr")
		if err != nil {
			return errResp(err)
		}
		syms := e.FreeSymbols()
		return ToolResponse{Result: syms, String: strings.Join(syms, ", ")}

	case "mcp_spec":
		var spec interface{}
		_ = json.Unmarshal([]byte(MCPToolSpec()), &spec)
		return ToolResponse{Result: spec}
	}
	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s (available: %s)", req.Tool, strings.Join(ToolNames(), ", "))}
}

var toolSpecs = []map[string]interface{}{
	ts("hamiltonian", "Spin-orbit Hamiltonian term(s). order: 1.5, 2.5, 3.5 or all. Optional tie_n21 (bool) and values (symbol -> rational) for exact evaluation", []string{}, map[string]string{"order": "string", "tie_n21": "boolean", "values": "object"}),
	ts("omega", "Omega vector of one body. Optional body (1|2), part (1..7, 3.5PN only), tie_n21", []string{"order"}, map[string]string{"order": "string", "body": "integer", "part": "integer", "tie_n21": "boolean"}),
	ts("precession", "Spin precession dS/dt = (∂H/∂S) × S of one body. Optional body (1|2), tie_n21", []string{"order"}, map[string]string{"order": "string", "body": "integer", "tie_n21": "boolean"}),
	ts("evaluate", "Exact evaluation. values maps symbol names to rationals", []string{"expr", "values"}, map[string]string{"expr": "object", "values": "object"}),
	ts("substitute", "Substitute var with value", []string{"expr", "var", "value"}, map[string]string{"expr": "object", "var": "string", "value": "object"}),
	ts("diff", "Partial derivative ∂/∂var", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string"}),
	ts("to_latex", "Convert to LaTeX", []string{"expr"}, map[string]string{"expr": "object"}),
	ts("free_symbols", "Return free symbol names", []string{"expr"}, map[string]string{"expr": "object"}),
	ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
}

// ToolNames lists the tools HandleToolCall understands, sorted.
func ToolNames() []string {
	names := make([]string, 0, len(toolSpecs))
	for _, t := range toolSpecs {
		names = append(names, t["name"].(string))
	}
	sort.Strings(names)
	return names
}

func MCPToolSpec() string {
	spec := map[string]interface{}{"tools": toolSpecs}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
