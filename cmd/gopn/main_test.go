package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gopn/internal/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestEval_Anchor(t *testing.T) {
	out, err := run(t, "eval")
	require.NoError(t, err)
	newGoldie(t).Assert(t, "eval_anchor", []byte(out))
}

func TestEval_JSON(t *testing.T) {
	out, err := run(t, "eval", "--order", "3.5", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"H_SO_3p5PN": "509/16"}`, out)
}

func TestEval_LaTeX(t *testing.T) {
	out, err := run(t, "eval", "--format", "latex")
	require.NoError(t, err)
	assert.Equal(t,
		"H_SO_1p5PN = \\frac{3}{2}\nH_SO_2p5PN = -\\frac{83}{8}\nH_SO_3p5PN = \\frac{509}{16}\n",
		out)
}

func TestOmega_1p5PN(t *testing.T) {
	out, err := run(t, "omega", "--order", "1.5")
	require.NoError(t, err)
	newGoldie(t).Assert(t, "omega_1p5pn", []byte(out))
}

func TestOmega_Errors(t *testing.T) {
	_, err := run(t, "omega")
	assert.Error(t, err, "default config selects every order")

	_, err = run(t, "omega", "--order", "2.5", "--part", "3")
	assert.Error(t, err)

	_, err = run(t, "omega", "--order", "3.5", "--body", "3")
	assert.Error(t, err)
}

func TestOmega_Part(t *testing.T) {
	out, err := run(t, "omega", "--order", "3.5", "--part", "7", "--body", "2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Omega2_x = "))
	assert.Contains(t, out, "r12^4")
}

func TestHamiltonian_Text(t *testing.T) {
	out, err := run(t, "hamiltonian", "--order", "1.5", "--tie-n21")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "H_SO_1p5PN = "))
	assert.NotContains(t, out, "n21")
	assert.NotContains(t, out, "H_SO_2p5PN")
}

func TestHamiltonian_LaTeX(t *testing.T) {
	out, err := run(t, "hamiltonian", "--order", "1.5", "--format", "latex")
	require.NoError(t, err)
	assert.Contains(t, out, `\frac{3 S1x m2 n12y p1z}{2 m1 r12^{2}}`)
}

func TestHamiltonian_JSON(t *testing.T) {
	out, err := run(t, "hamiltonian", "--order", "1.5,2.5", "--format", "json")
	require.NoError(t, err)
	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got, 2)
	assert.Contains(t, got, "H_SO_2p5PN")
}

func TestHamiltonian_BadOrder(t *testing.T) {
	_, err := run(t, "hamiltonian", "--order", "4.5")
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gopn.yaml")
	out, err := run(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Point, cfg.Point)
}

func TestConfigFile_Point(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gopn.yaml")
	cfg := config.DefaultConfig()
	cfg.Orders = []string{"1.5"}
	cfg.Point.M1 = "2"
	require.NoError(t, config.Save(path, cfg))

	out, err := run(t, "eval", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "H_SO_1p5PN = 3\n", out)
}
