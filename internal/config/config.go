// Package config loads the YAML configuration shared by the gopn binaries.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/njchilds90/gopn"
)

const (
	DefaultFormat       = "text"
	DefaultPort         = 8080
	DefaultMaxBodyBytes = 1 << 20 // 1 MiB
)

// Formats lists the accepted output formats.
var Formats = []string{"text", "latex", "json"}

type Config struct {
	Orders  []string      `yaml:"orders"`
	Format  string        `yaml:"format"`
	TieN21  bool          `yaml:"tie_n21"`
	Verbose bool          `yaml:"verbose"`
	Symbols SymbolsConfig `yaml:"symbols"`
	Point   PointConfig   `yaml:"point"`
	Server  ServerConfig  `yaml:"server"`
}

// SymbolsConfig names the scalar symbols and vector prefixes.
type SymbolsConfig struct {
	M1  string `yaml:"m1"`
	M2  string `yaml:"m2"`
	R12 string `yaml:"r12"`
	N12 string `yaml:"n12"`
	N21 string `yaml:"n21"`
	S1  string `yaml:"s1"`
	S2  string `yaml:"s2"`
	P1  string `yaml:"p1"`
	P2  string `yaml:"p2"`
}

// PointConfig is an evaluation point written as exact rationals ("3/2").
// An empty n21 defaults to -n12.
type PointConfig struct {
	M1  string   `yaml:"m1"`
	M2  string   `yaml:"m2"`
	R12 string   `yaml:"r12"`
	N12 []string `yaml:"n12"`
	N21 []string `yaml:"n21,omitempty"`
	S1  []string `yaml:"s1"`
	S2  []string `yaml:"s2"`
	P1  []string `yaml:"p1"`
	P2  []string `yaml:"p2"`
}

type ServerConfig struct {
	Port         int   `yaml:"port"`
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

func DefaultConfig() *Config {
	names := gopn.DefaultSymbolNames()
	return &Config{
		Orders: []string{"1.5", "2.5", "3.5"},
		Format: DefaultFormat,
		Symbols: SymbolsConfig{
			M1:  names.M1,
			M2:  names.M2,
			R12: names.R12,
			N12: names.N12,
			N21: names.N21,
			S1:  names.S1,
			S2:  names.S2,
			P1:  names.P1,
			P2:  names.P2,
		},
		Point: PointConfig{
			M1:  "1",
			M2:  "1",
			R12: "1",
			N12: []string{"1", "0", "0"},
			S1:  []string{"1", "0", "0"},
			S2:  []string{"0", "1", "0"},
			P1:  []string{"0", "1", "0"},
			P2:  []string{"0", "0", "1"},
		},
		Server: ServerConfig{
			Port:         DefaultPort,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if _, err := c.OrderList(); err != nil {
		return err
	}
	ok := false
	for _, f := range Formats {
		ok = ok || f == c.Format
	}
	if !ok {
		return fmt.Errorf("unknown format %q", c.Format)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server max_body_bytes must be positive")
	}
	if _, err := c.Binary(); err != nil {
		return err
	}
	if _, err := c.Point.Point(); err != nil {
		return err
	}
	return nil
}

// OrderList parses Orders; an empty list means every order.
func (c *Config) OrderList() ([]gopn.Order, error) {
	if len(c.Orders) == 0 {
		return gopn.Orders, nil
	}
	out := make([]gopn.Order, 0, len(c.Orders))
	for _, s := range c.Orders {
		o, err := gopn.ParseOrder(s)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (s SymbolsConfig) Names() gopn.SymbolNames {
	return gopn.SymbolNames{
		M1:  s.M1,
		M2:  s.M2,
		N12: s.N12,
		N21: s.N21,
		S1:  s.S1,
		S2:  s.S2,
		P1:  s.P1,
		P2:  s.P2,
		R12: s.R12,
	}
}

// Binary builds the symbolic inputs, applying TieN21.
func (c *Config) Binary() (gopn.Binary, error) {
	names := c.Symbols.Names()
	if err := names.Validate(); err != nil {
		return gopn.Binary{}, fmt.Errorf("symbols: %w", err)
	}
	b := gopn.NewBinary(names)
	if c.TieN21 {
		b = b.TieN21()
	}
	return b, nil
}

func (p PointConfig) Point() (gopn.Point, error) {
	var out gopn.Point
	var err error
	scalar := func(name, s string) *gopn.Num {
		if err != nil {
			return nil
		}
		var n *gopn.Num
		if n, err = gopn.ParseNum(s); err != nil {
			err = fmt.Errorf("point.%s: %w", name, err)
		}
		return n
	}
	vector := func(name string, v []string) [3]*gopn.Num {
		var out [3]*gopn.Num
		if err != nil {
			return out
		}
		if len(v) != 3 {
			err = fmt.Errorf("point.%s must have 3 components, got %d", name, len(v))
			return out
		}
		for i, s := range v {
			out[i] = scalar(fmt.Sprintf("%s[%d]", name, i), s)
		}
		return out
	}
	out.M1 = scalar("m1", p.M1)
	out.M2 = scalar("m2", p.M2)
	out.R12 = scalar("r12", p.R12)
	out.N12 = vector("n12", p.N12)
	if len(p.N21) == 0 && err == nil {
		for i, n := range out.N12 {
			out.N21[i] = n.Neg()
		}
	} else {
		out.N21 = vector("n21", p.N21)
	}
	out.S1 = vector("s1", p.S1)
	out.S2 = vector("s2", p.S2)
	out.P1 = vector("p1", p.P1)
	out.P2 = vector("p2", p.P2)
	if err != nil {
		return gopn.Point{}, err
	}
	return out, nil
}
