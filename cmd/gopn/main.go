// cmd/gopn: command-line driver for the spin-orbit Hamiltonian terms
//
// Usage:
//
//	gopn hamiltonian --order 2.5 --format latex
//	gopn omega --order 3.5 --body 2 --part 7
//	gopn eval --config gopn.yaml
//	gopn config init gopn.yaml
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/njchilds90/gopn"
	"github.com/njchilds90/gopn/internal/config"
	"github.com/njchilds90/gopn/internal/logging"
)

type app struct {
	configFile string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "gopn",
		Short:         "symbolic post-Newtonian spin-orbit Hamiltonian terms",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	var (
		orders []string
		format string
		tieN21 bool
	)
	hamiltonianCmd := &cobra.Command{
		Use:   "hamiltonian",
		Short: "print H_SO terms",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.override(cmd, orders, format, tieN21)
			return a.runHamiltonian(cmd.OutOrStdout())
		},
	}
	hamiltonianCmd.Flags().StringSliceVar(&orders, "order", nil, "PN orders (1.5, 2.5, 3.5)")
	hamiltonianCmd.Flags().StringVar(&format, "format", "", "output format (text, latex, json)")
	hamiltonianCmd.Flags().BoolVar(&tieN21, "tie-n21", false, "substitute n21 = -n12")

	var body, part int
	omegaCmd := &cobra.Command{
		Use:   "omega",
		Short: "print the Omega vector of one body",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.override(cmd, orders, format, tieN21)
			return a.runOmega(cmd.OutOrStdout(), body, part)
		},
	}
	omegaCmd.Flags().StringSliceVar(&orders, "order", nil, "PN order (1.5, 2.5, 3.5)")
	omegaCmd.Flags().StringVar(&format, "format", "", "output format (text, latex, json)")
	omegaCmd.Flags().BoolVar(&tieN21, "tie-n21", false, "substitute n21 = -n12")
	omegaCmd.Flags().IntVar(&body, "body", 1, "body (1 or 2)")
	omegaCmd.Flags().IntVar(&part, "part", 0, "3.5PN part (1..7), 0 for the full vector")

	evalCmd := &cobra.Command{
		Use:   "eval",
		Short: "evaluate H_SO terms exactly at the configured point",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.override(cmd, orders, format, tieN21)
			return a.runEval(cmd.OutOrStdout())
		},
	}
	evalCmd.Flags().StringSliceVar(&orders, "order", nil, "PN orders (1.5, 2.5, 3.5)")
	evalCmd.Flags().StringVar(&format, "format", "", "output format (text, latex, json)")
	evalCmd.Flags().BoolVar(&tieN21, "tie-n21", false, "substitute n21 = -n12")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "configuration helpers",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], a.cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(hamiltonianCmd, omegaCmd, evalCmd, configCmd)
	return rootCmd
}

func (a *app) setup() error {
	a.cfg = config.DefaultConfig()
	if a.configFile != "" {
		cfg, err := config.Load(a.configFile)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	logger, err := logging.New(a.verbose || a.cfg.Verbose)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// override applies flags that were set explicitly on top of the config.
func (a *app) override(cmd *cobra.Command, orders []string, format string, tieN21 bool) {
	if cmd.Flags().Changed("order") {
		a.cfg.Orders = orders
	}
	if cmd.Flags().Changed("format") {
		a.cfg.Format = format
	}
	if cmd.Flags().Changed("tie-n21") {
		a.cfg.TieN21 = tieN21
	}
}

func (a *app) compute() (gopn.Result, gopn.Binary, error) {
	if err := a.cfg.Validate(); err != nil {
		return gopn.Result{}, gopn.Binary{}, err
	}
	b, err := a.cfg.Binary()
	if err != nil {
		return gopn.Result{}, gopn.Binary{}, err
	}
	orders, err := a.cfg.OrderList()
	if err != nil {
		return gopn.Result{}, gopn.Binary{}, err
	}
	start := time.Now()
	res, err := gopn.Compute(b, orders...)
	if err != nil {
		return gopn.Result{}, gopn.Binary{}, err
	}
	for _, o := range orders {
		a.logger.Debug("Assembled Hamiltonian term",
			zap.String("name", o.Name()),
			zap.Int("terms", res.Get(o).Len()))
	}
	a.logger.Debug("Computation finished", zap.Duration("elapsed", time.Since(start)))
	return res, b, nil
}

func (a *app) runHamiltonian(w io.Writer) error {
	res, _, err := a.compute()
	if err != nil {
		return err
	}
	switch a.cfg.Format {
	case "json":
		return writeJSON(w, res.Named())
	case "latex":
		for _, o := range gopn.Orders {
			if h := res.Get(o); h != nil {
				fmt.Fprintf(w, "%s = %s\n", o.Name(), h.LaTeX())
			}
		}
		return nil
	}
	_, err = io.WriteString(w, res.String())
	return err
}

func (a *app) runOmega(w io.Writer, body, part int) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	orders, err := a.cfg.OrderList()
	if err != nil {
		return err
	}
	if len(orders) != 1 {
		return fmt.Errorf("omega needs exactly one --order")
	}
	b, err := a.cfg.Binary()
	if err != nil {
		return err
	}
	m1, m2, n, p1, p2 := b.M1, b.M2, b.N12, b.P1, b.P2
	switch body {
	case 1:
	case 2:
		m1, m2, n, p1, p2 = b.M2, b.M1, b.N21, b.P2, b.P1
	default:
		return fmt.Errorf("--body must be 1 or 2")
	}

	var omega gopn.Vec3
	switch {
	case part != 0 && orders[0] != gopn.Order3p5PN:
		return fmt.Errorf("--part is only defined for 3.5PN")
	case part != 0:
		if omega, err = gopn.OmegaSO3p5PNPart(part, m1, m2, n, p1, p2, b.R12); err != nil {
			return err
		}
	default:
		f, err := gopn.Omega(orders[0])
		if err != nil {
			return err
		}
		omega = f(m1, m2, n, p1, p2, b.R12)
	}
	a.logger.Debug("Assembled Omega",
		zap.Stringer("order", orders[0]),
		zap.Int("body", body),
		zap.Int("part", part))

	switch a.cfg.Format {
	case "json":
		return writeJSON(w, omega)
	case "latex":
		_, err = fmt.Fprintln(w, omega.LaTeX())
	default:
		for i, c := range []string{"x", "y", "z"} {
			if _, err = fmt.Fprintf(w, "Omega%d_%s = %s\n", body, c, omega[i]); err != nil {
				return err
			}
		}
	}
	return err
}

func (a *app) runEval(w io.Writer) error {
	res, b, err := a.compute()
	if err != nil {
		return err
	}
	p, err := a.cfg.Point.Point()
	if err != nil {
		return err
	}
	vals, err := res.Eval(b.Env(p))
	if err != nil {
		return err
	}
	a.logger.Info("Evaluated Hamiltonian terms", zap.String("values", vals.String()))
	switch a.cfg.Format {
	case "json":
		return writeJSON(w, vals)
	case "latex":
		_, err = io.WriteString(w, vals.LaTeX())
		return err
	}
	_, err = io.WriteString(w, vals.String())
	return err
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
