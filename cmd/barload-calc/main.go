package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/meltforce/barload/internal/planner"
	"github.com/meltforce/barload/internal/plates"
	"github.com/meltforce/barload/internal/render"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if err := newRootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, render.TerminalError(err))
		os.Exit(exitCode(err))
	}
}

type calcOptions struct {
	barbell  string
	collar   bool
	plates   []float64
	collarKg float64
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := &calcOptions{}

	cmd := &cobra.Command{
		Use:   "barload-calc WEIGHT",
		Short: "Show which plates to load on each side of a barbell",
		Long: `Computes the plates to put on each side of a barbell so the bar,
plates and optional collars add up to WEIGHT kilograms. Plates are
listed heaviest first, in the order they go on the sleeve.`,
		Example: `  barload-calc 100 --collar
  barload-calc 42.5 --barbell women
  barload-calc 60 --plates 20,10,5,2.5`,
		Version:       Version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(cmd.Context(), stdout, args[0], opts)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	cmd.Flags().StringVarP(&opts.barbell, "barbell", "b", plates.MensBar.Name, "barbell type (men = 20 kg, women = 15 kg)")
	cmd.Flags().BoolVarP(&opts.collar, "collar", "c", false, "add a collar on each side")
	cmd.Flags().Float64SliceVar(&opts.plates, "plates", nil, "plate denominations in kg (default 25,20,15,10,5,2.5,2,1.5,1,0.5)")
	cmd.Flags().Float64Var(&opts.collarKg, "collar-kg", plates.DefaultCollarKg, "weight of one collar in kg")

	return cmd
}

func runCalc(ctx context.Context, out io.Writer, weight string, opts *calcOptions) error {
	denoms := opts.plates
	if len(denoms) == 0 {
		denoms = plates.DefaultPlates
	}
	inv, err := plates.NewInventory(denoms, []plates.Barbell{plates.MensBar, plates.WomensBar}, opts.collarKg)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := planner.New(plates.NewCalculator(inv), nil, log)

	res, err := p.Calculate(ctx, "", planner.Input{
		Weight:  strings.TrimSpace(weight),
		Barbell: opts.barbell,
		Collar:  opts.collar,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out, render.Terminal(res))
	return nil
}

var errUsage = errors.New("bad flags")

// exitCode is 2 for bad input or flags and 1 for loads that cannot be made.
func exitCode(err error) int {
	if errors.Is(err, plates.ErrInvalidInput) || errors.Is(err, errUsage) {
		return 2
	}
	return 1
}
