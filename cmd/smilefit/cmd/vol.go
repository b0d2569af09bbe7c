package cmd

import (
	"fmt"
	"io"

	"github.com/banachtech/smile/smile"
	"github.com/spf13/cobra"
)

var volArgs struct {
	forward, strike, expiry float64
	alpha, beta, rho, nu    float64
	// accrualStart < expiry switches to the in-arrears effective parameters.
	accrualStart float64
	decay        float64
	inArrears    bool
}

var volCmd = &cobra.Command{
	Use:   "vol",
	Short: "Hagan volatility with its first order sensitivities",
	Long: `Evaluates the Hagan implied volatility and its derivatives with respect to
forward, strike, alpha, beta, rho and nu. With --in-arrears the parameters are
first mapped to the effective SABR of a rate accrued from --accrual-start to
--expiry and paid at the end.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := smile.NewSabrFormulaData(volArgs.alpha, volArgs.beta, volArgs.rho, volArgs.nu)
		if err != nil {
			return err
		}
		if volArgs.inArrears {
			f, err := smile.NewInArrearsVolatilityFunction(volArgs.decay)
			if err != nil {
				return err
			}
			if data, err = f.EffectiveSabr(data, volArgs.accrualStart, volArgs.expiry); err != nil {
				printError("cannot map in-arrears parameters", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "effective   %v\n", data)
		}
		adj, err := cfg.Hagan().VolatilityAdjoint(volArgs.forward, volArgs.strike, volArgs.expiry, data)
		if err != nil {
			printError("cannot evaluate volatility", err)
			return err
		}
		printAdjoint(cmd.OutOrStdout(), adj)
		return nil
	},
}

func init() {
	f := volCmd.Flags()
	f.Float64Var(&volArgs.forward, "forward", 0, "forward")
	f.Float64Var(&volArgs.strike, "strike", 0, "strike")
	f.Float64Var(&volArgs.expiry, "expiry", 0, "time to expiry in years")
	f.Float64Var(&volArgs.alpha, "alpha", 0, "SABR alpha")
	f.Float64Var(&volArgs.beta, "beta", 0.5, "SABR beta")
	f.Float64Var(&volArgs.rho, "rho", 0, "SABR rho")
	f.Float64Var(&volArgs.nu, "nu", 0, "SABR nu")
	f.BoolVar(&volArgs.inArrears, "in-arrears", false, "use the effective SABR of an in-arrears rate")
	f.Float64Var(&volArgs.accrualStart, "accrual-start", 0, "start of the accrual period in years")
	f.Float64Var(&volArgs.decay, "decay", smile.DefaultInArrears.Q, "volatility decay exponent inside the accrual period")
	for _, name := range []string{"forward", "strike", "expiry", "alpha"} {
		_ = volCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(volCmd)
}

var adjointNames = []string{"forward", "strike", "alpha", "beta", "rho", "nu"}

func printAdjoint(out io.Writer, adj smile.ValueDerivatives) {
	fmt.Fprintf(out, "volatility  %.10f\n", adj.Value)
	for i, name := range adjointNames {
		fmt.Fprintf(out, "d/d%-8s %.10f\n", name, adj.Derivative(i))
	}
}
