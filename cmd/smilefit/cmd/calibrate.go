package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	db "github.com/banachtech/smile/db/sqlc"
	"github.com/banachtech/smile/logger"
	"github.com/banachtech/smile/util"
	"github.com/spf13/cobra"

	_ "github.com/lib/pq"
)

var (
	inputFile   string
	beta        float64
	volError    float64
	storeResult bool
	fitDate     string
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Fit SABR to every smile in a CSV file",
	Long: `Reads rows ticker,expiry,forward,strike,vol[,error] and fits one SABR
smile per ticker and expiry. Beta is fixed when --beta is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(inputFile)
		if err != nil {
			return err
		}
		defer f.Close()
		quotes, err := readSmiles(f, volError)
		if err != nil {
			printError("cannot read smiles", err)
			return err
		}

		opts := fitOptions{
			Hagan:         cfg.Hagan(),
			Beta:          0.5,
			FixBeta:       cmd.Flags().Changed("beta"),
			MaxIterations: cfg.FitMaxIterations,
		}
		if opts.FixBeta {
			opts.Beta = beta
		}
		fits := fitSmiles(quotes, opts, progressBar(len(quotes)))
		printFits(cmd.OutOrStdout(), fits)

		if !storeResult {
			return nil
		}
		if fitDate == "" {
			fitDate = time.Now().Format(util.DateLayout)
		}
		conn, err := sql.Open(cfg.DBDriver, cfg.DBSource)
		if err != nil {
			return err
		}
		defer conn.Close()
		saved, err := saveFits(cmd.Context(), db.NewStore(conn), fitDate, fits)
		if err != nil {
			printError("cannot store smiles", err)
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored %d smiles for %s\n", saved, fitDate)
		return nil
	},
}

func init() {
	calibrateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "CSV file of quotes")
	calibrateCmd.Flags().Float64Var(&beta, "beta", 0.5, "fix beta at this value")
	calibrateCmd.Flags().Float64Var(&volError, "error", 1e-4, "volatility error when the file has none")
	calibrateCmd.Flags().BoolVar(&storeResult, "store", false, "save the fitted smiles to the database")
	calibrateCmd.Flags().StringVar(&fitDate, "date", "", "as-of date of stored fits (default today)")
	_ = calibrateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(calibrateCmd)
}

func printFits(out io.Writer, fits []smileFit) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TICKER\tEXPIRY\tFORWARD\tALPHA\tBETA\tRHO\tNU\tCHI2\tSTATUS")
	for _, f := range fits {
		q := f.Quotes
		if f.Err != nil {
			fmt.Fprintf(w, "%s\t%v\t%v\t\t\t\t\t\t%v\n", q.Ticker, q.Expiry, q.Forward, f.Err)
			continue
		}
		p := f.Result.ModelParameters
		status := "ok"
		if !f.Result.Converged {
			status = "not converged"
		}
		fmt.Fprintf(w, "%s\t%v\t%v\t%.6f\t%.4f\t%.4f\t%.4f\t%.4g\t%s\n",
			q.Ticker, q.Expiry, q.Forward, p.Alpha(), p.Beta(), p.Rho(), p.Nu(), f.Result.ChiSquare, status)
	}
	w.Flush()
}

// saveFits writes every successful fit in one transaction and returns the
// number of rows written.
func saveFits(ctx context.Context, store db.Store, date string, fits []smileFit) (int, error) {
	var arg db.SaveSmilesTxParams
	for _, f := range fits {
		if f.Err != nil {
			logger.L().Warn("skipping failed smile", "smile", f.Quotes.key(), "error", f.Err)
			continue
		}
		p := f.Result.ModelParameters
		arg.Smiles = append(arg.Smiles, db.InsertSabrParameterParams{
			Ticker:    f.Quotes.Ticker,
			Date:      date,
			Expiry:    f.Quotes.Expiry,
			Forward:   f.Quotes.Forward,
			Alpha:     p.Alpha(),
			Beta:      p.Beta(),
			Rho:       p.Rho(),
			Nu:        p.Nu(),
			ChiSquare: f.Result.ChiSquare,
		})
	}
	if len(arg.Smiles) == 0 {
		return 0, nil
	}
	res, err := store.SaveSmilesTx(ctx, arg)
	if err != nil {
		return 0, err
	}
	return len(res.Saved), nil
}
