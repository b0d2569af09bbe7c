package cmd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/banachtech/smile/calibrate"
	"github.com/banachtech/smile/smile"
	"github.com/schollz/progressbar/v3"
)

// smileQuotes is one expiry of one ticker, sorted by strike.
type smileQuotes struct {
	Ticker  string
	Expiry  float64
	Forward float64
	Strikes []float64
	Vols    []float64
	Errors  []float64
}

func (s smileQuotes) key() string { return fmt.Sprintf("%s %v", s.Ticker, s.Expiry) }

var smileHeader = []string{"ticker", "expiry", "forward", "strike", "vol"}

// readSmiles parses rows ticker,expiry,forward,strike,vol[,error] after a
// header line. Rows are grouped by ticker and expiry; every row of a group
// must carry the same forward. defaultError fills a missing error column.
func readSmiles(r io.Reader, defaultError float64) ([]smileQuotes, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, name := range smileHeader {
		if i >= len(header) || !strings.EqualFold(strings.TrimSpace(header[i]), name) {
			return nil, fmt.Errorf("header must start with %s", strings.Join(smileHeader, ","))
		}
	}

	groups := map[string]*smileQuotes{}
	var order []string
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) != 5 && len(record) != 6 {
			return nil, fmt.Errorf("line %d: %d fields", line, len(record))
		}
		nums := make([]float64, len(record)-1)
		for i, field := range record[1:] {
			if nums[i], err = strconv.ParseFloat(strings.TrimSpace(field), 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		}
		volError := defaultError
		if len(nums) == 5 {
			volError = nums[4]
		}

		q := smileQuotes{Ticker: strings.ToUpper(strings.TrimSpace(record[0])), Expiry: nums[0], Forward: nums[1]}
		g, ok := groups[q.key()]
		if !ok {
			g = &q
			groups[q.key()] = g
			order = append(order, q.key())
		} else if g.Forward != q.Forward {
			return nil, fmt.Errorf("line %d: forward %v differs from %v for %s", line, q.Forward, g.Forward, q.key())
		}
		g.Strikes = append(g.Strikes, nums[2])
		g.Vols = append(g.Vols, nums[3])
		g.Errors = append(g.Errors, volError)
	}

	out := make([]smileQuotes, 0, len(order))
	for _, k := range order {
		g := groups[k]
		sort.Sort(byStrike{g})
		out = append(out, *g)
	}
	return out, nil
}

type byStrike struct{ *smileQuotes }

func (s byStrike) Len() int           { return len(s.Strikes) }
func (s byStrike) Less(i, j int) bool { return s.Strikes[i] < s.Strikes[j] }
func (s byStrike) Swap(i, j int) {
	s.Strikes[i], s.Strikes[j] = s.Strikes[j], s.Strikes[i]
	s.Vols[i], s.Vols[j] = s.Vols[j], s.Vols[i]
	s.Errors[i], s.Errors[j] = s.Errors[j], s.Errors[i]
}

// fitOptions configures every smile of a batch.
type fitOptions struct {
	Hagan         smile.HaganVolatilityFunction
	Beta          float64
	FixBeta       bool
	MaxIterations int
}

type smileFit struct {
	Quotes smileQuotes
	Result calibrate.LeastSquareResultsWithTransform[smile.SabrFormulaData]
	Err    error
}

func fitSmile(q smileQuotes, opts fitOptions) (calibrate.LeastSquareResultsWithTransform[smile.SabrFormulaData], error) {
	var zero calibrate.LeastSquareResultsWithTransform[smile.SabrFormulaData]
	fitter, err := calibrate.NewSabrModelFitter(q.Forward, q.Strikes, q.Expiry, q.Vols, q.Errors, opts.Hagan)
	if err != nil {
		return zero, err
	}
	fitter.Solver = calibrate.LevenbergMarquardt{MaxIterations: opts.MaxIterations}
	start, err := calibrate.SabrStartingPoint(q.Forward, q.Strikes, q.Vols, opts.Beta)
	if err != nil {
		return zero, err
	}
	return fitter.Solve(start, []bool{false, opts.FixBeta, false, false})
}

// fitSmiles calibrates every smile in its own goroutine. Results keep the
// input order; bar may be nil.
func fitSmiles(quotes []smileQuotes, opts fitOptions, bar *progressbar.ProgressBar) []smileFit {
	type indexed struct {
		i   int
		fit smileFit
	}
	ch := make(chan indexed, len(quotes))
	defer close(ch)
	for i, q := range quotes {
		go func(i int, q smileQuotes) {
			res, err := fitSmile(q, opts)
			ch <- indexed{i, smileFit{Quotes: q, Result: res, Err: err}}
		}(i, q)
	}

	out := make([]smileFit, len(quotes))
	for range quotes {
		r := <-ch
		out[r.i] = r.fit
		if bar != nil {
			bar.Describe(fmt.Sprintf("Calibrated %v\t", r.fit.Quotes.key()))
			bar.Add(1)
		}
	}
	return out
}

func progressBar(length int) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		length,
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
