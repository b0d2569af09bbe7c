package credit

import (
	"fmt"
	"math"
	"time"

	"github.com/banachtech/smile/util"
)

// accrualRatio converts ACT/365 curve time into ACT/360 premium accrual.
const accrualRatio = 365.0 / 360.0

// CouponPeriod is one premium period in years from the trade date.
type CouponPeriod struct {
	AccStart    float64
	AccEnd      float64
	PaymentTime float64
	YearFrac    float64
}

// CDS is the analytic form of a single-name credit default swap for unit
// notional. All times are year fractions from the trade date.
type CDS struct {
	periods             []CouponPeriod
	protectionStart     float64
	protectionEnd       float64
	recovery            float64
	payAccruedOnDefault bool
	cashSettle          float64
	accrued             float64
}

// NewCDS rolls coupon periods back from maturity at paymentsPerYear until the
// trade date is covered. The trade date may fall inside the first period, in
// which case the buyer pays accrued premium.
func NewCDS(maturity float64, paymentsPerYear int, recovery float64, payAccruedOnDefault bool) (CDS, error) {
	if !(maturity > 0) || math.IsInf(maturity, 0) {
		return CDS{}, fmt.Errorf("%w: maturity must be positive, got %v", ErrInvalidArgument, maturity)
	}
	if paymentsPerYear <= 0 || paymentsPerYear > 12 {
		return CDS{}, fmt.Errorf("%w: %d payments per year", ErrInvalidArgument, paymentsPerYear)
	}
	if !(recovery >= 0 && recovery < 1) {
		return CDS{}, fmt.Errorf("%w: recovery must be in [0,1), got %v", ErrInvalidArgument, recovery)
	}
	step := 1 / float64(paymentsPerYear)
	n := int(math.Ceil(maturity/step - 1e-9))
	periods := make([]CouponPeriod, n)
	for j := range periods {
		start := maturity - float64(n-j)*step
		if math.Abs(start) < 1e-12 {
			start = 0
		}
		end := maturity - float64(n-j-1)*step
		periods[j] = CouponPeriod{
			AccStart:    start,
			AccEnd:      end,
			PaymentTime: end,
			YearFrac:    (end - start) * accrualRatio,
		}
	}
	return CDS{
		periods:             periods,
		protectionEnd:       maturity,
		recovery:            recovery,
		payAccruedOnDefault: payAccruedOnDefault,
		accrued:             -math.Min(periods[0].AccStart, 0) * accrualRatio,
	}, nil
}

// NewCDSFromDates is NewCDS with the maturity given as a date. The maturity
// rolls to the following business day.
func NewCDSFromDates(trade, maturity time.Time, paymentsPerYear int, recovery float64, payAccruedOnDefault bool, hols []time.Time) (CDS, error) {
	return NewCDS(util.YearFraction(trade, util.AdjustFollowing(maturity, hols)), paymentsPerYear, recovery, payAccruedOnDefault)
}

func (c CDS) Periods() []CouponPeriod   { return append([]CouponPeriod(nil), c.periods...) }
func (c CDS) Maturity() float64         { return c.protectionEnd }
func (c CDS) Recovery() float64         { return c.recovery }
func (c CDS) LGD() float64              { return 1 - c.recovery }
func (c CDS) PayAccruedOnDefault() bool { return c.payAccruedOnDefault }
func (c CDS) CashSettle() float64       { return c.cashSettle }

// AccruedYearFraction is the premium accrued between the start of the current
// period and the trade date.
func (c CDS) AccruedYearFraction() float64 { return c.accrued }

func (c CDS) WithRecovery(recovery float64) (CDS, error) {
	if !(recovery >= 0 && recovery < 1) {
		return CDS{}, fmt.Errorf("%w: recovery must be in [0,1), got %v", ErrInvalidArgument, recovery)
	}
	c.recovery = recovery
	return c, nil
}

// WithCashSettle sets the time at which upfront amounts change hands.
func (c CDS) WithCashSettle(t float64) (CDS, error) {
	if !(t >= 0) || math.IsInf(t, 0) {
		return CDS{}, fmt.Errorf("%w: cash settle time %v", ErrInvalidArgument, t)
	}
	c.cashSettle = t
	return c, nil
}

// WithProtectionStart makes the contract forward starting. Protection and
// accrual on default only count after t.
func (c CDS) WithProtectionStart(t float64) (CDS, error) {
	if !(t >= 0 && t < c.protectionEnd) {
		return CDS{}, fmt.Errorf("%w: protection start %v outside [0,%v)", ErrInvalidArgument, t, c.protectionEnd)
	}
	c.protectionStart = t
	return c, nil
}
