package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/banachtech/smile/credit"
	"github.com/banachtech/smile/logger"
	"github.com/banachtech/smile/util"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type cdsRequest struct {
	// Maturities in years, or MaturityDates rolled to business days from TradeDate.
	Maturities    []float64 `json:"maturities" binding:"omitempty,dive,gt=0"`
	MaturityDates []string  `json:"maturity_dates"`
	TradeDate     string    `json:"trade_date"`
	Holidays      []string  `json:"holidays"`
	Spreads       []float64 `json:"spreads" binding:"required,min=1,dive,gte=0"`
	Recovery      *float64  `json:"recovery" binding:"omitempty,gte=0,lt=1"`
	// Rate is a flat continuously compounded discount rate.
	Rate            float64 `json:"rate"`
	Coupon          float64 `json:"coupon" binding:"gte=0"`
	Notional        float64 `json:"notional" binding:"gte=0"`
	PaymentsPerYear int     `json:"payments_per_year" binding:"omitempty,gte=1,lte=12"`
}

const (
	defaultRecovery        = 0.4
	defaultPaymentsPerYear = 4
)

type cdsPoint struct {
	Maturity      float64 `json:"maturity"`
	HazardRate    float64 `json:"hazard_rate"`
	Survival      float64 `json:"survival"`
	ParSpread     float64 `json:"par_spread"`
	PointsUpfront float64 `json:"points_upfront"`
	CashUpfront   string  `json:"cash_upfront"`
}

func (server *Server) cdsCalibrate(c *gin.Context) {
	var req cdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	if len(req.MaturityDates) > 0 {
		maturities, err := maturitiesFromDates(req.TradeDate, req.MaturityDates, req.Holidays)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
			return
		}
		req.Maturities = maturities
	}
	if len(req.Maturities) != len(req.Spreads) {
		err := fmt.Errorf("%w: %d maturities and %d spreads", credit.ErrInvalidArgument, len(req.Maturities), len(req.Spreads))
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	recovery := defaultRecovery
	if req.Recovery != nil {
		recovery = *req.Recovery
	}
	freq := req.PaymentsPerYear
	if freq == 0 {
		freq = defaultPaymentsPerYear
	}

	yc, err := credit.NewFlatYieldCurve(req.Rate)
	if err != nil {
		c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
		return
	}
	cdss := make([]credit.CDS, len(req.Maturities))
	for i, m := range req.Maturities {
		if cdss[i], err = credit.NewCDS(m, freq, recovery, true); err != nil {
			c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
			return
		}
	}

	var cal credit.Calibrator
	cc, err := cal.FromParSpreads(cdss, req.Spreads, yc)
	if err != nil {
		logger.L().Warn("credit curve bootstrap failed", "maturities", req.Maturities, "error", err)
		c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
		return
	}

	notional := decimal.NewFromFloat(req.Notional)
	points := make([]cdsPoint, len(cdss))
	for i, cds := range cdss {
		spread, err := cal.Pricer.ParSpread(cds, yc, cc)
		if err != nil {
			c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
			return
		}
		// Forwards are right-continuous; step back into the segment ending here.
		puf := cal.Pricer.PointsUpfront(cds, yc, cc, req.Coupon)
		points[i] = cdsPoint{
			Maturity:      cds.Maturity(),
			HazardRate:    cc.HazardRate(cds.Maturity() - 1e-12),
			Survival:      cc.SurvivalProbability(cds.Maturity()),
			ParSpread:     spread,
			PointsUpfront: puf,
			CashUpfront:   notional.Mul(decimal.NewFromFloat(puf)).Round(2).StringFixed(2),
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"recovery":  recovery,
		"coupon":    req.Coupon,
		"knots":     cc.Knots(),
		"hazards":   cc.Rates(),
		"contracts": points,
	})
}

// maturitiesFromDates converts maturity dates to ACT/365 year fractions from
// the trade date (today when empty), each rolled to the following business day.
func maturitiesFromDates(trade string, dates, holidays []string) ([]float64, error) {
	tradeDate := time.Now().UTC()
	if trade != "" {
		d, err := time.Parse(util.DateLayout, trade)
		if err != nil {
			return nil, err
		}
		tradeDate = d
	}
	mats, err := util.ParseDates(dates)
	if err != nil {
		return nil, err
	}
	hols, err := util.ParseDates(holidays)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(mats))
	for i, m := range mats {
		out[i] = util.YearFraction(tradeDate, util.AdjustFollowing(m, hols))
	}
	return out, nil
}
