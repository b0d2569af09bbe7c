package api

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/banachtech/smile/calibrate"
	db "github.com/banachtech/smile/db/sqlc"
	"github.com/banachtech/smile/logger"
	"github.com/banachtech/smile/smile"
	"github.com/banachtech/smile/util"
	"github.com/gin-gonic/gin"
)

type sabrParams struct {
	Alpha float64 `json:"alpha" binding:"gte=0"`
	Beta  float64 `json:"beta" binding:"gte=0,lte=1"`
	Rho   float64 `json:"rho" binding:"gte=-1,lte=1"`
	Nu    float64 `json:"nu" binding:"gte=0"`
}

func (p sabrParams) data() (smile.SabrFormulaData, error) {
	return smile.NewSabrFormulaData(p.Alpha, p.Beta, p.Rho, p.Nu)
}

func sabrParamsOf(d smile.SabrFormulaData) sabrParams {
	return sabrParams{Alpha: d.Alpha(), Beta: d.Beta(), Rho: d.Rho(), Nu: d.Nu()}
}

type volatilityRequest struct {
	Forward float64    `json:"forward" binding:"required,gt=0"`
	Strikes []float64  `json:"strikes" binding:"required,min=1"`
	Expiry  float64    `json:"expiry" binding:"gte=0"`
	Sabr    sabrParams `json:"sabr"`
	// Order 1 adds the six first order derivatives, 2 the forward/strike hessian.
	Order int `json:"order" binding:"gte=0,lte=2"`
}

type volatilityPoint struct {
	Strike      float64        `json:"strike"`
	Volatility  float64        `json:"volatility"`
	Derivatives []float64      `json:"derivatives,omitempty"`
	Second      *[2][2]float64 `json:"second,omitempty"`
}

// finite reports whether every number in the point can be encoded as JSON.
func (p volatilityPoint) finite() bool {
	if math.IsNaN(p.Volatility) || math.IsInf(p.Volatility, 0) {
		return false
	}
	values := append([]float64(nil), p.Derivatives...)
	if p.Second != nil {
		values = append(values, p.Second[0][0], p.Second[0][1], p.Second[1][0], p.Second[1][1])
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (server *Server) sabrVolatility(c *gin.Context) {
	var req volatilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	data, err := req.Sabr.data()
	if err != nil {
		c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
		return
	}

	points := make([]volatilityPoint, len(req.Strikes))
	for i, k := range req.Strikes {
		p := volatilityPoint{Strike: k}
		switch req.Order {
		case 0:
			p.Volatility, err = server.hagan.Volatility(req.Forward, k, req.Expiry, data)
		case 1:
			var adj smile.ValueDerivatives
			adj, err = server.hagan.VolatilityAdjoint(req.Forward, k, req.Expiry, data)
			p.Volatility, p.Derivatives = adj.Value, adj.Derivatives
		default:
			var adj smile.ValueDerivatives2
			adj, err = server.hagan.VolatilityAdjoint2(req.Forward, k, req.Expiry, data)
			p.Volatility, p.Derivatives, p.Second = adj.Value, adj.Derivatives, &adj.Second
		}
		if err == nil && !p.finite() {
			err = fmt.Errorf("%w: non-finite result", smile.ErrDomain)
		}
		if err != nil {
			c.AbortWithStatusJSON(statusFor(err), errorResponse(fmt.Errorf("strike %v: %w", k, err)))
			return
		}
		points[i] = p
	}
	c.JSON(http.StatusOK, gin.H{"forward": req.Forward, "expiry": req.Expiry, "sabr": req.Sabr, "points": points})
}

type calibrateRequest struct {
	Ticker  string    `json:"ticker" binding:"required,alphanum"`
	Date    string    `json:"date"`
	Forward float64   `json:"forward" binding:"required,gt=0"`
	Expiry  float64   `json:"expiry" binding:"required,gt=0"`
	Strikes []float64 `json:"strikes" binding:"required,min=3"`
	Vols    []float64 `json:"vols" binding:"required,min=3"`
	// Errors defaults to one basis point of volatility per strike.
	Errors  []float64   `json:"errors"`
	Start   *sabrParams `json:"start"`
	FixBeta *float64    `json:"fix_beta" binding:"omitempty,gte=0,lte=1"`
	Store   bool        `json:"store"`
}

const (
	defaultVolError = 1e-4
	defaultBeta     = 0.5
)

type calibrateResponse struct {
	ID          int64       `json:"id,omitempty"`
	Ticker      string      `json:"ticker"`
	Date        string      `json:"date"`
	Forward     float64     `json:"forward"`
	Expiry      float64     `json:"expiry"`
	Sabr        sabrParams  `json:"sabr"`
	ChiSquare   float64     `json:"chi_square"`
	Converged   bool        `json:"converged"`
	Iterations  int         `json:"iterations"`
	Sensitivity [][]float64 `json:"sensitivity"`
}

// startingPoint uses the request start if given, with beta overridden when fixed.
func startingPoint(req calibrateRequest) (smile.SabrFormulaData, error) {
	if req.Start != nil {
		d, err := req.Start.data()
		if err != nil || req.FixBeta == nil {
			return d, err
		}
		return d.WithBeta(*req.FixBeta)
	}
	beta := defaultBeta
	if req.FixBeta != nil {
		beta = *req.FixBeta
	}
	return calibrate.SabrStartingPoint(req.Forward, req.Strikes, req.Vols, beta)
}

func (server *Server) sabrCalibrate(c *gin.Context) {
	var req calibrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	req.Ticker = strings.ToUpper(req.Ticker)
	if req.Date == "" {
		req.Date = time.Now().Format(util.DateLayout)
	} else if _, err := time.Parse(util.DateLayout, req.Date); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	if len(req.Errors) == 0 {
		req.Errors = make([]float64, len(req.Strikes))
		for i := range req.Errors {
			req.Errors[i] = defaultVolError
		}
	}

	fitter, err := calibrate.NewSabrModelFitter(req.Forward, req.Strikes, req.Expiry, req.Vols, req.Errors, server.hagan)
	if err != nil {
		c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
		return
	}
	fitter.Solver = calibrate.LevenbergMarquardt{MaxIterations: server.config.FitMaxIterations}
	start, err := startingPoint(req)
	if err != nil {
		c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
		return
	}
	res, err := fitter.Solve(start, []bool{false, req.FixBeta != nil, false, false})
	if err != nil {
		logger.L().Warn("sabr calibration failed", "ticker", req.Ticker, "expiry", req.Expiry, "error", err)
		c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
		return
	}

	rsp := calibrateResponse{
		Ticker:     req.Ticker,
		Date:       req.Date,
		Forward:    req.Forward,
		Expiry:     req.Expiry,
		Sabr:       sabrParamsOf(res.ModelParameters),
		ChiSquare:  res.ChiSquare,
		Converged:  res.Converged,
		Iterations: res.Iterations,
	}
	rows, _ := res.ModelParameterSensitivityToData.Dims()
	for j := 0; j < rows; j++ {
		rsp.Sensitivity = append(rsp.Sensitivity, res.ModelParameterSensitivityToData.RawRowView(j))
	}

	if req.Store {
		row, err := server.store.InsertSabrParameter(c, db.InsertSabrParameterParams{
			Ticker:    req.Ticker,
			Date:      req.Date,
			Expiry:    req.Expiry,
			Forward:   req.Forward,
			Alpha:     rsp.Sabr.Alpha,
			Beta:      rsp.Sabr.Beta,
			Rho:       rsp.Sabr.Rho,
			Nu:        rsp.Sabr.Nu,
			ChiSquare: rsp.ChiSquare,
		})
		if err != nil {
			c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
			return
		}
		rsp.ID = row.ID
	}
	c.JSON(http.StatusOK, rsp)
}

type getSabrRequest struct {
	Ticker string `uri:"ticker" binding:"required,alphanum"`
}

func (server *Server) getSabr(c *gin.Context) {
	var req getSabrRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	rows, err := server.store.GetLatestSabrParameters(c, strings.ToUpper(req.Ticker))
	if err == nil && len(rows) == 0 {
		err = sql.ErrNoRows
	}
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.L().Error("load sabr parameters", "ticker", req.Ticker, "error", err)
		}
		c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, rows)
}
