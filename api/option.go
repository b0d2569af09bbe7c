package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/banachtech/smile/pricing"
	"github.com/gin-gonic/gin"
)

type optionRequest struct {
	Model   string  `json:"model" binding:"required,oneof=black normal blackscholes"`
	PutCall string  `json:"put_call" binding:"required"`
	Forward float64 `json:"forward"`
	Spot    float64 `json:"spot"`
	Strike  float64 `json:"strike"`
	Expiry  float64 `json:"expiry" binding:"gte=0"`
	Rate    float64 `json:"rate"`
	Carry   float64 `json:"carry"`
	// Exactly one source of volatility: a quote, SABR parameters or a Black price.
	Vol   *float64    `json:"vol" binding:"omitempty,gte=0"`
	Sabr  *sabrParams `json:"sabr"`
	Price *float64    `json:"price"`
}

type optionResponse struct {
	Model  string             `json:"model"`
	Vol    float64            `json:"vol"`
	Price  float64            `json:"price"`
	Greeks map[string]float64 `json:"greeks"`
}

// volatility resolves the volatility to price with.
func (server *Server) volatility(req optionRequest, o pricing.EuropeanVanillaOption) (float64, error) {
	switch {
	case req.Vol != nil:
		return *req.Vol, nil
	case req.Sabr != nil:
		if req.Model == "normal" {
			return 0, fmt.Errorf("%w: sabr gives Black volatilities, not normal ones", pricing.ErrInvalidArgument)
		}
		data, err := req.Sabr.data()
		if err != nil {
			return 0, err
		}
		f := req.Forward
		if req.Model == "blackscholes" {
			f = req.Spot * math.Exp(req.Carry*req.Expiry)
		}
		return server.hagan.Volatility(f, req.Strike, req.Expiry, data)
	case req.Price != nil:
		if req.Model != "black" {
			return 0, fmt.Errorf("%w: implied volatility needs the black model", pricing.ErrInvalidArgument)
		}
		return pricing.BlackImpliedVolatility(*req.Price, req.Forward, o)
	}
	return 0, fmt.Errorf("%w: one of vol, sabr or price is required", pricing.ErrInvalidArgument)
}

func (server *Server) optionPrice(c *gin.Context) {
	var req optionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	pc, err := pricing.ParsePutCall(req.PutCall)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	o, err := pricing.NewEuropeanVanillaOption(req.Strike, req.Expiry, pc)
	if err != nil {
		c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
		return
	}
	if req.Model == "black" && !(req.Forward > 0) {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(errors.New("black needs a positive forward")))
		return
	}
	vol, err := server.volatility(req, o)
	if err != nil {
		c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
		return
	}

	rsp := optionResponse{Model: req.Model, Vol: vol}
	switch req.Model {
	case "black":
		adj := pricing.BlackPriceAdjoint(req.Forward, vol, o)
		rsp.Price = adj.Value
		rsp.Greeks = map[string]float64{
			"delta":      adj.Derivative(pricing.AdjointForward),
			"dual_delta": adj.Derivative(pricing.AdjointStrike),
			"gamma":      pricing.BlackGamma(req.Forward, vol, o),
			"dual_gamma": pricing.BlackDualGamma(req.Forward, vol, o),
			"vega":       adj.Derivative(pricing.AdjointVolatility),
			"vanna":      pricing.BlackVanna(req.Forward, vol, o),
			"volga":      pricing.BlackVolga(req.Forward, vol, o),
			"theta":      pricing.BlackTheta(req.Forward, vol, o),
		}
	case "normal":
		f := pricing.DefaultNormal
		rsp.Price = f.Price(req.Forward, vol, o)
		rsp.Greeks = map[string]float64{
			"delta": f.Delta(req.Forward, vol, o),
			"gamma": f.Gamma(req.Forward, vol, o),
			"vega":  f.Vega(req.Forward, vol, o),
			"theta": f.Theta(req.Forward, vol, o),
		}
	default:
		bs, err := pricing.NewBlackScholes(req.Spot, req.Strike, req.Expiry, vol, req.Rate, req.Carry)
		if err != nil {
			c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
			return
		}
		rsp.Price = bs.Price(pc)
		rsp.Greeks = map[string]float64{
			"delta":       bs.Delta(pc),
			"dual_delta":  bs.DualDelta(pc),
			"gamma":       bs.Gamma(),
			"dual_gamma":  bs.DualGamma(),
			"cross_gamma": bs.CrossGamma(),
			"theta":       bs.Theta(pc),
			"vega":        bs.Vega(),
			"vanna":       bs.Vanna(),
			"dual_vanna":  bs.DualVanna(),
			"vomma":       bs.Vomma(),
			"rho":         bs.Rho(pc),
			"carry_rho":   bs.CarryRho(pc),
		}
	}
	c.JSON(http.StatusOK, rsp)
}
