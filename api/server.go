package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/banachtech/smile/calibrate"
	"github.com/banachtech/smile/config"
	"github.com/banachtech/smile/credit"
	db "github.com/banachtech/smile/db/sqlc"
	"github.com/banachtech/smile/pricing"
	"github.com/banachtech/smile/smile"
	"github.com/gin-gonic/gin"
)

// Server serves HTTP requests for the smile analytics service.
type Server struct {
	config config.Config
	store  db.Store
	hagan  smile.HaganVolatilityFunction
	router *gin.Engine
}

// NewServer creates a new HTTP server and set up routing.
func NewServer(cfg config.Config, store db.Store) *Server {
	server := &Server{config: cfg, store: store, hagan: cfg.Hagan()}

	server.setupRouter()
	return server
}

func (server *Server) setupRouter() {
	router := gin.Default()

	router.POST("/register", server.register)

	authRoutes := router.Group("/v1").Use(server.authentication)
	authRoutes.POST("/sabr/volatility", server.sabrVolatility)
	authRoutes.POST("/sabr/calibrate", server.sabrCalibrate)
	authRoutes.GET("/sabr/:ticker", server.getSabr)
	authRoutes.POST("/option/price", server.optionPrice)
	authRoutes.POST("/cds/calibrate", server.cdsCalibrate)
	server.router = router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}

// statusFor maps engine and store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return http.StatusNotFound
	case errors.Is(err, smile.ErrInvalidArgument),
		errors.Is(err, smile.ErrDomain),
		errors.Is(err, calibrate.ErrInvalidArgument),
		errors.Is(err, pricing.ErrInvalidArgument),
		errors.Is(err, credit.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, pricing.ErrNoConvergence),
		errors.Is(err, credit.ErrNoConvergence),
		errors.Is(err, calibrate.ErrSingular):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
