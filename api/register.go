package api

import (
	"fmt"
	"net/http"
	"time"

	db "github.com/banachtech/smile/db/sqlc"
	"github.com/banachtech/smile/logger"
	"github.com/banachtech/smile/util"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// keyLifetimeMonths is how long an issued API key stays valid.
const keyLifetimeMonths = 6

func (server *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	prefix, token, err := util.GenerateToken()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	apiKey := fmt.Sprintf("%s.%s", prefix, token)
	hashed, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	now := time.Now().UTC()
	user, err := server.store.CreateUser(c, db.CreateUserParams{
		Prefix:       prefix,
		EmailAddress: req.Email,
		Token:        string(hashed),
		GeneratedAt:  now.Format(TimestampLayout),
		ExpiredAt:    now.AddDate(0, keyLifetimeMonths, 0).Format(TimestampLayout),
	})
	if err != nil {
		logger.L().Error("register user", "email", req.Email, "error", err)
		c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":      user.EmailAddress,
		"api_key":    apiKey,
		"expired_at": user.ExpiredAt,
	})
}
