package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/banachtech/smile/util"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const (
	authorizationHeaderKey  = "authorization"
	authorizationTypeBearer = "bearer"
	// TimestampLayout is how key generation and expiry times are stored.
	TimestampLayout = "2006-01-02 15:04:05"
)

// authentication checks a bearer API key of the form prefix.token against the
// bcrypt hash stored for the prefix.
func (server *Server) authentication(c *gin.Context) {
	authorizationHeader := c.GetHeader(authorizationHeaderKey)

	if len(authorizationHeader) == 0 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("authorization header is not provided")))
		return
	}

	fields := strings.Fields(authorizationHeader)
	if len(fields) < 2 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("invalid authorization header format")))
		return
	}

	authorizationType := strings.ToLower(fields[0])
	if authorizationType != authorizationTypeBearer {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(fmt.Errorf("unsupported authorization type: %s", authorizationType)))
		return
	}

	apiKey := fields[1]
	prefix, _, ok := strings.Cut(apiKey, ".")
	if !ok || len(prefix) != util.PrefixLength {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("please input a valid API Key")))
		return
	}

	user, err := server.store.GetUser(c, prefix)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusNotFound {
			status = http.StatusUnauthorized
		}
		c.AbortWithStatusJSON(status, errorResponse(err))
		return
	}

	expired, err := time.Parse(TimestampLayout, user.ExpiredAt)
	if err != nil || time.Now().UTC().After(expired) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("api key is expired")))
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Token), []byte(apiKey))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("please input a valid API Key")))
		return
	}

	c.Next()
}
