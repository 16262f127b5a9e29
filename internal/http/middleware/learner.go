package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/textbook-backend/internal/platform/ctxutil"
	"github.com/yungbote/textbook-backend/internal/platform/logger"
)

const headerLearnerID = "X-Learner-Id"

// LearnerClaims carries the learner id in the subject.
type LearnerClaims struct {
	jwt.RegisteredClaims
}

type LearnerMiddleware struct {
	log    *logger.Logger
	secret []byte
}

// NewLearnerMiddleware verifies HS256 bearer tokens when secret is set. Without a
// secret the X-Learner-Id header is trusted, which is meant for single-user installs.
func NewLearnerMiddleware(log *logger.Logger, secret string) *LearnerMiddleware {
	return &LearnerMiddleware{
		log:    log.With("Middleware", "LearnerMiddleware"),
		secret: []byte(strings.TrimSpace(secret)),
	}
}

func (lm *LearnerMiddleware) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		ld, err := lm.resolve(c)
		if err != nil {
			lm.log.Debug("Rejected learner identity", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": err.Error(), "code": "unauthorized"},
			})
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithLearner(c.Request.Context(), ld))
		c.Next()
	}
}

func (lm *LearnerMiddleware) resolve(c *gin.Context) (*ctxutil.LearnerData, error) {
	if len(lm.secret) > 0 {
		tokenString := extractToken(c)
		if tokenString == "" {
			return &ctxutil.LearnerData{LearnerID: uuid.Nil, Anonymous: true}, nil
		}
		id, err := lm.parseToken(tokenString)
		if err != nil {
			return nil, err
		}
		return &ctxutil.LearnerData{LearnerID: id}, nil
	}
	if raw := strings.TrimSpace(c.GetHeader(headerLearnerID)); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s header: %w", headerLearnerID, err)
		}
		return &ctxutil.LearnerData{LearnerID: id}, nil
	}
	return &ctxutil.LearnerData{LearnerID: uuid.Nil, Anonymous: true}, nil
}

func (lm *LearnerMiddleware) parseToken(tokenString string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &LearnerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return lm.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*LearnerClaims)
	if !ok || !parsed.Valid {
		return uuid.Nil, errors.New("invalid or expired token")
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid learner id in token: %w", err)
	}
	return id, nil
}

// extractToken accepts ?token= so EventSource clients, which cannot set headers, work.
func extractToken(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
