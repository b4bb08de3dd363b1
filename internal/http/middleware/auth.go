package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mealplanner-backend/internal/http/response"
	"github.com/yungbote/mealplanner-backend/internal/platform/ctxutil"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
	"github.com/yungbote/mealplanner-backend/internal/services"
)

const (
	HeaderNewToken = "X-New-Token"

	unauthorizedMessage = "missing or invalid token"
)

type AuthMiddleware struct {
	log      *logger.Logger
	sessions services.SessionService
}

func NewAuthMiddleware(log *logger.Logger, sessions services.SessionService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), sessions: sessions}
}

// RequireAuth rejects the request with 401 unless it carries a valid bearer
// token. Missing and invalid tokens produce the same response.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		res, err := am.sessions.Authenticate(c.Request.Context(), token)
		if err != nil {
			am.log.Debug("rejected request", "path", c.FullPath(), "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorEnvelope{
				Error:   "unauthorized",
				Message: unauthorizedMessage,
			})
			return
		}
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
			TokenString: token,
			UserID:      res.Identity.UserID,
			Email:       res.Identity.Email,
		})
		c.Request = c.Request.WithContext(ctx)
		if res.RotatedToken != "" {
			c.Header(HeaderNewToken, res.RotatedToken)
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
