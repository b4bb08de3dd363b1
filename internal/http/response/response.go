package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mealplanner-backend/internal/platform/apierr"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
)

const internalMessage = "something went wrong"

type ErrorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// RespondError writes an explicit status and code.
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{Error: code, Message: msg})
}

// RespondAPIError maps err through apierr. Server-side failures are logged and
// their text replaced by a generic message.
func RespondAPIError(c *gin.Context, log *logger.Logger, err error) {
	ae := apierr.From(err)
	if ae == nil {
		ae = apierr.New(http.StatusInternalServerError, "internal_error", nil)
	}
	msg := internalMessage
	if ae.Public() && ae.Err != nil {
		msg = ae.Err.Error()
	}
	if !ae.Public() && log != nil {
		log.Error("request failed", "path", c.FullPath(), "status", ae.Status, "error", err)
	}
	c.JSON(ae.Status, ErrorEnvelope{Error: ae.Code, Message: msg})
}

func RespondOK(c *gin.Context, payload gin.H) {
	respond(c, http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload gin.H) {
	respond(c, http.StatusCreated, payload)
}

func respond(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}
