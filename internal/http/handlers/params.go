package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mealplanner-backend/internal/platform/apierr"
	"github.com/yungbote/mealplanner-backend/internal/platform/ctxutil"
)

// requestUserID returns the identity attached by RequireAuth.
func requestUserID(c *gin.Context) (uuid.UUID, error) {
	id := ctxutil.UserID(c.Request.Context())
	if id == uuid.Nil {
		return uuid.Nil, apierr.ErrMissingCredential
	}
	return id, nil
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return uuid.Nil, apierr.Validation("invalid %s", name)
	}
	return id, nil
}

// queryInt returns def when the parameter is absent.
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierr.Validation("%s must be an integer", name)
	}
	return n, nil
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apierr.Validation("invalid request body")
	}
	return nil
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apierr.Validation("invalid date %q", raw)
}
