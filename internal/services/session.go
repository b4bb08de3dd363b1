package services

import (
	"context"
	"strings"
	"time"

	"github.com/yungbote/mealplanner-backend/internal/platform/apierr"
	"github.com/yungbote/mealplanner-backend/internal/platform/authtoken"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
)

// SessionResult is a validated identity plus an optional replacement token.
// RotatedToken is empty when no rotation was due or issuing it failed.
type SessionResult struct {
	Identity     authtoken.Identity
	RotatedToken string
}

type SessionService interface {
	Authenticate(ctx context.Context, token string) (*SessionResult, error)
}

type sessionService struct {
	log          *logger.Logger
	codec        TokenCodec
	activity     ActivityTracker
	rotateWindow time.Duration
}

// NewSessionService wires the request gate. activity may be nil.
func NewSessionService(log *logger.Logger, codec TokenCodec, activity ActivityTracker, rotateWindow time.Duration) SessionService {
	return &sessionService{
		log:          log.With("service", "SessionService"),
		codec:        codec,
		activity:     activity,
		rotateWindow: rotateWindow,
	}
}

func (s *sessionService) Authenticate(ctx context.Context, token string) (*SessionResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apierr.ErrMissingCredential
	}
	id, err := s.codec.Validate(token)
	if err != nil {
		return nil, err
	}
	res := &SessionResult{Identity: id}

	if s.codec.ShouldRotate(token, s.rotateWindow) {
		fresh, err := s.codec.Issue(id.UserID, id.Email, true)
		if err != nil {
			s.log.Warn("token rotation failed", "user_id", id.UserID, "error", err)
		} else {
			res.RotatedToken = fresh
		}
	}

	if s.activity != nil {
		s.activity.Touch(id.UserID)
	}
	return res, nil
}
