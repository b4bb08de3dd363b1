package authtoken

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/mealplanner-backend/internal/platform/apierr"
)

func newTestCodec(t *testing.T, now time.Time) *Codec {
	t.Helper()
	c, err := NewCodec(Config{Secret: "test-secret"})
	require.NoError(t, err)
	c.now = func() time.Time { return now }
	return c
}

func TestNewCodecRequiresSecret(t *testing.T) {
	_, err := NewCodec(Config{Secret: "   "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apierr.ErrConfiguration))
}

func TestIssueValidateRoundTrip(t *testing.T) {
	c := newTestCodec(t, time.Now())
	for _, email := range []string{"a@x.com", "someone.else+tag@example.org", ""} {
		userID := uuid.New()
		tok, err := c.Issue(userID, email, false)
		require.NoError(t, err)

		id, err := c.Validate(tok)
		require.NoError(t, err)
		assert.Equal(t, userID, id.UserID)
		assert.Equal(t, email, id.Email)
	}
}

func TestIssueLifetimes(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newTestCodec(t, now)

	normal, err := c.Issue(uuid.New(), "a@x.com", false)
	require.NoError(t, err)
	extended, err := c.Issue(uuid.New(), "a@x.com", true)
	require.NoError(t, err)

	left, ok := c.TimeUntilExpiry(normal)
	require.True(t, ok)
	assert.Equal(t, 7*24*time.Hour, left)

	left, ok = c.TimeUntilExpiry(extended)
	require.True(t, ok)
	assert.Equal(t, 30*24*time.Hour, left)
}

func TestValidateRejectsAlteredSignature(t *testing.T) {
	c := newTestCodec(t, time.Now())
	tok, err := c.Issue(uuid.New(), "a@x.com", false)
	require.NoError(t, err)

	sigStart := strings.LastIndex(tok, ".") + 1
	for i := sigStart; i < len(tok); i++ {
		replacement := byte('A')
		if tok[i] == 'A' {
			replacement = 'B'
		}
		tampered := tok[:i] + string(replacement) + tok[i+1:]
		_, err := c.Validate(tampered)
		if !errors.Is(err, apierr.ErrInvalidCredential) {
			t.Fatalf("position %d: expected ErrInvalidCredential, got %v", i, err)
		}
	}
}

func TestValidateFailuresAreUniform(t *testing.T) {
	now := time.Now()
	c := newTestCodec(t, now)

	other, err := NewCodec(Config{Secret: "another-secret"})
	require.NoError(t, err)
	foreign, err := other.Issue(uuid.New(), "a@x.com", false)
	require.NoError(t, err)

	past := newTestCodec(t, now.Add(-8*24*time.Hour))
	expired, err := past.Issue(uuid.New(), "a@x.com", false)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"empty":        "",
		"malformed":    "not.a.jwt",
		"wrong_secret": foreign,
		"expired":      expired,
	} {
		_, err := c.Validate(tok)
		if !errors.Is(err, apierr.ErrInvalidCredential) {
			t.Fatalf("%s: expected ErrInvalidCredential, got %v", name, err)
		}
	}
}

func TestTimeUntilExpiryUnknown(t *testing.T) {
	c := newTestCodec(t, time.Now())
	_, ok := c.TimeUntilExpiry("garbage")
	assert.False(t, ok)
	assert.False(t, c.ShouldRotate("garbage", time.Hour))
}

func TestShouldRotateBoundary(t *testing.T) {
	issuedAt := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	c := newTestCodec(t, issuedAt)
	tok, err := c.Issue(uuid.New(), "a@x.com", false)
	require.NoError(t, err)

	window := 2880 * time.Minute
	expiresAt := issuedAt.Add(DefaultTTL)

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"one_second_above_window", expiresAt.Add(-window - time.Second), false},
		{"one_minute_above_window", expiresAt.Add(-window - time.Minute), false},
		{"exactly_at_window", expiresAt.Add(-window), true},
		{"one_second_below_window", expiresAt.Add(-window + time.Second), true},
		{"fresh", issuedAt, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			now := tc.now
			c.now = func() time.Time { return now }
			if got := c.ShouldRotate(tok, window); got != tc.want {
				t.Fatalf("ShouldRotate at %s = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}
