package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/mealplanner-backend/internal/domain"
	"github.com/yungbote/mealplanner-backend/internal/platform/dbctx"
)

type fakeUserRepo struct {
	mu          sync.Mutex
	lastActive  map[uuid.UUID]*time.Time
	reads       int
	writes      int
	readErr     error
	writeSignal chan uuid.UUID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{lastActive: map[uuid.UUID]*time.Time{}}
}

func (f *fakeUserRepo) Create(dbc dbctx.Context, u *types.User) error { return nil }
func (f *fakeUserRepo) GetByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) { return false, nil }
func (f *fakeUserRepo) TouchLastLogin(dbc dbctx.Context, userID uuid.UUID, at time.Time) error {
	return nil
}

func (f *fakeUserRepo) GetLastActive(dbc dbctx.Context, userID uuid.UUID) (*time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.lastActive[userID], nil
}

func (f *fakeUserRepo) UpdateLastActive(dbc dbctx.Context, userID uuid.UUID, at time.Time) error {
	f.mu.Lock()
	f.writes++
	t := at
	f.lastActive[userID] = &t
	sig := f.writeSignal
	f.mu.Unlock()
	if sig != nil {
		sig <- userID
	}
	return nil
}

func (f *fakeUserRepo) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads, f.writes
}

type fakeGate struct {
	allow bool
	err   error
	calls int
}

func (g *fakeGate) Acquire(ctx context.Context, userID uuid.UUID, window time.Duration) (bool, error) {
	g.calls++
	return g.allow, g.err
}

func (g *fakeGate) Close() error { return nil }

type fakeTracker struct {
	mu      sync.Mutex
	touched []uuid.UUID
}

func (f *fakeTracker) Touch(userID uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched = append(f.touched, userID)
	return true
}
func (f *fakeTracker) Start(ctx context.Context) {}
func (f *fakeTracker) Wait()                     {}

func (f *fakeTracker) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.touched)
}

type fakeSuggester struct {
	mu      sync.Mutex
	calls   int
	prompts []SuggestionPrompt
	result  *SuggestionResult
	text    string
	err     error
}

func (f *fakeSuggester) Suggest(ctx context.Context, prompt SuggestionPrompt) (*SuggestionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeSuggester) SuggestText(ctx context.Context, prompt SuggestionPrompt) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// failingPreferences wraps a PreferenceService and fails merges.
type failingPreferences struct {
	PreferenceService
	merges int
}

var errMergeFailed = errors.New("merge failed")

func (f *failingPreferences) MergeLikes(ctx context.Context, userID uuid.UUID, items []string) (*types.Preferences, error) {
	f.merges++
	return nil, errMergeFailed
}

func (f *failingPreferences) MergeDislikes(ctx context.Context, userID uuid.UUID, items []string) (*types.Preferences, error) {
	f.merges++
	return nil, errMergeFailed
}
