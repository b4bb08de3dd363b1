package preference

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/mealplanner-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mealplanner-backend/internal/domain"
	domainpref "github.com/yungbote/mealplanner-backend/internal/domain/preference"
	"github.com/yungbote/mealplanner-backend/internal/platform/dbctx"
)

func equalLists(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPreferenceRepoMergeAndRemove(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPreferenceRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	userID := uuid.New()

	if got, err := repo.GetByUserID(dbc, userID); err != nil || got != nil {
		t.Fatalf("GetByUserID(empty): got=%+v err=%v", got, err)
	}

	row, added, err := repo.MergeItems(dbc, userID, types.PreferenceLike, []string{"basil", "tofu"})
	if err != nil {
		t.Fatalf("MergeItems: %v", err)
	}
	if added != 2 || !equalLists(row.Likes, []string{"basil", "tofu"}) {
		t.Fatalf("MergeItems: added=%d likes=%v", added, row.Likes)
	}
	if len(row.Dislikes) != 0 {
		t.Fatalf("dislikes should start empty, got %v", row.Dislikes)
	}

	row, added, err = repo.MergeItems(dbc, userID, types.PreferenceLike, []string{"tofu", "basil", "lime"})
	if err != nil {
		t.Fatalf("MergeItems: %v", err)
	}
	if added != 1 || !equalLists(row.Likes, []string{"basil", "tofu", "lime"}) {
		t.Fatalf("MergeItems(dup): added=%d likes=%v", added, row.Likes)
	}

	removed, err := repo.RemoveItem(dbc, userID, types.PreferenceLike, "tofu")
	if err != nil || !removed {
		t.Fatalf("RemoveItem(present): removed=%v err=%v", removed, err)
	}
	removed, err = repo.RemoveItem(dbc, userID, types.PreferenceLike, "tofu")
	if err != nil || removed {
		t.Fatalf("RemoveItem(absent): removed=%v err=%v", removed, err)
	}

	stored, err := repo.GetByUserID(dbc, userID)
	if err != nil || stored == nil {
		t.Fatalf("GetByUserID: got=%+v err=%v", stored, err)
	}
	if !equalLists(stored.Likes, []string{"basil", "lime"}) {
		t.Fatalf("stored likes = %v", stored.Likes)
	}
}

func TestPreferenceRepoMergeKeepsNewestHundred(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPreferenceRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	userID := uuid.New()

	items := make([]string, 150)
	for i := range items {
		items[i] = fmt.Sprintf("item-%03d", i)
	}
	row, _, err := repo.MergeItems(dbc, userID, types.PreferenceDislike, items)
	if err != nil {
		t.Fatalf("MergeItems: %v", err)
	}
	if len(row.Dislikes) != domainpref.MaxItems {
		t.Fatalf("expected %d dislikes, got %d", domainpref.MaxItems, len(row.Dislikes))
	}
	if !equalLists(row.Dislikes, items[50:]) {
		t.Fatalf("expected newest 100 in order, got first=%s last=%s", row.Dislikes[0], row.Dislikes[99])
	}
}

func TestPreferenceRepoUpsertPartial(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPreferenceRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	userID := uuid.New()

	high := types.CalorieHigh
	row, err := repo.Upsert(dbc, userID, domainpref.Patch{Calorie: &high})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if row.Calorie() != types.CalorieHigh || len(row.Likes) != 0 || len(row.Dislikes) != 0 {
		t.Fatalf("Upsert(create): %+v", row)
	}

	likes := []string{" rice ", "rice", "", "beans"}
	row, err = repo.Upsert(dbc, userID, domainpref.Patch{Likes: &likes})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !equalLists(row.Likes, []string{"rice", "beans"}) {
		t.Fatalf("likes not normalized: %v", row.Likes)
	}
	if row.Calorie() != types.CalorieHigh {
		t.Fatalf("calorie should be untouched, got %q", row.Calorie())
	}
}

func TestPreferenceRepoConcurrentMergesDoNotLoseUpdates(t *testing.T) {
	db := testutil.DB(t)
	repo := NewPreferenceRepo(db, testutil.Logger(t))
	userID := uuid.New()
	dbc := dbctx.Context{Ctx: context.Background()}

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := repo.MergeItems(dbc, userID, types.PreferenceLike, []string{fmt.Sprintf("w%d", i), "shared"})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("MergeItems: %v", err)
		}
	}

	row, err := repo.GetByUserID(dbc, userID)
	if err != nil || row == nil {
		t.Fatalf("GetByUserID: row=%+v err=%v", row, err)
	}
	if len(row.Likes) != writers+1 {
		t.Fatalf("expected %d likes, got %v", writers+1, row.Likes)
	}
	shared := 0
	for _, v := range row.Likes {
		if v == "shared" {
			shared++
		}
	}
	if shared != 1 {
		t.Fatalf("shared should appear once, got %d", shared)
	}
}
