package aggregator

import (
	"sort"
	"testing"
	"time"

	"github.com/feedden/feedden/app/database"
)

const yearLimit = 365 * 24 * time.Hour

func date(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func sortedIDs(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}

func assertVictims(t *testing.T, got []string, expected ...string) {
	t.Helper()
	gotSorted := sortedIDs(got)
	expectedSorted := sortedIDs(expected)
	if len(gotSorted) != len(expectedSorted) {
		t.Fatalf("Expected victims %v, got %v", expectedSorted, gotSorted)
	}
	for i := range gotSorted {
		if gotSorted[i] != expectedSorted[i] {
			t.Fatalf("Expected victims %v, got %v", expectedSorted, gotSorted)
		}
	}
}

func TestDiscardAgeCap(t *testing.T) {
	// Refresh watermark at 1972-01-01 with a one-year limit: the 1970 post
	// falls behind the cutoff, the 1971-06-01 post survives.
	posts := []database.PrunablePost{
		{ID: "old", Date: date("1970-01-01")},
		{ID: "recent", Date: date("1971-06-01")},
	}

	victims := discard(posts, date("1972-01-01"), yearLimit, 50)
	assertVictims(t, victims, "old")
}

func TestDiscardAgeCapBoundary(t *testing.T) {
	oldest := date("1972-01-01")
	cutoff := oldest.Add(-yearLimit)

	posts := []database.PrunablePost{
		{ID: "at-cutoff", Date: cutoff},
		{ID: "before-cutoff", Date: cutoff.Add(-time.Second)},
	}

	// Only strictly older than the cutoff is discarded.
	victims := discard(posts, oldest, yearLimit, 50)
	assertVictims(t, victims, "before-cutoff")
}

func TestDiscardCountCap(t *testing.T) {
	oldest := date("2023-06-01")
	posts := []database.PrunablePost{
		{ID: "p1", Date: date("2023-05-01")},
		{ID: "p2", Date: date("2023-05-02")},
		{ID: "p3", Date: date("2023-05-03")},
		{ID: "p4", Date: date("2023-05-04")},
		{ID: "p5", Date: date("2023-05-05")},
	}

	// Keep the 3 most recent of the posts every subscriber has seen.
	victims := discard(posts, oldest, yearLimit, 3)
	assertVictims(t, victims, "p1", "p2")
}

func TestDiscardCountCapIgnoresUnseenPosts(t *testing.T) {
	oldest := date("2023-06-01")
	posts := []database.PrunablePost{
		{ID: "seen-1", Date: date("2023-05-01")},
		{ID: "seen-2", Date: date("2023-05-02")},
		// Newer than the oldest watermark: a lagging subscriber has not seen
		// these yet, so they never count against the cap.
		{ID: "unseen-1", Date: date("2023-06-02")},
		{ID: "unseen-2", Date: date("2023-06-03")},
	}

	victims := discard(posts, oldest, yearLimit, 2)
	if len(victims) != 0 {
		t.Errorf("Expected no victims, got %v", victims)
	}
}

func TestDiscardAnchorsAtOldestWatermark(t *testing.T) {
	// Two subscriptions share the feed with watermarks t1 < t2. The anchor
	// is t1, so a post dated between t1 and t2 is never age-pruned even
	// though it predates t2 by more than the limit.
	t1 := date("2020-01-01")
	posts := []database.PrunablePost{
		{ID: "between", Date: date("2020-06-01")},
	}

	victims := discard(posts, t1, 30*24*time.Hour, 50)
	if len(victims) != 0 {
		t.Errorf("Expected no victims with the oldest watermark as anchor, got %v", victims)
	}
}

func TestDiscardStarredExempt(t *testing.T) {
	oldest := date("1972-01-01")
	posts := []database.PrunablePost{
		{ID: "starred-old", Date: date("1970-01-01"), Starred: true},
		{ID: "plain-old", Date: date("1970-01-02")},
	}

	victims := discard(posts, oldest, yearLimit, 50)
	assertVictims(t, victims, "plain-old")
}

func TestDiscardStarredDoesNotOccupyCountCap(t *testing.T) {
	oldest := date("2023-06-01")
	posts := []database.PrunablePost{
		{ID: "starred", Date: date("2023-05-05"), Starred: true},
		{ID: "p1", Date: date("2023-05-01")},
		{ID: "p2", Date: date("2023-05-02")},
	}

	// The starred post is invisible to the cap; both plain posts fit.
	victims := discard(posts, oldest, yearLimit, 2)
	if len(victims) != 0 {
		t.Errorf("Expected no victims, got %v", victims)
	}
}

func TestDiscardBothCapsUnion(t *testing.T) {
	oldest := date("2023-06-01")
	posts := []database.PrunablePost{
		{ID: "ancient", Date: date("2020-01-01")},
		{ID: "p1", Date: date("2023-05-01")},
		{ID: "p2", Date: date("2023-05-02")},
		{ID: "p3", Date: date("2023-05-03")},
	}

	// "ancient" falls to the age cap and also beyond the count cap; it must
	// appear exactly once.
	victims := discard(posts, oldest, yearLimit, 2)
	assertVictims(t, victims, "ancient", "p1")
}

func TestDiscardEmpty(t *testing.T) {
	if victims := discard(nil, date("2023-06-01"), yearLimit, 50); len(victims) != 0 {
		t.Errorf("Expected no victims for empty input, got %v", victims)
	}
}
