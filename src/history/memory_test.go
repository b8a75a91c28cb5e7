package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gh-triage-mcp/src/contracts"
	"gh-triage-mcp/src/loganalysis"
)

func record(id, owner, repo string, started time.Time) contracts.AnalysisRecord {
	return contracts.AnalysisRecord{
		ID:        id,
		SourceURL: "https://example.com/" + id + ".zip",
		Owner:     owner,
		Repo:      repo,
		StartedAt: started,
		Result:    loganalysis.Result{Success: true, ErrorSummary: loganalysis.SummaryBuildClean},
	}
}

func TestMemoryStore_RecentOrdering(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.Save(ctx, record("a", "o", "r", base))
	store.Save(ctx, record("b", "o", "r", base.Add(2*time.Hour)))
	store.Save(ctx, record("c", "o", "r", base.Add(time.Hour)))

	got, err := store.Recent(ctx, "", "", 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	want := []string{"b", "c", "a"}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("record %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestMemoryStore_FilterAndLimit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 30; i++ {
		store.Save(ctx, record(fmt.Sprintf("x-%02d", i), "octo", "demo", base.Add(time.Duration(i)*time.Minute)))
	}
	store.Save(ctx, record("other", "octo", "elsewhere", base.Add(time.Hour)))

	tests := []struct {
		name        string
		owner, repo string
		limit       int
		want        int
	}{
		{"default limit", "", "", 0, DefaultLimit},
		{"explicit limit", "octo", "demo", 5, 5},
		{"other repo", "octo", "elsewhere", 10, 1},
		{"unknown repo", "nobody", "nothing", 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Recent(ctx, tt.owner, tt.repo, tt.limit)
			if err != nil {
				t.Fatalf("Recent failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d records, want %d", len(got), tt.want)
			}
		})
	}
}

func TestMemoryStore_SaveReplaces(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	r := record("same", "o", "r", time.Now())
	store.Save(ctx, r)
	r.Result = loganalysis.Result{Success: false, ErrorSummary: loganalysis.SummaryBuildErrors}
	store.Save(ctx, r)

	got, _ := store.Recent(ctx, "", "", 0)
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if got[0].Result.Success {
		t.Error("expected the second save to replace the first")
	}
}

func TestMemoryStore_EvictsOldest(t *testing.T) {
	store := NewMemoryStoreWithCapacity(3)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Saved out of order: eviction follows StartedAt, not insertion.
	store.Save(ctx, record("t2", "o", "r", base.Add(2*time.Minute)))
	store.Save(ctx, record("t0", "o", "r", base))
	store.Save(ctx, record("t3", "o", "r", base.Add(3*time.Minute)))
	store.Save(ctx, record("t1", "o", "r", base.Add(time.Minute)))
	store.Save(ctx, record("t4", "o", "r", base.Add(4*time.Minute)))

	got, err := store.Recent(ctx, "", "", 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	want := []string{"t4", "t3", "t2"}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("record %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestMemoryStore_DefaultCapacity(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Now()

	for i := 0; i < DefaultMemoryCapacity+25; i++ {
		store.Save(ctx, record(fmt.Sprintf("r-%04d", i), "o", "r", base.Add(time.Duration(i)*time.Second)))
	}

	got, _ := store.Recent(ctx, "", "", DefaultMemoryCapacity*2)
	if len(got) != DefaultMemoryCapacity {
		t.Fatalf("kept %d records, want %d", len(got), DefaultMemoryCapacity)
	}
	if got[len(got)-1].ID != "r-0025" {
		t.Errorf("oldest kept = %s, want r-0025", got[len(got)-1].ID)
	}
}
