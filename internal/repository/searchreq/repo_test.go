package searchreq

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/kailas-cloud/artwatch/internal/db/memory"
	"github.com/kailas-cloud/artwatch/internal/domain"
	"github.com/kailas-cloud/artwatch/internal/domain/vision"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func interesting(id, artwork string, at time.Time) vision.SearchRequest {
	return vision.SearchRequest{
		ID:               id,
		ArtworkID:        artwork,
		ImageSource:      vision.SourceDatabase,
		Counts:           vision.Counts{Full: 1, Similar: 2, Pages: 1},
		BestMatchScore:   ptr(0.93),
		InterestScore:    40,
		APICostUnits:     1,
		ProcessingTimeMS: ptr(int64(850)),
		CreatedAt:        at,
		Outcome: vision.Interesting{
			Matches: []vision.Match{{
				Type:       vision.MatchFull,
				ImageURL:   "https://www.christies.com/img/1.jpg",
				PageURL:    "https://www.christies.com/lot/1",
				PageTitle:  "Lot 1",
				Domain:     "christies.com",
				Category:   vision.CategoryAuction,
				Confidence: ptr(0.93),
			}},
			Entities: []vision.Entity{{Description: "Impressionism", Score: ptr(0.5)}},
		},
	}
}

func routine(id, artwork string, at time.Time) vision.SearchRequest {
	return vision.SearchRequest{
		ID:           id,
		ArtworkID:    artwork,
		ImageSource:  vision.SourceURL,
		Counts:       vision.Counts{Similar: 1},
		APICostUnits: 2,
		CreatedAt:    at,
		Outcome:      vision.Routine{},
	}
}

func TestSaveGet_Interesting(t *testing.T) {
	repo := New(memory.NewStore())
	ctx := context.Background()
	req := interesting("r1", "42", t0)

	if err := repo.Save(ctx, &req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := repo.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, req) {
		t.Errorf("got %+v\nwant %+v", got, req)
	}
}

func TestSaveGet_RoutineHasNoRows(t *testing.T) {
	repo := New(memory.NewStore())
	ctx := context.Background()
	req := routine("r2", "42", t0)

	_ = repo.Save(ctx, &req)
	got, err := repo.Get(ctx, "r2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.HasInterestingResults() || got.Matches() != nil || got.Entities() != nil {
		t.Errorf("routine request must not carry rows: %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := New(memory.NewStore())
	_, err := repo.Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListInteresting_NewestFirst(t *testing.T) {
	repo := New(memory.NewStore())
	ctx := context.Background()

	for _, r := range []vision.SearchRequest{
		interesting("a", "1", t0),
		routine("b", "1", t0.Add(time.Minute)),
		interesting("c", "2", t0.Add(2*time.Minute)),
		interesting("d", "3", t0.Add(3*time.Minute)),
	} {
		if err := repo.Save(ctx, &r); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	got, err := repo.ListInteresting(ctx, 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "a" {
		t.Errorf("unexpected page: %v", ids(got))
	}
}

func TestListByArtwork(t *testing.T) {
	repo := New(memory.NewStore())
	ctx := context.Background()

	for _, r := range []vision.SearchRequest{
		interesting("a", "1", t0),
		routine("b", "1", t0.Add(time.Minute)),
		interesting("c", "2", t0.Add(2*time.Minute)),
	} {
		_ = repo.Save(ctx, &r)
	}

	got, err := repo.ListByArtwork(ctx, "1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"b", "a"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("got %v, want %v", ids(got), want)
	}
}

func TestStats(t *testing.T) {
	repo := New(memory.NewStore())
	ctx := context.Background()

	empty, err := repo.Stats(ctx)
	if err != nil || empty != (vision.Stats{}) {
		t.Fatalf("empty stats = %+v, %v", empty, err)
	}

	for _, r := range []vision.SearchRequest{
		interesting("a", "1", t0),
		routine("b", "1", t0),
		interesting("c", "2", t0),
	} {
		_ = repo.Save(ctx, &r)
	}

	st, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := vision.Stats{Requests: 3, InterestingRequests: 2, ArtworksSearched: 2, TotalCostUnits: 4}
	if st != want {
		t.Errorf("stats = %+v, want %+v", st, want)
	}
}

func TestFromJSON_UnknownOutcome(t *testing.T) {
	if _, err := fromJSON(requestJSON{ID: "x", Outcome: "maybe"}); err == nil {
		t.Fatal("expected error")
	}
}

func ids(reqs []vision.SearchRequest) []string {
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = r.ID
	}
	return out
}
