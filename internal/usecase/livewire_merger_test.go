package usecase

import (
	"fmt"
	"testing"

	"Velra/internal/domain/models"
)

func item(h string, impact models.Impact, clock string) models.NewsItem {
	return models.NewsItem{Headline: h, Impact: impact, Summary: h + " summary", Time: clock}
}

func headlines(items []models.NewsItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Headline
	}
	return out
}

func TestMergeLivewireOrdersByImpactThenTime(t *testing.T) {
	a := item("A", models.ImpactHigh, "09:00")
	b := item("B", models.ImpactLow, "23:00")
	c := item("C", models.ImpactHigh, "10:00")

	got := headlines(MergeLivewire([]models.NewsItem{a, b}, []models.NewsItem{c}, 10))
	want := []string{"C", "A", "B"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestMergeLivewireFreshWinsTies(t *testing.T) {
	oldItem := item("old", models.ImpactMedium, "11:00")
	newItem := item("new", models.ImpactMedium, "11:00")

	got := MergeLivewire([]models.NewsItem{newItem}, []models.NewsItem{oldItem}, 10)
	if got[0].Headline != "new" || got[1].Headline != "old" {
		t.Fatalf("unexpected order %v", headlines(got))
	}
}

func TestMergeLivewireUnrecognisedImpactSortsLast(t *testing.T) {
	weird := item("weird", models.Impact("CRITICAL"), "12:00")
	low := item("low", models.ImpactLow, "01:00")
	blank := item("blank", "", "02:00")

	got := headlines(MergeLivewire([]models.NewsItem{weird, low, blank}, nil, 10))
	want := []string{"blank", "low", "weird"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestMergeLivewireCapacity(t *testing.T) {
	for _, tc := range []struct{ fresh, prev int }{{0, 0}, {3, 4}, {10, 10}, {25, 0}, {0, 25}} {
		fresh := make([]models.NewsItem, tc.fresh)
		for i := range fresh {
			fresh[i] = item(fmt.Sprintf("f%d", i), models.ImpactMedium, "10:00")
		}
		prev := make([]models.NewsItem, tc.prev)
		for i := range prev {
			prev[i] = item(fmt.Sprintf("p%d", i), models.ImpactHigh, "09:00")
		}
		got := MergeLivewire(fresh, prev, 10)
		if len(got) > 10 {
			t.Fatalf("fresh=%d prev=%d: len %d exceeds capacity", tc.fresh, tc.prev, len(got))
		}
		if want := min(tc.fresh+tc.prev, 10); len(got) != want {
			t.Fatalf("fresh=%d prev=%d: len %d want %d", tc.fresh, tc.prev, len(got), want)
		}
	}
}

func TestMergeLivewireEvictsLowerImpact(t *testing.T) {
	prev := make([]models.NewsItem, 10)
	for i := range prev {
		prev[i] = item(fmt.Sprintf("low%d", i), models.ImpactLow, "08:00")
	}
	fresh := []models.NewsItem{item("breaking", models.ImpactHigh, "09:00")}

	got := MergeLivewire(fresh, prev, 10)
	if got[0].Headline != "breaking" {
		t.Fatalf("expected breaking first, got %v", headlines(got))
	}
	if got[9].Headline != "low8" {
		t.Fatalf("expected last low item evicted, got %v", headlines(got))
	}
}

func TestStampLivewireDoesNotMutateInput(t *testing.T) {
	in := []models.NewsItem{{Headline: "x", Impact: models.ImpactHigh}}
	out := StampLivewire(in, "14:00")
	if out[0].Time != "14:00" {
		t.Fatalf("stamp missing")
	}
	if in[0].Time != "" {
		t.Fatalf("input mutated")
	}
}
