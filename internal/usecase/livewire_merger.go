package usecase

import (
	"sort"

	"Velra/internal/domain/models"
)

// DefaultLivewireCapacity bounds the rolling feed.
const DefaultLivewireCapacity = 10

var impactScore = map[models.Impact]int{
	models.ImpactHigh:   3,
	models.ImpactMedium: 2,
	models.ImpactLow:    1,
}

// ImpactScore maps an impact to its rank. An empty impact counts as LOW;
// any other unrecognised value ranks below LOW.
func ImpactScore(i models.Impact) int {
	if i == "" {
		return impactScore[models.ImpactLow]
	}
	return impactScore[i]
}

func clockOf(it models.NewsItem) string {
	if it.Time == "" {
		return "00:00"
	}
	return it.Time
}

// MergeLivewire puts fresh items ahead of previous ones, ranks the union by
// impact then "HH:MM" time (both descending) and keeps the first capacity
// entries. Ties keep their input order, so fresh items win equal ranks.
func MergeLivewire(fresh, previous []models.NewsItem, capacity int) []models.NewsItem {
	if capacity <= 0 {
		capacity = DefaultLivewireCapacity
	}

	combined := make([]models.NewsItem, 0, len(fresh)+len(previous))
	combined = append(combined, fresh...)
	combined = append(combined, previous...)

	sort.SliceStable(combined, func(i, j int) bool {
		si, sj := ImpactScore(combined[i].Impact), ImpactScore(combined[j].Impact)
		if si != sj {
			return si > sj
		}
		return clockOf(combined[i]) > clockOf(combined[j])
	})

	if len(combined) > capacity {
		combined = combined[:capacity]
	}
	return combined
}

// StampLivewire sets the local "HH:MM" time on every item.
func StampLivewire(items []models.NewsItem, clock string) []models.NewsItem {
	out := make([]models.NewsItem, len(items))
	for i, it := range items {
		it.Time = clock
		out[i] = it
	}
	return out
}
