package analytics

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/dtroode/spendy/internal/category"
	"github.com/dtroode/spendy/internal/model"
)

// Aggregate summarizes the outflows of txs selected by filter. Empty input yields a zero
// summary with empty, non-nil slices.
func Aggregate(txs []model.Transaction, filter model.Filter, classifier *category.Classifier) model.Summary {
	granularity := GranularityFor(filter)
	from, to, bounded := Period(filter)

	summary := model.Summary{
		Categories:  []model.CategoryMetric{},
		Series:      []model.TimeSeriesPoint{},
		Granularity: granularity,
	}

	categoryIndex := make(map[string]int)
	buckets := make(map[time.Time]float64)

	for _, tx := range txs {
		if !tx.IsOutflow() {
			continue
		}

		date, dated := TransactionDate(tx)
		if bounded && !within(date, dated, from, to) {
			continue
		}

		amount := math.Abs(tx.Amount)
		summary.Total += amount
		summary.Count++
		if amount > summary.Max {
			summary.Max = amount
		}

		cls := classifier.ClassifyTransaction(tx)
		i, ok := categoryIndex[cls.Label]
		if !ok {
			i = len(summary.Categories)
			categoryIndex[cls.Label] = i
			summary.Categories = append(summary.Categories, model.CategoryMetric{
				Name:  cls.Label,
				Color: cls.Color,
				Icon:  cls.Icon,
			})
		}
		summary.Categories[i].TotalAmount += amount
		summary.Categories[i].Count++

		if dated {
			buckets[bucketStart(date, granularity)] += amount
		}
	}

	if summary.Count > 0 {
		summary.Average = summary.Total / float64(summary.Count)
	}

	sort.SliceStable(summary.Categories, func(i, j int) bool {
		return summary.Categories[i].TotalAmount > summary.Categories[j].TotalAmount
	})

	starts := make([]time.Time, 0, len(buckets))
	for start := range buckets {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	for _, start := range starts {
		summary.Series = append(summary.Series, model.TimeSeriesPoint{
			Label:       bucketLabel(start, granularity),
			BucketStart: start,
			Amount:      buckets[start],
		})
	}

	return summary
}

// GranularityFor returns monthly buckets for all-time and ranges longer than a month,
// daily buckets otherwise.
func GranularityFor(filter model.Filter) model.Granularity {
	switch filter.Mode {
	case model.FilterMonth:
		return model.GranularityDay
	case model.FilterRange:
		from, to, _ := Period(filter)
		if to.After(from.AddDate(0, 1, 0)) {
			return model.GranularityMonth
		}
		return model.GranularityDay
	default:
		return model.GranularityMonth
	}
}

// Period returns the half-open day interval [from, to) selected by filter.
// bounded is false for all-time.
func Period(filter model.Filter) (from, to time.Time, bounded bool) {
	switch filter.Mode {
	case model.FilterMonth:
		from = time.Date(filter.Year, filter.Month, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, 0), true
	case model.FilterRange:
		from, to = startOfDay(filter.From), startOfDay(filter.To)
		if to.Before(from) {
			from, to = to, from
		}
		return from, to.AddDate(0, 0, 1), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

func within(date time.Time, dated bool, from, to time.Time) bool {
	if !dated {
		return false
	}
	day := startOfDay(date)
	return !day.Before(from) && day.Before(to)
}

func bucketStart(t time.Time, g model.Granularity) time.Time {
	if g == model.GranularityDay {
		return startOfDay(t)
	}
	return startOfMonth(t)
}

func bucketLabel(start time.Time, g model.Granularity) string {
	if g == model.GranularityDay {
		return strconv.Itoa(start.Day())
	}
	return start.Format("Jan")
}
