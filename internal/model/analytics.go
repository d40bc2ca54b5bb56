package model

import "time"

// FilterMode selects the period and bucket granularity of an aggregation.
type FilterMode string

const (
	FilterAll   FilterMode = "all"
	FilterMonth FilterMode = "month"
	FilterRange FilterMode = "range"
)

// Granularity is the size of a time series bucket.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
)

// Filter restricts an aggregation. Month uses Year and Month; Range uses From and To (inclusive days).
type Filter struct {
	Mode  FilterMode
	Year  int
	Month time.Month
	From  time.Time
	To    time.Time
}

// CategoryMetric is the outflow total of one category.
type CategoryMetric struct {
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	Icon        string  `json:"icon"`
	TotalAmount float64 `json:"total_amount"`
	Count       int     `json:"count"`
}

// TimeSeriesPoint is the outflow total of one bucket.
type TimeSeriesPoint struct {
	Label       string    `json:"label"`
	BucketStart time.Time `json:"bucket_start"`
	Amount      float64   `json:"amount"`
}

// Summary is the result of aggregating a list of transactions.
type Summary struct {
	Total       float64           `json:"total"`
	Average     float64           `json:"average"`
	Max         float64           `json:"max"`
	Count       int               `json:"count"`
	Categories  []CategoryMetric  `json:"categories"`
	Series      []TimeSeriesPoint `json:"series"`
	Granularity Granularity       `json:"granularity"`
}

// Balance is the income/expense split of a transaction list.
type Balance struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}
