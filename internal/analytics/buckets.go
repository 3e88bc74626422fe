package analytics

import "time"

// Rule pairs a predicate with the label to emit when it matches. Ordered
// rule lists are evaluated first-match-wins, which keeps the fixed
// classification ladders (aging buckets, bottleneck stages, rating tiers)
// independently testable and reorder-safe.
type Rule[T any] struct {
	Match func(T) bool
	Label string
}

// FirstMatch evaluates rules in order and returns the label of the first
// rule whose predicate matches, or fallback when none do.
func FirstMatch[T any](rules []Rule[T], value T, fallback string) string {
	for _, r := range rules {
		if r.Match(value) {
			return r.Label
		}
	}
	return fallback
}

// Aging bucket labels in display order.
const (
	Bucket0To30   = "0-30"
	Bucket31To60  = "31-60"
	Bucket61To90  = "61-90"
	Bucket91To120 = "91-120"
	BucketOver120 = "120+"
)

// agingRules classify a day count with inclusive upper bounds.
var agingRules = []Rule[int]{
	{Match: func(d int) bool { return d <= 30 }, Label: Bucket0To30},
	{Match: func(d int) bool { return d <= 60 }, Label: Bucket31To60},
	{Match: func(d int) bool { return d <= 90 }, Label: Bucket61To90},
	{Match: func(d int) bool { return d <= 120 }, Label: Bucket91To120},
}

// bucketOrdinals maps a bucket label to its 1-based display position.
// Buckets sort by ordinal, never lexically ("120+" would otherwise sort
// before "31-60").
var bucketOrdinals = map[string]int{
	Bucket0To30:   1,
	Bucket31To60:  2,
	Bucket61To90:  3,
	Bucket91To120: 4,
	BucketOver120: 5,
}

// AgingBucketFor maps an elapsed-day count to its aging bucket label.
func AgingBucketFor(days int) string {
	return FirstMatch(agingRules, days, BucketOver120)
}

// BucketOrdinal returns the 1-based sort position for a bucket label,
// or 0 for an unknown label.
func BucketOrdinal(bucket string) int {
	return bucketOrdinals[bucket]
}

// MonthStart truncates a time to midnight UTC on the first of its month,
// the canonical key for month-period grouping.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole days elapsed from earlier to later.
func DaysBetween(earlier, later time.Time) int {
	return int(later.Sub(earlier).Hours() / 24)
}
