package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAgingBucketFor_InclusiveUpperBounds(t *testing.T) {
	cases := map[int]string{
		0:   Bucket0To30,
		30:  Bucket0To30,
		31:  Bucket31To60,
		60:  Bucket31To60,
		61:  Bucket61To90,
		90:  Bucket61To90,
		91:  Bucket91To120,
		120: Bucket91To120,
		121: BucketOver120,
		500: BucketOver120,
	}
	for days, want := range cases {
		assert.Equal(t, want, AgingBucketFor(days), "days=%d", days)
	}
}

func TestBucketOrdinal_OrdersByAgeNotLexically(t *testing.T) {
	// "120+" sorts before "31-60" lexically; ordinals must not.
	assert.Less(t, BucketOrdinal(Bucket31To60), BucketOrdinal(BucketOver120))

	for i, bucket := range []string{Bucket0To30, Bucket31To60, Bucket61To90, Bucket91To120, BucketOver120} {
		assert.Equal(t, i+1, BucketOrdinal(bucket))
	}
	assert.Equal(t, 0, BucketOrdinal("unknown"))
}

func TestFirstMatch_FirstRuleWins(t *testing.T) {
	rules := []Rule[int]{
		{Match: func(v int) bool { return v > 0 }, Label: "positive"},
		{Match: func(v int) bool { return v > 10 }, Label: "unreachable"},
	}
	assert.Equal(t, "positive", FirstMatch(rules, 20, "fallback"))
	assert.Equal(t, "fallback", FirstMatch(rules, -1, "fallback"))
}

func TestMonthStart(t *testing.T) {
	got := MonthStart(time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 31, DaysBetween(day(2025, 5, 15), asOf))
	assert.Equal(t, 0, DaysBetween(asOf, asOf))
}
