package analytics

import (
	"sort"
	"time"

	"github.com/claimsight/revcycle-analytics/internal/domain/entities"
)

// ARAging buckets open claim balances by days outstanding as of asOf.
// A claim is open when its status is neither paid nor written off, it has
// been submitted, and it carries a positive outstanding balance. Each
// bucket's share is computed against total open AR across all buckets.
//
// DaysInAR uses the precise trailing formula
// total_open_ar / (trailing_charges / 365), where trailing charges are the
// charge amounts of claims submitted inside chargeWindow (normally the
// trailing 12 months). It is nil when trailing charges are zero.
func ARAging(claims []*entities.Claim, chargeWindow TimeWindow, asOf time.Time) *AgingReport {
	type accumulator struct {
		count       int
		outstanding float64
		days        int
	}

	buckets := make(map[string]*accumulator)
	totalOpenAR := 0.0
	trailingCharges := 0.0

	for _, c := range claims {
		if c.SubmissionDate == nil {
			continue
		}
		if chargeWindow.Contains(*c.SubmissionDate) {
			trailingCharges += c.ChargeAmount
		}

		outstanding := c.Outstanding()
		if !c.Status.IsOpen() || outstanding <= 0 {
			continue
		}

		days := DaysBetween(*c.SubmissionDate, asOf)
		bucket := AgingBucketFor(days)
		acc, ok := buckets[bucket]
		if !ok {
			acc = &accumulator{}
			buckets[bucket] = acc
		}
		acc.count++
		acc.outstanding += outstanding
		acc.days += days
		totalOpenAR += outstanding
	}

	metrics := make([]AgingBucketMetric, 0, len(buckets))
	for bucket, acc := range buckets {
		metrics = append(metrics, AgingBucketMetric{
			Bucket:             bucket,
			Ordinal:            BucketOrdinal(bucket),
			ClaimCount:         acc.count,
			TotalOutstanding:   Round2(acc.outstanding),
			AvgOutstanding:     Round2(acc.outstanding / float64(acc.count)),
			AvgDaysOutstanding: Round(float64(acc.days)/float64(acc.count), 1),
			PercentOfTotal:     SafePercent(acc.outstanding, totalOpenAR, 2),
		})
	}

	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].Ordinal < metrics[j].Ordinal
	})

	return &AgingReport{
		Buckets:     metrics,
		TotalOpenAR: Round2(totalOpenAR),
		DaysInAR:    daysInAR(totalOpenAR, trailingCharges),
	}
}

func daysInAR(totalOpenAR, trailingCharges float64) *float64 {
	ratio := SafeRatio(totalOpenAR, trailingCharges/365)
	if ratio == nil {
		return nil
	}
	v := Round2(*ratio)
	return &v
}
