package analytics

import (
	"testing"

	"github.com/claimsight/revcycle-analytics/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestARAging_BucketsSumToTotalOpenAR(t *testing.T) {
	claims := []*entities.Claim{
		openClaim("c1", asOf.AddDate(0, 0, -10), 100),  // 0-30
		openClaim("c2", asOf.AddDate(0, 0, -45), 200),  // 31-60
		openClaim("c3", asOf.AddDate(0, 0, -75), 300),  // 61-90
		openClaim("c4", asOf.AddDate(0, 0, -110), 400), // 91-120
		openClaim("c5", asOf.AddDate(0, 0, -200), 500), // 120+
	}

	report := ARAging(claims, TrailingMonths(asOf, 12), asOf)
	require.Len(t, report.Buckets, 5)
	assert.Equal(t, 1500.0, report.TotalOpenAR)

	sumOutstanding := 0.0
	sumShare := 0.0
	for _, b := range report.Buckets {
		sumOutstanding += b.TotalOutstanding
		require.NotNil(t, b.PercentOfTotal)
		sumShare += *b.PercentOfTotal
	}
	assert.InDelta(t, report.TotalOpenAR, sumOutstanding, 0.01)
	assert.InDelta(t, 100.0, sumShare, 0.05)
}

func TestARAging_BucketsOrderedByOrdinal(t *testing.T) {
	claims := []*entities.Claim{
		openClaim("c1", asOf.AddDate(0, 0, -200), 500),
		openClaim("c2", asOf.AddDate(0, 0, -45), 200),
		openClaim("c3", asOf.AddDate(0, 0, -10), 100),
	}

	report := ARAging(claims, TrailingMonths(asOf, 12), asOf)
	require.Len(t, report.Buckets, 3)
	assert.Equal(t, Bucket0To30, report.Buckets[0].Bucket)
	assert.Equal(t, Bucket31To60, report.Buckets[1].Bucket)
	assert.Equal(t, BucketOver120, report.Buckets[2].Bucket)
}

func TestARAging_ExcludesClosedAndZeroBalance(t *testing.T) {
	written := openClaim("c2", asOf.AddDate(0, 0, -40), 100)
	written.Status = entities.ClaimStatusWrittenOff

	partial := openClaim("c3", asOf.AddDate(0, 0, -40), 100)
	partial.PaidAmount = fptr(100) // fully collected, nothing outstanding

	claims := []*entities.Claim{
		paidClaim("c1", asOf.AddDate(0, 0, -40), 100, 80, 80),
		written,
		partial,
		openClaim("c4", asOf.AddDate(0, 0, -40), 250),
	}

	report := ARAging(claims, TrailingMonths(asOf, 12), asOf)
	require.Len(t, report.Buckets, 1)
	assert.Equal(t, 1, report.Buckets[0].ClaimCount)
	assert.Equal(t, 250.0, report.TotalOpenAR)
}

func TestARAging_DaysInAR(t *testing.T) {
	// 1000 open AR against 3650 of trailing charges: 1000 / (3650/365) = 100.
	claims := []*entities.Claim{
		openClaim("c1", asOf.AddDate(0, 0, -20), 1000),
		paidClaim("c2", asOf.AddDate(0, -6, 0), 2650, 2000, 2000),
	}

	report := ARAging(claims, TrailingMonths(asOf, 12), asOf)
	require.NotNil(t, report.DaysInAR)
	assert.Equal(t, 100.0, *report.DaysInAR)
}

func TestARAging_DaysInARAbsentWithoutTrailingCharges(t *testing.T) {
	// The only claim was submitted outside the trailing charge window.
	claims := []*entities.Claim{
		openClaim("c1", asOf.AddDate(-2, 0, 0), 1000),
	}

	report := ARAging(claims, TrailingMonths(asOf, 12), asOf)
	assert.Equal(t, 1000.0, report.TotalOpenAR)
	assert.Nil(t, report.DaysInAR)
}
