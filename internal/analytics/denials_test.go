package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/claimsight/revcycle-analytics/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func denial(id, claimID string, date time.Time, category entities.DenialCategory, code string, amount float64) *entities.Denial {
	return &entities.Denial{
		ID:                id,
		ClaimID:           claimID,
		DenialDate:        date,
		Category:          category,
		ReasonCode:        code,
		ReasonDescription: "desc-" + code,
		DeniedAmount:      amount,
		WorkStatus:        entities.DenialWorkStatusNew,
	}
}

// denialGroup builds n denials sharing a reason group, each against its own
// claim, and returns both sides of the join.
func denialGroup(prefix string, n int, date time.Time, category entities.DenialCategory, code string, amount float64) ([]*entities.Denial, []*entities.Claim) {
	denials := make([]*entities.Denial, 0, n)
	claims := make([]*entities.Claim, 0, n)
	for i := 0; i < n; i++ {
		claimID := fmt.Sprintf("%s-claim-%d", prefix, i)
		claims = append(claims, deniedClaim(claimID, date.AddDate(0, 0, -7), amount))
		denials = append(denials, denial(fmt.Sprintf("%s-denial-%d", prefix, i), claimID, date, category, code, amount))
	}
	return denials, claims
}

func TestTopDenialReasons_FloorAndRanking(t *testing.T) {
	window := TrailingMonths(asOf, 6)
	date := asOf.AddDate(0, -1, 0)

	bigDenials, bigClaims := denialGroup("auth", 6, date, entities.DenialCategoryAuthorization, "CO-197", 500)
	midDenials, midClaims := denialGroup("elig", 5, date, entities.DenialCategoryEligibility, "CO-27", 100)
	smallDenials, smallClaims := denialGroup("dup", 4, date, entities.DenialCategoryDuplicate, "CO-18", 9999)

	denials := append(append(bigDenials, midDenials...), smallDenials...)
	claims := append(append(bigClaims, midClaims...), smallClaims...)

	metrics := TopDenialReasons(denials, claims, window)
	require.Len(t, metrics, 2, "groups under the 5-denial floor must drop, however large")

	assert.Equal(t, "CO-197", metrics[0].ReasonCode)
	assert.Equal(t, 3000.0, metrics[0].TotalDenied)
	assert.Equal(t, 6, metrics[0].DenialCount)
	assert.Equal(t, 6, metrics[0].AffectedPatients)
	assert.Equal(t, "CO-27", metrics[1].ReasonCode)
}

func TestTopDenialReasons_AppealAndRecoveryRates(t *testing.T) {
	window := TrailingMonths(asOf, 6)
	date := asOf.AddDate(0, -1, 0)

	denials, claims := denialGroup("auth", 5, date, entities.DenialCategoryAuthorization, "CO-197", 200)
	// Two appealed: one won with recovery, one lost.
	denials[0].WorkStatus = entities.DenialWorkStatusResolved
	denials[0].ResolutionType = sptr(entities.ResolutionAppealedWon)
	denials[0].RecoveredAmount = fptr(150)
	denials[1].WorkStatus = entities.DenialWorkStatusResolved
	denials[1].ResolutionType = sptr(entities.ResolutionAppealedLost)

	metrics := TopDenialReasons(denials, claims, window)
	require.Len(t, metrics, 1)

	m := metrics[0]
	assert.Equal(t, 2, m.ResolvedCount)
	assert.Equal(t, 1, m.AppealsWon)
	require.NotNil(t, m.AppealSuccessRate)
	assert.Equal(t, 50.0, *m.AppealSuccessRate)
	assert.Equal(t, 150.0, m.TotalRecovered)
	require.NotNil(t, m.RecoveryRate)
	assert.Equal(t, 15.0, *m.RecoveryRate) // 150 / 1000
}

func TestTopDenialReasons_ExcludesOrphanDenials(t *testing.T) {
	window := TrailingMonths(asOf, 6)
	date := asOf.AddDate(0, -1, 0)

	denials, claims := denialGroup("auth", 5, date, entities.DenialCategoryAuthorization, "CO-197", 200)
	orphan := denial("orphan", "no-such-claim", date, entities.DenialCategoryAuthorization, "CO-197", 200)

	metrics := TopDenialReasons(append(denials, orphan), claims, window)
	require.Len(t, metrics, 1)
	assert.Equal(t, 5, metrics[0].DenialCount)
}

func TestDenialTrend_Ordering(t *testing.T) {
	window := TrailingMonths(asOf, 12)
	may := day(2025, 5, 10)
	april := day(2025, 4, 10)

	denials := []*entities.Denial{
		denial("d1", "c1", april, entities.DenialCategoryCodingError, "CO-16", 100),
		denial("d2", "c2", may, entities.DenialCategoryAuthorization, "CO-197", 50),
		denial("d3", "c3", may, entities.DenialCategoryEligibility, "CO-27", 300),
		denial("d4", "c4", may, entities.DenialCategoryEligibility, "CO-27", 100),
	}

	metrics := DenialTrend(denials, window)
	require.Len(t, metrics, 3)

	// May before April; within May, larger total denied first.
	assert.Equal(t, day(2025, 5, 1), metrics[0].Month)
	assert.Equal(t, entities.DenialCategoryEligibility, metrics[0].Category)
	assert.Equal(t, 400.0, metrics[0].TotalDenied)
	assert.Equal(t, 200.0, metrics[0].AvgDenied)
	assert.Equal(t, entities.DenialCategoryAuthorization, metrics[1].Category)
	assert.Equal(t, day(2025, 4, 1), metrics[2].Month)
}
