package analytics

import (
	"sort"
	"time"

	"github.com/claimsight/revcycle-analytics/internal/domain/entities"
)

const (
	// topReasonMinDenials is the floor below which a reason group is too
	// small to rank.
	topReasonMinDenials = 5

	// topReasonLimit caps the ranked reason list.
	topReasonLimit = 20
)

// TopDenialReasons ranks denial reason groups by total denied amount over
// the window. Denials are joined to claims to count distinct affected
// patients and providers; a denial referencing a claim missing from the
// snapshot is excluded (the referencing side is authoritative, and the
// caller logs the orphan as a data-quality signal). Groups with fewer than
// five denials are dropped, and the list is capped at the top twenty.
func TopDenialReasons(denials []*entities.Denial, claims []*entities.Claim, window TimeWindow) []DenialReasonMetric {
	claimsByID := make(map[string]*entities.Claim, len(claims))
	for _, c := range claims {
		claimsByID[c.ID] = c
	}

	type groupKey struct {
		category entities.DenialCategory
		code     string
		desc     string
	}
	type accumulator struct {
		count     int
		patients  map[string]struct{}
		providers map[string]struct{}
		denied    float64
		resolved  int
		appealed  int
		won       int
		recovered float64
	}

	groups := make(map[groupKey]*accumulator)

	for _, d := range denials {
		if !window.Contains(d.DenialDate) {
			continue
		}
		claim, ok := claimsByID[d.ClaimID]
		if !ok {
			continue
		}

		key := groupKey{category: d.Category, code: d.ReasonCode, desc: d.ReasonDescription}
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{
				patients:  make(map[string]struct{}),
				providers: make(map[string]struct{}),
			}
			groups[key] = acc
		}

		acc.count++
		acc.patients[claim.PatientID] = struct{}{}
		acc.providers[claim.ProviderID] = struct{}{}
		acc.denied += d.DeniedAmount
		if d.WorkStatus == entities.DenialWorkStatusResolved {
			acc.resolved++
		}
		if d.WasAppealed() {
			acc.appealed++
		}
		if d.ResolutionType != nil && *d.ResolutionType == entities.ResolutionAppealedWon {
			acc.won++
			if d.RecoveredAmount != nil {
				acc.recovered += *d.RecoveredAmount
			}
		}
	}

	metrics := make([]DenialReasonMetric, 0, len(groups))
	for key, acc := range groups {
		if acc.count < topReasonMinDenials {
			continue
		}
		metrics = append(metrics, DenialReasonMetric{
			Category:          key.category,
			ReasonCode:        key.code,
			ReasonDescription: key.desc,
			DenialCount:       acc.count,
			AffectedPatients:  len(acc.patients),
			AffectedProviders: len(acc.providers),
			TotalDenied:       Round2(acc.denied),
			AvgDenied:         Round2(acc.denied / float64(acc.count)),
			ResolvedCount:     acc.resolved,
			AppealsWon:        acc.won,
			AppealSuccessRate: SafePercent(float64(acc.won), float64(acc.appealed), 2),
			TotalRecovered:    Round2(acc.recovered),
			RecoveryRate:      SafePercent(acc.recovered, acc.denied, 2),
		})
	}

	sort.Slice(metrics, func(i, j int) bool {
		if metrics[i].TotalDenied != metrics[j].TotalDenied {
			return metrics[i].TotalDenied > metrics[j].TotalDenied
		}
		if metrics[i].Category != metrics[j].Category {
			return metrics[i].Category < metrics[j].Category
		}
		return metrics[i].ReasonCode < metrics[j].ReasonCode
	})

	if len(metrics) > topReasonLimit {
		metrics = metrics[:topReasonLimit]
	}

	return metrics
}

// DenialTrend groups denials in the window by (month, category), ordered by
// month descending then total denied amount descending.
func DenialTrend(denials []*entities.Denial, window TimeWindow) []DenialTrendMetric {
	type trendKey struct {
		month    time.Time
		category entities.DenialCategory
	}
	type accumulator struct {
		count  int
		denied float64
	}

	cells := make(map[trendKey]*accumulator)

	for _, d := range denials {
		if !window.Contains(d.DenialDate) {
			continue
		}
		key := trendKey{month: MonthStart(d.DenialDate), category: d.Category}
		acc, ok := cells[key]
		if !ok {
			acc = &accumulator{}
			cells[key] = acc
		}
		acc.count++
		acc.denied += d.DeniedAmount
	}

	metrics := make([]DenialTrendMetric, 0, len(cells))
	for key, acc := range cells {
		metrics = append(metrics, DenialTrendMetric{
			Month:       key.month,
			Category:    key.category,
			DenialCount: acc.count,
			TotalDenied: Round2(acc.denied),
			AvgDenied:   Round2(acc.denied / float64(acc.count)),
		})
	}

	sort.Slice(metrics, func(i, j int) bool {
		if !metrics[i].Month.Equal(metrics[j].Month) {
			return metrics[i].Month.After(metrics[j].Month)
		}
		if metrics[i].TotalDenied != metrics[j].TotalDenied {
			return metrics[i].TotalDenied > metrics[j].TotalDenied
		}
		return metrics[i].Category < metrics[j].Category
	})

	return metrics
}
