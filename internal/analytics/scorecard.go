package analytics

import (
	"sort"

	"github.com/claimsight/revcycle-analytics/internal/domain/entities"
)

const (
	// payerScoreMinClaims is the statistical-significance floor for payer
	// scorecards.
	payerScoreMinClaims = 100

	// providerScoreMinClaims is the floor for provider scorecards, which run
	// over a shorter window.
	providerScoreMinClaims = 50
)

// ratingInput feeds the performance rating ladder.
type ratingInput struct {
	reimbursementRate *float64
	denialRate        *float64
	avgDaysToPayment  *float64
}

// ratingRules is the four-tier ladder, evaluated first-match-wins. Bounds
// are inclusive: a payer sitting exactly on 95/5/30 rates Excellent.
var ratingRules = []Rule[ratingInput]{
	{
		Label: "Excellent",
		Match: func(in ratingInput) bool {
			return atLeast(in.reimbursementRate, 95) && atMost(in.denialRate, 5) && atMost(in.avgDaysToPayment, 30)
		},
	},
	{
		Label: "Good",
		Match: func(in ratingInput) bool {
			return atLeast(in.reimbursementRate, 85) && atMost(in.denialRate, 10)
		},
	},
	{
		Label: "Fair",
		Match: func(in ratingInput) bool {
			return atLeast(in.reimbursementRate, 75) && atMost(in.denialRate, 15)
		},
	},
}

// PerformanceRating maps scorecard rates to a four-tier label. A nil rate
// fails every threshold it participates in, so a payer with no allowed
// amounts on file rates Poor rather than faulting.
func PerformanceRating(reimbursementRate, denialRate, avgDaysToPayment *float64) string {
	return FirstMatch(ratingRules, ratingInput{
		reimbursementRate: reimbursementRate,
		denialRate:        denialRate,
		avgDaysToPayment:  avgDaysToPayment,
	}, "Poor")
}

func atLeast(v *float64, bound float64) bool {
	return v != nil && *v >= bound
}

func atMost(v *float64, bound float64) bool {
	return v != nil && *v <= bound
}

// claimGroupStats accumulates the volume/financial/timing aggregates shared
// by the payer and provider scorecards.
type claimGroupStats struct {
	claims        int
	patients      map[string]struct{}
	charges       float64
	allowed       float64
	payments      float64
	denied        int
	deniedAmount  float64
	clean         int
	paymentDays   int
	paymentCount  int
	submitDays    int
	submitCount   int
}

func newClaimGroupStats() *claimGroupStats {
	return &claimGroupStats{patients: make(map[string]struct{})}
}

func (s *claimGroupStats) observe(c *entities.Claim, deniedClaimIDs map[string]struct{}, encountersByID map[string]*entities.Encounter) {
	s.claims++
	s.patients[c.PatientID] = struct{}{}
	s.charges += c.ChargeAmount
	if c.AllowedAmount != nil {
		s.allowed += *c.AllowedAmount
	}
	if c.PaidAmount != nil {
		s.payments += *c.PaidAmount
	}

	if c.Status == entities.ClaimStatusDenied {
		s.denied++
		s.deniedAmount += c.ChargeAmount
	}

	// Clean claim: paid and never denied. Status alone is not enough since a
	// claim can be denied, appealed and later paid, so membership is checked
	// against the denial collection.
	if c.Status == entities.ClaimStatusPaid {
		if _, everDenied := deniedClaimIDs[c.ID]; !everDenied {
			s.clean++
		}
	}

	if c.PaymentDate != nil && c.SubmissionDate != nil {
		s.paymentDays += DaysBetween(*c.SubmissionDate, *c.PaymentDate)
		s.paymentCount++
	}

	if encountersByID != nil && c.EncounterID != nil && c.SubmissionDate != nil {
		if enc, ok := encountersByID[*c.EncounterID]; ok {
			s.submitDays += DaysBetween(enc.EncounterDate, *c.SubmissionDate)
			s.submitCount++
		}
	}
}

func (s *claimGroupStats) avgDaysToPayment() *float64 {
	if s.paymentCount == 0 {
		return nil
	}
	v := Round(float64(s.paymentDays)/float64(s.paymentCount), 1)
	return &v
}

func (s *claimGroupStats) avgDaysToSubmit() *float64 {
	if s.submitCount == 0 {
		return nil
	}
	v := Round(float64(s.submitDays)/float64(s.submitCount), 1)
	return &v
}

// deniedClaimSet precomputes the set of claim IDs that have at least one
// denial on record, for O(1) anti-join membership tests.
func deniedClaimSet(denials []*entities.Denial) map[string]struct{} {
	set := make(map[string]struct{}, len(denials))
	for _, d := range denials {
		set[d.ClaimID] = struct{}{}
	}
	return set
}

// PayerScorecards aggregates claims submitted inside the window per payer
// and applies the four-tier performance rating. Claims whose payer is
// missing from the payer collection are excluded (the caller logs them as
// data-quality signals). Payers below the claim floor are dropped, and the
// result is ordered by total payments descending.
func PayerScorecards(claims []*entities.Claim, denials []*entities.Denial, payers []*entities.Payer, window TimeWindow) []PayerScorecard {
	payersByID := make(map[string]*entities.Payer, len(payers))
	for _, p := range payers {
		payersByID[p.ID] = p
	}
	deniedIDs := deniedClaimSet(denials)

	groups := make(map[string]*claimGroupStats)
	for _, c := range claims {
		if c.SubmissionDate == nil || !window.Contains(*c.SubmissionDate) {
			continue
		}
		if _, ok := payersByID[c.PayerID]; !ok {
			continue
		}
		stats, ok := groups[c.PayerID]
		if !ok {
			stats = newClaimGroupStats()
			groups[c.PayerID] = stats
		}
		stats.observe(c, deniedIDs, nil)
	}

	cards := make([]PayerScorecard, 0, len(groups))
	for payerID, stats := range groups {
		if stats.claims < payerScoreMinClaims {
			continue
		}
		payer := payersByID[payerID]
		reimbursement := SafePercent(stats.payments, stats.allowed, 2)
		denialRate := SafePercent(float64(stats.denied), float64(stats.claims), 2)
		avgDays := stats.avgDaysToPayment()

		cards = append(cards, PayerScorecard{
			PayerID:           payerID,
			PayerName:         payer.Name,
			PayerType:         payer.Type,
			TotalClaims:       stats.claims,
			TotalPatients:     len(stats.patients),
			TotalCharges:      Round2(stats.charges),
			TotalAllowed:      Round2(stats.allowed),
			TotalPayments:     Round2(stats.payments),
			DeniedClaims:      stats.denied,
			DeniedAmount:      Round2(stats.deniedAmount),
			CleanClaims:       stats.clean,
			AvgDaysToPayment:  avgDays,
			ReimbursementRate: reimbursement,
			DenialRate:        denialRate,
			CleanClaimRate:    SafePercent(float64(stats.clean), float64(stats.claims), 2),
			PerformanceRating: PerformanceRating(reimbursement, denialRate, avgDays),
		})
	}

	sort.Slice(cards, func(i, j int) bool {
		if cards[i].TotalPayments != cards[j].TotalPayments {
			return cards[i].TotalPayments > cards[j].TotalPayments
		}
		return cards[i].PayerName < cards[j].PayerName
	})

	return cards
}

// ProviderScorecards mirrors the payer scorecard per provider over a
// shorter window, adding average days from encounter to submission via a
// left join to encounters. No tier rating is assigned.
func ProviderScorecards(claims []*entities.Claim, denials []*entities.Denial, encounters []*entities.Encounter, window TimeWindow) []ProviderScorecard {
	encountersByID := make(map[string]*entities.Encounter, len(encounters))
	for _, e := range encounters {
		encountersByID[e.ID] = e
	}
	deniedIDs := deniedClaimSet(denials)

	groups := make(map[string]*claimGroupStats)
	for _, c := range claims {
		if c.SubmissionDate == nil || !window.Contains(*c.SubmissionDate) {
			continue
		}
		stats, ok := groups[c.ProviderID]
		if !ok {
			stats = newClaimGroupStats()
			groups[c.ProviderID] = stats
		}
		stats.observe(c, deniedIDs, encountersByID)
	}

	cards := make([]ProviderScorecard, 0, len(groups))
	for providerID, stats := range groups {
		if stats.claims < providerScoreMinClaims {
			continue
		}
		cards = append(cards, ProviderScorecard{
			ProviderID:        providerID,
			TotalClaims:       stats.claims,
			TotalPatients:     len(stats.patients),
			TotalCharges:      Round2(stats.charges),
			TotalAllowed:      Round2(stats.allowed),
			TotalPayments:     Round2(stats.payments),
			DeniedClaims:      stats.denied,
			DeniedAmount:      Round2(stats.deniedAmount),
			CleanClaims:       stats.clean,
			AvgDaysToPayment:  stats.avgDaysToPayment(),
			AvgDaysToSubmit:   stats.avgDaysToSubmit(),
			ReimbursementRate: SafePercent(stats.payments, stats.allowed, 2),
			DenialRate:        SafePercent(float64(stats.denied), float64(stats.claims), 2),
			CleanClaimRate:    SafePercent(float64(stats.clean), float64(stats.claims), 2),
		})
	}

	sort.Slice(cards, func(i, j int) bool {
		if cards[i].TotalPayments != cards[j].TotalPayments {
			return cards[i].TotalPayments > cards[j].TotalPayments
		}
		return cards[i].ProviderID < cards[j].ProviderID
	})

	return cards
}
