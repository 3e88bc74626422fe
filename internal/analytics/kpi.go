package analytics

import "time"

// ExecutiveKPIs composes the funnel and aging outputs into month-to-date vs
// prior-calendar-month deltas. It consumes calculator outputs rather than
// re-deriving them, keeping the dependency one-way.
//
// DaysInAR here annualizes the partial month's collections to a run-rate
// (total_ar / ((mtd_collections * 12) / 365)). It is a deliberate
// approximation and differs from the trailing-12-month figure on
// AgingReport; both are exposed.
func ExecutiveKPIs(funnel []FunnelMetric, aging *AgingReport, asOf time.Time) *ExecutiveKPI {
	currentMonth := MonthStart(asOf)
	priorMonth := currentMonth.AddDate(0, -1, 0)

	kpi := &ExecutiveKPI{AsOf: asOf}

	for i := range funnel {
		switch {
		case funnel[i].Month.Equal(currentMonth):
			kpi.MTDClaimVolume = funnel[i].SubmittedClaims
			kpi.MTDCollections = funnel[i].TotalPayments
			kpi.MTDDenialRate = funnel[i].DenialRate
		case funnel[i].Month.Equal(priorMonth):
			kpi.PriorMonthClaimVolume = funnel[i].SubmittedClaims
			kpi.PriorMonthCollections = funnel[i].TotalPayments
		}
	}

	kpi.ClaimVolumeChange = SafePercent(
		float64(kpi.MTDClaimVolume-kpi.PriorMonthClaimVolume),
		float64(kpi.PriorMonthClaimVolume), 2)
	kpi.CollectionsChange = SafePercent(
		kpi.MTDCollections-kpi.PriorMonthCollections,
		kpi.PriorMonthCollections, 2)

	if aging != nil {
		kpi.TotalAR = aging.TotalOpenAR
	}
	if ratio := SafeRatio(kpi.TotalAR, kpi.MTDCollections*12/365); ratio != nil {
		v := Round2(*ratio)
		kpi.DaysInAR = &v
	}

	return kpi
}
