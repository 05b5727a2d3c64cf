package usecase

import (
	"math"
	"sort"

	"FactorLab/internal/domain/models"
	drepo "FactorLab/internal/domain/repository"
)

// AlignReturns inner-joins one asset's monthly returns with the canonical
// factor table on the month key and drops rows with a missing required
// value. Momentum is carried as NaN for months the momentum series does not
// cover; it is not part of the dropna set here. Returns ErrNoOverlap when
// the aligned sample is empty.
func AlignReturns(returns []models.ReturnRecord, table *models.FactorTable) (*models.AlignedSample, error) {
	byYM := make(map[string]models.FactorRecord, len(table.Rows))
	for _, rec := range table.Rows {
		byYM[rec.YM] = rec
	}

	sorted := make([]models.ReturnRecord, len(returns))
	copy(sorted, returns)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].YM < sorted[j].YM })

	sample := &models.AlignedSample{HasMomentum: table.HasMomentum}
	for _, r := range sorted {
		rec, ok := byYM[r.YM]
		if !ok || math.IsNaN(r.Mret) {
			continue
		}

		sample.YM = append(sample.YM, r.YM)
		sample.Mret = append(sample.Mret, r.Mret)
		sample.MktRF = append(sample.MktRF, rec.MktRF)
		sample.SMB = append(sample.SMB, rec.SMB)
		sample.HML = append(sample.HML, rec.HML)
		sample.RF = append(sample.RF, rec.RF)
		if table.HasMomentum {
			mom := math.NaN()
			if rec.Mom != nil {
				mom = *rec.Mom
			}
			sample.Mom = append(sample.Mom, mom)
		}
	}

	if sample.N() == 0 {
		return nil, drepo.ErrNoOverlap
	}
	return sample, nil
}
