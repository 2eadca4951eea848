package analytics

import "github.com/alucut/alucut/internal/model"

// Quality score composition. Efficiency dominates; waste skew and
// tolerance pressure modulate it.
const (
	qualityEfficiencyWeight = 0.6
	qualitySkewWeight       = 0.25
	qualityToleranceWeight  = 0.15
)

// Quality computes the bounded [0,1] composite score for a set of
// annotated cuts: material efficiency, the fraction of bars with
// large/excessive remainders, and the fraction of segments squeezed to
// their tolerance limits.
func Quality(cuts []model.Cut) model.QualityReport {
	if len(cuts) == 0 {
		return model.QualityReport{Score: 0, Grade: model.GradePoor}
	}

	var totalStock, used float64
	skewed := 0
	segments := 0
	squeezed := 0
	for _, c := range cuts {
		totalStock += c.Stock.StockLength
		used += c.UsedLength
		if c.WasteCategory == model.WasteLarge || c.WasteCategory == model.WasteExcessive {
			skewed++
		}
		for _, s := range c.Segments {
			segments++
			if s.Squeezed {
				squeezed++
			}
		}
	}

	efficiency := 0.0
	if totalStock > 0 {
		efficiency = used / totalStock
	}
	skewFrac := float64(skewed) / float64(len(cuts))
	squeezeFrac := 0.0
	if segments > 0 {
		squeezeFrac = float64(squeezed) / float64(segments)
	}

	score := qualityEfficiencyWeight*efficiency +
		qualitySkewWeight*(1-skewFrac) +
		qualityToleranceWeight*(1-squeezeFrac)
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	return model.QualityReport{Score: score, Grade: gradeFor(score)}
}

func gradeFor(score float64) model.QualityGrade {
	switch {
	case score >= 0.9:
		return model.GradeExcellent
	case score >= 0.75:
		return model.GradeGood
	case score >= 0.55:
		return model.GradeAverage
	default:
		return model.GradePoor
	}
}
