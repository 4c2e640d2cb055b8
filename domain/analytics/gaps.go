package analytics

const (
	DirectionGirlsUnderperforming = "girls_underperforming"
	DirectionBoysUnderperforming  = "boys_underperforming"

	TestTypeTTest = "t-test"
	TestTypeANOVA = "ANOVA"
)

// GapReport holds the four independent gap analyses. Each list is empty
// when its column is absent or the sample minimum is not met.
type GapReport struct {
	GenderGaps   []GenderGap   `json:"gender_gaps"`
	ClassGaps    []ClassGap    `json:"class_gaps"`
	RegionalGaps []RegionalGap `json:"regional_gaps"`
	TermGaps     []TermGap     `json:"term_gaps"`
}

type GenderGap struct {
	Type                     string   `json:"type"`
	Label                    string   `json:"label"`
	MaleMean                 *float64 `json:"male_mean"`
	FemaleMean               *float64 `json:"female_mean"`
	Gap                      *float64 `json:"gap"`
	Direction                string   `json:"direction"`
	TStatistic               *float64 `json:"t_statistic"`
	PValue                   *float64 `json:"p_value"`
	EffectSize               *float64 `json:"effect_size"`
	EffectSizeLabel          string   `json:"effect_size_label"`
	CILower                  *float64 `json:"ci_lower"`
	CIUpper                  *float64 `json:"ci_upper"`
	MaleCount                int      `json:"male_count"`
	FemaleCount              int      `json:"female_count"`
	StatisticallySignificant bool     `json:"statistically_significant"`
	Subject                  string   `json:"subject,omitempty"`
}

type ClassGap struct {
	Type                     string      `json:"type"`
	TestType                 string      `json:"test_type"`
	BestClass                string      `json:"best_class"`
	BestMean                 *float64    `json:"best_mean"`
	WorstClass               string      `json:"worst_class"`
	WorstMean                *float64    `json:"worst_mean"`
	Gap                      *float64    `json:"gap"`
	Statistic                *float64    `json:"statistic"`
	PValue                   *float64    `json:"p_value"`
	EffectSize               *float64    `json:"effect_size"`
	StatisticallySignificant bool        `json:"statistically_significant"`
	ClassMeans               []ClassMean `json:"class_means"`
}

type RegionalGap struct {
	Type                     string       `json:"type"`
	TestType                 string       `json:"test_type"`
	BestRegion               string       `json:"best_region"`
	BestMean                 *float64     `json:"best_mean"`
	WorstRegion              string       `json:"worst_region"`
	WorstMean                *float64     `json:"worst_mean"`
	Gap                      *float64     `json:"gap"`
	Statistic                *float64     `json:"statistic"`
	PValue                   *float64     `json:"p_value"`
	StatisticallySignificant bool         `json:"statistically_significant"`
	RegionMeans              []RegionMean `json:"region_means"`
}

type TermGap struct {
	Type      string     `json:"type"`
	BestTerm  string     `json:"best_term"`
	BestMean  *float64   `json:"best_mean"`
	WorstTerm string     `json:"worst_term"`
	WorstMean *float64   `json:"worst_mean"`
	Gap       *float64   `json:"gap"`
	TermMeans []TermMean `json:"term_means"`
}
