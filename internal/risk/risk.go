// Package risk computes the incident risk score: the product of likelihood,
// result and exposure factors, bucketed into a recommendation.
package risk

// Factor is one selectable option of a risk dimension.
type Factor struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}

// Level is the qualitative bucket of a score.
type Level string

const (
	LevelNone     Level = ""
	LevelLow      Level = "low"
	LevelModerate Level = "moderate"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// MaxScore is the highest reachable score (5 x 6 x 6).
const MaxScore = 180

var (
	Likelihood = []Factor{
		{"unlikely", 1}, {"possible", 2}, {"likely", 3}, {"very-likely", 4}, {"almost-certain", 5},
	}
	Result = []Factor{
		{"first-aid", 1}, {"medical-treatment", 2}, {"serious-lti", 3},
		{"disability", 4}, {"fatality", 5}, {"multiple-fatalities", 6},
	}
	Exposure = []Factor{
		{"hasnt-happened", 1}, {"rarely", 2}, {"sometimes", 3},
		{"often", 4}, {"very-often", 5}, {"constant", 6},
	}
)

func valueOf(table []Factor, key string) int {
	for _, f := range table {
		if f.Key == key {
			return f.Value
		}
	}
	return 0
}

// Score multiplies the three factor values. Any unknown or empty key yields 0.
func Score(likelihood, result, exposure string) int {
	l, r, e := valueOf(Likelihood, likelihood), valueOf(Result, result), valueOf(Exposure, exposure)
	if l == 0 || r == 0 || e == 0 {
		return 0
	}
	return l * r * e
}

// Classify returns the bucket for score. Upper bounds are inclusive.
func Classify(score int) Level {
	switch {
	case score <= 0:
		return LevelNone
	case score <= 24:
		return LevelLow
	case score <= 60:
		return LevelModerate
	case score <= 120:
		return LevelHigh
	default:
		return LevelCritical
	}
}

var recommendations = map[Level]string{
	LevelNone:     "select all factors to calculate",
	LevelLow:      "Low: monitor and document",
	LevelModerate: "Moderate: mitigate and track actions",
	LevelHigh:     "High: escalate and implement CAPA",
	LevelCritical: "Critical: stop work, immediate action and escalation",
}

// Recommend returns the recommendation text for score.
func Recommend(score int) string {
	return recommendations[Classify(score)]
}

// Assessment is a computed score with its bucket.
type Assessment struct {
	Score          int    `json:"score"`
	Level          Level  `json:"level"`
	Recommendation string `json:"recommendation"`
}

// Assess scores the three factor keys.
func Assess(likelihood, result, exposure string) Assessment {
	s := Score(likelihood, result, exposure)
	return Assessment{Score: s, Level: Classify(s), Recommendation: Recommend(s)}
}
