package scoring

import "sort"

// Aggregate helpers used by the statistics recomputation. Ratios with a zero
// denominator yield 0; distinguishing "no data" from "zero score" is the
// caller's job (the stats rows keep nullable means for that).

func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return Round2(sum / float64(len(values)))
}

// Median sorts a copy of the values and returns the midpoint: the middle
// element for odd counts, the average of the two middle elements for even.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return Round2(sorted[mid])
	}
	return Round2((sorted[mid-1] + sorted[mid]) / 2)
}

func SuccessRate(successes, attempts int) float64 {
	if attempts == 0 {
		return 0
	}
	return Round2(float64(successes) / float64(attempts) * 100)
}

func AbandonRate(abandoned, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round2(float64(abandoned) / float64(total) * 100)
}

// QuestionDifficulty tiers a question by its success rate.
func QuestionDifficulty(successRate float64) string {
	switch {
	case successRate >= 80:
		return "Easy"
	case successRate >= 60:
		return "Medium"
	case successRate >= 40:
		return "Hard"
	default:
		return "Very Hard"
	}
}

// QuestionnaireDifficulty tiers a questionnaire by its mean score out of 100.
// The boundaries differ from the per-question tiers on purpose: a whole
// questionnaire averaging 65 is already middling.
func QuestionnaireDifficulty(meanScore float64) string {
	switch {
	case meanScore >= 80:
		return "Easy"
	case meanScore >= 65:
		return "Medium"
	case meanScore >= 50:
		return "Hard"
	default:
		return "Very Hard"
	}
}

// TraineeLevel tiers a trainee by their mean 20-point grade.
func TraineeLevel(meanGrade20 float64) string {
	switch {
	case meanGrade20 >= 16:
		return "Expert"
	case meanGrade20 >= 14:
		return "Advanced"
	case meanGrade20 >= 12:
		return "Intermediate"
	case meanGrade20 >= 10:
		return "Novice"
	default:
		return "Beginner"
	}
}
