// Package scoring implements the grading rules for questionnaire attempts:
// per-question scores over answer sets, attempt-level aggregates, rolling
// statistics helpers and the qualitative feedback rules. Everything here is
// pure; persistence of computed values belongs to the services.
package scoring

import "math"

// ScoreQuestion grades one answered question and returns a score in [0, 1].
//
// A single-correct-answer question is binary: the selection must equal the
// correct set exactly. With several correct answers, standard mode awards
// hits/total without penalising wrong extras (except that any extra forfeits
// the perfect 1.0), while penalty mode scores max(0, (hits-misses)/total).
// An empty correct set (authoring defect) or an empty selection scores 0.
func ScoreQuestion(correct, selected AnswerSet, penalty bool) float64 {
	if correct.IsEmpty() || selected.IsEmpty() {
		return 0
	}

	if correct.Len() == 1 {
		if selected.Equal(correct) {
			return 1
		}
		return 0
	}

	hits := selected.IntersectCount(correct)
	misses := selected.Len() - hits
	total := correct.Len()

	if penalty {
		score := float64(hits-misses) / float64(total)
		if score < 0 {
			return 0
		}
		return score
	}

	if hits == total && misses == 0 {
		return 1
	}
	if hits > 0 {
		return float64(hits) / float64(total)
	}
	return 0
}

// PercentScore converts the sum of per-question scores into the attempt score
// out of 100. An empty questionnaire yields 0, never an error.
func PercentScore(scoreSum float64, totalQuestions int) float64 {
	if totalQuestions == 0 {
		return 0
	}
	return Round2(scoreSum / float64(totalQuestions) * 100)
}

// GradeOn20 maps a percent score to the conventional 20-point grade.
func GradeOn20(percent float64) float64 {
	return Round2(percent / 100 * 20)
}

// AvgTimePerQuestion returns the mean response time in seconds, 0 when no
// question has been answered or no time was recorded.
func AvgTimePerQuestion(totalSeconds, answered int) float64 {
	if totalSeconds <= 0 || answered <= 0 {
		return 0
	}
	return Round2(float64(totalSeconds) / float64(answered))
}

// TimeEfficiency is the score-per-minute ratio of a single answer; higher is
// better. 0 when no time was recorded.
func TimeEfficiency(score float64, responseSeconds int) float64 {
	if responseSeconds <= 0 {
		return 0
	}
	return Round2(score / (float64(responseSeconds) / 60))
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
