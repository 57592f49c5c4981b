package scoring

// AttemptBreakdown is the detailed view of one attempt: how many questions
// were fully, partially or not at all correct, plus pacing figures.
type AttemptBreakdown struct {
	CorrectQuestions   int     `json:"correctQuestions"`
	PartialQuestions   int     `json:"partialQuestions"`
	IncorrectQuestions int     `json:"incorrectQuestions"`
	SuccessRate        float64 `json:"successRate"`
	AvgTimePerQuestion float64 `json:"avgTimePerQuestion"`
	TimeEfficiency     float64 `json:"timeEfficiency"`
}

// Thresholds behind the textual recommendations and badges. Kept as named
// constants so the rules read like the policy they encode.
const (
	lowSuccessRate     = 50.0
	slowAnswerSeconds  = 120.0
	failingGrade       = 10.0
	perfectForBadge    = 3
	persistentAttempts = 10
	quickAvgSeconds    = 30.0
	quickMinAttempts   = 5
)

// Recommendations derives the advice list for a finished attempt. Always
// returns at least one entry. grade20 is nil while the attempt is ungraded.
func Recommendations(b AttemptBreakdown, grade20 *float64) []string {
	var recs []string

	if b.SuccessRate < lowSuccessRate {
		recs = append(recs, "Review the fundamentals before retrying")
	}
	if b.AvgTimePerQuestion > slowAnswerSeconds {
		recs = append(recs, "Work on time management")
	}
	if b.PartialQuestions > b.CorrectQuestions {
		recs = append(recs, "Pay closer attention to multiple-choice questions")
	}
	if grade20 != nil && *grade20 < failingGrade {
		recs = append(recs, "Consider complementary training")
	}

	if len(recs) == 0 {
		recs = append(recs, "Excellent work, keep it up")
	}
	return recs
}

// PerformanceTier labels a completed attempt by its 20-point grade.
func PerformanceTier(grade20 *float64) string {
	if grade20 == nil {
		return "Not graded"
	}
	switch {
	case *grade20 >= 16:
		return "Excellent"
	case *grade20 >= 14:
		return "Very Good"
	case *grade20 >= 12:
		return "Good"
	case *grade20 >= 10:
		return "Fairly Good"
	default:
		return "Insufficient"
	}
}

// Badges evaluates the count predicates over a trainee's completed history.
// Deterministic and recomputed on every call; never persisted.
func Badges(completedAttempts, perfectAttempts int, avgTimePerQuestion float64) []string {
	var badges []string

	if perfectAttempts >= perfectForBadge {
		badges = append(badges, "Perfectionist")
	}
	if completedAttempts >= persistentAttempts {
		badges = append(badges, "Persistent")
	}
	if completedAttempts >= quickMinAttempts && avgTimePerQuestion > 0 && avgTimePerQuestion <= quickAvgSeconds {
		badges = append(badges, "Quick Thinker")
	}

	return badges
}
