package scoring

import "testing"

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func gradePtr(v float64) *float64 { return &v }

func TestRecommendations(t *testing.T) {
	tests := []struct {
		name      string
		breakdown AttemptBreakdown
		grade     *float64
		want      []string
		notWant   []string
	}{
		{
			name:      "low success rate",
			breakdown: AttemptBreakdown{SuccessRate: 40},
			grade:     gradePtr(12),
			want:      []string{"Review the fundamentals before retrying"},
		},
		{
			name:      "slow pacing",
			breakdown: AttemptBreakdown{SuccessRate: 80, AvgTimePerQuestion: 150},
			grade:     gradePtr(14),
			want:      []string{"Work on time management"},
			notWant:   []string{"Review the fundamentals before retrying"},
		},
		{
			name:      "more partial than correct",
			breakdown: AttemptBreakdown{CorrectQuestions: 1, PartialQuestions: 3, SuccessRate: 60},
			grade:     gradePtr(12),
			want:      []string{"Pay closer attention to multiple-choice questions"},
		},
		{
			name:      "failing grade",
			breakdown: AttemptBreakdown{SuccessRate: 55},
			grade:     gradePtr(8),
			want:      []string{"Consider complementary training"},
		},
		{
			name:      "clean run gets encouragement",
			breakdown: AttemptBreakdown{CorrectQuestions: 5, SuccessRate: 100, AvgTimePerQuestion: 30},
			grade:     gradePtr(18),
			want:      []string{"Excellent work, keep it up"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommendations(tt.breakdown, tt.grade)
			if len(got) == 0 {
				t.Fatal("Recommendations returned an empty list")
			}
			for _, want := range tt.want {
				if !contains(got, want) {
					t.Errorf("missing %q in %v", want, got)
				}
			}
			for _, notWant := range tt.notWant {
				if contains(got, notWant) {
					t.Errorf("unexpected %q in %v", notWant, got)
				}
			}
		})
	}
}

func TestRecommendationsNilGrade(t *testing.T) {
	got := Recommendations(AttemptBreakdown{SuccessRate: 90}, nil)
	if contains(got, "Consider complementary training") {
		t.Error("nil grade must not trigger the failing-grade advice")
	}
}

func TestPerformanceTier(t *testing.T) {
	tests := []struct {
		grade *float64
		want  string
	}{
		{nil, "Not graded"},
		{gradePtr(17), "Excellent"},
		{gradePtr(16), "Excellent"},
		{gradePtr(15), "Very Good"},
		{gradePtr(13), "Good"},
		{gradePtr(11), "Fairly Good"},
		{gradePtr(9), "Insufficient"},
	}
	for _, tt := range tests {
		if got := PerformanceTier(tt.grade); got != tt.want {
			t.Errorf("PerformanceTier(%v) = %q, want %q", tt.grade, got, tt.want)
		}
	}
}

func TestBadges(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		perfect   int
		avgTime   float64
		want      []string
		notWant   []string
	}{
		{"three perfects earn perfectionist", 3, 3, 60, []string{"Perfectionist"}, nil},
		{"two perfects do not", 4, 2, 60, nil, []string{"Perfectionist"}},
		{"ten completions earn persistent", 10, 0, 60, []string{"Persistent"}, nil},
		{"fast and steady earns quick thinker", 5, 0, 25, []string{"Quick Thinker"}, nil},
		{"fast but too few attempts", 3, 0, 25, nil, []string{"Quick Thinker"}},
		{"no time recorded is not quick", 6, 0, 0, nil, []string{"Quick Thinker"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Badges(tt.completed, tt.perfect, tt.avgTime)
			for _, want := range tt.want {
				if !contains(got, want) {
					t.Errorf("missing %q in %v", want, got)
				}
			}
			for _, notWant := range tt.notWant {
				if contains(got, notWant) {
					t.Errorf("unexpected %q in %v", notWant, got)
				}
			}
		})
	}
}
