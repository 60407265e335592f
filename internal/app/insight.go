package app

import (
	"fmt"
	"math/rand"

	"github.com/user/planningpoker/internal/domain"
)

type SimilarStory struct {
	Name     string `json:"name"`
	Estimate int    `json:"estimate"`
	Accuracy int    `json:"accuracy"`
}

type Insight struct {
	SuggestedEstimate int            `json:"suggestedEstimate"`
	Confidence        int            `json:"confidence"`
	Reasoning         string         `json:"reasoning"`
	SimilarStories    []SimilarStory `json:"similarStories"`
}

// GenerateInsight returns a randomized suggestion from the scale.
// The content is demo filler and carries no contract beyond its shape.
func GenerateInsight(storyDescription string) Insight {
	suggested := domain.Scale[rand.Intn(len(domain.Scale))]
	confidence := rand.Intn(20) + 75

	complexity := "high"
	switch {
	case suggested <= 3:
		complexity = "low"
	case suggested <= 8:
		complexity = "medium"
	}

	second := suggested - 1
	if suggested == 1 {
		second = 2
	}
	third := suggested + 1
	if suggested == 21 {
		third = 13
	} else if suggested > 8 {
		third = suggested + 8
	}

	return Insight{
		SuggestedEstimate: suggested,
		Confidence:        confidence,
		Reasoning: fmt.Sprintf(
			"Based on %d similar stories, this task appears to have %s complexity with clear acceptance criteria.",
			rand.Intn(50)+10, complexity),
		SimilarStories: []SimilarStory{
			{Name: "User authentication flow", Estimate: suggested, Accuracy: rand.Intn(15) + 85},
			{Name: "Payment gateway integration", Estimate: second, Accuracy: rand.Intn(15) + 80},
			{Name: "Dashboard analytics panel", Estimate: third, Accuracy: rand.Intn(15) + 82},
		},
	}
}
