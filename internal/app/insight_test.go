package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/planningpoker/internal/domain"
)

func TestGenerateInsightShape(t *testing.T) {
	for i := 0; i < 50; i++ {
		insight := GenerateInsight("Implement checkout flow")

		assert.Contains(t, domain.Scale, insight.SuggestedEstimate)
		assert.GreaterOrEqual(t, insight.Confidence, 75)
		assert.Less(t, insight.Confidence, 95)
		assert.NotEmpty(t, insight.Reasoning)
		require.Len(t, insight.SimilarStories, 3)
		for _, story := range insight.SimilarStories {
			assert.NotEmpty(t, story.Name)
			assert.Positive(t, story.Estimate)
			assert.GreaterOrEqual(t, story.Accuracy, 80)
		}
	}
}
