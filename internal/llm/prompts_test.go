package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResumePrompt(t *testing.T) {
	p := ResumePrompt("JOB DESC", "RESUME BODY", "Focus on Go experience")

	assert.Contains(t, p, "expert resume writer")
	assert.Contains(t, p, "JOB DESC")
	assert.Contains(t, p, "RESUME BODY")
	assert.Contains(t, p, "Focus on Go experience")
	assert.Contains(t, p, "ATS-friendly")
}

func TestResumePrompt_NoInstructions(t *testing.T) {
	p := ResumePrompt("JOB DESC", "RESUME BODY", "  ")
	assert.Contains(t, p, "**Additional Instructions:**\nNone")
}

func TestCoverLetterPrompt(t *testing.T) {
	p := CoverLetterPrompt("JOB DESC", "RESUME BODY", "")

	assert.Contains(t, p, "expert cover letter writer")
	assert.Contains(t, p, "JOB DESC")
	assert.Contains(t, p, "RESUME BODY")
	assert.Contains(t, p, "business letter structure")
}

func TestRecommendationsPrompt_TruncatesLongInputs(t *testing.T) {
	longDesc := strings.Repeat("d", 3000)
	longResume := strings.Repeat("r", 3000)

	p := RecommendationsPrompt(longDesc, longResume)

	assert.Contains(t, p, "actionable recommendations")
	assert.NotContains(t, p, strings.Repeat("d", 2001))
	assert.NotContains(t, p, strings.Repeat("r", 2001))
	assert.Contains(t, p, strings.Repeat("d", 2000))
}

func TestRecommendationsPrompt_ShortInputsUntouched(t *testing.T) {
	p := RecommendationsPrompt("short description", "short resume")
	assert.Contains(t, p, "short description")
	assert.Contains(t, p, "short resume")
}
