package llm

import (
	"fmt"
	"strings"
)

// recommendationsTruncateAt bounds how much context goes into the shorter
// recommendations prompt.
const recommendationsTruncateAt = 2000

// ResumePrompt builds the prompt for generating a tailored resume.
func ResumePrompt(jobDescription, resumeContent, additionalInstructions string) string {
	return fmt.Sprintf(`You are an expert resume writer. Based on the following information, create a tailored, professional resume that highlights the most relevant skills and experiences for this specific job.

**Job Description:**
%s

**Current Resume:**
%s

**Additional Instructions:**
%s

Please generate a professional, ATS-friendly resume that:
1. Highlights relevant skills and experiences matching the job requirements
2. Uses action verbs and quantifiable achievements
3. Is properly formatted with clear sections (Summary, Experience, Education, Skills)
4. Emphasizes keywords from the job description
5. Maintains honesty while presenting information in the best light

Format the resume in a clean, professional manner.`,
		jobDescription, resumeContent, orNone(additionalInstructions))
}

// CoverLetterPrompt builds the prompt for generating a tailored cover letter.
func CoverLetterPrompt(jobDescription, resumeContent, additionalInstructions string) string {
	return fmt.Sprintf(`You are an expert cover letter writer. Based on the following information, create a compelling, professional cover letter that demonstrates enthusiasm for the position and highlights why the candidate is a perfect fit.

**Job Description:**
%s

**Candidate's Resume/Background:**
%s

**Additional Instructions:**
%s

Please generate a professional cover letter that:
1. Opens with a strong, engaging introduction
2. Clearly explains why the candidate is interested in this specific role and company
3. Highlights 2-3 key achievements or skills that match the job requirements
4. Shows genuine enthusiasm and cultural fit
5. Closes with a confident call to action
6. Is concise (3-4 paragraphs, fitting on one page)

Format the cover letter professionally with proper business letter structure.`,
		jobDescription, resumeContent, orNone(additionalInstructions))
}

// RecommendationsPrompt builds the shorter secondary prompt asking for
// resume-improvement recommendations. Inputs are truncated so this pass stays
// cheap relative to full generation.
func RecommendationsPrompt(jobDescription, resumeContent string) string {
	return fmt.Sprintf(`Based on the job description and the candidate's current resume, provide 3-5 specific, actionable recommendations for improving the resume to better match this job opportunity.

**Job Description:**
%s...

**Current Resume:**
%s...

Provide clear, actionable recommendations in a concise format.`,
		truncate(jobDescription, recommendationsTruncateAt),
		truncate(resumeContent, recommendationsTruncateAt))
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None"
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
