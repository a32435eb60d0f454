// Package company derives a company name from a job posting URL or, failing
// that, from the opening of the job description.
package company

import (
	"regexp"
	"strings"
)

// DefaultName is used when neither the URL nor the description yields a name.
const DefaultName = "Company"

// descriptionScanLimit bounds how much of the description is pattern-matched.
const descriptionScanLimit = 500

var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`linkedin\.com/company/([^/]+)`),
	regexp.MustCompile(`jobs\.([^./]+)\.`),
	regexp.MustCompile(`careers\.([^./]+)\.`),
	regexp.MustCompile(`([^./]+)\.com/careers`),
	regexp.MustCompile(`([^./]+)\.com/jobs`),
}

var descriptionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:at|join|for)\s+([A-Z][a-zA-Z\s&]+?)(?:\s+is|\s+are|\s+-|\s+in|\.|,)`),
	regexp.MustCompile(`([A-Z][a-zA-Z\s&]+?)\s+(?:is hiring|seeks|looking for)`),
	regexp.MustCompile(`Company:\s*([A-Z][a-zA-Z\s&]+)`),
}

// Extract tries the URL patterns first, then the description patterns, and
// falls back to DefaultName. The result is computed once per job and then
// persisted; it is never recomputed after the first success.
func Extract(jobDescription, jobURL string) string {
	if name := FromURL(jobURL); name != "" {
		return name
	}
	if name := FromDescription(jobDescription); name != "" {
		return name
	}
	return DefaultName
}

// FromURL matches known job-board URL shapes. Qualifying slugs have hyphens
// replaced with spaces and are title-cased; matches of 3 characters or fewer
// are rejected as noise.
func FromURL(jobURL string) string {
	for _, pattern := range urlPatterns {
		m := pattern.FindStringSubmatch(jobURL)
		if m == nil {
			continue
		}
		name := titleCase(strings.ReplaceAll(m[1], "-", " "))
		if len(name) > 3 {
			return name
		}
	}
	return ""
}

// FromDescription scans the start of the description for phrases that
// typically introduce the employer.
func FromDescription(jobDescription string) string {
	head := jobDescription
	if len(head) > descriptionScanLimit {
		head = head[:descriptionScanLimit]
	}
	for _, pattern := range descriptionPatterns {
		m := pattern.FindStringSubmatch(head)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if len(name) > 3 && len(name) < 50 {
			return name
		}
	}
	return ""
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
