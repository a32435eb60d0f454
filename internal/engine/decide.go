package engine

import "github.com/jordan/resume-pilot/internal/db"

// WorkPlan is the per-job outcome of combining the monitor config's policy
// toggles with the row's own request flags and completion state.
type WorkPlan struct {
	// GenerateResume asks for a newly tailored resume document.
	GenerateResume bool
	// RecommendationsOnly satisfies the resume request with a tailoring
	// recommendations pass against the unchanged resume.
	RecommendationsOnly bool
	// GenerateCoverLetter asks for a cover letter.
	GenerateCoverLetter bool
}

// Empty reports whether the plan calls for no generation at all.
func (p WorkPlan) Empty() bool {
	return !p.GenerateResume && !p.RecommendationsOnly && !p.GenerateCoverLetter
}

// DecideWork computes what generation a job still needs. Config toggles gate
// the job's own flags: a resume is only considered when the config allows
// resume generation, and a cover letter when either the config forces cover
// letters or the row asked for one. Work already marked complete is not
// redone unless force is set.
func DecideWork(cfg *db.MonitorConfig, job *db.JobApplication, force bool) WorkPlan {
	var p WorkPlan

	wantResume := cfg.GenerateNewResume && job.GenerateResume
	wantCover := cfg.AlwaysGenerateCoverLetter || job.GenerateCoverLetter

	if wantResume && (force || !job.ResumeGenerated) {
		if job.GenerateNewResume {
			p.GenerateResume = true
		} else {
			p.RecommendationsOnly = true
		}
	}
	if wantCover && (force || !job.CoverLetterGenerated) {
		p.GenerateCoverLetter = true
	}
	return p
}

// StatusFor derives the job status from its completion flags. Both artifacts
// done means completed, exactly one means processing, and neither leaves the
// previous status untouched.
func StatusFor(resumeDone, coverDone bool, prev string) string {
	switch {
	case resumeDone && coverDone:
		return db.StatusCompleted
	case resumeDone || coverDone:
		return db.StatusProcessing
	default:
		return prev
	}
}
