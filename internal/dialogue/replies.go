package dialogue

import (
	"fmt"
	"strings"

	"github.com/careerkitsune/careerkitsune-ai/internal/domain"
	"github.com/careerkitsune/careerkitsune-ai/internal/interview"
	"github.com/careerkitsune/careerkitsune-ai/internal/utils"
)

const (
	someCompany = "a company"
	theCompany  = "the company"

	replyGreeting = "Hello! I'm CareerKitsune-AI, your job application assistant. How can I help you today?"
	replyFallback = "I'm not sure I understand. You can ask me to find jobs, apply to positions, update your resume, check application status, or help you with your job search in other ways."
	replyHelp     = "I'm CareerKitsune-AI, your job application assistant. I can help you find jobs, apply to positions, manage your resume, track application status, or help you prepare for interviews. Just tell me what you need!"

	replySearchLogin    = "To search for jobs, please log in first."
	replyApplyLogin     = "To apply for jobs, please log in first."
	replyPrepLogin      = "To use interview preparation features, please log in first."
	replySearchError    = "I encountered an error while searching for jobs. Please try again later."
	replyApplyError     = "I encountered an error while submitting your application. Please try again later."
	replyPrepError      = "I encountered an error while creating your interview preparation plan. Please try again later."
	replyNoMatchingJobs = "I couldn't find any jobs matching your skills. Try updating your skills in your profile or searching for different keywords."
	replyNoRecentJobs   = "I couldn't find any jobs at the moment. Please try again later."
	replyNoJobsLoaded   = "I don't have any jobs loaded. Try saying 'find jobs' first."
	replyApplyHint      = "I can help you apply for jobs. To apply for the current job, say 'Apply on my behalf'."

	replyResume       = "I can help you with your resume. Would you like to update it, review it, or use it for job applications?"
	replyResumeUpload = "To upload your resume, please click the 'Upload Resume' button in your profile section. Alternatively, you can say 'connect my LinkedIn' to import your profile data."
	replyLinkedIn     = "To connect your LinkedIn profile, please click the 'Connect LinkedIn' button in your profile section. This will allow me to import your work history, skills, and education."
	replyStatus       = "I can check the status of your applications. You can view all your applications in the 'My Applications' tab. Would you like me to give you details about a specific one?"

	replyAskDescription = `Got it! Do you have the job description you can share? If so, please paste it. If not, just say "no description".`
	replyPrepExit       = "I've exited interview preparation mode. You can access your plan anytime by asking about interview preparation. Good luck with your interview!"
	replyPrepReset      = "I've reset the interview preparation process. You can start again by mentioning your upcoming interview."
	replyAskCompanyMore = "I didn't catch that. What company is the interview with?"
	replyAskRoleMore    = "I didn't catch that. What role are you interviewing for?"
	replyAskDescMore    = `Please paste the job description, or say "no description".`
)

func replyPrepStarted(timeUntil string) string {
	return fmt.Sprintf("I see you have an interview coming up %s! I can help you prepare. First, what company is the interview with?", timeUntil)
}

func replyAskRoleFor(company string) string {
	return fmt.Sprintf("Great! You're interviewing at %s. What role are you interviewing for?", company)
}

func replySkillResults(job domain.Job, count int) string {
	return fmt.Sprintf("I found %d jobs matching your skills. Here's the first one: %s at %s. Would you like to hear more about this job?",
		count, job.Title, job.CompanyName(someCompany))
}

func replyRecentResults(job domain.Job) string {
	return fmt.Sprintf("Here are some recent job postings. The first one is: %s at %s. Would you like to hear more about this job?",
		job.Title, job.CompanyName(someCompany))
}

func replyNextJob(job domain.Job) string {
	return fmt.Sprintf("Here's another job: %s at %s. %s... Would you like to hear more about this job?",
		job.Title, job.CompanyName(someCompany), utils.Snippet(job.Description, 100))
}

func replyJobDetails(job domain.Job) string {
	location := job.Location
	if location == "" {
		location = "Not specified"
		if job.IsRemote {
			location = "Remote"
		}
	}

	lines := []string{
		fmt.Sprintf("Here are the details for %s at %s:", job.Title, job.CompanyName(someCompany)),
		fmt.Sprintf("Location: %s.", location),
		fmt.Sprintf("Job Type: %s.", job.JobType),
		fmt.Sprintf("Experience Level: %s.", job.ExperienceLevel),
		fmt.Sprintf("Description: %s...", utils.Snippet(job.Description, 200)),
		"Would you like to apply for this job?",
	}
	return strings.Join(lines, "\n")
}

func replyConfirmApply(p *PendingAction) string {
	return fmt.Sprintf(`I'm about to submit an application for the %s position at %s. Please confirm by saying "Yes, proceed" or provide additional instructions.`, p.Title, p.Company)
}

func replyApplied(p *PendingAction) string {
	return fmt.Sprintf("Great! I've submitted your application for the %s position at %s. You can track the status of your application in the 'My Applications' section of your dashboard.", p.Title, p.Company)
}

func bullets(items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "• "+item)
	}
	return strings.Join(lines, "\n")
}

func numbered(items []string) string {
	lines := make([]string, 0, len(items))
	for i, item := range items {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, item))
	}
	return strings.Join(lines, "\n")
}

func firstN(items []string, n int) []string {
	if len(items) < n {
		return items
	}
	return items[:n]
}

// PlanSummary renders the reply sent right after a plan is generated.
func PlanSummary(plan *interview.Plan) string {
	schedule := "No fixed schedule yet: tell me when the interview is to get a day-by-day plan."
	if len(plan.PreparationSchedule) > 0 {
		first := plan.PreparationSchedule[0]
		schedule = fmt.Sprintf("%s: %s...", first.Day, strings.Join(firstN(first.Tasks, 2), ", "))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I've created your interview preparation plan for the %s position at %s. Here's my honest assessment:\n\n", plan.Role, plan.CompanyName)
	fmt.Fprintf(&b, "Readiness Level: %s\n\n", plan.OverallAssessment.Readiness.Label())
	fmt.Fprintf(&b, "Key Focus Areas:\n%s\n\n", bullets(plan.OverallAssessment.FocusAreas))
	fmt.Fprintf(&b, "Technical Topics to Study:\n%s\n\n", bullets(firstN(plan.TechnicalTopics, 3)))
	fmt.Fprintf(&b, "Behavioral Topics to Prepare:\n%s\n\n", bullets(firstN(plan.BehavioralTopics, 3)))
	fmt.Fprintf(&b, "Company-Specific Insights:\n%s\n\n", plan.CompanySpecificInfo)
	fmt.Fprintf(&b, "Preparation Schedule:\n%s\n\n", schedule)
	fmt.Fprintf(&b, "Honest Feedback:\n%s\n\n", plan.OverallAssessment.HonestFeedback)
	b.WriteString("Would you like me to provide more details on any specific part of this plan?")
	return b.String()
}

func technicalView(prep *PrepState) string {
	topics := prep.Plan.TechnicalTopics
	return fmt.Sprintf("Here are all the technical topics you should focus on for your %s interview at %s:\n%s\n\nI recommend focusing especially on %s.",
		prep.Role, prep.CompanyName, numbered(topics), strings.Join(firstN(topics, 2), " and "))
}

func behavioralView(prep *PrepState) string {
	return fmt.Sprintf("Here are key behavioral topics to prepare for your interview:\n%s\n\nAnd here are some sample behavioral questions:\n%s\n\nRemember to use the STAR method (Situation, Task, Action, Result) when answering these questions.",
		numbered(prep.Plan.BehavioralTopics), numbered(prep.Plan.MockQuestions.Behavioral))
}

// ScheduleView renders every schedule entry with its tasks.
func ScheduleView(schedule []interview.ScheduleEntry) string {
	if len(schedule) == 0 {
		return "There is no day-by-day schedule because the interview date is unknown."
	}
	blocks := make([]string, 0, len(schedule))
	for _, entry := range schedule {
		blocks = append(blocks, entry.Day+":\n"+bullets(entry.Tasks))
	}
	return "Here's your detailed preparation schedule:\n" + strings.Join(blocks, "\n\n")
}

func mockView(prep *PrepState) string {
	return fmt.Sprintf("Here are some mock interview questions to practice:\n\nTechnical Questions:\n%s\n\nBehavioral Questions:\n%s\n\nI recommend practicing these out loud and recording yourself to review your answers.",
		numbered(prep.Plan.MockQuestions.Technical), numbered(prep.Plan.MockQuestions.Behavioral))
}

func skillGapView(prep *PrepState) string {
	analysis := prep.Plan.SkillGapAnalysis
	gaps := "No significant gaps identified!"
	if len(analysis.GapsIdentified) > 0 {
		gaps = numbered(analysis.GapsIdentified)
	}
	return fmt.Sprintf("Based on my analysis, here are the skill gaps you should address:\n\nRequired Skills:\n%s\n\nGaps Identified:\n%s\n\nRecommendations:\n%s",
		numbered(analysis.RequiredSkills), gaps, numbered(analysis.Recommendations))
}

func prepMenu(prep *PrepState) string {
	return fmt.Sprintf("I'm here to help with your interview preparation for %s at %s. You can ask about:\n%s\n\nOr say \"exit\" to leave interview preparation mode.",
		prep.Role, prep.CompanyName, numbered([]string{
			"Technical topics to study",
			"Behavioral questions to prepare",
			"Your preparation schedule",
			"Mock interview questions",
			"Skill gaps and recommendations",
		}))
}
