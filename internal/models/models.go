// Package models defines the ATS document entities. Every entity is stored
// as a JSON document in its own collection; timestamps are RFC3339 strings
// stamped by the service layer, never by the repository.
package models

// UserRole enumerates the internal account roles.
type UserRole string

const (
	RoleAdmin         UserRole = "admin"
	RoleRecruiter     UserRole = "recruiter"
	RoleHiringManager UserRole = "hiring_manager"
	RoleInterviewer   UserRole = "interviewer"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleRecruiter, RoleHiringManager, RoleInterviewer:
		return true
	}
	return false
}

// User is the stored credential-bearing account document. Password carries
// the bcrypt hash and must never leave the auth package; use Profile() on
// every read path.
type User struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Password  string   `json:"password,omitempty"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Role      UserRole `json:"role"`
	Avatar    string   `json:"avatar,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	IsActive  bool     `json:"isActive"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

// UserProfile is a User with the password hash stripped, safe to return to
// clients.
type UserProfile struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Role      UserRole `json:"role"`
	Avatar    string   `json:"avatar,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	IsActive  bool     `json:"isActive"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

// Profile returns the stripped projection of the user.
func (u User) Profile() UserProfile {
	return UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Avatar:    u.Avatar,
		Phone:     u.Phone,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type JobStatus string

const (
	JobDraft  JobStatus = "draft"
	JobOpen   JobStatus = "open"
	JobClosed JobStatus = "closed"
	JobOnHold JobStatus = "on_hold"
)

// PipelineStage is one ordered step in a job's hiring workflow. Order is a
// dense increasing integer starting at 1.
type PipelineStage struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
	Color string `json:"color,omitempty"`
}

type Job struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Department       string          `json:"department"`
	Location         string          `json:"location"`
	Type             string          `json:"type"`
	ExperienceLevel  string          `json:"experienceLevel"`
	Description      string          `json:"description"`
	Requirements     []string        `json:"requirements"`
	Responsibilities []string        `json:"responsibilities"`
	Skills           []string        `json:"skills"`
	SalaryMin        float64         `json:"salaryMin,omitempty"`
	SalaryMax        float64         `json:"salaryMax,omitempty"`
	Currency         string          `json:"currency,omitempty"`
	Status           JobStatus       `json:"status"`
	RecruiterID      string          `json:"recruiterId"`
	HiringManagerID  string          `json:"hiringManagerId,omitempty"`
	Openings         int             `json:"openings"`
	Pipeline         []PipelineStage `json:"pipeline"`
	CreatedAt        string          `json:"createdAt"`
	UpdatedAt        string          `json:"updatedAt"`
}

type Candidate struct {
	ID              string   `json:"id"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone,omitempty"`
	Location        string   `json:"location,omitempty"`
	CurrentTitle    string   `json:"currentTitle,omitempty"`
	CurrentCompany  string   `json:"currentCompany,omitempty"`
	ExperienceYears int      `json:"experienceYears,omitempty"`
	Skills          []string `json:"skills"`
	CoverLetter     string   `json:"coverLetter,omitempty"`
	LinkedinURL     string   `json:"linkedinUrl,omitempty"`
	PortfolioURL    string   `json:"portfolioUrl,omitempty"`
	ResumeURL       string   `json:"resumeUrl,omitempty"`
	Source          string   `json:"source"`
	Tags            []string `json:"tags"`
	Notes           string   `json:"notes,omitempty"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

type ApplicationStatus string

const (
	ApplicationNew       ApplicationStatus = "new"
	ApplicationScreening ApplicationStatus = "screening"
	ApplicationPhone     ApplicationStatus = "phone_interview"
	ApplicationTechnical ApplicationStatus = "technical_test"
	ApplicationOnsite    ApplicationStatus = "onsite_interview"
	ApplicationOffer     ApplicationStatus = "offer"
	ApplicationHired     ApplicationStatus = "hired"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"
)

// Activity is an immutable audit-log entry attached to an application. The
// activities list grows monotonically and is never reordered or deleted.
type Activity struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	UserID      string         `json:"userId"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   string         `json:"createdAt"`
}

type ApplicationNote struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

type Application struct {
	ID             string            `json:"id"`
	JobID          string            `json:"jobId"`
	CandidateID    string            `json:"candidateId"`
	Status         ApplicationStatus `json:"status"`
	CurrentStageID string            `json:"currentStageId"`
	AppliedAt      string            `json:"appliedAt"`
	Source         string            `json:"source"`
	Notes          []ApplicationNote `json:"notes"`
	Activities     []Activity        `json:"activities"`
	Rating         int               `json:"rating,omitempty"`
	Feedback       string            `json:"feedback,omitempty"`
	TrackingToken  string            `json:"trackingToken,omitempty"`
	ResumeURL      string            `json:"resumeUrl,omitempty"`
	CoverLetter    string            `json:"coverLetter,omitempty"`
	CreatedAt      string            `json:"createdAt"`
	UpdatedAt      string            `json:"updatedAt"`
}

type InterviewStatus string

const (
	InterviewScheduled InterviewStatus = "scheduled"
	InterviewCompleted InterviewStatus = "completed"
	InterviewCancelled InterviewStatus = "cancelled"
	InterviewNoShow    InterviewStatus = "no_show"
)

type InterviewFeedback struct {
	UserID         string `json:"userId"`
	Rating         int    `json:"rating"`
	Strengths      string `json:"strengths,omitempty"`
	Weaknesses     string `json:"weaknesses,omitempty"`
	Recommendation string `json:"recommendation"`
	Comments       string `json:"comments,omitempty"`
	SubmittedAt    string `json:"submittedAt"`
}

type Interview struct {
	ID            string              `json:"id"`
	ApplicationID string              `json:"applicationId"`
	JobID         string              `json:"jobId"`
	CandidateID   string              `json:"candidateId"`
	Type          string              `json:"type"`
	Status        InterviewStatus     `json:"status"`
	ScheduledDate string              `json:"scheduledDate"`
	Duration      int                 `json:"duration"`
	Location      string              `json:"location,omitempty"`
	MeetingLink   string              `json:"meetingLink,omitempty"`
	Interviewers  []string            `json:"interviewers"`
	Feedback      []InterviewFeedback `json:"feedback,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	CreatedBy     string              `json:"createdBy"`
	CreatedAt     string              `json:"createdAt"`
	UpdatedAt     string              `json:"updatedAt"`
}

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
	TaskCancelled  TaskStatus = "cancelled"
)

type TaskRelation struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type Task struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	AssigneeID  string        `json:"assigneeId"`
	RelatedTo   *TaskRelation `json:"relatedTo,omitempty"`
	Priority    string        `json:"priority"`
	Status      TaskStatus    `json:"status"`
	DueDate     string        `json:"dueDate,omitempty"`
	CompletedAt string        `json:"completedAt,omitempty"`
	CreatedBy   string        `json:"createdBy"`
	CreatedAt   string        `json:"createdAt"`
	UpdatedAt   string        `json:"updatedAt"`
}
