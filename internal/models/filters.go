package models

// Pagination is shared by all list filters; Page and Limit are 1-based and
// converted to an offset inside the repository layer.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (p Pagination) PageOrDefault() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

func (p Pagination) LimitOrDefault() int {
	if p.Limit < 1 {
		return 20
	}
	return p.Limit
}

type JobFilters struct {
	Pagination
	Status          JobStatus
	Type            string
	Department      string
	Location        string
	ExperienceLevel string
	RecruiterID     string
	Search          string
}

type CandidateFilters struct {
	Pagination
	Skills        []string
	Source        string
	ExperienceMin int
	Search        string
}

type ApplicationFilters struct {
	Pagination
	JobID       string
	CandidateID string
	Status      ApplicationStatus
	Source      string
	DateFrom    string
	DateTo      string
}

type InterviewFilters struct {
	Pagination
	JobID         string
	CandidateID   string
	ApplicationID string
	Status        InterviewStatus
	InterviewerID string
}

type TaskFilters struct {
	Pagination
	AssigneeID string
	Status     TaskStatus
	Priority   string
}

type UserFilters struct {
	Pagination
	Role     UserRole
	IsActive *bool
	Search   string
}
