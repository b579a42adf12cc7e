package model

import (
	"slices"
	"time"
)

type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusCancelled Status = "CANCELLED"
)

const (
	RoleTutor   = "TUTOR"
	RoleStudent = "STUDENT"
	RoleAdmin   = "ADMIN"
	RolePending = "PENDING"
)

type User struct {
	ID                 string
	Email              string
	PasswordHash       string
	Name               string
	Role               string
	BookedAppointments []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (u User) Clone() User {
	u.BookedAppointments = slices.Clone(u.BookedAppointments)
	return u
}

type Appointment struct {
	ID           string
	TutorID      string
	Name         string
	StartTime    time.Time
	EndTime      time.Time
	Place        string
	Mode         string
	MaxSlot      int
	CurrentSlots []string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// filled in by listings only, never stored
	TutorName string
}

// Clone returns a copy that shares no slices with a.
func (a Appointment) Clone() Appointment {
	a.CurrentSlots = slices.Clone(a.CurrentSlots)
	return a
}

type StudentResult struct {
	StudentID string `json:"student_id"`
	Score     string `json:"score"`
	Note      string `json:"note"`
}

type Minutes struct {
	AppointmentID  string
	Content        string
	StudentResults []StudentResult
	FileLink       string
	CreatedAt      time.Time
}

func (m Minutes) Clone() Minutes {
	m.StudentResults = slices.Clone(m.StudentResults)
	return m
}

// FreeSchedule is a tutor's published availability grid for one week.
type FreeSchedule struct {
	TutorID string
	Week    string
	Cells   []string
	Note    string
}

type SyncType string

const (
	SyncPersonal SyncType = "PERSONAL"
	SyncRole     SyncType = "ROLE"
)

type SyncState string

const (
	SyncSuccess SyncState = "SUCCESS"
	SyncFailed  SyncState = "FAILED"
)

type SyncReport struct {
	Timestamp        time.Time
	Status           SyncState
	Message          string
	RecordsProcessed int
	Errors           []string
}

type SyncStatus struct {
	LastRun time.Time
	Status  SyncState
	Details string
}
