package models

import "time"

// Submission is a project entry. ValidatedAt stays nil while the entry is pending
// and is set once by moderation; it is stored in the updated_at column.
type Submission struct {
	ID          uint       `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Title       string     `json:"title" db:"title" gorm:"type:text;not null"`
	Github      string     `json:"github" db:"github" gorm:"type:text;not null"`
	Demolink    string     `json:"demolink" db:"demolink" gorm:"type:text;not null"`
	StudentID   uint       `json:"gitUsernameId" db:"git_username_id" gorm:"column:git_username_id;not null;index"`
	CategoryID  uint       `json:"projectId" db:"project_id" gorm:"column:project_id;not null;index"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at" gorm:"not null"`
	ValidatedAt *time.Time `json:"updatedAt" db:"updated_at" gorm:"column:updated_at;index"`

	Student  *Student  `json:"-" gorm:"foreignKey:StudentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Category *Category `json:"-" gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Submission) TableName() string {
	return "projects_details"
}

// Pending reports whether the submission still awaits moderation.
func (s Submission) Pending() bool {
	return s.ValidatedAt == nil
}

// SubmissionView is the joined row returned by listing queries.
type SubmissionView struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Github      string    `json:"github"`
	Demolink    string    `json:"demolink"`
	CreatedAt   time.Time `json:"createdAt"`
	ProjectID   uint      `json:"projectId"`
	ProjectName string    `json:"projectName"`
	GitUsername string    `json:"gitUsername"`
	StudentID   uint      `json:"studentId"`
}
