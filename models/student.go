package models

// Student is the identity behind a submission, keyed by its code-hosting handle.
type Student struct {
	ID          uint   `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	GitUsername string `json:"gitUsername" db:"git_username" gorm:"column:git_username;type:text;not null;uniqueIndex:idx_students_git_username"`
}

func (Student) TableName() string {
	return "students"
}
