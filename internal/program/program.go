// Package program provides the Program aggregate for rehabilitation programs.
// It includes the Program and ProgramVideo entities, the persistence port,
// and the service that registers programs and uploads their guide videos.
package program

import "time"

// Member is a registered user that owns programs.
// It is referenced by programs and never mutated here.
type Member struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100"`
	CreatedAt time.Time
}

// Program is a rehabilitation program owned by a member.
type Program struct {
	// ID is assigned by the repository on save.
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:255"`
	Category    string `gorm:"size:100;index"`
	Description string `gorm:"type:text"`
	// MemberID references the owning member.
	MemberID  uint    `gorm:"not null;index"`
	Member    *Member `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time
}

// NewProgram builds an unsaved program for the given member.
func NewProgram(title, category, description string, memberID uint) *Program {
	return &Program{
		Title:       title,
		Category:    category,
		Description: description,
		MemberID:    memberID,
	}
}

// ProgramVideo links a program to its guide video and JSON metadata objects.
type ProgramVideo struct {
	ID uint `gorm:"primaryKey"`
	// ProgramID references the owning program.
	ProgramID uint     `gorm:"not null;index"`
	Program   *Program `gorm:"foreignKey:ProgramID;constraint:OnDelete:CASCADE" json:"-"`
	// ActName is the exercise name sent with the upload.
	ActName              string `gorm:"size:255"`
	GuideVideoURL        string `gorm:"size:1024;not null"`
	GuideVideoObjectPath string `gorm:"size:1024;not null"`
	JSONURL              string `gorm:"column:json_url;size:1024;not null"`
	JSONObjectPath       string `gorm:"column:json_object_path;size:1024;not null"`
	CreatedAt            time.Time
}
