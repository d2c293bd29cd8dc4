package model

import "time"

// PassationStatus is one-way: active surveys are closed, closed surveys are
// archived. Archived is terminal.
type PassationStatus string

const (
	PassationActive   PassationStatus = "active"
	PassationClosed   PassationStatus = "closed"
	PassationArchived PassationStatus = "archived"
)

// Passation is one administrative distribution batch of a survey: a set of
// groups and single-use access codes under a school year.
// swagger:model Passation
type Passation struct {
	BaseModel
	SurveyID   uint            `gorm:"index;not null" json:"surveyId"`
	Survey     *Survey         `gorm:"foreignKey:SurveyID" json:"survey,omitempty"`
	Name       string          `gorm:"size:255;not null" json:"name"`
	SchoolYear string          `gorm:"size:20" json:"schoolYear"`
	Status     PassationStatus `gorm:"type:enum('active','closed','archived');default:'active'" json:"status"`
	SchoolID   *uint           `gorm:"index" json:"schoolId,omitempty"`
	CreatedBy  uint            `gorm:"index" json:"createdBy"`
	ClosedAt   *time.Time      `json:"closedAt,omitempty"`
	Groups     []Group         `gorm:"foreignKey:PassationID" json:"groups,omitempty"`
}

func (Passation) TableName() string {
	return "passations"
}

type Group struct {
	BaseModel
	PassationID uint   `gorm:"index;not null" json:"passationId"`
	Name        string `gorm:"size:100;not null" json:"name"`
}

func (Group) TableName() string {
	return "groups"
}

// AccessCode is a 6-digit single-use PIN granting one respondent one attempt.
type AccessCode struct {
	BaseModel
	PassationID uint       `gorm:"not null;uniqueIndex:idx_passation_pin" json:"passationId"`
	GroupID     *uint      `gorm:"index" json:"groupId,omitempty"`
	PIN         string     `gorm:"size:6;uniqueIndex:idx_passation_pin" json:"pin"`
	UsedAt      *time.Time `json:"usedAt,omitempty"`
}

func (AccessCode) TableName() string {
	return "access_codes"
}

func (c *AccessCode) Used() bool {
	return c.UsedAt != nil
}
