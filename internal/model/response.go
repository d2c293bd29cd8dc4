package model

import "time"

// SurveyResponse is one completed attempt under one access code. Nothing is
// stored before the respondent submits; there is no partial-success state.
type SurveyResponse struct {
	BaseModel
	PassationID  uint             `gorm:"index;not null" json:"passationId"`
	AccessCodeID uint             `gorm:"index;not null" json:"accessCodeId"`
	SubmittedAt  time.Time        `json:"submittedAt"`
	Answers      []ResponseAnswer `gorm:"foreignKey:ResponseID" json:"answers,omitempty"`
}

func (SurveyResponse) TableName() string {
	return "survey_responses"
}

// ResponseAnswer carries the serialized string form of one answer: scalars
// stringified, multiple-choice selections JSON-encoded.
type ResponseAnswer struct {
	BaseModel
	ResponseID uint   `gorm:"index;not null" json:"responseId"`
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Value      string `gorm:"type:text" json:"value"`
}

func (ResponseAnswer) TableName() string {
	return "response_answers"
}
