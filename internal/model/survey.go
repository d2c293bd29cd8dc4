package model

// QuestionType matches the four answer shapes the questionnaire supports.
type QuestionType string

const (
	QuestionText           QuestionType = "text"
	QuestionScale          QuestionType = "scale"
	QuestionSingleChoice   QuestionType = "single_choice"
	QuestionMultipleChoice QuestionType = "multiple_choice"
)

// swagger:model Survey
type Survey struct {
	BaseModel
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Questions   []Question `gorm:"foreignKey:SurveyID" json:"questions,omitempty"`
}

func (Survey) TableName() string {
	return "surveys"
}

type Question struct {
	BaseModel
	SurveyID      uint         `gorm:"index;not null" json:"surveyId"`
	Order         int          `gorm:"default:0" json:"order"`
	Text          string       `gorm:"type:text;not null" json:"text"`
	Type          QuestionType `gorm:"type:enum('text','scale','single_choice','multiple_choice');default:'text'" json:"type"`
	IsRequired    bool         `gorm:"default:false" json:"isRequired"`
	OptionsJSON   string       `gorm:"type:json" json:"optionsJson,omitempty"`
	ScaleMin      int          `gorm:"default:0" json:"scaleMin,omitempty"`
	ScaleMax      int          `gorm:"default:0" json:"scaleMax,omitempty"`
	ScaleMinLabel string       `gorm:"size:100" json:"scaleMinLabel,omitempty"`
	ScaleMaxLabel string       `gorm:"size:100" json:"scaleMaxLabel,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}
