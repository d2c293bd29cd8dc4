package service

import (
	"encoding/json"
	"errors"

	"tedp_backend/internal/model"
	"tedp_backend/internal/repository"
)

type SurveyService struct {
	Repo *repository.SurveyRepository
}

func NewSurveyService(repo *repository.SurveyRepository) *SurveyService {
	return &SurveyService{Repo: repo}
}

type SurveyRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (s *SurveyService) CreateSurvey(req SurveyRequest) (*model.Survey, error) {
	survey := &model.Survey{
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.Repo.Create(survey); err != nil {
		return nil, err
	}
	return survey, nil
}

func (s *SurveyService) GetSurvey(id uint) (*model.Survey, error) {
	return s.Repo.FindByIDWithQuestions(id)
}

func (s *SurveyService) ListSurveys(page, limit int) ([]model.Survey, int64, error) {
	return s.Repo.List(page, limit)
}

func (s *SurveyService) UpdateSurvey(id uint, req SurveyRequest) (*model.Survey, error) {
	survey, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	survey.Title = req.Title
	survey.Description = req.Description
	if err := s.Repo.Update(survey); err != nil {
		return nil, err
	}
	return survey, nil
}

func (s *SurveyService) DeleteSurvey(id uint) error {
	return s.Repo.Delete(id)
}

type QuestionRequest struct {
	SurveyID      uint               `json:"surveyId" binding:"required"`
	Order         int                `json:"order"`
	Text          string             `json:"text" binding:"required"`
	Type          model.QuestionType `json:"type" binding:"required"`
	IsRequired    bool               `json:"isRequired"`
	Options       []string           `json:"options"`
	ScaleMin      int                `json:"scaleMin"`
	ScaleMax      int                `json:"scaleMax"`
	ScaleMinLabel string             `json:"scaleMinLabel"`
	ScaleMaxLabel string             `json:"scaleMaxLabel"`
}

func (r *QuestionRequest) Validate() error {
	switch r.Type {
	case model.QuestionText:
	case model.QuestionScale:
		if r.ScaleMax <= r.ScaleMin {
			return errors.New("scaleMax must be greater than scaleMin")
		}
	case model.QuestionSingleChoice, model.QuestionMultipleChoice:
		if len(r.Options) < 2 {
			return errors.New("choice questions need at least two options")
		}
	default:
		return errors.New("unknown question type")
	}
	return nil
}

func (s *SurveyService) CreateQuestion(req QuestionRequest) (*model.Question, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.Repo.FindByID(req.SurveyID); err != nil {
		return nil, err
	}

	q := &model.Question{
		SurveyID:      req.SurveyID,
		Order:         req.Order,
		Text:          req.Text,
		Type:          req.Type,
		IsRequired:    req.IsRequired,
		ScaleMin:      req.ScaleMin,
		ScaleMax:      req.ScaleMax,
		ScaleMinLabel: req.ScaleMinLabel,
		ScaleMaxLabel: req.ScaleMaxLabel,
	}
	if len(req.Options) > 0 {
		raw, err := json.Marshal(req.Options)
		if err != nil {
			return nil, err
		}
		q.OptionsJSON = string(raw)
	}

	if err := s.Repo.CreateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *SurveyService) ListQuestions(surveyID uint) ([]model.Question, error) {
	return s.Repo.ListQuestions(surveyID)
}

func (s *SurveyService) UpdateQuestion(id uint, req QuestionRequest) (*model.Question, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	q, err := s.Repo.FindQuestionByID(id)
	if err != nil {
		return nil, err
	}

	q.Order = req.Order
	q.Text = req.Text
	q.Type = req.Type
	q.IsRequired = req.IsRequired
	q.ScaleMin = req.ScaleMin
	q.ScaleMax = req.ScaleMax
	q.ScaleMinLabel = req.ScaleMinLabel
	q.ScaleMaxLabel = req.ScaleMaxLabel
	q.OptionsJSON = ""
	if len(req.Options) > 0 {
		raw, err := json.Marshal(req.Options)
		if err != nil {
			return nil, err
		}
		q.OptionsJSON = string(raw)
	}

	if err := s.Repo.UpdateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *SurveyService) DeleteQuestion(id uint) error {
	return s.Repo.DeleteQuestion(id)
}
