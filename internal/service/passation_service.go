package service

import (
	"fmt"
	"time"

	"tedp_backend/internal/model"
	"tedp_backend/internal/repository"
	"tedp_backend/internal/util"
)

type PassationService struct {
	Repo       *repository.PassationRepository
	SurveyRepo *repository.SurveyRepository
}

func NewPassationService(repo *repository.PassationRepository, surveyRepo *repository.SurveyRepository) *PassationService {
	return &PassationService{Repo: repo, SurveyRepo: surveyRepo}
}

// SchoolYearForDate labels the school year a date falls in, with the new
// year starting on August 1st: 2026-03-15 -> "2025-2026", 2026-09-01 ->
// "2026-2027".
func SchoolYearForDate(t time.Time) string {
	start := t.Year()
	if t.Month() < time.August {
		start--
	}
	return fmt.Sprintf("%d-%d", start, start+1)
}

type PassationRequest struct {
	SurveyID uint     `json:"surveyId" binding:"required"`
	Name     string   `json:"name" binding:"required"`
	SchoolID *uint    `json:"schoolId"`
	Groups   []string `json:"groups"`
}

func (s *PassationService) CreatePassation(createdBy uint, req PassationRequest) (*model.Passation, error) {
	if _, err := s.SurveyRepo.FindByID(req.SurveyID); err != nil {
		return nil, util.ErrSurveyNotFound
	}

	p := &model.Passation{
		SurveyID:   req.SurveyID,
		Name:       req.Name,
		SchoolYear: SchoolYearForDate(time.Now()),
		Status:     model.PassationActive,
		SchoolID:   req.SchoolID,
		CreatedBy:  createdBy,
	}
	if err := s.Repo.Create(p); err != nil {
		return nil, err
	}

	for _, name := range req.Groups {
		g := model.Group{PassationID: p.ID, Name: name}
		if err := s.Repo.CreateGroup(&g); err != nil {
			return nil, err
		}
		p.Groups = append(p.Groups, g)
	}
	return p, nil
}

func (s *PassationService) GetPassation(id uint) (*model.Passation, error) {
	return s.Repo.FindByID(id)
}

func (s *PassationService) ListPassations(page, limit int, status string, schoolID *uint) ([]model.Passation, int64, error) {
	if status == "all" {
		status = ""
	}
	return s.Repo.List(page, limit, status, schoolID)
}

// statusRank orders the one-way lifecycle.
func statusRank(st model.PassationStatus) int {
	switch st {
	case model.PassationActive:
		return 0
	case model.PassationClosed:
		return 1
	case model.PassationArchived:
		return 2
	default:
		return -1
	}
}

// ChangeStatus moves a passation forward in its lifecycle. Moving backward
// is rejected; archiving an active passation closes it implicitly.
func (s *PassationService) ChangeStatus(id uint, next model.PassationStatus) (*model.Passation, error) {
	p, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, util.ErrPassationNotFound
	}

	if statusRank(next) < 0 || statusRank(next) <= statusRank(p.Status) {
		return nil, util.ErrInvalidStatusChange
	}

	if p.ClosedAt == nil {
		now := time.Now()
		p.ClosedAt = &now
	}
	p.Status = next
	if err := s.Repo.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PassationService) AddGroup(passationID uint, name string) (*model.Group, error) {
	if _, err := s.Repo.FindByID(passationID); err != nil {
		return nil, util.ErrPassationNotFound
	}
	g := &model.Group{PassationID: passationID, Name: name}
	if err := s.Repo.CreateGroup(g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *PassationService) DeleteGroup(id uint) error {
	return s.Repo.DeleteGroup(id)
}
