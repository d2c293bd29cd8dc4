package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"tedp_backend/internal/model"
	"tedp_backend/internal/repository"
	"tedp_backend/internal/util"
)

// ExportService turns a passation's stored responses into a CSV file,
// one row per response and one column per survey question.
type ExportService struct {
	PassationRepo *repository.PassationRepository
	SurveyRepo    *repository.SurveyRepository
	ResponseRepo  *repository.ResponseRepository
	Storage       *StorageService
}

func NewExportService(
	passationRepo *repository.PassationRepository,
	surveyRepo *repository.SurveyRepository,
	responseRepo *repository.ResponseRepository,
	storage *StorageService,
) *ExportService {
	return &ExportService{
		PassationRepo: passationRepo,
		SurveyRepo:    surveyRepo,
		ResponseRepo:  responseRepo,
		Storage:       storage,
	}
}

// BuildCSV renders responses against the survey's question list. Columns
// follow question order; answers missing from a response stay blank.
func BuildCSV(questions []model.Question, responses []model.SurveyResponse) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, 0, len(questions)+2)
	header = append(header, "response_id", "submitted_at")
	for _, q := range questions {
		header = append(header, q.Text)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, resp := range responses {
		byQuestion := make(map[uint]string, len(resp.Answers))
		for _, a := range resp.Answers {
			byQuestion[a.QuestionID] = a.Value
		}

		row := make([]string, 0, len(header))
		row = append(row,
			fmt.Sprintf("%d", resp.ID),
			resp.SubmittedAt.Format(time.RFC3339),
		)
		for _, q := range questions {
			row = append(row, byQuestion[q.ID])
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type ExportResult struct {
	Filename  string `json:"filename"`
	URL       string `json:"url"`
	Responses int    `json:"responses"`
}

// ExportPassation builds the CSV for a passation and hands it to the
// configured storage provider.
func (s *ExportService) ExportPassation(ctx context.Context, passationID uint) (*ExportResult, error) {
	passation, err := s.PassationRepo.FindByID(passationID)
	if err != nil {
		return nil, util.ErrPassationNotFound
	}

	survey, err := s.SurveyRepo.FindByIDWithQuestions(passation.SurveyID)
	if err != nil {
		return nil, util.ErrSurveyNotFound
	}

	responses, err := s.ResponseRepo.ListAllByPassation(passationID)
	if err != nil {
		return nil, err
	}
	if len(responses) == 0 {
		return nil, util.ErrNoResponses
	}

	data, err := BuildCSV(survey.Questions, responses)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("passation_%d_%s.csv", passationID, time.Now().Format("20060102_150405"))
	url, err := s.Storage.Upload(ctx, filename, bytes.NewReader(data), int64(len(data)), "text/csv")
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		Filename:  filename,
		URL:       url,
		Responses: len(responses),
	}, nil
}

// BuildPassationCSV returns the raw CSV bytes for direct download.
func (s *ExportService) BuildPassationCSV(ctx context.Context, passationID uint) (string, []byte, error) {
	passation, err := s.PassationRepo.FindByID(passationID)
	if err != nil {
		return "", nil, util.ErrPassationNotFound
	}

	survey, err := s.SurveyRepo.FindByIDWithQuestions(passation.SurveyID)
	if err != nil {
		return "", nil, util.ErrSurveyNotFound
	}

	responses, err := s.ResponseRepo.ListAllByPassation(passationID)
	if err != nil {
		return "", nil, err
	}

	data, err := BuildCSV(survey.Questions, responses)
	if err != nil {
		return "", nil, err
	}

	filename := fmt.Sprintf("passation_%d.csv", passationID)
	return filename, data, nil
}
