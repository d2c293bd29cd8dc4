package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tedp_backend/internal/model"
	"tedp_backend/internal/repository"
	"tedp_backend/internal/runner"
	"tedp_backend/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RespondentService owns the anonymous survey-taking flow: PIN validation,
// one runner session per respondent parked in the session store, and the
// final transactional submission that consumes the access code.
type RespondentService struct {
	AccessCodeRepo *repository.AccessCodeRepository
	PassationRepo  *repository.PassationRepository
	SurveyRepo     *repository.SurveyRepository
	ResponseRepo   *repository.ResponseRepository
	Sessions       SessionStore
	DB             *gorm.DB
}

func NewRespondentService(
	accessCodeRepo *repository.AccessCodeRepository,
	passationRepo *repository.PassationRepository,
	surveyRepo *repository.SurveyRepository,
	responseRepo *repository.ResponseRepository,
	sessions SessionStore,
	db *gorm.DB,
) *RespondentService {
	return &RespondentService{
		AccessCodeRepo: accessCodeRepo,
		PassationRepo:  passationRepo,
		SurveyRepo:     surveyRepo,
		ResponseRepo:   responseRepo,
		Sessions:       sessions,
		DB:             db,
	}
}

// SessionView is what the respondent UI needs to render the current page.
type SessionView struct {
	Token      string                   `json:"token"`
	State      runner.State             `json:"state"`
	Page       int                      `json:"page"`
	TotalPages int                      `json:"totalPages"`
	Questions  []model.Question         `json:"questions"`
	Answers    map[uint]json.RawMessage `json:"answers"`
	Survey     *model.Survey            `json:"survey,omitempty"`
}

func sessionView(token string, r *runner.Runner) (*SessionView, error) {
	snap, err := r.Snapshot()
	if err != nil {
		return nil, err
	}

	answers := make(map[uint]json.RawMessage, len(snap.Answers))
	for id, a := range snap.Answers {
		answers[id] = a.Value
	}

	return &SessionView{
		Token:      token,
		State:      r.State(),
		Page:       r.Page(),
		TotalPages: r.TotalPages(),
		Questions:  r.CurrentQuestions(),
		Answers:    answers,
	}, nil
}

// ValidatePin checks a 6-digit access code and, when valid, opens a fresh
// runner session for its passation's survey.
func (s *RespondentService) ValidatePin(ctx context.Context, rawPin string) (*SessionView, error) {
	pin := util.FilterPINInput(rawPin)
	if !util.IsValidPIN(pin) {
		return nil, util.ErrInvalidPinFormat
	}

	code, err := s.AccessCodeRepo.FindByPIN(pin)
	if err != nil {
		return nil, util.ErrPinUnknown
	}
	if code.Used() {
		return nil, util.ErrPinAlreadyUsed
	}

	passation, err := s.PassationRepo.FindByID(code.PassationID)
	if err != nil {
		return nil, util.ErrPassationNotFound
	}
	if passation.Status != model.PassationActive {
		return nil, util.ErrPassationNotActive
	}

	survey, err := s.SurveyRepo.FindByIDWithQuestions(passation.SurveyID)
	if err != nil {
		return nil, util.ErrSurveyNotFound
	}

	r, err := runner.New(survey.Questions, pin)
	if err != nil {
		return nil, err
	}

	token := uuid.New().String()
	if err := s.saveSession(ctx, token, code, r); err != nil {
		return nil, err
	}

	view, err := sessionView(token, r)
	if err != nil {
		return nil, err
	}
	view.Survey = &model.Survey{
		BaseModel:   survey.BaseModel,
		Title:       survey.Title,
		Description: survey.Description,
	}
	return view, nil
}

func (s *RespondentService) saveSession(ctx context.Context, token string, code *model.AccessCode, r *runner.Runner) error {
	snap, err := r.Snapshot()
	if err != nil {
		return err
	}
	return s.Sessions.Save(ctx, token, SessionSnapshot{
		AccessCodeID: code.ID,
		PassationID:  code.PassationID,
		Runner:       snap,
	})
}

func (s *RespondentService) loadSession(ctx context.Context, token string) (SessionSnapshot, *runner.Runner, error) {
	snap, err := s.Sessions.Load(ctx, token)
	if err != nil {
		return SessionSnapshot{}, nil, err
	}
	r, err := runner.Restore(snap.Runner)
	if err != nil {
		return SessionSnapshot{}, nil, err
	}
	return snap, r, nil
}

// mutate applies op to the session's runner and persists the new snapshot.
func (s *RespondentService) mutate(ctx context.Context, token string, op func(*runner.Runner) error) (*SessionView, error) {
	snap, r, err := s.loadSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := op(r); err != nil {
		return nil, err
	}

	rs, err := r.Snapshot()
	if err != nil {
		return nil, err
	}
	snap.Runner = rs
	if err := s.Sessions.Save(ctx, token, snap); err != nil {
		return nil, err
	}
	return sessionView(token, r)
}

func (s *RespondentService) Start(ctx context.Context, token string) (*SessionView, error) {
	return s.mutate(ctx, token, func(r *runner.Runner) error { return r.Start() })
}

type AnswerRequest struct {
	QuestionID uint    `json:"questionId" binding:"required"`
	Text       *string `json:"text"`
	Scale      *int    `json:"scale"`
	Option     *string `json:"option"`
}

// answerFromRequest maps the request onto the answer variant the question's
// type dictates. Scale values are clamped to the question's bounds here, at
// the rendering boundary, not inside the runner.
func answerFromRequest(q *model.Question, req AnswerRequest) (runner.Answer, error) {
	switch q.Type {
	case model.QuestionText:
		if req.Text == nil {
			return nil, errors.New("text answer requires a text value")
		}
		return runner.TextAnswer(*req.Text), nil
	case model.QuestionScale:
		if req.Scale == nil {
			return nil, errors.New("scale answer requires a scale value")
		}
		v := *req.Scale
		if v < q.ScaleMin {
			v = q.ScaleMin
		}
		if v > q.ScaleMax {
			v = q.ScaleMax
		}
		return runner.ScaleAnswer(v), nil
	case model.QuestionSingleChoice:
		if req.Option == nil {
			return nil, errors.New("single choice answer requires an option")
		}
		return runner.ChoiceAnswer(*req.Option), nil
	case model.QuestionMultipleChoice:
		return nil, errors.New("multiple choice answers go through the toggle operation")
	default:
		return nil, fmt.Errorf("unknown question type %q", q.Type)
	}
}

func (s *RespondentService) RecordAnswer(ctx context.Context, token string, req AnswerRequest) (*SessionView, error) {
	return s.mutate(ctx, token, func(r *runner.Runner) error {
		var q *model.Question
		for _, candidate := range r.Questions() {
			if candidate.ID == req.QuestionID {
				c := candidate
				q = &c
				break
			}
		}
		if q == nil {
			return runner.ErrUnknownQuestion
		}

		a, err := answerFromRequest(q, req)
		if err != nil {
			return err
		}
		return r.Record(req.QuestionID, a)
	})
}

type ToggleRequest struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Option     string `json:"option" binding:"required"`
}

func (s *RespondentService) ToggleChoice(ctx context.Context, token string, req ToggleRequest) (*SessionView, error) {
	return s.mutate(ctx, token, func(r *runner.Runner) error {
		return r.ToggleChoice(req.QuestionID, req.Option)
	})
}

func (s *RespondentService) Advance(ctx context.Context, token string) (*SessionView, error) {
	return s.mutate(ctx, token, func(r *runner.Runner) error { return r.Advance() })
}

func (s *RespondentService) Retreat(ctx context.Context, token string) (*SessionView, error) {
	return s.mutate(ctx, token, func(r *runner.Runner) error { return r.Retreat() })
}

func (s *RespondentService) CurrentPage(ctx context.Context, token string) (*SessionView, error) {
	_, r, err := s.loadSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return sessionView(token, r)
}

// Cancel abandons the flow. Nothing was sent to the server, so the session
// simply disappears and the access code stays usable.
func (s *RespondentService) Cancel(ctx context.Context, token string) error {
	_, r, err := s.loadSession(ctx, token)
	if err != nil {
		return err
	}
	r.Cancel()
	return s.Sessions.Delete(ctx, token)
}

// responseSink stores the submission and consumes the access code in one
// transaction; either everything lands or nothing does.
type responseSink struct {
	db           *gorm.DB
	responses    *repository.ResponseRepository
	codes        *repository.AccessCodeRepository
	accessCodeID uint
	passationID  uint
}

func (k *responseSink) SubmitSurvey(ctx context.Context, p runner.Payload) error {
	return k.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		resp := &model.SurveyResponse{
			PassationID:  k.passationID,
			AccessCodeID: k.accessCodeID,
			SubmittedAt:  now,
		}
		resp.Answers = make([]model.ResponseAnswer, len(p.Answers))
		for i, a := range p.Answers {
			resp.Answers[i] = model.ResponseAnswer{
				QuestionID: uint(a.QuestionID),
				Value:      a.Value,
			}
		}
		if err := k.responses.CreateTx(tx, resp); err != nil {
			return err
		}

		if err := k.codes.ConsumeTx(tx, k.accessCodeID, now); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrPinAlreadyUsed
			}
			return err
		}
		return nil
	})
}

// Submit drives the runner's final transition. On collaborator failure the
// session is re-saved untouched so the respondent can retry; on success the
// session is deleted and the PIN is spent.
func (s *RespondentService) Submit(ctx context.Context, token string) (*SessionView, error) {
	snap, r, err := s.loadSession(ctx, token)
	if err != nil {
		return nil, err
	}

	sink := &responseSink{
		db:           s.DB,
		responses:    s.ResponseRepo,
		codes:        s.AccessCodeRepo,
		accessCodeID: snap.AccessCodeID,
		passationID:  snap.PassationID,
	}

	if err := r.Submit(ctx, sink); err != nil {
		// answers and cursor survive a failed attempt
		if rs, serr := r.Snapshot(); serr == nil {
			snap.Runner = rs
			_ = s.Sessions.Save(ctx, token, snap)
		}
		return nil, err
	}

	view, err := sessionView(token, r)
	if err != nil {
		return nil, err
	}
	_ = s.Sessions.Delete(ctx, token)
	return view, nil
}
