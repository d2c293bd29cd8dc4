package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"tedp_backend/internal/model"
	"tedp_backend/internal/repository"
	"tedp_backend/internal/util"
)

type AccessCodeService struct {
	Repo          *repository.AccessCodeRepository
	PassationRepo *repository.PassationRepository
}

func NewAccessCodeService(repo *repository.AccessCodeRepository, passationRepo *repository.PassationRepository) *AccessCodeService {
	return &AccessCodeService{Repo: repo, PassationRepo: passationRepo}
}

var errPINSpaceExhausted = errors.New("cannot generate that many unique PINs")

func randomPIN() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// GeneratePINBatch produces count unique 6-digit PINs, none of which appear
// in existing. Collisions are regenerated; uniqueness holds only within one
// passation's code space.
func GeneratePINBatch(count int, existing map[string]bool) ([]string, error) {
	if count <= 0 {
		return nil, errors.New("count must be positive")
	}
	if count+len(existing) > 1000000 {
		return nil, errPINSpaceExhausted
	}

	taken := make(map[string]bool, len(existing)+count)
	for p := range existing {
		taken[p] = true
	}

	pins := make([]string, 0, count)
	for len(pins) < count {
		pin, err := randomPIN()
		if err != nil {
			return nil, err
		}
		if taken[pin] {
			continue
		}
		taken[pin] = true
		pins = append(pins, pin)
	}
	return pins, nil
}

type GenerateCodesRequest struct {
	PassationID uint  `json:"passationId" binding:"required"`
	GroupID     *uint `json:"groupId"`
	Count       int   `json:"count" binding:"required"`
}

func (s *AccessCodeService) GenerateCodes(req GenerateCodesRequest) ([]model.AccessCode, error) {
	p, err := s.PassationRepo.FindByID(req.PassationID)
	if err != nil {
		return nil, util.ErrPassationNotFound
	}
	if p.Status != model.PassationActive {
		return nil, util.ErrPassationNotActive
	}
	if req.Count < 1 || req.Count > 5000 {
		return nil, errors.New("count must be between 1 and 5000")
	}

	existing, err := s.Repo.ExistingPINs(req.PassationID)
	if err != nil {
		return nil, err
	}

	pins, err := GeneratePINBatch(req.Count, existing)
	if err != nil {
		return nil, err
	}

	codes := make([]model.AccessCode, len(pins))
	for i, pin := range pins {
		codes[i] = model.AccessCode{
			PassationID: req.PassationID,
			GroupID:     req.GroupID,
			PIN:         pin,
		}
	}
	if err := s.Repo.CreateBatch(codes); err != nil {
		return nil, err
	}
	return codes, nil
}

func (s *AccessCodeService) ListCodes(passationID uint, page, limit int, onlyUnused bool) ([]model.AccessCode, int64, error) {
	return s.Repo.List(passationID, page, limit, onlyUnused)
}
