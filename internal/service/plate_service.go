package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/apperror"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
)

// PlateRecognizer reads a licence plate from a camera frame.
type PlateRecognizer interface {
	Recognize(ctx context.Context, image []byte) (plate string, confidence float32, err error)
}

type PlateService struct {
	recognizer PlateRecognizer
	log        *zap.Logger
}

func (s *PlateService) Recognize(ctx context.Context, req RecognizePlate) (*domain.LPRResponseDTO, error) {
	if s.recognizer == nil {
		return nil, apperror.NewBadRequest("plate recognition is disabled").WithCode("LPR_DISABLED")
	}
	if len(req.Image) == 0 {
		return nil, apperror.NewBadRequest("image is empty").WithCode("VALIDATION_ERROR")
	}
	plate, confidence, err := s.recognizer.Recognize(ctx, req.Image)
	if err != nil {
		s.log.Info("no plate recognized", zap.Error(err))
		return &domain.LPRResponseDTO{ErrorMessage: err.Error()}, nil
	}
	normalized, err := domain.NormalizePlate(plate)
	if err != nil {
		return &domain.LPRResponseDTO{DetectedPlate: plate, Confidence: confidence, ErrorMessage: err.Error()}, nil
	}
	s.log.Info("plate recognized", zap.String("license_plate", normalized), zap.Float32("confidence", confidence))
	return &domain.LPRResponseDTO{DetectedPlate: normalized, Confidence: confidence}, nil
}
