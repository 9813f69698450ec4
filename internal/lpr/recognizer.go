// Package lpr reads licence plates from camera frames with AWS Rekognition.
package lpr

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"go.uber.org/zap"
)

var ErrNoPlate = errors.New("no licence plate recognized")

// Loose shape: a mix of letters and digits, optionally split by one dash or space.
var plateRegex = regexp.MustCompile(`^[A-Z0-9]{2,4}[- ]?[A-Z0-9]{2,5}$`)

func looksLikePlate(txt string) bool {
	return plateRegex.MatchString(txt) && strings.ContainsAny(txt, "0123456789")
}

// TextDetector is the part of *rekognition.Client the recognizer uses.
type TextDetector interface {
	DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
}

type Recognizer struct {
	client        TextDetector
	minConfidence float32
	log           *zap.Logger
}

func NewRecognizer(client TextDetector, log *zap.Logger) *Recognizer {
	return &Recognizer{client: client, minConfidence: 80, log: log.Named("lpr")}
}

// Recognize returns the plate-shaped text with the highest confidence.
func (r *Recognizer) Recognize(ctx context.Context, image []byte) (string, float32, error) {
	result, err := r.client.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: image},
	})
	if err != nil {
		return "", 0, fmt.Errorf("rekognition detect text: %w", err)
	}

	var (
		seen          []string
		bestPlate     string
		maxConfidence float32
	)
	for _, td := range result.TextDetections {
		if td.DetectedText == nil || td.Confidence == nil {
			continue
		}
		if td.Type != types.TextTypesLine && td.Type != types.TextTypesWord {
			continue
		}
		txt := strings.ToUpper(strings.TrimSpace(*td.DetectedText))
		txt = strings.ReplaceAll(txt, ".", "")
		seen = append(seen, txt)

		if *td.Confidence < r.minConfidence || !looksLikePlate(txt) {
			continue
		}
		if *td.Confidence > maxConfidence {
			maxConfidence = *td.Confidence
			bestPlate = txt
		}
	}
	r.log.Debug("text detected", zap.Strings("texts", seen))

	if bestPlate == "" {
		return "", 0, fmt.Errorf("%w (text: %s)", ErrNoPlate, strings.Join(seen, ", "))
	}
	return bestPlate, maxConfidence, nil
}
