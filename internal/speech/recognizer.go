package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"smarthome-panel/internal/models"
)

const recognizePath = "/v1/recognize"

type recognizeRequest struct {
	Audio      string `json:"audio"`
	SampleRate int    `json:"sample_rate"`
	Format     string `json:"format"`
	Language   string `json:"language"`
}

type recognizeResponse struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

type recognizeError struct {
	Error string `json:"error"`
}

// HTTPRecognizer sends phrases to a remote speech-to-text service
type HTTPRecognizer struct {
	client   *resty.Client
	language string
	logger   *zap.Logger
}

// NewHTTPRecognizer creates a recognizer for the service at baseURL
func NewHTTPRecognizer(baseURL, apiKey, language string, timeout time.Duration, logger *zap.Logger) *HTTPRecognizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &HTTPRecognizer{client: client, language: language, logger: logger}
}

// Recognize returns the transcript of rec. An empty transcript yields
// ErrUnknownValue; transport and service failures wrap ErrUnavailable.
func (r *HTTPRecognizer) Recognize(ctx context.Context, rec *models.AudioRecording) (string, error) {
	audio := rec.DataBase64
	if audio == "" {
		audio = base64.StdEncoding.EncodeToString(rec.Data)
	}
	format := rec.Format
	if format == "" {
		format = "pcm"
	}

	var out recognizeResponse
	var apiErr recognizeError
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(recognizeRequest{
			Audio:      audio,
			SampleRate: rec.SampleRate,
			Format:     format,
			Language:   r.language,
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post(recognizePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode(), apiErr.Error)
	}

	text := strings.TrimSpace(out.Transcript)
	if text == "" {
		return "", ErrUnknownValue
	}
	r.logger.Debug("Phrase recognized",
		zap.String("device_id", rec.DeviceID),
		zap.Float64("confidence", out.Confidence))
	return text, nil
}
