package transcribe

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/aslinsheeba/flona-ai/internal/ai"
	"github.com/aslinsheeba/flona-ai/internal/config"
	"github.com/aslinsheeba/flona-ai/internal/model"
)

const transcriptPrompt = `ACT AS A PROFESSIONAL VIDEO EDITOR.
Transcribe the spoken audio in this file.
Output ONLY a valid JSON list of objects.
Do not include any markdown formatting or explanation outside the JSON.

Each object MUST have these fields:
- "start": float (start time in seconds)
- "end": float (end time in seconds)
- "text": string (the transcribed text content)

CRITICAL: Break the transcription into many small segments (roughly 5-8 seconds each).
This allows for better B-roll placement.
Ensure timestamps are precise.`

const filePollInterval = 2 * time.Second

// Transcriber turns an A-roll video into timed narration segments using
// the Gemini Files API. It is an external collaborator of the planning
// core; the core only ever sees the validated segment list.
type Transcriber struct {
	apiKey string
	model  string
}

func New(cfg config.TranscribeConfig) *Transcriber {
	return &Transcriber{
		apiKey: strings.TrimSpace(cfg.APIKey),
		model:  cfg.Model,
	}
}

func (t *Transcriber) Available() bool {
	return t != nil && t.apiKey != ""
}

// Transcribe uploads the media, waits for server-side processing, then
// prompts for the timed segment JSON.
func (t *Transcriber) Transcribe(ctx context.Context, r io.Reader, fileName string) ([]model.NarrationSegment, error) {
	if !t.Available() {
		return nil, ai.ErrUnavailable
	}
	logger := logutil.GetLogger(ctx).With(zap.String("file", fileName))
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  t.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	uploaded, err := client.Files.Upload(ctx, r, &genai.UploadFileConfig{
		MIMEType: mimeTypeFor(fileName),
	})
	if err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}
	logger.Info("media uploaded for transcription", zap.String("remote", uploaded.Name))

	uploaded, err = t.waitForFile(ctx, client, uploaded)
	if err != nil {
		return nil, err
	}

	resp, err := client.Models.GenerateContent(
		ctx,
		t.model,
		[]*genai.Content{{Parts: []*genai.Part{
			genai.NewPartFromURI(uploaded.URI, uploaded.MIMEType),
			genai.NewPartFromText(transcriptPrompt),
		}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}

	segments, err := ai.ParseTranscript(resp.Text())
	if err != nil {
		return nil, err
	}
	logger.Info("transcription complete", zap.Int("segments", len(segments)))
	return segments, nil
}

func (t *Transcriber) waitForFile(ctx context.Context, client *genai.Client, f *genai.File) (*genai.File, error) {
	for f.State == genai.FileStateProcessing {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(filePollInterval):
		}
		var err error
		f, err = client.Files.Get(ctx, f.Name, nil)
		if err != nil {
			return nil, fmt.Errorf("poll uploaded media: %w", err)
		}
	}
	if f.State == genai.FileStateFailed {
		return nil, fmt.Errorf("media processing failed: %s", f.Name)
	}
	return f, nil
}

func mimeTypeFor(fileName string) string {
	if typ := mime.TypeByExtension(filepath.Ext(fileName)); typ != "" {
		return typ
	}
	return "video/mp4"
}
