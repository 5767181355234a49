package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aslinsheeba/flona-ai/internal/ai"
	"github.com/aslinsheeba/flona-ai/internal/config"
	"github.com/aslinsheeba/flona-ai/internal/describe"
	"github.com/aslinsheeba/flona-ai/internal/model"
	apperrors "github.com/aslinsheeba/flona-ai/internal/pkg/errors"
	"github.com/aslinsheeba/flona-ai/internal/plan"
	"github.com/aslinsheeba/flona-ai/internal/transcribe"
)

type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	vec, ok := f.vectors[text]
	if !ok {
		return []float32{0, 0}, nil
	}
	return vec, nil
}

func (f *fakeEmbedder) ModelName() string {
	return "fake-embedding"
}

type fakeGenerator struct {
	reply string
	err   error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestService(embedder ai.IEmbedder, explainer ai.IGenerator) *PlanService {
	manager := ai.NewManager(&fakeGenerator{reply: "a clip"}, explainer, embedder, ai.ManagerConfig{})
	return NewPlanService(
		manager,
		nil,
		transcribe.New(config.TranscribeConfig{}),
		describe.New(manager),
		plan.DefaultConfig(),
	)
}

func TestPlanServicePlan_EndToEnd(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"talking about mountains": {1, 0},
		"city traffic at night":   {0, 1},
		"drone shot of a ridge":   {1, 0},
		"cars on a highway":       {0, 1},
	}}
	svc := newTestService(embedder, &fakeGenerator{reply: "strong thematic overlap"})

	segments := []model.NarrationSegment{
		{Start: 0, End: 10, Text: "talking about mountains"},
		{Start: 30, End: 40, Text: "city traffic at night"},
	}
	clips := []model.ClipDescriptor{
		{ID: "ridge.mp4", Text: "drone shot of a ridge"},
		{ID: "traffic.mp4", Text: "cars on a highway"},
	}

	edl, err := svc.Plan(context.Background(), segments, clips, svc.Defaults(), true)
	require.NoError(t, err)
	require.Len(t, edl.Edits, 2)
	require.Equal(t, "ridge.mp4", edl.Edits[0].ClipID)
	require.Equal(t, "traffic.mp4", edl.Edits[1].ClipID)
	require.Contains(t, edl.Edits[0].Reason, "strong thematic overlap")
	require.Contains(t, edl.Edits[0].Reason, "(Similarity: 1.000)")
}

func TestPlanServicePlan_ReasonFallback(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"talking about mountains": {1, 0},
		"drone shot of a ridge":   {1, 0},
	}}
	svc := newTestService(embedder, &fakeGenerator{err: errors.New("quota exceeded")})

	segments := []model.NarrationSegment{{Start: 0, End: 10, Text: "talking about mountains"}}
	clips := []model.ClipDescriptor{{ID: "ridge.mp4", Text: "drone shot of a ridge"}}

	edl, err := svc.Plan(context.Background(), segments, clips, svc.Defaults(), true)
	require.NoError(t, err)
	require.Len(t, edl.Edits, 1)
	require.Contains(t, edl.Edits[0].Reason, "Semantic match with similarity score 1.000")
	require.Contains(t, edl.Edits[0].Reason, "drone shot of a ridge")
}

func TestPlanServicePlan_WithoutReasons(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"talking about mountains": {1, 0},
		"drone shot of a ridge":   {1, 0},
	}}
	svc := newTestService(embedder, &fakeGenerator{reply: "should not be called"})

	segments := []model.NarrationSegment{{Start: 0, End: 10, Text: "talking about mountains"}}
	clips := []model.ClipDescriptor{{ID: "ridge.mp4", Text: "drone shot of a ridge"}}

	edl, err := svc.Plan(context.Background(), segments, clips, svc.Defaults(), false)
	require.NoError(t, err)
	require.Len(t, edl.Edits, 1)
	require.Empty(t, edl.Edits[0].Reason)
}

func TestPlanServicePlan_InvalidInputBeforeEmbedding(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("embedder must not be called")}
	svc := newTestService(embedder, &fakeGenerator{})

	segments := []model.NarrationSegment{{Start: 5, End: 5, Text: "zero length"}}
	clips := []model.ClipDescriptor{{ID: "ridge.mp4", Text: "drone shot of a ridge"}}

	_, err := svc.Plan(context.Background(), segments, clips, svc.Defaults(), false)
	require.Error(t, err)
	require.True(t, apperrors.IsInvalid(err))

	badCfg := svc.Defaults()
	badCfg.SimilarityThreshold = 2
	_, err = svc.Plan(context.Background(),
		[]model.NarrationSegment{{Start: 0, End: 10, Text: "fine"}}, clips, badCfg, false)
	require.Error(t, err)
	require.True(t, apperrors.IsInvalid(err))
}

func TestPlanServicePlan_EmbedErrorPropagates(t *testing.T) {
	wantErr := errors.New("provider down")
	svc := newTestService(&fakeEmbedder{err: wantErr}, &fakeGenerator{})

	segments := []model.NarrationSegment{{Start: 0, End: 10, Text: "fine"}}
	clips := []model.ClipDescriptor{{ID: "ridge.mp4", Text: "drone shot of a ridge"}}

	_, err := svc.Plan(context.Background(), segments, clips, svc.Defaults(), false)
	require.ErrorIs(t, err, wantErr)
}

func TestProcessSession_RequiresTranscriber(t *testing.T) {
	svc := newTestService(&fakeEmbedder{}, &fakeGenerator{})
	_, err := svc.ProcessSession(context.Background(), SessionInput{
		SessionID: "s1",
		ARollKey:  "s1/aroll_video.mp4",
		ARollName: "video.mp4",
		Config:    svc.Defaults(),
	})
	require.ErrorIs(t, err, ErrAIUnavailable)
}
