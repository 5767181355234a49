package service

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/aslinsheeba/flona-ai/internal/ai"
	"github.com/aslinsheeba/flona-ai/internal/describe"
	"github.com/aslinsheeba/flona-ai/internal/filestore"
	"github.com/aslinsheeba/flona-ai/internal/match"
	"github.com/aslinsheeba/flona-ai/internal/model"
	apperrors "github.com/aslinsheeba/flona-ai/internal/pkg/errors"
	"github.com/aslinsheeba/flona-ai/internal/plan"
	"github.com/aslinsheeba/flona-ai/internal/transcribe"
)

var ErrAIUnavailable = ai.ErrUnavailable

// PlanService drives one planning run: embed, match, plan, explain.
// It holds no state between runs; every run is a pure function of its
// inputs plus the (idempotent) embedding cache.
type PlanService struct {
	manager     *ai.Manager
	store       filestore.Store
	transcriber *transcribe.Transcriber
	describer   *describe.Describer
	defaults    plan.Config
}

func NewPlanService(
	manager *ai.Manager,
	store filestore.Store,
	transcriber *transcribe.Transcriber,
	describer *describe.Describer,
	defaults plan.Config,
) *PlanService {
	return &PlanService{
		manager:     manager,
		store:       store,
		transcriber: transcriber,
		describer:   describer,
		defaults:    defaults,
	}
}

func (s *PlanService) Defaults() plan.Config {
	return s.defaults
}

// Plan runs matching and planning over caller-supplied segments and
// clip descriptors. Inputs are validated before any embedding call so
// malformed requests fail without burning provider quota.
func (s *PlanService) Plan(ctx context.Context, segments []model.NarrationSegment, clips []model.ClipDescriptor, cfg plan.Config, withReasons bool) (*model.EditPlan, error) {
	logger := logutil.GetLogger(ctx).With(
		zap.Int("segments", len(segments)),
		zap.Int("clips", len(clips)),
	)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalid, err)
	}
	if err := model.ValidateSegments(segments); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalid, err)
	}
	if err := model.ValidateClips(clips); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalid, err)
	}

	segmentVectors := make([][]float32, len(segments))
	for i, seg := range segments {
		vec, err := s.manager.Embed(ctx, seg.Text, ai.TaskTypeQuery)
		if err != nil {
			logger.Error("failed to embed segment", zap.Int("segment", i), zap.Error(err))
			return nil, err
		}
		segmentVectors[i] = vec
	}
	clipVectors := make([]match.ClipVector, len(clips))
	for i, clip := range clips {
		vec, err := s.manager.Embed(ctx, clip.Text, ai.TaskTypeDocument)
		if err != nil {
			logger.Error("failed to embed clip", zap.String("clip", clip.ID), zap.Error(err))
			return nil, err
		}
		clipVectors[i] = match.ClipVector{ClipID: clip.ID, Values: vec}
	}

	matrix, err := match.ComputeSimilarityMatrix(segmentVectors, clipVectors)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalid, err)
	}
	edl, err := plan.PlanEdits(segments, clips, matrix, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalid, err)
	}
	logger.Info("edit plan computed",
		zap.Int("edits", edl.Metadata.EditsApplied),
		zap.Float64("threshold", cfg.SimilarityThreshold),
	)

	if withReasons {
		s.attachReasons(ctx, edl, clips)
	}
	return edl, nil
}

// SessionInput identifies uploaded media for one planning session. The
// caller owns the session; nothing here survives the call.
type SessionInput struct {
	SessionID   string
	ARollKey    string
	ARollName   string
	BRollNames  []string
	Config      plan.Config
	WithReasons bool
}

// ProcessSession runs the full pipeline over an uploaded session:
// transcribe the A-roll, describe each B-roll clip, then Plan.
func (s *PlanService) ProcessSession(ctx context.Context, in SessionInput) (*model.EditPlan, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("session", in.SessionID))
	if !s.transcriber.Available() {
		return nil, ErrAIUnavailable
	}
	media, err := s.store.Open(ctx, in.ARollKey)
	if err != nil {
		return nil, fmt.Errorf("open a-roll: %w", err)
	}
	defer media.Close()

	segments, err := s.transcriber.Transcribe(ctx, media, in.ARollName)
	if err != nil {
		return nil, fmt.Errorf("transcribe a-roll: %w", err)
	}
	logger.Info("a-roll transcribed", zap.Int("segments", len(segments)))

	clips := s.describer.DescribeAll(ctx, in.BRollNames)
	return s.Plan(ctx, segments, clips, in.Config, in.WithReasons)
}

func (s *PlanService) attachReasons(ctx context.Context, edl *model.EditPlan, clips []model.ClipDescriptor) {
	descriptions := make(map[string]string, len(clips))
	for _, clip := range clips {
		descriptions[clip.ID] = clip.Text
	}
	for i := range edl.Edits {
		edit := &edl.Edits[i]
		reason, err := s.manager.ExplainMatch(ctx, edit.SegmentText, descriptions[edit.ClipID], edit.SimilarityScore)
		if err != nil {
			logutil.GetLogger(ctx).Warn("match reasoning failed, using fallback",
				zap.String("clip", edit.ClipID), zap.Error(err))
			reason = ai.FallbackReason(edit.SegmentText, descriptions[edit.ClipID], edit.SimilarityScore)
		}
		edit.Reason = reason
	}
}
