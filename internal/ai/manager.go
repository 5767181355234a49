package ai

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Task types passed to embedding providers that support them.
const (
	TaskTypeQuery    = "RETRIEVAL_QUERY"
	TaskTypeDocument = "RETRIEVAL_DOCUMENT"
)

type ManagerConfig struct {
	Timeout       int
	MaxInputChars int
}

// Manager bundles the AI collaborators the planning pipeline talks to:
// an embedder for segment/clip vectors, a describer that expands B-roll
// clip names into visual descriptions, and an explainer that produces
// the per-decision reasoning prose.
type Manager struct {
	describer IGenerator
	explainer IGenerator
	embedder  IEmbedder
	cfg       ManagerConfig
}

func NewManager(describer IGenerator, explainer IGenerator, embedder IEmbedder, cfg ManagerConfig) *Manager {
	return &Manager{
		describer: describer,
		explainer: explainer,
		embedder:  embedder,
		cfg:       cfg,
	}
}

func (m *Manager) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if m.embedder == nil {
		return nil, fmt.Errorf("embedder not configured")
	}
	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(m.cfg.Timeout)*time.Second)
		defer cancel()
	}
	return m.embedder.Embed(ctx, text, taskType)
}

func (m *Manager) EmbeddingModelName() string {
	if m.embedder == nil {
		return ""
	}
	return m.embedder.ModelName()
}

// DescribeClip expands a filename-derived stem into a short visual
// description of the clip's likely content.
func (m *Manager) DescribeClip(ctx context.Context, baseDescription string) (string, error) {
	if m.describer == nil {
		return "", fmt.Errorf("describer not configured")
	}
	prompt := fmt.Sprintf(`You are a video editor assistant.
Given a brief video clip name, expand it into a detailed 1-2 sentence description
of what the clip likely contains.
- Focus on visual elements, mood, and context.
- Output ONLY the description text.

Clip name: %s`, baseDescription)
	return m.generateText(ctx, m.describer, prompt)
}

// ExplainMatch produces 1-2 sentences of reasoning for why a clip fits a
// spoken segment. Callers should fall back to FallbackReason on error;
// the plan stays valid with the reason absent entirely.
func (m *Manager) ExplainMatch(ctx context.Context, segmentText, clipDescription string, similarity float64) (string, error) {
	if m.explainer == nil {
		return "", fmt.Errorf("explainer not configured")
	}
	prompt := fmt.Sprintf(`You are a video editor assistant.
Explain in 1-2 sentences why a specific B-roll clip is a good visual match
for a spoken segment. Be specific about thematic connections.

Spoken text: "%s"
B-roll clip: %s
Similarity score: %.3f

Why is this a good match?`, segmentText, clipDescription, similarity)
	reasoning, err := m.generateText(ctx, m.explainer, prompt)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (Similarity: %.3f)", reasoning, similarity), nil
}

// FallbackReason is the deterministic reasoning string used when the
// explanation collaborator is unavailable.
func FallbackReason(segmentText, clipDescription string, similarity float64) string {
	excerpt := segmentText
	if runes := []rune(excerpt); len(runes) > 50 {
		excerpt = string(runes[:50])
	}
	return fmt.Sprintf("Semantic match with similarity score %.3f. The B-roll '%s' aligns with the spoken content about '%s...'",
		similarity, clipDescription, excerpt)
}

func (m *Manager) generateText(ctx context.Context, gen IGenerator, prompt string) (string, error) {
	if m.cfg.MaxInputChars > 0 && len(prompt) > m.cfg.MaxInputChars {
		return "", fmt.Errorf("prompt too long: %d chars", len(prompt))
	}
	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(m.cfg.Timeout)*time.Second)
		defer cancel()
	}
	resp, err := gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp)
	if text == "" {
		return "", fmt.Errorf("empty ai response")
	}
	return text, nil
}
