package describe

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/aslinsheeba/flona-ai/internal/ai"
	"github.com/aslinsheeba/flona-ai/internal/model"
)

// Describer produces the semantic descriptor for a B-roll clip. The
// baseline is the filename stem; when a generator is configured it is
// expanded into a richer visual description, falling back to the stem
// on any provider failure.
type Describer struct {
	manager *ai.Manager
}

func New(manager *ai.Manager) *Describer {
	return &Describer{manager: manager}
}

func (d *Describer) DescribeClip(ctx context.Context, fileName string) model.ClipDescriptor {
	base := BaseDescription(fileName)
	text, err := d.manager.DescribeClip(ctx, base)
	if err != nil {
		logutil.GetLogger(ctx).Warn("clip description enhancement failed, using filename stem",
			zap.String("clip", fileName), zap.Error(err))
		text = base
	}
	return model.ClipDescriptor{ID: fileName, Text: text}
}

func (d *Describer) DescribeAll(ctx context.Context, fileNames []string) []model.ClipDescriptor {
	clips := make([]model.ClipDescriptor, 0, len(fileNames))
	for _, name := range fileNames {
		clips = append(clips, d.DescribeClip(ctx, name))
	}
	return clips
}

// BaseDescription turns a clip filename into a plain-text stem, e.g.
// "city_skyline-dusk.mp4" -> "city skyline dusk".
func BaseDescription(fileName string) string {
	stem := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	stem = strings.ReplaceAll(stem, "_", " ")
	stem = strings.ReplaceAll(stem, "-", " ")
	return strings.Join(strings.Fields(stem), " ")
}
