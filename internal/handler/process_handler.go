package handler

import (
	"fmt"
	"mime/multipart"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/aslinsheeba/flona-ai/internal/config"
	"github.com/aslinsheeba/flona-ai/internal/filestore"
	"github.com/aslinsheeba/flona-ai/internal/pkg/errcode"
	apperrors "github.com/aslinsheeba/flona-ai/internal/pkg/errors"
	"github.com/aslinsheeba/flona-ai/internal/pkg/response"
	"github.com/aslinsheeba/flona-ai/internal/service"
)

type ProcessHandler struct {
	svc    *service.PlanService
	store  filestore.Store
	upload config.UploadConfig
}

func NewProcessHandler(svc *service.PlanService, store filestore.Store, upload config.UploadConfig) *ProcessHandler {
	return &ProcessHandler{svc: svc, store: store, upload: upload}
}

// Process accepts a multipart upload of one A-roll video plus B-roll
// clips and runs the full pipeline: transcribe, describe, match, plan.
// Query params similarity_threshold and min_gap override the server
// defaults for this request only.
func (h *ProcessHandler) Process(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, errcode.ErrInvalid, fmt.Sprintf("invalid multipart form: %v", err))
		return
	}
	aRolls := form.File["a_roll"]
	if len(aRolls) != 1 {
		response.Error(c, errcode.ErrInvalid, "exactly one a_roll file is required")
		return
	}
	bRolls := form.File["b_rolls"]
	if len(bRolls) == 0 {
		response.Error(c, errcode.ErrInvalid, "at least one b_rolls file is required")
		return
	}

	cfg := h.svc.Defaults()
	if raw := c.Query("similarity_threshold"); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.Error(c, errcode.ErrInvalid, "similarity_threshold must be a number")
			return
		}
		cfg.SimilarityThreshold = threshold
	}
	if raw := c.Query("min_gap"); raw != "" {
		gap, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.Error(c, errcode.ErrInvalid, "min_gap must be a number")
			return
		}
		cfg.MinGapSeconds = gap
	}
	withReasons := true
	if raw := c.Query("with_reasons"); raw != "" {
		withReasons = raw != "false" && raw != "0"
	}

	ctx := c.Request.Context()
	sessionID := newSessionID()
	logger := logutil.GetLogger(ctx).With(zap.String("session", sessionID))

	aRollKey, err := h.saveUpload(c, sessionID, "aroll", aRolls[0])
	if err != nil {
		handleError(c, err)
		return
	}
	bRollNames := make([]string, 0, len(bRolls))
	for _, file := range bRolls {
		if _, err := h.saveUpload(c, sessionID, "broll", file); err != nil {
			handleError(c, err)
			return
		}
		bRollNames = append(bRollNames, path.Base(file.Filename))
	}
	logger.Info("session media stored",
		zap.String("a_roll", aRollKey),
		zap.Int("b_rolls", len(bRollNames)),
	)

	edl, err := h.svc.ProcessSession(ctx, service.SessionInput{
		SessionID:   sessionID,
		ARollKey:    aRollKey,
		ARollName:   path.Base(aRolls[0].Filename),
		BRollNames:  bRollNames,
		Config:      cfg,
		WithReasons: withReasons,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, edl)
}

func (h *ProcessHandler) saveUpload(c *gin.Context, sessionID, kind string, file *multipart.FileHeader) (string, error) {
	maxSize := h.upload.MaxSizeMB * 1024 * 1024
	if maxSize > 0 && file.Size > maxSize {
		return "", fmt.Errorf("%w: file %s exceeds %dMB limit",
			apperrors.ErrInvalid, path.Base(file.Filename), h.upload.MaxSizeMB)
	}
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", file.Filename, err)
	}
	defer src.Close()

	key := path.Join(sessionID, kind+"_"+path.Base(file.Filename))
	if err := h.store.Save(c.Request.Context(), key, src, file.Size); err != nil {
		return "", fmt.Errorf("store upload %s: %w", file.Filename, err)
	}
	return key, nil
}
