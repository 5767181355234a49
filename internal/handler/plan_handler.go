package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/aslinsheeba/flona-ai/internal/model"
	"github.com/aslinsheeba/flona-ai/internal/pkg/errcode"
	"github.com/aslinsheeba/flona-ai/internal/pkg/response"
	"github.com/aslinsheeba/flona-ai/internal/plan"
	"github.com/aslinsheeba/flona-ai/internal/service"
)

type PlanHandler struct {
	svc *service.PlanService
}

func NewPlanHandler(svc *service.PlanService) *PlanHandler {
	return &PlanHandler{svc: svc}
}

type planRequest struct {
	Segments    []model.NarrationSegment `json:"segments"`
	Clips       []model.ClipDescriptor   `json:"clips"`
	Config      *plan.Config             `json:"config"`
	WithReasons bool                     `json:"with_reasons"`
}

// Plan computes an edit decision list from caller-supplied narration
// segments and clip descriptors. Omitted config falls back to server
// defaults; a partial config is rejected by validation rather than
// silently patched.
func (h *PlanHandler) Plan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	cfg := h.svc.Defaults()
	if req.Config != nil {
		cfg = *req.Config
	}
	edl, err := h.svc.Plan(c.Request.Context(), req.Segments, req.Clips, cfg, req.WithReasons)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, edl)
}
