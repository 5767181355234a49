package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aslinsheeba/flona-ai/internal/middleware"
	"github.com/aslinsheeba/flona-ai/internal/pkg/response"
)

type RouterDeps struct {
	Plan            *PlanHandler
	Process         *ProcessHandler
	RateLimitWindow time.Duration
}

// RegisterRoutes wires the public API. The rate limit only guards
// /process; /plan with cached embeddings is cheap enough that repeated
// calls cost nearly nothing upstream.
func RegisterRoutes(group *gin.RouterGroup, deps RouterDeps) {
	group.GET("/status", statusHandler)
	group.POST("/plan", deps.Plan.Plan)
	group.POST("/process", middleware.RateLimit(deps.RateLimitWindow), deps.Process.Process)
}

func statusHandler(c *gin.Context) {
	response.Success(c, map[string]string{"status": "online"})
}
