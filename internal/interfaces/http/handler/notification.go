package handler

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	notifyapp "github.com/gymdesk/backend/internal/application/notification"
	"github.com/gymdesk/backend/internal/infrastructure/logger"
	"github.com/gymdesk/backend/internal/interfaces/http/dto"
	"github.com/gymdesk/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// SweepStarter takes the sweep run lock and hands back the sweep to run
type SweepStarter interface {
	Start(ctx context.Context, manual bool) (notifyapp.SweepFunc, error)
}

// NotificationHandler exposes the manual sweep trigger
type NotificationHandler struct {
	BaseHandler
	sweep   SweepStarter
	running sync.WaitGroup
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(sweep SweepStarter) *NotificationHandler {
	return &NotificationHandler{sweep: sweep}
}

// RunSweep godoc
// @Summary      Start the expiration sweep
// @Description  Starts the sweep in the background and returns once the run lock is held. With manual=true and bypass allowed by configuration, the once-per-day check is skipped. The outcome is logged.
// @Tags         notifications
// @Produce      json
// @Param        manual query bool false "Manual trigger"
// @Success      202 {object} dto.Response{data=dto.SweepAccepted}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /notifications/sweep [post]
func (h *NotificationHandler) RunSweep(c *gin.Context) {
	var req dto.SweepRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	sweep, err := h.sweep.Start(c.Request.Context(), req.Manual)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	// The sweep outlives the request; it is bounded by the run lock TTL
	ctx := context.WithoutCancel(c.Request.Context())
	log := logger.FromContext(ctx)
	h.running.Add(1)
	go func() {
		defer h.running.Done()
		summary, err := sweep(ctx)
		if err != nil {
			log.Error("Manual expiration sweep failed", zap.Bool("manual", req.Manual), zap.Error(err))
			return
		}
		log.Info("Manual expiration sweep finished",
			zap.Bool("bypassed", summary.Bypassed),
			zap.Int("sent", summary.Sent),
			zap.Int("errors", summary.Errors),
		)
	}()

	h.Accepted(c, dto.SweepAccepted{Manual: req.Manual, StartedAt: time.Now().UTC()})
}

// Drain waits for sweeps started over HTTP to finish or for ctx to end
func (h *NotificationHandler) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.running.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
