package handler

import (
	"github.com/gin-gonic/gin"
	gymapp "github.com/gymdesk/backend/internal/application/gym"
)

// CheckInHandler handles front desk check-ins
type CheckInHandler struct {
	BaseHandler
	checkInService *gymapp.CheckInService
}

// NewCheckInHandler creates a new CheckInHandler
func NewCheckInHandler(checkInService *gymapp.CheckInService) *CheckInHandler {
	return &CheckInHandler{checkInService: checkInService}
}

// CheckIn godoc
// @Summary      Register a check-in
// @Description  Accept at most one check-in per member and day. A repeat scan returns 409 with the first scan's time.
// @Tags         check-ins
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        request body gymapp.CheckInInput true "Member code"
// @Success      201 {object} dto.Response{data=gymapp.CheckInResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /gym/check-ins [post]
func (h *CheckInHandler) CheckIn(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var req gymapp.CheckInInput
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.checkInService.CheckIn(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}
