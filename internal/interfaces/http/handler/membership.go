package handler

import (
	"github.com/gin-gonic/gin"
	gymapp "github.com/gymdesk/backend/internal/application/gym"
)

// MembershipHandler handles membership lifecycle endpoints
type MembershipHandler struct {
	BaseHandler
	membershipService *gymapp.MembershipService
}

// NewMembershipHandler creates a new MembershipHandler
func NewMembershipHandler(membershipService *gymapp.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipService: membershipService}
}

// Create godoc
// @Summary      Sell a membership
// @Description  Create an ACTIVE membership. Either months or end_date sets the period.
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        request body gymapp.CreateMembershipInput true "Membership"
// @Success      201 {object} dto.Response{data=gymapp.MembershipResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /gym/memberships [post]
func (h *MembershipHandler) Create(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var req gymapp.CreateMembershipInput
	if !h.BindJSON(c, &req) {
		return
	}

	membership, err := h.membershipService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, membership)
}

// Renew godoc
// @Summary      Renew a membership
// @Description  Expire the membership if still active and create its successor starting now
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Membership ID" format(uuid)
// @Param        request body gymapp.RenewMembershipInput true "Renewal"
// @Success      201 {object} dto.Response{data=gymapp.RenewResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /gym/memberships/{id}/renew [post]
func (h *MembershipHandler) Renew(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	membershipID, ok := h.PathID(c, "membership")
	if !ok {
		return
	}
	var req gymapp.RenewMembershipInput
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.membershipService.Renew(c.Request.Context(), tenantID, membershipID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Expire godoc
// @Summary      Expire a membership
// @Tags         memberships
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Membership ID" format(uuid)
// @Success      200 {object} dto.Response{data=gymapp.MembershipResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /gym/memberships/{id}/expire [post]
func (h *MembershipHandler) Expire(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	membershipID, ok := h.PathID(c, "membership")
	if !ok {
		return
	}

	membership, err := h.membershipService.Expire(c.Request.Context(), tenantID, membershipID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, membership)
}

// GetActive godoc
// @Summary      Get a member's active membership
// @Tags         memberships
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Member ID" format(uuid)
// @Success      200 {object} dto.Response{data=gymapp.MembershipResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /gym/members/{id}/active-membership [get]
func (h *MembershipHandler) GetActive(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	memberID, ok := h.PathID(c, "member")
	if !ok {
		return
	}

	membership, err := h.membershipService.GetActive(c.Request.Context(), tenantID, memberID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, membership)
}
