package handler

import (
	"github.com/gin-gonic/gin"
	gymapp "github.com/gymdesk/backend/internal/application/gym"
)

// MemberHandler handles member and discipline endpoints
type MemberHandler struct {
	BaseHandler
	memberService     *gymapp.MemberService
	disciplineService *gymapp.DisciplineService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService *gymapp.MemberService, disciplineService *gymapp.DisciplineService) *MemberHandler {
	return &MemberHandler{
		memberService:     memberService,
		disciplineService: disciplineService,
	}
}

// Create godoc
// @Summary      Enroll a member
// @Description  Create a member of the current gym. An optional recipient handle triggers the welcome message.
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        request body gymapp.CreateMemberInput true "Member"
// @Success      201 {object} dto.Response{data=gymapp.MemberResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /gym/members [post]
func (h *MemberHandler) Create(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var req gymapp.CreateMemberInput
	if !h.BindJSON(c, &req) {
		return
	}

	member, err := h.memberService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, member)
}

// LinkRecipient godoc
// @Summary      Link a messaging handle
// @Description  Attach the member's messaging handle. A welcome message is sent asynchronously.
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Member ID" format(uuid)
// @Param        request body gymapp.LinkRecipientInput true "Handle"
// @Success      200 {object} dto.Response{data=gymapp.MemberResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /gym/members/{id}/recipient [put]
func (h *MemberHandler) LinkRecipient(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	memberID, ok := h.PathID(c, "member")
	if !ok {
		return
	}
	var req gymapp.LinkRecipientInput
	if !h.BindJSON(c, &req) {
		return
	}

	member, err := h.memberService.LinkRecipient(c.Request.Context(), tenantID, memberID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, member)
}

// Deactivate godoc
// @Summary      Deactivate a member
// @Tags         members
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Member ID" format(uuid)
// @Success      200 {object} dto.Response{data=gymapp.MemberResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /gym/members/{id}/deactivate [post]
func (h *MemberHandler) Deactivate(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	memberID, ok := h.PathID(c, "member")
	if !ok {
		return
	}

	member, err := h.memberService.Deactivate(c.Request.Context(), tenantID, memberID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, member)
}

// CreateDiscipline godoc
// @Summary      Create a discipline
// @Tags         disciplines
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        request body gymapp.CreateDisciplineInput true "Discipline"
// @Success      201 {object} dto.Response{data=gymapp.DisciplineResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /gym/disciplines [post]
func (h *MemberHandler) CreateDiscipline(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var req gymapp.CreateDisciplineInput
	if !h.BindJSON(c, &req) {
		return
	}

	discipline, err := h.disciplineService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, discipline)
}
