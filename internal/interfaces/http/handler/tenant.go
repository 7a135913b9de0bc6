package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/gymdesk/backend/internal/application/identity"
)

// TenantHandler handles gym organization endpoints
type TenantHandler struct {
	BaseHandler
	tenantService *identityapp.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *identityapp.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// Create godoc
// @Summary      Create a gym organization
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        request body identityapp.CreateTenantInput true "Tenant"
// @Success      201 {object} dto.Response{data=identityapp.TenantDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /identity/tenants [post]
func (h *TenantHandler) Create(c *gin.Context) {
	var req identityapp.CreateTenantInput
	if !h.BindJSON(c, &req) {
		return
	}

	tenant, err := h.tenantService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, tenant)
}

// GetCurrent godoc
// @Summary      Get the current gym organization
// @Tags         tenants
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.TenantDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /identity/tenant [get]
func (h *TenantHandler) GetCurrent(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}

	tenant, err := h.tenantService.GetByID(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// UpdateMessaging godoc
// @Summary      Configure the messaging account
// @Description  Store the bot token and enable or disable messaging. The live channel is reconciled asynchronously.
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        request body identityapp.UpdateMessagingInput true "Messaging settings"
// @Success      200 {object} dto.Response{data=identityapp.TenantDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /identity/tenant/messaging [put]
func (h *TenantHandler) UpdateMessaging(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}
	var req identityapp.UpdateMessagingInput
	if !h.BindJSON(c, &req) {
		return
	}

	tenant, err := h.tenantService.UpdateMessaging(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// Suspend godoc
// @Summary      Suspend the gym organization
// @Tags         tenants
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.TenantDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /identity/tenant/suspend [post]
func (h *TenantHandler) Suspend(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}

	tenant, err := h.tenantService.Suspend(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// Activate godoc
// @Summary      Reactivate the gym organization
// @Tags         tenants
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.TenantDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /identity/tenant/activate [post]
func (h *TenantHandler) Activate(c *gin.Context) {
	tenantID, ok := h.TenantID(c)
	if !ok {
		return
	}

	tenant, err := h.tenantService.Activate(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}
