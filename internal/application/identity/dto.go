package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/identity"
)

// CreateTenantInput contains input for creating a tenant
type CreateTenantInput struct {
	Code        string `json:"code" binding:"required,min=1,max=50"`
	Name        string `json:"name" binding:"required,min=1,max=200"`
	DisplayName string `json:"display_name" binding:"max=200"`
	Timezone    string `json:"timezone" binding:"omitempty,max=50,timezone"`
}

// UpdateMessagingInput contains input for changing the messaging account.
// An empty token with Enabled=false turns messaging off.
type UpdateMessagingInput struct {
	BotToken string `json:"bot_token" binding:"max=200"`
	Enabled  bool   `json:"enabled"`
}

// TenantDTO represents tenant data transfer object
type TenantDTO struct {
	ID               uuid.UUID `json:"id"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	DisplayName      string    `json:"display_name,omitempty"`
	Status           string    `json:"status"`
	Timezone         string    `json:"timezone,omitempty"`
	MessagingEnabled bool      `json:"messaging_enabled"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// toTenantDTO converts a tenant. The bot token never leaves the service.
func toTenantDTO(t *identity.Tenant) *TenantDTO {
	return &TenantDTO{
		ID:               t.ID,
		Code:             t.Code,
		Name:             t.Name,
		DisplayName:      t.DisplayName,
		Status:           string(t.Status),
		Timezone:         t.Timezone,
		MessagingEnabled: t.Messaging.IsConfigured(),
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}
