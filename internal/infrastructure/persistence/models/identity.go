package models

import (
	"github.com/gymdesk/backend/internal/domain/identity"
)

// TenantModel is the persistence model for the Tenant domain entity.
type TenantModel struct {
	VersionedModel
	Code             string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name             string                `gorm:"type:varchar(200);not null"`
	DisplayName      string                `gorm:"type:varchar(200)"`
	Status           identity.TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Timezone         string                `gorm:"type:varchar(50)"`
	BotToken         string                `gorm:"column:bot_token;type:varchar(200)"`
	MessagingEnabled bool                  `gorm:"column:messaging_enabled;not null;default:false;index"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant entity.
func (m *TenantModel) ToDomain() *identity.Tenant {
	t := &identity.Tenant{
		Code:        m.Code,
		Name:        m.Name,
		DisplayName: m.DisplayName,
		Status:      m.Status,
		Timezone:    m.Timezone,
		Messaging: identity.MessagingSettings{
			BotToken: m.BotToken,
			Enabled:  m.MessagingEnabled,
		},
	}
	t.BaseAggregateRoot = m.aggregate()
	return t
}

// FromDomain populates the persistence model from a domain Tenant entity.
func (m *TenantModel) FromDomain(t *identity.Tenant) {
	m.setAggregate(t.BaseAggregateRoot)
	m.Code = t.Code
	m.Name = t.Name
	m.DisplayName = t.DisplayName
	m.Status = t.Status
	m.Timezone = t.Timezone
	m.BotToken = t.Messaging.BotToken
	m.MessagingEnabled = t.Messaging.Enabled
}

// TenantModelFromDomain creates a new persistence model from a domain Tenant entity.
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}
