// Package gym holds the member, discipline, membership and check-in use cases.
package gym

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/identity"
	"github.com/gymdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// inputValidator checks the same `binding` tags Gin checks at the HTTP edge,
// so services reject bad input when called from anywhere else.
var inputValidator = newInputValidator()

func newInputValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput returns an INVALID_INPUT domain error naming the failing fields
func validateInput(input any) error {
	err := inputValidator.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return shared.NewDomainError("INVALID_INPUT", "Invalid fields: "+strings.Join(fields, ", "))
}

// operationalTenant loads the tenant and rejects suspended or inactive ones
func operationalTenant(ctx context.Context, tenants identity.TenantRepository, tenantID uuid.UUID) (*identity.Tenant, error) {
	tenant, err := tenants.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Organization not found")
		}
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}
	if err := tenant.EnsureOperational(); err != nil {
		return nil, err
	}
	return tenant, nil
}

type eventSource interface {
	PullEvents() []shared.DomainEvent
}

// publishEvents hands the aggregate's pending events to the publisher.
// A publish failure is logged; the state change is already committed.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, source eventSource) {
	events := source.PullEvents()
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("Failed to publish domain events", zap.Int("count", len(events)), zap.Error(err))
	}
}

// mapNotFound turns a repository miss into a NOT_FOUND error naming the resource
func mapNotFound(err error, resource string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError("NOT_FOUND", resource+" not found")
	}
	return fmt.Errorf("failed to load %s: %w", strings.ToLower(resource), err)
}
