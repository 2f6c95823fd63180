package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	portssvc "github.com/SscSPs/workshop_inventory/internal/core/ports/services"
	"github.com/SscSPs/workshop_inventory/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Capabilities portssvc.CapabilityChecker
	Clock        func() time.Time
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// Now returns the current time from the configured clock.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// Authorize checks that actor holds capability. Without a checker every call is denied.
func (s *BaseService) Authorize(ctx context.Context, actor domain.Actor, capability domain.Capability) error {
	if s.Capabilities != nil {
		return s.Capabilities.Authorize(ctx, actor, capability)
	}
	s.GetLogger(ctx).Error("No capability checker configured, access denied",
		slog.String("user_id", actor.UserID),
		slog.String("capability", string(capability)))
	return fmt.Errorf("%w: no capability checker configured", apperrors.ErrForbidden)
}
