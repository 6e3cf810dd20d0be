package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/campus-transit/grievance-service/internal/config"
	"github.com/campus-transit/grievance-service/internal/domain"
	"github.com/campus-transit/grievance-service/internal/events"
	"github.com/campus-transit/grievance-service/internal/repository"
)

// Activity log action written for every assignment.
const ActionGrievanceAssigned = "grievance_assigned"

// NotificationService turns assignment events into activity logs and
// in-app notifications. All of it is best effort.
type NotificationService struct {
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	cfg           config.NotificationConfig
	notifications repository.NotificationRepository
	activity      repository.ActivityLogRepository
	staff         repository.StaffRepository
}

// NotificationDependencies bundles repositories.
type NotificationDependencies struct {
	Dispatcher       events.Dispatcher
	NotificationRepo repository.NotificationRepository
	ActivityRepo     repository.ActivityLogRepository
	StaffRepo        repository.StaffRepository
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher:    deps.Dispatcher,
		logger:        logger,
		cfg:           cfg,
		notifications: deps.NotificationRepo,
		activity:      deps.ActivityRepo,
		staff:         deps.StaffRepo,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventGrievanceAssigned, n.handleGrievanceAssigned)
}

func (n *NotificationService) handleGrievanceAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.GrievanceAssignedPayload)
	if !ok {
		return fmt.Errorf("grievance_assigned: unexpected payload %T", event.Payload)
	}
	n.logger.Debug("GrievanceAssigned",
		zap.String("grievance_id", event.GrievanceID),
		zap.String("assignee_id", payload.AssigneeID))

	var errs []error
	if err := n.recordActivity(ctx, event, payload); err != nil {
		errs = append(errs, fmt.Errorf("activity log: %w", err))
	}
	if n.cfg.NotifyStudents && payload.StudentID != "" {
		if err := n.notifyStudent(ctx, event, payload); err != nil {
			errs = append(errs, fmt.Errorf("student notification: %w", err))
		}
	}
	if n.cfg.NotifySuperAdmins {
		if err := n.notifySuperAdmins(ctx, event, payload); err != nil {
			errs = append(errs, fmt.Errorf("admin notification: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (n *NotificationService) recordActivity(ctx context.Context, event events.Event, payload events.GrievanceAssignedPayload) error {
	if n.activity == nil {
		return nil
	}
	metadata := map[string]any{
		"assigned_to": payload.AssigneeID,
		"priority":    payload.Priority,
	}
	if payload.Strategy != "" {
		metadata["strategy"] = payload.Strategy
	}
	if payload.Reason != "" {
		metadata["reason"] = payload.Reason
	}
	if payload.PreviousAssignee != nil {
		metadata["previous_assignee"] = *payload.PreviousAssignee
	}
	return n.activity.Create(ctx, &domain.ActivityLog{
		ActorID:    event.Actor.StaffID,
		ActorRole:  event.Actor.Role,
		Action:     ActionGrievanceAssigned,
		EntityType: "grievance",
		EntityID:   event.GrievanceID,
		Metadata:   metadata,
	})
}

func (n *NotificationService) notifyStudent(ctx context.Context, event events.Event, payload events.GrievanceAssignedPayload) error {
	grievanceID := event.GrievanceID
	return n.notifications.Create(ctx, &domain.Notification{
		RecipientType: domain.RecipientStudent,
		RecipientID:   payload.StudentID,
		Title:         "Grievance assigned",
		Message:       fmt.Sprintf("Your grievance %q is now being handled by %s.", payload.Title, payload.AssigneeName),
		GrievanceID:   &grievanceID,
	})
}

// notifySuperAdmins tells every active super admin except the actor.
func (n *NotificationService) notifySuperAdmins(ctx context.Context, event events.Event, payload events.GrievanceAssignedPayload) error {
	admins, err := n.staff.ListActiveByRole(ctx, domain.StaffRoleSuperAdmin)
	if err != nil {
		return err
	}
	grievanceID := event.GrievanceID
	var errs []error
	for _, admin := range admins {
		if admin.ID == event.Actor.StaffID {
			continue
		}
		err := n.notifications.Create(ctx, &domain.Notification{
			RecipientType: domain.RecipientAdmin,
			RecipientID:   admin.ID,
			Title:         "Grievance assigned",
			Message:       fmt.Sprintf("Grievance %q (%s) was assigned to %s.", payload.Title, payload.Priority, payload.AssigneeName),
			GrievanceID:   &grievanceID,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("admin %s: %w", admin.ID, err))
		}
	}
	return errors.Join(errs...)
}
