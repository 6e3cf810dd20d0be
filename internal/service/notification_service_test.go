package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-transit/grievance-service/internal/config"
	"github.com/campus-transit/grievance-service/internal/domain"
	"github.com/campus-transit/grievance-service/internal/events"
)

func assignedEvent(actor string) events.Event {
	return events.Event{
		ID:          "evt-1",
		Type:        events.EventGrievanceAssigned,
		GrievanceID: gid(1),
		Actor:       events.Actor{StaffID: actor, Role: domain.StaffRoleSuperAdmin},
		Payload: events.GrievanceAssignedPayload{
			StudentID:    "student-1",
			Title:        "Bus late",
			AssigneeID:   sid(1),
			AssigneeName: "Asha",
			Priority:     domain.GrievancePriorityHigh,
			Strategy:     "balanced",
		},
	}
}

func newNotificationFixture(cfg config.NotificationConfig) (*NotificationService, events.Dispatcher, *fakeNotificationRepo, *fakeActivityRepo) {
	dispatcher := events.NewInMemoryDispatcher()
	notifications := &fakeNotificationRepo{}
	activity := &fakeActivityRepo{}
	staff := &fakeStaffRepo{staff: []domain.StaffMember{
		staffMember(1, domain.StaffRoleOperationsAdmin, 0, 10),
		staffMember(2, domain.StaffRoleSuperAdmin, 0, 10),
		staffMember(3, domain.StaffRoleSuperAdmin, 0, 10),
	}}
	svc := NewNotificationService(NotificationDependencies{
		Dispatcher:       dispatcher,
		NotificationRepo: notifications,
		ActivityRepo:     activity,
		StaffRepo:        staff,
	}, zap.NewNop(), cfg)
	svc.RegisterHandlers()
	return svc, dispatcher, notifications, activity
}

func TestNotificationService_FansOut(t *testing.T) {
	_, dispatcher, notifications, activity := newNotificationFixture(config.NotificationConfig{
		NotifyStudents:    true,
		NotifySuperAdmins: true,
	})

	require.NoError(t, dispatcher.Publish(context.Background(), assignedEvent(sid(2))))

	require.Len(t, activity.entries, 1)
	entry := activity.entries[0]
	assert.Equal(t, ActionGrievanceAssigned, entry.Action)
	assert.Equal(t, gid(1), entry.EntityID)
	assert.Equal(t, sid(2), entry.ActorID)
	assert.Equal(t, sid(1), entry.Metadata["assigned_to"])

	require.Len(t, notifications.sent, 2)
	assert.Equal(t, domain.RecipientStudent, notifications.sent[0].RecipientType)
	assert.Equal(t, "student-1", notifications.sent[0].RecipientID)
	assert.Contains(t, notifications.sent[0].Message, "Asha")
	assert.Equal(t, domain.RecipientAdmin, notifications.sent[1].RecipientType)
	assert.Equal(t, sid(3), notifications.sent[1].RecipientID)
}

func TestNotificationService_RespectsToggles(t *testing.T) {
	_, dispatcher, notifications, activity := newNotificationFixture(config.NotificationConfig{})

	require.NoError(t, dispatcher.Publish(context.Background(), assignedEvent(sid(2))))
	assert.Len(t, activity.entries, 1)
	assert.Empty(t, notifications.sent)
}

func TestNotificationService_ReturnsJoinedErrors(t *testing.T) {
	_, dispatcher, notifications, activity := newNotificationFixture(config.NotificationConfig{
		NotifyStudents:    true,
		NotifySuperAdmins: true,
	})
	notifications.err = errors.New("insert failed")
	activity.err = errors.New("audit failed")

	err := dispatcher.Publish(context.Background(), assignedEvent(sid(9)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "activity log")
	assert.Contains(t, err.Error(), "student notification")
	assert.Contains(t, err.Error(), "admin notification")
}

func TestNotificationService_RejectsForeignPayload(t *testing.T) {
	_, dispatcher, _, _ := newNotificationFixture(config.NotificationConfig{})
	err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventGrievanceAssigned, Payload: "nope"})
	assert.Error(t, err)
}
