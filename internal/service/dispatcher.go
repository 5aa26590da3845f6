package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/saarock/sopy-ecommerce/internal/domain"
)

// PushEvent is what a live session receives: the notification plus the
// recipient's fresh unread count so the client need not refetch.
type PushEvent struct {
	Notification *domain.Notification `json:"notification"`
	UnreadCount  int64                `json:"unread_count"`
}

// Dispatcher persists notifications and best-effort pushes them to live
// sessions. The triggering business mutation is already committed by the
// time a dispatch runs; nothing here can roll it back.
type Dispatcher struct {
	notes    *NotificationSvc
	users    UserDirectory
	registry SessionRegistry
	pusher   Pusher
	log      *zap.Logger
}

func NewDispatcher(notes *NotificationSvc, users UserDirectory, registry SessionRegistry, pusher Pusher, log *zap.Logger) *Dispatcher {
	return &Dispatcher{notes: notes, users: users, registry: registry, pusher: pusher, log: log}
}

// NotifyPrincipal durably records the notification, then pushes to the
// recipient's live session if one exists. Push failure is logged, never
// returned: the durable record is the source of truth.
func (d *Dispatcher) NotifyPrincipal(ctx context.Context, recipientID, message string, action domain.ActionType, role domain.Role, md domain.Metadata) (*domain.Notification, error) {
	n, err := d.notes.Record(ctx, recipientID, message, action, role, md)
	if err != nil {
		return nil, fmt.Errorf("record notification: %w", err)
	}
	unread, err := d.notes.CountUnread(ctx, recipientID)
	if err != nil {
		// a push carrying a bogus count would tell the client it has nothing
		// unread; skip it, the durable record is already written
		d.log.Warn("count unread, skipping push", zap.String("recipient_id", recipientID), zap.Error(err))
		return n, nil
	}
	if sid, ok := d.registry.Lookup(recipientID); ok {
		if err := d.pusher.Push(ctx, sid, PushEvent{Notification: n, UnreadCount: unread}); err != nil {
			d.log.Warn("push notification", zap.String("session_id", sid), zap.Error(err))
		}
	}
	return n, nil
}

// NotifyAllAdmins fans out to every admin independently; one recipient's
// failure never blocks the rest.
func (d *Dispatcher) NotifyAllAdmins(ctx context.Context, message string, action domain.ActionType, md domain.Metadata) error {
	return d.fanOut(ctx, domain.RoleAdmin, message, action, md)
}

func (d *Dispatcher) NotifyAllUsers(ctx context.Context, message string, action domain.ActionType, md domain.Metadata) error {
	return d.fanOut(ctx, domain.RoleUser, message, action, md)
}

func (d *Dispatcher) fanOut(ctx context.Context, role domain.Role, message string, action domain.ActionType, md domain.Metadata) error {
	ids, err := d.users.ListIDsByRole(ctx, role)
	if err != nil {
		return fmt.Errorf("resolve %s recipients: %w", role, err)
	}
	for _, id := range ids {
		if _, err := d.NotifyPrincipal(ctx, id, message, action, role, md); err != nil {
			d.log.Warn("fan-out recipient failed", zap.String("recipient_id", id), zap.Error(err))
		}
	}
	return nil
}
