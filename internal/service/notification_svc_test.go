package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saarock/sopy-ecommerce/internal/domain"
)

func seedNotifications(t *testing.T, svc *NotificationSvc, recipient string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := svc.Record(context.Background(), recipient, fmt.Sprintf("msg %d", i), domain.ActionOrderPlaced, domain.RoleUser, nil)
		require.NoError(t, err)
	}
}

func TestNotificationSvc_ListForUser_Pagination(t *testing.T) {
	svc := NewNotificationSvc(newMemNotificationStore())
	seedNotifications(t, svc, "u1", 7)

	res, err := svc.ListForUser(context.Background(), "u1", nil, 1, 3)
	require.NoError(t, err)
	assert.Len(t, res.Items, 3)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, int64(7), res.Total)

	res, err = svc.ListForUser(context.Background(), "u1", nil, 3, 3)
	require.NoError(t, err)
	assert.Len(t, res.Items, 1, "last page holds the remainder")
}

func TestNotificationSvc_ListForUser_EmptyPageIsValid(t *testing.T) {
	svc := NewNotificationSvc(newMemNotificationStore())
	seedNotifications(t, svc, "u1", 2)

	res, err := svc.ListForUser(context.Background(), "u1", nil, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, int64(2), res.Total)
	assert.Equal(t, 1, res.TotalPages)
}

func TestNotificationSvc_ListForUser_ReadFilter(t *testing.T) {
	store := newMemNotificationStore()
	svc := NewNotificationSvc(store)
	n1, err := svc.Record(context.Background(), "u1", "read me", domain.ActionPurchase, domain.RoleUser, nil)
	require.NoError(t, err)
	seedNotifications(t, svc, "u1", 2)
	require.NoError(t, svc.MarkRead(context.Background(), n1.ID, "u1", true))

	read := true
	res, err := svc.ListForUser(context.Background(), "u1", &read, 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, n1.ID, res.Items[0].ID)

	unread := false
	res, err = svc.ListForUser(context.Background(), "u1", &unread, 1, 10)
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
}

func TestNotificationSvc_MarkRead(t *testing.T) {
	store := newMemNotificationStore()
	svc := NewNotificationSvc(store)
	n, err := svc.Record(context.Background(), "u1", "hello", domain.ActionPurchase, domain.RoleUser, nil)
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(context.Background(), n.ID, "u1", true))
	// idempotent
	require.NoError(t, svc.MarkRead(context.Background(), n.ID, "u1", true))

	unread, err := svc.CountUnread(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestNotificationSvc_MarkRead_NotFound(t *testing.T) {
	svc := NewNotificationSvc(newMemNotificationStore())
	err := svc.MarkRead(context.Background(), "missing", "u1", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNotificationSvc_MarkRead_ForeignRecipient(t *testing.T) {
	svc := NewNotificationSvc(newMemNotificationStore())
	n, err := svc.Record(context.Background(), "u1", "hello", domain.ActionPurchase, domain.RoleUser, nil)
	require.NoError(t, err)

	err = svc.MarkRead(context.Background(), n.ID, "intruder", true)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	unread, err := svc.CountUnread(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread, "flag untouched by a foreign caller")
}
