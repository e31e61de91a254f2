package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"anoa.com/fatetable/internal/entity"
	notification "anoa.com/fatetable/internal/modules/notification/service"
	notificationmock "anoa.com/fatetable/internal/modules/notification/service/mock"
	"anoa.com/fatetable/internal/testutil/memstore"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDispatchStoresAndBroadcastPublishes(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := memstore.New()
	broadcaster := notificationmock.NewMockBroadcaster(ctrl)
	d := notification.NewDispatcher(store.Notifications(), broadcaster)

	campaignID, userID := uuid.New(), uuid.New()
	rows, err := d.Dispatch(context.Background(), []notification.Notice{
		{CampaignID: campaignID, RecipientID: userID, Type: entity.NotifyRollRequested, Title: "Roll requested"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NotEqual(t, uuid.Nil, rows[0].ID)

	stored, err := store.Notifications().ListUnreadSince(context.Background(), campaignID, userID, time.Time{})
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	broadcaster.EXPECT().Publish(gomock.Any(), rows[0]).Return(errors.New("redis down"))
	d.Broadcast(context.Background(), rows)
}

func TestDispatchNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := notification.NewDispatcher(memstore.New().Notifications(), notificationmock.NewMockBroadcaster(ctrl))

	rows, err := d.Dispatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRedisBroadcaster(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	userID := uuid.New()
	ctx := context.Background()
	sub := rdb.Subscribe(ctx, notification.Channel(userID))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	n := entity.Notification{ID: uuid.New(), UserID: userID, Type: entity.NotifyRollResult, Message: "final 3"}
	require.NoError(t, notification.NewRedisBroadcaster(rdb).Publish(ctx, n))

	select {
	case msg := <-sub.Channel():
		var got entity.Notification
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, n.ID, got.ID)
		assert.Equal(t, "final 3", got.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

func TestRedisBroadcasterDisabled(t *testing.T) {
	assert.NoError(t, notification.NewRedisBroadcaster(nil).Publish(context.Background(), entity.Notification{}))
}
