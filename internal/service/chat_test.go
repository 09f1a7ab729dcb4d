package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cinefeed/backend/internal/models"
	"github.com/cinefeed/backend/internal/names"
)

func setupChatDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Message{}, &models.User{}))
	return db
}

func TestPostEmptyMessage(t *testing.T) {
	chat := NewChatService(setupChatDB(t))

	_, err := chat.Post(context.Background(), "Bob", "   ", false, "1.2.3.4")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	var count int64
	chat.db.Model(&models.Message{}).Count(&count)
	assert.Zero(t, count, "a rejected message must not create a row")
}

func TestPostLengthBoundary(t *testing.T) {
	chat := NewChatService(setupChatDB(t))
	ctx := context.Background()

	longest := make([]byte, MaxMessageLength)
	for i := range longest {
		longest[i] = 'a'
	}

	msg, err := chat.Post(ctx, "Bob", string(longest), false, "1.2.3.4")
	require.NoError(t, err, "exactly 500 characters is allowed")
	assert.NotZero(t, msg.ID)

	_, err = chat.Post(ctx, "Bob", string(longest)+"a", false, "1.2.3.4")
	assert.ErrorIs(t, err, ErrMessageTooLong)
}

func TestPostAnonymousGetsGeneratedName(t *testing.T) {
	chat := NewChatService(setupChatDB(t))
	ctx := context.Background()

	msg, err := chat.Post(ctx, "IgnoredName", "hello", true, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, names.Generate("1.2.3.4"), msg.UserName, "anonymous posts override the supplied name")
	assert.True(t, msg.IsAnonymous)

	// No name supplied behaves the same even without the anonymous flag.
	msg2, err := chat.Post(ctx, "", "hello again", false, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, msg.UserName, msg2.UserName)
}

func TestPostKeepsSuppliedName(t *testing.T) {
	chat := NewChatService(setupChatDB(t))

	msg, err := chat.Post(context.Background(), "MovieFan42", "hello", false, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, "MovieFan42", msg.UserName)
}

func TestListClampAndOrder(t *testing.T) {
	db := setupChatDB(t)
	chat := NewChatService(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 120; i++ {
		msg := models.Message{
			UserName:  "Seeder",
			Message:   fmt.Sprintf("message %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, db.Create(&msg).Error)
	}

	messages, err := chat.List(ctx, 200)
	require.NoError(t, err)
	assert.Len(t, messages, MaxListLimit, "limit above the cap is clamped to 100")

	// Oldest-first within the most recent window: 120 rows, cap 100, so the
	// window starts at row 20.
	assert.Equal(t, "message 20", messages[0].Message)
	assert.Equal(t, "message 119", messages[len(messages)-1].Message)

	defaulted, err := chat.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, defaulted, DefaultListLimit)
}

func TestDeleteOlderThan(t *testing.T) {
	db := setupChatDB(t)
	chat := NewChatService(db)
	ctx := context.Background()

	old := models.Message{UserName: "Old", Message: "stale", CreatedAt: time.Now().Add(-time.Hour)}
	fresh := models.Message{UserName: "New", Message: "fresh", CreatedAt: time.Now()}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Create(&fresh).Error)

	deleted, err := chat.DeleteOlderThan(ctx, 10*time.Minute, 100)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	var remaining []models.Message
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "fresh", remaining[0].Message)
}

func TestDeleteOlderThanRespectsBatchLimit(t *testing.T) {
	db := setupChatDB(t)
	chat := NewChatService(db)

	for i := 0; i < 5; i++ {
		msg := models.Message{UserName: "Old", Message: "stale", CreatedAt: time.Now().Add(-time.Hour)}
		require.NoError(t, db.Create(&msg).Error)
	}

	deleted, err := chat.DeleteOlderThan(context.Background(), 10*time.Minute, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted, "a sweep deletes at most the batch size")
}

func TestCleanupWorkerSweep(t *testing.T) {
	db := setupChatDB(t)
	chat := NewChatService(db)

	old := models.Message{UserName: "Old", Message: "stale", CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, db.Create(&old).Error)

	worker := NewCleanupWorker(chat)
	worker.sweep(context.Background())

	var count int64
	db.Model(&models.Message{}).Count(&count)
	assert.Zero(t, count)
}
