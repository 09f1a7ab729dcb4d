package service

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/cinefeed/backend/internal/models"
	"github.com/cinefeed/backend/internal/names"
)

const (
	// MaxMessageLength is the hard cap on a single chat message.
	MaxMessageLength = 500
	// DefaultListLimit and MaxListLimit bound the GET /messages page size.
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// ChatService persists and retrieves chat-board messages. Each request is
// stateless; the message table is an append-only log trimmed only by the
// cleanup worker.
type ChatService struct {
	db *gorm.DB
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

// List returns up to limit of the most recent messages, oldest first.
// limit is clamped to [1, MaxListLimit]; zero or negative means the default.
func (s *ChatService) List(ctx context.Context, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	var messages []models.Message
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Query grabs the newest rows; flip them so the feed reads top-down.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// Post validates and stores a new message. Anonymous posts, and posts with
// no usable display name, get a pseudonym derived from the requester's IP,
// overriding whatever name was supplied.
func (s *ChatService) Post(ctx context.Context, userName, text string, isAnonymous bool, ip string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if len(text) > MaxMessageLength {
		return nil, ErrMessageTooLong
	}

	userName = strings.TrimSpace(userName)
	if isAnonymous || userName == "" || userName == "Anonymous" {
		userName = names.Generate(ip)
	}

	msg := models.Message{
		UserName:    userName,
		Message:     text,
		IsAnonymous: isAnonymous,
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// Whoami returns the pseudonym for an IP without creating anything.
func (s *ChatService) Whoami(ip string) string {
	return names.Generate(ip)
}

// DeleteOlderThan removes at most limit messages created before now-age.
// Used by the cleanup worker; best effort, single statement.
func (s *ChatService) DeleteOlderThan(ctx context.Context, age time.Duration, limit int) (int64, error) {
	cutoff := time.Now().Add(-age)
	stale := s.db.Model(&models.Message{}).
		Select("id").
		Where("created_at < ?", cutoff).
		Limit(limit)

	res := s.db.WithContext(ctx).
		Where("id IN (?)", stale).
		Delete(&models.Message{})
	return res.RowsAffected, res.Error
}
