package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cinefeed/backend/config"
	"github.com/cinefeed/backend/internal/models"
)

// AvatarService stores user avatars in S3 and records the public URL on
// the user row.
type AvatarService struct {
	db *gorm.DB
	s3 *config.S3Config
}

func NewAvatarService(db *gorm.DB, s3cfg *config.S3Config) *AvatarService {
	return &AvatarService{db: db, s3: s3cfg}
}

// Upload writes the avatar bytes to S3 and updates the user's avatar_url.
func (s *AvatarService) Upload(ctx context.Context, userID uuid.UUID, data []byte, contentType string) (string, error) {
	ext := "png"
	if contentType == "image/jpeg" {
		ext = "jpg"
	}
	key := fmt.Sprintf("avatars/%s.%s", uuid.New().String(), ext)

	_, err := s.s3.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3.BucketName, key)

	err = s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("avatar_url", publicURL).Error
	if err != nil {
		return "", err
	}

	log.Printf("[Avatar] uploaded avatar for user %s", userID)
	return publicURL, nil
}
