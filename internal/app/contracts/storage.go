package contracts

import (
	"context"
	"medmarket-service/internal/pkg/dto/requests"
	"time"
)

type Storage interface {
	UploadFile(ctx context.Context, file *requests.FileUpload, bucketName, objectName string) (string, error)
	GetObjectUrlWithExpiryTime(ctx context.Context, bucketName, objectName string, expiryTime time.Duration) (string, error)
}
