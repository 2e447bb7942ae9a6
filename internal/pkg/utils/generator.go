package utils

import (
	"fmt"
	"medmarket-service/internal/pkg/constvars"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GeneratePaymentReference builds "<prefix>-<uuid>", e.g. ORD-... for sub-orders and TXN-... for gateway charges.
func GeneratePaymentReference(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}

// GenerateTrackingCode builds TRK-SESSION-<sessionOrId>-<unixMillis>.
func GenerateTrackingCode(sessionOrOrderID string, now time.Time) string {
	return fmt.Sprintf(constvars.TrackingCodeFormat, sessionOrOrderID, now.UnixMilli())
}

func GenerateFileName(prefix, owner, fileName string, now time.Time) string {
	timestamp := now.Format("20060102_150405.000000000")
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("%s_%s_%s%s", prefix, owner, timestamp, ext)
}

func GenerateRequestID() string {
	return uuid.NewString()
}
