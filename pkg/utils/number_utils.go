package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewDocumentNumber builds a human-readable business document number,
// e.g. "ORD-20250614-1A2B3C4D". The uuid suffix keeps numbers unique even
// when several documents are created within the same second.
func NewDocumentNumber(prefix string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102"), suffix)
}
