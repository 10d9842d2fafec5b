package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewID builds a globally-unique document id of the form <kind>_<uuid>.
func NewID(kind string) string {
	return fmt.Sprintf("%s_%s", kind, uuid.NewString())
}

// NowISO returns the RFC3339 UTC timestamp used for document fields.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
