package instance

import (
	"os"

	"github.com/angelmondragon/shopfront-backend/pkg/env"
)

// GetID returns the identifier of this API replica. SHOPFRONT_INSTANCE_ID wins,
// then the container hostname, then a fixed default.
func GetID() string {
	if id := env.Get("SHOPFRONT_INSTANCE_ID", ""); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "api-0"
}
