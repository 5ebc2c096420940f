package checkout

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const orderNumberPrefix = "PW"

// orderNumber builds the human-readable identifier: date stamp plus a random
// 8-char suffix. Collisions are improbable, not impossible; the insert path
// retries with a fresh suffix when the unique constraint fires.
func orderNumber(now time.Time, suffix string) string {
	return orderNumberPrefix + "-" + now.UTC().Format("20060102") + "-" + suffix
}

func newSuffix() string {
	return strings.ToLower(uuid.NewString()[:8])
}
