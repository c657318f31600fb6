package checkout

import (
	"fmt"
	"math/rand"
	"time"
)

// OrderNumber builds a human-readable order handle: ORD-YYYYMMDD-XXXX.
// The 4-digit suffix can collide within a day; callers retry on the unique
// index instead of assuming uniqueness.
func OrderNumber(now time.Time, rng *rand.Rand) string {
	suffix := rng.Intn(10000)
	return fmt.Sprintf("ORD-%s-%04d", now.UTC().Format("20060102"), suffix)
}
