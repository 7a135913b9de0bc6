package notification

import (
	"time"

	"github.com/gymdesk/backend/internal/domain/shared"
)

// Bucket classifies a membership's remaining lifetime for notification purposes
type Bucket string

const (
	BucketNone        Bucket = "NONE"
	BucketExpired     Bucket = "EXPIRED"
	BucketExpiringIn3 Bucket = "EXPIRING_IN_3"
	BucketExpiringIn7 Bucket = "EXPIRING_IN_7"
	BucketWelcome     Bucket = "WELCOME" // dispatched on recipient link, never by the sweep
)

// Category is the dedup grouping of buckets. Both expiring buckets share one
// category, so a member gets at most one "expiring soon" message per day.
type Category string

const (
	CategoryWelcome      Category = "WELCOME"
	CategoryExpiringSoon Category = "EXPIRING_SOON"
	CategoryExpired      Category = "EXPIRED"
)

// BucketFor maps remaining days to a bucket using tolerant windows so a
// delayed or repeated daily run still hits every milestone once.
func BucketFor(remainingDays int) Bucket {
	switch {
	case remainingDays == 0:
		return BucketExpired
	case remainingDays >= 2 && remainingDays <= 4:
		return BucketExpiringIn3
	case remainingDays >= 6 && remainingDays <= 8:
		return BucketExpiringIn7
	default:
		return BucketNone
	}
}

// RemainingDays returns the calendar days between today and the end date, both
// taken at local midnight in loc
func RemainingDays(endDate, now time.Time, loc *time.Location) int {
	return shared.CalendarDaysBetween(now, endDate, loc)
}

// Classify is RemainingDays followed by BucketFor
func Classify(endDate, now time.Time, loc *time.Location) (Bucket, int) {
	days := RemainingDays(endDate, now, loc)
	return BucketFor(days), days
}

// Category returns the dedup category of b. BucketNone has none.
func (b Bucket) Category() (Category, bool) {
	switch b {
	case BucketExpired:
		return CategoryExpired, true
	case BucketExpiringIn3, BucketExpiringIn7:
		return CategoryExpiringSoon, true
	case BucketWelcome:
		return CategoryWelcome, true
	default:
		return "", false
	}
}

// IsNotifiable returns true for buckets that produce a message
func (b Bucket) IsNotifiable() bool {
	_, ok := b.Category()
	return ok
}
