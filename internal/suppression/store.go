package suppression

import "time"

const (
	closedPrefix = "smartbanner-closed-"
	// InstalledKey is shared by every banner instance on a page.
	InstalledKey = "smartbanner-installed"
	// Flag is the value written for every record.
	Flag = "true"
)

// ClosedKey names the dismissal record of one banner instance.
func ClosedKey(instanceID string) string { return closedPrefix + instanceID }

// Days converts a day count to a TTL.
func Days(n int) time.Duration { return time.Duration(n) * 24 * time.Hour }

// Store persists suppression flags. Expired records read as absent.
type Store interface {
	Get(name string) (string, bool)
	Set(name, value string, ttl time.Duration) error
}
