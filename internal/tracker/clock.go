package tracker

// clock.go: pure bucket and slug math for the recurring 15-minute series.
// Each asset's markets use the slug pattern "<asset>-updown-15m-<bucket_start>",
// so window identity is fully derivable from wall-clock time.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/adelgadoc/updownbot/internal/domain"
)

const (
	// BucketSize is the width of one market window in seconds.
	BucketSize = domain.WindowDuration

	slugTemplate = "%s-updown-15m-%d"
)

// BucketStart returns the 900-aligned start of the bucket containing t.
func BucketStart(t int64) int64 {
	return (t / BucketSize) * BucketSize
}

// Slug builds the market slug for an asset and bucket start time.
func Slug(asset domain.Asset, bucketStart int64) string {
	return fmt.Sprintf(slugTemplate, asset, bucketStart)
}

// CandidateSlugs returns back+forward+1 slugs centered on the bucket
// containing now, spanning k in [-back, forward] buckets.
func CandidateSlugs(asset domain.Asset, now int64, back, forward int) []string {
	start := BucketStart(now)
	slugs := make([]string, 0, back+forward+1)
	for k := -back; k <= forward; k++ {
		slugs = append(slugs, Slug(asset, start+int64(k)*BucketSize))
	}
	return slugs
}

// AssetFromSlug reverse-maps a slug prefix to its asset.
func AssetFromSlug(slug string) (domain.Asset, bool) {
	lower := strings.ToLower(slug)
	for _, a := range domain.Assets() {
		if strings.HasPrefix(lower, string(a)) {
			return a, true
		}
	}
	return "", false
}

// StartTimeFromSlug extracts the window start time from the slug's
// trailing numeric component. Provider-supplied start times are not
// trusted; the slug is the source of truth.
func StartTimeFromSlug(slug string) (int64, bool) {
	idx := strings.LastIndex(slug, "-")
	if idx < 0 || idx == len(slug)-1 {
		return 0, false
	}
	ts, err := strconv.ParseInt(slug[idx+1:], 10, 64)
	if err != nil {
		return 0, false
	}
	return ts, true
}
