package normalizer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"ezexport/pkg/utils"
)

// DateLayout is the ISO 8601 form every synthesized date uses.
const DateLayout = "2006-01-02T15:04:05Z"

// ToISODate converts a unix-seconds timestamp to an ISO 8601 UTC string.
// Input that is not a number yields "".
func ToISODate(ts string) string {
	ts = strings.TrimSpace(ts)

	secs, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(ts, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return ""
		}

		secs = int64(f)
	}

	return time.Unix(secs, 0).UTC().Format(DateLayout)
}

// ParentPath drops the last segment of a slash-separated path.
// "/a/b/c" becomes "/a/b"; a path without a slash becomes "".
func ParentPath(path string) string {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return ""
	}

	return path[:i]
}

// StripTags removes HTML markup from a legacy rich-text value.
func StripTags(value string) string {
	return utils.StripTags(value)
}

// Summarize strips markup and truncates to maxWidth display cells.
func Summarize(value string, maxWidth int) string {
	return utils.Truncate(utils.NormalizeWhitespace(utils.StripTags(value)), maxWidth)
}
