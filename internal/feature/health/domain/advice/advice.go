// Package advice maps a diagnosis label onto first-step care advice.
package advice

import "strings"

const (
	keepRoutine   = "Keep the current watering and fertilizing routine."
	checkWatering = "Water more often and check soil moisture."
	inspectPests  = "Inspect leaves and branches closely and follow the pest and fungus control guide."
	moreImages    = "Take more photos from different angles for a closer look."
)

// For returns the advice for a label. Matching is by keyword, first match wins.
func For(label string) string {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "healthy"):
		return keepRoutine
	case strings.Contains(l, "water"):
		return checkWatering
	case strings.Contains(l, "disease"), strings.Contains(l, "pest"):
		return inspectPests
	default:
		return moreImages
	}
}
