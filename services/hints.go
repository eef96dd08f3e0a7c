package services

import (
	"encoding/json"
	"strings"

	"manga-translator/internal/logger"
	"manga-translator/internal/slicer"
)

// zonePayload is the wire shape of one suggested zone. Field values are
// untrusted model output.
type zonePayload struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Kind  string  `json:"kind"`
}

// parseZones extracts safe zones from a model reply. Replies frequently
// arrive wrapped in markdown fences or with prose around the JSON array, so
// parsing is lenient: anything that fails to decode yields an empty list,
// never an error.
func parseZones(text string) []slicer.SafeZone {
	raw := extractJSONArray(text)
	if raw == "" {
		return nil
	}

	var payload []zonePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		logger.Debug("hints: unparseable zone payload: %v", err)
		return nil
	}

	zones := make([]slicer.SafeZone, 0, len(payload))
	for _, z := range payload {
		zones = append(zones, slicer.SafeZone{
			Start: z.Start,
			End:   z.End,
			Kind:  zoneKind(z.Kind),
		})
	}
	return zones
}

func zoneKind(s string) slicer.SafeZoneKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gutter":
		return slicer.ZoneGutter
	default:
		return slicer.ZoneSafeBackground
	}
}

// extractJSONArray returns the outermost [...] span of text, or "".
func extractJSONArray(text string) string {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
