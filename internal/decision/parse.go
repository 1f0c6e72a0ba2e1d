package decision

import (
	"strconv"
	"strings"

	"monitoring-service/internal/models"
)

// Parse extracts the five decision fields from an oracle response. Parsing
// is tolerant: any field missing or malformed falls back to the fixed
// default for that field.
func Parse(text string) models.ActionDecision {
	fields := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToUpper(strings.TrimSpace(parts[0]))
		fields[key] = strings.TrimSpace(parts[1])
	}

	d := Default()

	if v, ok := fields["ACTION_REQUIRED"]; ok {
		d.ActionRequired = strings.EqualFold(v, "true")
	}

	if v, ok := fields["ACTION_TYPE"]; ok {
		if at := models.ActionType(strings.ToLower(v)); at.Valid() {
			d.ActionType = at
		}
	}

	if v, ok := fields["PRIORITY"]; ok {
		if p := models.Priority(strings.ToUpper(v)); p.Valid() {
			d.Priority = p
		}
	}

	if v, ok := fields["SLA_HOURS"]; ok && !strings.EqualFold(v, "null") {
		if hours, err := strconv.Atoi(v); err == nil {
			d.SLAHours = &hours
		}
	}

	if v, ok := fields["REASONING"]; ok && v != "" {
		d.Reasoning = v
	}

	return d
}
