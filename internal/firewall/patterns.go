package firewall

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// suspiciousPatterns are scanned case-insensitively against action value
// payloads. Values may have been scraped from attacker-controlled pages and
// fed back through the planner, so an otherwise-permitted fill is still
// blocked when its value reads like an injected instruction.
var suspiciousPatterns = []string{
	// instruction-override attempts
	"ignore previous instructions",
	"forget everything",
	"system prompt",
	"you are now",
	"bypass security",
	// exfiltration and privilege phrases
	"send to external",
	"transfer money",
	"password is",
	"admin access",
	"root access",
	"sudo",
	// destructive commands
	"rm -rf",
	"delete all",
}

// markupStripper removes all markup so patterns hidden inside tags
// ("<b>ignore</b> previous instructions") are still caught.
var markupStripper = bluemonday.StrictPolicy()

// scanValue returns the first suspicious pattern found in the payload.
// Both the raw text and a markup-stripped rendering are scanned.
func scanValue(value string) (string, bool) {
	if value == "" {
		return "", false
	}

	candidates := []string{strings.ToLower(value)}
	if strings.ContainsAny(value, "<>") {
		candidates = append(candidates, strings.ToLower(markupStripper.Sanitize(value)))
	}

	for _, text := range candidates {
		for _, pattern := range suspiciousPatterns {
			if strings.Contains(text, pattern) {
				return pattern, true
			}
		}
	}
	return "", false
}
