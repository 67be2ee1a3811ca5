// File: pkg/transcribe/sanitize.go
package transcribe

import "regexp"

// Redaction patterns for content sanitization. Provider keys and network
// identifiers are replaced wholesale; generic credential assignments keep
// their shape with only the value redacted.
var (
	openAIKeyPattern = regexp.MustCompile(`sk-[a-zA-Z0-9-]{32,}`)
	awsKeyPattern    = regexp.MustCompile(`AKIA[0-9A-Z]{16}`)
	ipPattern        = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
	emailPattern     = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// Assignments like API_KEY = "..." or "token": "..."
	assignmentPattern = regexp.MustCompile(
		`(?i)((?:key|password|secret|token|auth|api|pwd)[-_]?(?:key|password|secret|token|auth|api|pwd)?\s*[:=]\s*["'])([^"']{8,})(["'])`)
)

var sensitivePatterns = []*regexp.Regexp{
	openAIKeyPattern,
	awsKeyPattern,
	ipPattern,
	emailPattern,
}

// SanitizeLine redacts secrets and sensitive network identifiers from a
// single line of transcribed content.
func SanitizeLine(line string) string {
	if line == "" {
		return line
	}
	for _, p := range sensitivePatterns {
		line = p.ReplaceAllString(line, "[[REDACTED_SENSITIVE]]")
	}
	return assignmentPattern.ReplaceAllString(line, "${1}[[REDACTED_SECRET]]${3}")
}
