package llm

import (
	"regexp"
	"strings"

	"github.com/kayz/docsynth/internal/logger"
)

var outputTagPattern = regexp.MustCompile(`(?s)<output>(.*?)</output>`)

// ExtractOutput returns the content between <output> tags in a completion.
// Prompts instruct the model to wrap the document in these tags; when the
// model drops them the full trimmed response is used instead.
func ExtractOutput(response string) string {
	if m := outputTagPattern.FindStringSubmatch(response); m != nil {
		content := strings.TrimSpace(m[1])
		logger.Debug("extracted content from <output> tags (length=%d chars)", len(content))
		return content
	}
	logger.Warn("no <output> tags found in response, using full response text")
	return strings.TrimSpace(response)
}
