package llm

import (
	"fmt"
	"strings"

	"github.com/Airohh/Appli-Food-Course/internal/pkg/common"
)

// decodeObject parses a completion into v. Models occasionally wrap the
// object in prose or fences despite JSON mode, so a failed parse retries on
// the outermost brace-delimited slice, then with bare object keys quoted,
// before giving up.
func decodeObject(content string, v interface{}) error {
	if err := common.ParseJSON(content, v); err == nil {
		return nil
	}

	salvaged, ok := salvageObject(content)
	if !ok {
		return fmt.Errorf("completion is not a JSON object: %s", truncate(content, 500))
	}
	if err := common.ParseJSON(salvaged, v); err == nil {
		return nil
	}
	if err := common.ParseJSON(common.QuoteJSONKeys(salvaged), v); err != nil {
		return fmt.Errorf("failed to parse completion JSON: %w (content: %s)", err, truncate(content, 500))
	}
	return nil
}

// salvageObject extracts the outermost {...} slice of the text.
func salvageObject(content string) (string, bool) {
	cleaned := strings.TrimSpace(content)
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return cleaned[start : end+1], true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
