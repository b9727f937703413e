package dcttxt

import "strings"

// extractComments removes every closed /*...*/ span from line and
// returns the residual text plus the trimmed inner comment texts in
// left-to-right order. A "/*" with no closing "*/" on the same line is
// not a comment and stays in the residual text.
func extractComments(line string) (string, []string) {
	var comments []string
	for {
		start := strings.Index(line, "/*")
		if start == -1 {
			break
		}
		end := strings.Index(line[start+2:], "*/")
		if end == -1 {
			break
		}
		end += start + 2
		comments = append(comments, strings.TrimSpace(line[start+2:end]))
		line = line[:start] + line[end+2:]
	}
	return line, comments
}

// formatComment re-wraps a stored comment text for output.
func formatComment(text string) string {
	return "/* " + text + " */"
}
