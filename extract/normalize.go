package extract

import "strings"

// Normalize cleans a free-form model answer: surrounding whitespace and a
// wrapping Markdown code fence are removed, trailing spaces are trimmed from
// every line and runs of blank lines collapse into one. Answers consisting
// only of an empty quoted string mean "nothing found" and become "".
func Normalize(answer string) string {
	s := strings.TrimSpace(answer)
	s = stripFence(s)

	switch s {
	case "''", `""`, "``":
		return ""
	}

	var b strings.Builder
	blank := false
	for line := range strings.SplitSeq(s, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			blank = true
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
			if blank {
				b.WriteByte('\n')
			}
		}
		blank = false
		b.WriteString(line)
	}
	return b.String()
}

// stripFence removes a Markdown code fence wrapping the whole of s.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	body := strings.TrimSuffix(s, "```")
	// Drop the opening fence line, including any language tag.
	nl := strings.IndexByte(body, '\n')
	if nl < 0 {
		return strings.TrimSpace(strings.TrimPrefix(body, "```"))
	}
	return strings.TrimSpace(body[nl+1:])
}
