package extract

// DefaultChunkSize is the chunk length, in characters, that keeps a page
// within one prompt.
const DefaultChunkSize = 8000

// Split breaks content into consecutive chunks of at most maxLen runes.
// A non-positive maxLen returns content as a single chunk. Empty content
// returns no chunks.
func Split(content string, maxLen int) []string {
	if content == "" {
		return nil
	}
	if maxLen <= 0 {
		return []string{content}
	}

	var chunks []string
	runes := 0
	start := 0
	for i := range content {
		if runes == maxLen {
			chunks = append(chunks, content[start:i])
			start = i
			runes = 0
		}
		runes++
	}
	return append(chunks, content[start:])
}
