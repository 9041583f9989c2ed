package extract

// jsonObjects scans free text for balanced top-level JSON objects and
// returns each candidate substring in order of appearance. Models often
// wrap their JSON in whitespace or stray tokens, so the scan is
// structural: it tracks brace depth and skips braces inside string
// literals, but leaves actual parsing to the caller.
func jsonObjects(text string) []string {
	var candidates []string

	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue // stray closing brace outside any object
			}
			depth--
			if depth == 0 && start >= 0 {
				candidates = append(candidates, text[start:i+1])
				start = -1
			}
		}
	}

	return candidates
}
