package witness

import (
	"bufio"
	"os"
	"strings"
)

// previewWidth caps each preview line.
const previewWidth = 60

// ContentPreview returns the first n lines of a text file, trimmed of
// trailing whitespace and capped at previewWidth runes. An unreadable
// file yields nil; previews are garnish, never a failure.
func ContentPreview(path string, n int) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var preview []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if len(preview) >= n {
			break
		}
		preview = append(preview, clipLine(scanner.Text()))
	}
	return preview
}

// ContentTail returns the last n lines of a text file, trimmed and
// capped the same way as ContentPreview. Recent changes tend to land at
// the end of a file.
func ContentTail(path string, n int) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	tail := make([]string, len(lines))
	for i, line := range lines {
		tail[i] = clipLine(line)
	}
	return tail
}

func clipLine(line string) string {
	line = strings.TrimRight(line, " \t\r")
	runes := []rune(line)
	if len(runes) > previewWidth {
		return string(runes[:previewWidth])
	}
	return line
}
