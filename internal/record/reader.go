package record

import (
	"bufio"
	"io"
	"strings"
)

const maxLine = 1024 * 1024

// ReadAll consumes r to EOF and returns the records it contains.
func ReadAll(r io.Reader, format Format) ([]Record, error) {
	switch format {
	case FormatArchive:
		return readArchive(r)
	default:
		return readLines(r)
	}
}

func readLines(r io.Reader) ([]Record, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLine)
	var out []Record
	for s.Scan() {
		out = append(out, Record{Text: s.Text()})
	}
	return out, s.Err()
}

// readArchive parses the scraper's block layout: a "Date:" line opens each
// entry, followed by optional "REPLY TO:" and "CONTENT:" sections and a
// "URLS:" list, with "=" rules and "TWEET n" headers as separators.
func readArchive(r io.Reader) ([]Record, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLine)

	var out []Record
	var cur *Record
	var content []string
	inURLs := false

	flush := func() {
		if cur != nil && len(content) > 0 {
			cur.Text = strings.Join(content, " ")
			out = append(out, *cur)
		}
		cur = nil
		content = nil
		inURLs = false
	}

	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "Date:"):
			flush()
			cur = &Record{When: ParseWhen(strings.TrimSpace(line[len("Date:"):]))}
		case cur == nil:
			continue
		case strings.HasPrefix(line, "REPLY TO:"):
			cur.ReplyTo = strings.TrimSpace(line[len("REPLY TO:"):])
		case line == "CONTENT:":
			inURLs = false
		case strings.HasPrefix(line, "URLS:"):
			inURLs = true
		case strings.HasPrefix(line, "- ") && (inURLs || strings.HasPrefix(line, "- http")):
			cur.URLs = append(cur.URLs, strings.TrimSpace(line[2:]))
		case strings.HasPrefix(line, "http://"), strings.HasPrefix(line, "https://"):
			cur.URLs = append(cur.URLs, line)
		case strings.Contains(line, "="), strings.HasPrefix(line, "TWEET "):
			continue
		default:
			content = append(content, line)
		}
	}
	flush()
	return out, s.Err()
}
