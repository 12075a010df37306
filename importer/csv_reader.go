package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"clientsplit/dataset"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	DelimiterAuto   = "auto"
	DefaultEncoding = "utf-8"
)

const sniffLines = 20

var sniffDelimiters = []rune{';', ',', '\t', '|'}

// CSVReader reads delimited text. An empty or "auto" Delimiter is sniffed
// from the first lines; Encoding defaults to UTF-8 and honors UTF-8
// and UTF-16 byte order marks.
type CSVReader struct {
	Delimiter string
	Encoding  string
}

func (r *CSVReader) Read(in io.Reader) (dataset.Grid, error) {
	decoder, err := decoderFor(r.Encoding)
	if err != nil {
		return nil, err
	}
	content, err := io.ReadAll(transform.NewReader(in, decoder))
	if err != nil {
		return nil, fmt.Errorf("decode csv input: %w", err)
	}

	comma, err := r.comma(content)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	grid := make(dataset.Grid, 0, 128)
	rowNumber := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNumber++
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", rowNumber, err)
		}

		values := make([]dataset.Value, len(row))
		for i, raw := range row {
			values[i] = dataset.Infer(raw)
		}
		grid = append(grid, values)
	}

	if len(grid) == 0 {
		return nil, fmt.Errorf("csv input is empty")
	}
	return grid, nil
}

func (r *CSVReader) comma(content []byte) (rune, error) {
	if r.Delimiter == "\t" {
		return '\t', nil
	}
	delimiter := strings.TrimSpace(r.Delimiter)
	switch strings.ToLower(delimiter) {
	case "", DelimiterAuto:
		return SniffDelimiter(content), nil
	case "tab", `\t`:
		return '\t', nil
	}

	if utf8.RuneCountInString(delimiter) != 1 {
		return 0, fmt.Errorf("invalid csv delimiter %q", r.Delimiter)
	}
	comma, _ := utf8.DecodeRuneInString(delimiter)
	return comma, nil
}

// SniffDelimiter picks the candidate delimiter with the highest count
// outside quotes on any of the first non-blank lines, so title rows above the
// header do not hide it. Without any candidate a comma is assumed.
func SniffDelimiter(content []byte) rune {
	best := make(map[rune]int, len(sniffDelimiters))
	scanned := 0
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		counts := make(map[rune]int, len(sniffDelimiters))
		quoted := false
		for _, r := range line {
			if r == '"' {
				quoted = !quoted
				continue
			}
			if !quoted {
				counts[r]++
			}
		}
		for _, candidate := range sniffDelimiters {
			if counts[candidate] > best[candidate] {
				best[candidate] = counts[candidate]
			}
		}
		scanned++
		if scanned == sniffLines {
			break
		}
	}

	comma, bestCount := ',', 0
	for _, candidate := range sniffDelimiters {
		if best[candidate] > bestCount {
			comma, bestCount = candidate, best[candidate]
		}
	}
	return comma
}

func decoderFor(name string) (transform.Transformer, error) {
	var enc encoding.Encoding
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.BOMOverride(unicode.UTF8.NewDecoder()), nil
	case "utf-16", "utf16", "utf-16le":
		enc = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case "utf-16be":
		enc = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case "latin1", "latin-1", "iso-8859-1":
		enc = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		enc = charmap.Windows1252
	default:
		return nil, fmt.Errorf("unsupported csv encoding: %s", name)
	}
	return enc.NewDecoder(), nil
}
