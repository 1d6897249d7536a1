package csvio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Parser reads header-mapped CSV rows with BOM stripping and UTF-8
// encoding validation up front.
type Parser struct {
	delimiter rune
	headers   []string
	headerMap map[string]int
	line      int
	dataRows  int
	reader    *csv.Reader
}

// Option configures a Parser
type Option func(*Parser)

// WithDelimiter overrides the default comma field delimiter
func WithDelimiter(d rune) Option {
	return func(p *Parser) {
		p.delimiter = d
	}
}

// NewParser wraps r in a CSV parser. The first 3 bytes are inspected for
// a UTF-8 BOM and discarded if present, and the leading content must be
// valid UTF-8.
func NewParser(r io.Reader, opts ...Option) (*Parser, error) {
	p := &Parser{
		delimiter: ',',
		headerMap: make(map[string]int),
	}
	for _, opt := range opts {
		opt(p)
	}

	buf := bufio.NewReader(r)

	head, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	if err := checkUTF8(buf); err != nil {
		return nil, err
	}

	p.reader = csv.NewReader(buf)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = true
	p.reader.TrimLeadingSpace = true
	p.reader.FieldsPerRecord = -1

	return p, nil
}

// NewParserFromBytes creates a parser over an in-memory file
func NewParserFromBytes(data []byte, opts ...Option) (*Parser, error) {
	return NewParser(bytes.NewReader(data), opts...)
}

func checkUTF8(r *bufio.Reader) error {
	const checkSize = 4096
	content, err := r.Peek(checkSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file for encoding validation: %w", err)
	}
	if len(content) == 0 {
		return ErrEmptyFile
	}
	if len(content) == checkSize {
		// The window may cut a multi-byte rune short; drop the trailing
		// partial sequence so it is not misread as invalid.
		for i := 0; i < utf8.UTFMax-1 && len(content) > 0; i++ {
			r, size := utf8.DecodeLastRune(content)
			if r != utf8.RuneError || size != 1 {
				break
			}
			content = content[:len(content)-1]
		}
	}
	if !utf8.Valid(content) {
		return ErrInvalidEncoding
	}
	return nil
}

// ParseHeader consumes the header row and builds the name-to-index map
func (p *Parser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		name := strings.TrimSpace(h)
		p.headers[i] = name
		p.headerMap[name] = i
	}
	if len(p.headers) == 0 {
		return ErrMissingHeader
	}
	p.line = 1
	return nil
}

// Headers returns the parsed header names in file order
func (p *Parser) Headers() []string {
	return p.headers
}

// HasHeader reports whether a named column exists
func (p *Parser) HasHeader(name string) bool {
	_, ok := p.headerMap[name]
	return ok
}

// MissingHeaders returns the subset of required column names absent
// from the file, in the order given.
func (p *Parser) MissingHeaders(required []string) []string {
	var missing []string
	for _, h := range required {
		if !p.HasHeader(h) {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is one parsed data row keyed by header name
type Row struct {
	LineNumber int
	Data       map[string]string
	RawFields  []string
}

// Get returns the trimmed value for a column, or "" if absent
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// IsEmpty reports whether every field in the row is blank
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow reads the next data row. io.EOF signals the end of the file.
func (p *Parser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		p.line++
		return nil, fmt.Errorf("error reading line %d: %w", p.line, err)
	}

	p.line++
	p.dataRows++

	row := &Row{
		LineNumber: p.line,
		Data:       make(map[string]string, len(p.headers)),
		RawFields:  record,
	}
	for i, header := range p.headers {
		if i < len(record) {
			row.Data[header] = strings.TrimSpace(record[i])
		} else {
			row.Data[header] = ""
		}
	}
	return row, nil
}

// ReadAll reads every remaining data row, skipping fully blank rows
func (p *Parser) ReadAll() ([]*Row, error) {
	var rows []*Row
	for {
		row, err := p.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CurrentLine returns the 1-indexed line number last consumed
func (p *Parser) CurrentLine() int {
	return p.line
}

// DataRows returns the number of data rows read so far
func (p *Parser) DataRows() int {
	return p.dataRows
}
