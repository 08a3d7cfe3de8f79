// Package tokens reads and writes the whitespace-delimited text used by scene files.
//
// A stream is a sequence of tokens separated by any whitespace. Strings are
// written quoted so they may contain spaces; keywords and numbers are bare.
package tokens

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// ErrUnexpectedEOF is returned when the stream ends in the middle of a value.
var ErrUnexpectedEOF = errors.New("tokens: unexpected end of input")

// Writer emits tokens separated by single spaces, with explicit line breaks.
// The first write error is kept and returned by Err and Flush; later writes are no-ops.
type Writer struct {
	w       *bufio.Writer
	err     error
	pending bool
	indent  int
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) raw(s string) {
	if w.err != nil {
		return
	}
	if w.pending {
		if _, err := w.w.WriteString(" "); err != nil {
			w.err = err
			return
		}
	}
	_, w.err = w.w.WriteString(s)
	w.pending = true
}

// Keyword writes a bare token. It must not contain whitespace.
func (w *Writer) Keyword(s string) {
	w.raw(s)
}

// String writes a quoted string.
func (w *Writer) String(s string) {
	w.raw(strconv.Quote(s))
}

// Int writes an integer.
func (w *Writer) Int(v int) {
	w.raw(strconv.Itoa(v))
}

// Float writes a float32 with the shortest representation that round-trips.
func (w *Writer) Float(v float32) {
	w.raw(strconv.FormatFloat(float64(v), 'g', -1, 32))
}

// Floats writes each value in turn.
func (w *Writer) Floats(vs ...float32) {
	for _, v := range vs {
		w.Float(v)
	}
}

// Bool writes true or false.
func (w *Writer) Bool(v bool) {
	w.raw(strconv.FormatBool(v))
}

// Indent changes the indentation applied after the next Newline.
func (w *Writer) Indent(delta int) {
	w.indent = max(w.indent+delta, 0)
}

// Newline ends the current line.
func (w *Writer) Newline() {
	if w.err != nil {
		return
	}
	_, w.err = w.w.WriteString("\n" + strings.Repeat("  ", w.indent))
	w.pending = false
}

// Err returns the first write error.
func (w *Writer) Err() error {
	return w.err
}

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

// Reader splits a stream into tokens.
type Reader struct {
	r    *bufio.Reader
	line int
	peek *string
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r), line: 1}
}

// Line returns the current line number, for error messages.
func (r *Reader) Line() int {
	return r.line
}

// Next returns the next token. Quoted strings are returned with their quotes
// so String can tell them apart. io.EOF is returned at the end of the stream.
func (r *Reader) Next() (string, error) {
	if r.peek != nil {
		tok := *r.peek
		r.peek = nil
		return tok, nil
	}
	return r.scan()
}

// Peek returns the next token without consuming it.
func (r *Reader) Peek() (string, error) {
	if r.peek != nil {
		return *r.peek, nil
	}
	tok, err := r.scan()
	if err != nil {
		return "", err
	}
	r.peek = &tok
	return tok, nil
}

func (r *Reader) scan() (string, error) {
	var ch rune
	var err error
	for {
		ch, _, err = r.r.ReadRune()
		if err != nil {
			return "", err
		}
		if ch == '\n' {
			r.line++
		}
		if !unicode.IsSpace(ch) {
			break
		}
	}

	var sb strings.Builder
	sb.WriteRune(ch)

	if ch == '"' {
		escaped := false
		for {
			ch, _, err = r.r.ReadRune()
			if err != nil {
				return "", ErrUnexpectedEOF
			}
			sb.WriteRune(ch)
			if ch == '\n' {
				r.line++
			}
			if escaped {
				escaped = false
				continue
			}
			if ch == '\\' {
				escaped = true
				continue
			}
			if ch == '"' {
				return sb.String(), nil
			}
		}
	}

	for {
		ch, _, err = r.r.ReadRune()
		if err == io.EOF {
			return sb.String(), nil
		}
		if err != nil {
			return "", err
		}
		if unicode.IsSpace(ch) {
			if ch == '\n' {
				r.line++
			}
			return sb.String(), nil
		}
		sb.WriteRune(ch)
	}
}

func (r *Reader) must() (string, error) {
	tok, err := r.Next()
	if err == io.EOF {
		return "", ErrUnexpectedEOF
	}
	return tok, err
}

// Expect consumes the next token and fails unless it equals keyword.
func (r *Reader) Expect(keyword string) error {
	tok, err := r.must()
	if err != nil {
		return err
	}
	if tok != keyword {
		return fmt.Errorf("line %d: expected %q, got %q", r.line, keyword, tok)
	}
	return nil
}

// Keyword returns the next bare token.
func (r *Reader) Keyword() (string, error) {
	return r.must()
}

// String returns the next token as an unquoted string.
func (r *Reader) String() (string, error) {
	tok, err := r.must()
	if err != nil {
		return "", err
	}
	s, err := strconv.Unquote(tok)
	if err != nil {
		return "", fmt.Errorf("line %d: invalid string %s: %w", r.line, tok, err)
	}
	return s, nil
}

// Int returns the next token as an integer.
func (r *Reader) Int() (int, error) {
	tok, err := r.must()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("line %d: invalid integer %q: %w", r.line, tok, err)
	}
	return v, nil
}

// Float returns the next token as a float32.
func (r *Reader) Float() (float32, error) {
	tok, err := r.must()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0, fmt.Errorf("line %d: invalid number %q: %w", r.line, tok, err)
	}
	return float32(v), nil
}

// Floats fills dst from consecutive tokens.
func (r *Reader) Floats(dst []float32) error {
	for i := range dst {
		v, err := r.Float()
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

// Bool returns the next token as a boolean.
func (r *Reader) Bool() (bool, error) {
	tok, err := r.must()
	if err != nil {
		return false, err
	}
	v, err := strconv.ParseBool(tok)
	if err != nil {
		return false, fmt.Errorf("line %d: invalid boolean %q: %w", r.line, tok, err)
	}
	return v, nil
}
