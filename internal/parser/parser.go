package parser

import (
	"bytes"
	"context"
	stderrors "errors" // Standard errors package
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	j "github.com/goccy/go-json"
	"github.com/mcncl/pytyper/internal/errors" // Custom errors package
	"github.com/mcncl/pytyper/internal/models"
)

// DefaultFetchTimeout bounds a ParseURL request when the caller's client has
// no timeout of its own.
const DefaultFetchTimeout = 30 * time.Second

// MaxDepth is the deepest nesting of objects and arrays Parse accepts.
const MaxDepth = 10000

// maxResponseBytes caps how much of an HTTP response body is read.
const maxResponseBytes = 32 << 20

var errUnexpectedEnd = stderrors.New("unexpected end of JSON input")

// decoder walks the token stream so object members keep document order.
type decoder struct {
	dec   *j.Decoder
	depth int
}

// Parse converts JSON data from an io.Reader into an IntermediateRepresentation
func Parse(reader io.Reader) (models.IntermediateRepresentation, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to read input", err)
	}

	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	d := &decoder{dec: dec}

	tok, err := dec.Token()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.IntermediateRepresentation{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return models.IntermediateRepresentation{}, syntaxError(err)
	}

	rootValue, err := d.value(tok)
	if err != nil {
		if stderrors.Is(err, errors.ErrMaxDepth) {
			return models.IntermediateRepresentation{}, errors.NewParsingError(
				fmt.Sprintf("JSON nesting is deeper than %d levels", MaxDepth),
				errors.ErrMaxDepth,
			)
		}
		return models.IntermediateRepresentation{}, syntaxError(err)
	}

	// Anything other than EOF after the first value is either a second
	// document or garbage.
	if _, err := dec.Token(); err == nil {
		return models.IntermediateRepresentation{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	} else if !stderrors.Is(err, io.EOF) {
		return models.IntermediateRepresentation{}, errors.NewParsingError("invalid trailing data after first JSON value", errors.ErrInvalidJSON)
	}

	// The token stream skips separators without checking their placement,
	// so the document is validated as a whole as well.
	if !j.Valid(data) {
		var v any
		if err := j.Unmarshal(data, &v); err != nil {
			return models.IntermediateRepresentation{}, syntaxError(err)
		}
		return models.IntermediateRepresentation{}, errors.NewParsingError("JSON syntax error", errors.ErrInvalidJSON)
	}

	_, isArray := rootValue.(models.JSONArray)
	return models.IntermediateRepresentation{
		Root:        rootValue,
		RootIsArray: isArray,
	}, nil
}

func (d *decoder) next() (any, error) {
	tok, err := d.dec.Token()
	if stderrors.Is(err, io.EOF) {
		return nil, errUnexpectedEnd
	}
	return tok, err
}

// value converts the token that starts a JSON value, reading further tokens
// for objects and arrays.
func (d *decoder) value(tok any) (models.JSONValue, error) {
	switch v := tok.(type) {
	case j.Delim:
		if v != '{' && v != '[' {
			return nil, fmt.Errorf("unexpected delimiter %q", rune(v))
		}
		if d.depth++; d.depth > MaxDepth {
			return nil, errors.ErrMaxDepth
		}
		defer func() { d.depth-- }()
		if v == '{' {
			return d.object()
		}
		return d.array()
	case j.Number:
		return models.JSONNumber(string(v)), nil
	case float64:
		return models.JSONNumber(strconv.FormatFloat(v, 'g', -1, 64)), nil
	case string, bool, nil:
		return v, nil
	}
	return nil, fmt.Errorf("unexpected token %T", tok)
}

func (d *decoder) object() (models.JSONValue, error) {
	obj := models.JSONObject{}
	index := map[string]int{}
	for {
		tok, err := d.next()
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(j.Delim); ok && delim == '}' {
			return obj, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		tok, err = d.next()
		if err != nil {
			return nil, err
		}
		val, err := d.value(tok)
		if err != nil {
			return nil, err
		}
		// A repeated key keeps its first position and takes the last value.
		if i, seen := index[key]; seen {
			obj[i].Value = val
			continue
		}
		index[key] = len(obj)
		obj = append(obj, models.JSONMember{Key: key, Value: val})
	}
}

func (d *decoder) array() (models.JSONValue, error) {
	arr := models.JSONArray{}
	for {
		tok, err := d.next()
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(j.Delim); ok && delim == ']' {
			return arr, nil
		}
		val, err := d.value(tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
}

func syntaxError(err error) *errors.AppError {
	var se *j.SyntaxError
	if stderrors.As(err, &se) {
		return errors.NewParsingError(fmt.Sprintf("JSON syntax error at offset %d: %s", se.Offset, se.Error()), errors.ErrInvalidJSON)
	}
	if stderrors.Is(err, errUnexpectedEnd) {
		return errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
	}
	return errors.NewParsingError(fmt.Sprintf("failed to decode JSON: %v", err), errors.ErrInvalidJSON)
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.IntermediateRepresentation{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file)
}

// ValidateURL checks that rawURL is an absolute http or https URL.
func ValidateURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.NewInputError(fmt.Sprintf("invalid URL '%s'", rawURL), errors.ErrInvalidURL)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, errors.NewInputError(
			fmt.Sprintf("invalid URL scheme '%s' in '%s': only http and https are supported", u.Scheme, rawURL),
			errors.ErrInvalidURL,
		)
	}
	if u.Host == "" {
		return nil, errors.NewInputError(fmt.Sprintf("URL '%s' has no host", rawURL), errors.ErrInvalidURL)
	}
	return u, nil
}

// ParseURL fetches rawURL with a GET request and parses the response body.
// A nil client uses one with DefaultFetchTimeout.
func ParseURL(ctx context.Context, client *http.Client, rawURL string) (models.IntermediateRepresentation, error) {
	u, err := ValidateURL(rawURL)
	if err != nil {
		return models.IntermediateRepresentation{}, err
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError(fmt.Sprintf("failed to build request for '%s'", rawURL), err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError(fmt.Sprintf("request to '%s' failed", rawURL), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("request to '%s' returned status %d", rawURL, resp.StatusCode),
			nil,
		)
	}

	body, err := readLimited(resp.Body, maxResponseBytes)
	if stderrors.Is(err, errors.ErrResponseTooLarge) {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("response from '%s' is larger than %d bytes", rawURL, maxResponseBytes),
			errors.ErrResponseTooLarge,
		)
	}
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError(fmt.Sprintf("failed to read response from '%s'", rawURL), err)
	}
	if strings.TrimSpace(string(body)) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError(fmt.Sprintf("response from '%s' is empty", rawURL), errors.ErrEmptyInput)
	}
	return Parse(bytes.NewReader(body))
}

// readLimited reads r to the end, failing with ErrResponseTooLarge once more
// than limit bytes arrive.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("body is larger than %d bytes: %w", limit, errors.ErrResponseTooLarge)
	}
	return body, nil
}
