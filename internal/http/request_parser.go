// This file parses request bodies. Clients of the original API were
// loose about field names, so every getter accepts a list of aliases
// and returns the first one present.
package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"financas/internal/core"
)

// RequestBodyParser reads a JSON body once and serves field lookups
// with alias fallback.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]any
	parsed   bool
	err      error
}

func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, 1<<20))
	return p
}

func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}
	if len(p.body) == 0 {
		p.jsonData = map[string]any{}
		return nil
	}

	p.jsonData = make(map[string]any)
	if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
		p.err = err
		return err
	}
	return nil
}

// Get returns the first non-empty value among the keys, sanitized.
func (p *RequestBodyParser) Get(keys ...string) string {
	for _, key := range keys {
		if val, ok := p.jsonData[key]; ok {
			if s := strings.TrimSpace(sanitizeInput(stringValue(val))); s != "" {
				return s
			}
		}
	}
	return ""
}

// GetInt parses the first present key as an integer, 0 when absent.
func (p *RequestBodyParser) GetInt(keys ...string) int {
	s := p.Get(keys...)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// GetMoney parses the first present key as a decimal amount in cents.
// Accepts JSON numbers and strings, with comma decimals.
func (p *RequestBodyParser) GetMoney(keys ...string) (core.Money, error) {
	s := p.Get(keys...)
	if s == "" {
		return core.Money{}, nil
	}
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

// GetDate parses the first present key as a date. RFC 3339 and plain
// YYYY-MM-DD both work; absent returns the zero time.
func (p *RequestBodyParser) GetDate(keys ...string) (time.Time, error) {
	s := p.Get(keys...)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
