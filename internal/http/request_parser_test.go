package http

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newParser(t *testing.T, body string) *RequestBodyParser {
	t.Helper()

	r := httptest.NewRequest("POST", "/api/compras", strings.NewReader(body))
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return p
}

func TestParserAliases(t *testing.T) {
	p := newParser(t, `{"estabelecimento":"Padaria","categoryId":"3"}`)

	if got := p.Get("establishment", "estabelecimento", "store"); got != "Padaria" {
		t.Errorf("establishment = %q", got)
	}
	if got := p.Get("categoryName", "category", "categoryId"); got != "3" {
		t.Errorf("category ref = %q", got)
	}
	if got := p.Get("missing", "alsoMissing"); got != "" {
		t.Errorf("missing = %q", got)
	}
}

func TestParserAliasPrecedence(t *testing.T) {
	p := newParser(t, `{"value":"10.50","valor":"99.99"}`)

	money, err := p.GetMoney("value", "valor")
	if err != nil {
		t.Fatalf("GetMoney: %v", err)
	}
	if money.Cents != 1050 {
		t.Errorf("cents = %d, want 1050 (first alias wins)", money.Cents)
	}
}

func TestParserMoneyFormats(t *testing.T) {
	tests := []struct {
		body  string
		cents int64
	}{
		{`{"value":150.75}`, 15075},
		{`{"value":"12,34"}`, 1234},
		{`{"value":"50"}`, 5000},
		{`{"value":50}`, 5000},
	}

	for _, tt := range tests {
		p := newParser(t, tt.body)
		money, err := p.GetMoney("value")
		if err != nil {
			t.Errorf("GetMoney(%s): %v", tt.body, err)
			continue
		}
		if money.Cents != tt.cents {
			t.Errorf("GetMoney(%s) = %d, want %d", tt.body, money.Cents, tt.cents)
		}
	}

	p := newParser(t, `{"value":"-3"}`)
	if _, err := p.GetMoney("value"); err == nil {
		t.Error("negative amount accepted")
	}
}

func TestParserDates(t *testing.T) {
	p := newParser(t, `{"date":"2025-03-10"}`)
	got, err := p.GetDate("date", "data")
	if err != nil {
		t.Fatalf("GetDate: %v", err)
	}
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("date = %v, want %v", got, want)
	}

	p = newParser(t, `{"data":"2025-03-10T14:30:00Z"}`)
	got, err = p.GetDate("date", "data")
	if err != nil {
		t.Fatalf("GetDate RFC3339: %v", err)
	}
	if got.Hour() != 14 {
		t.Errorf("hour = %d", got.Hour())
	}

	p = newParser(t, `{"date":"10/03/2025"}`)
	if _, err := p.GetDate("date"); err == nil {
		t.Error("unsupported date format accepted")
	}
}

func TestParserSanitizesControlCharacters(t *testing.T) {
	p := newParser(t, "{\"name\":\"Pad\\u0000aria \"}")
	if got := p.Get("name"); got != "Padaria" {
		t.Errorf("sanitized = %q", got)
	}
}

func TestParserRejectsMalformedJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/compras", strings.NewReader("{nope"))
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err == nil {
		t.Error("malformed JSON accepted")
	}
}

func TestParserEmptyBody(t *testing.T) {
	p := newParser(t, "")
	if got := p.Get("anything"); got != "" {
		t.Errorf("empty body get = %q", got)
	}
}
