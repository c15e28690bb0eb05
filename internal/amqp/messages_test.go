package amqp

import (
	"testing"
)

func TestLedgerExportMessageRoundTrip(t *testing.T) {
	msg := NewLedgerExportMessage("compra", 42)

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	got, err := LedgerExportMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.Kind != "compra" || got.ID != 42 {
		t.Errorf("got %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Error("timestamp not carried")
	}
}

func TestLedgerExportMessageRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "{nope"},
		{"missing kind", `{"id":1}`},
		{"zero id", `{"kind":"receita","id":0}`},
		{"negative id", `{"kind":"compra","id":-5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LedgerExportMessageFromJSON([]byte(tt.body)); err == nil {
				t.Errorf("accepted %q", tt.body)
			}
		})
	}
}
