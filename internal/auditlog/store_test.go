package auditlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteWriter_WriteAndList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	w, err := NewSQLiteWriter(path)
	if err != nil {
		t.Fatalf("new sqlite writer: %v", err)
	}
	t.Cleanup(func() {
		_ = w.Close()
	})

	now := time.Now().UTC()
	entries := []Entry{
		{
			Timestamp: now.Add(-2 * time.Hour),
			Query:     "weather in paris",
			Response:  `{"weather":{"city_name":"Paris","description":"clear sky","temperature_celsius":21.3}}`,
		},
		{
			Timestamp: now.Add(-1 * time.Hour),
			Query:     "tell me a joke",
			Response:  `{"joke":{"setup":"s","punchline":"p"}}`,
		},
		{
			Timestamp: now,
			Query:     "what time is it",
			Response:  `{"general_response":"I can only process weather and joke requests."}`,
		},
	}

	for _, entry := range entries {
		if err := w.Write(context.Background(), entry); err != nil {
			t.Fatalf("write audit entry: %v", err)
		}
	}

	got, err := w.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("list audit entries: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0].Query != "what time is it" {
		t.Errorf("expected newest first, got %q", got[0].Query)
	}
	if got[2].Response != entries[0].Response {
		t.Errorf("response round-trip mismatch: %q", got[2].Response)
	}
}

func TestSQLiteWriter_StampsZeroTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	w, err := NewSQLiteWriter(path)
	if err != nil {
		t.Fatalf("new sqlite writer: %v", err)
	}
	t.Cleanup(func() {
		_ = w.Close()
	})

	if err := w.Write(context.Background(), Entry{Query: "q", Response: "{}"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := w.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Timestamp.IsZero() {
		t.Errorf("expected a stamped timestamp, got %+v", got)
	}
}

func TestNoopWriter(t *testing.T) {
	var w Writer = NoopWriter{}
	if err := w.Write(context.Background(), Entry{Query: "q"}); err != nil {
		t.Errorf("noop write returned error: %v", err)
	}
}

func TestNewPostgresWriter_RequiresDSN(t *testing.T) {
	if _, err := NewPostgresWriter(""); err == nil {
		t.Error("expected error for empty dsn")
	}
}
