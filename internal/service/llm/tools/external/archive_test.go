package external

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestArchiveClient_Search(t *testing.T) {
	var got ArchiveQuery
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/search" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"text":"Fathom board deck","score":0.91}]}`))
	}))
	defer srv.Close()

	client := NewArchiveClient(srv.URL + "/")
	resp, err := client.Search(context.Background(), ArchiveQuery{Query: "fathom", Limit: 3})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got.Query != "fathom" || got.Limit != 3 {
		t.Errorf("request body = %+v", got)
	}
	if len(resp.Results) != 1 || !strings.Contains(string(resp.Results[0]), "Fathom board deck") {
		t.Errorf("results = %s", resp.Results)
	}
}

func TestArchiveClient_SearchErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error", http.StatusInternalServerError, "index offline", "status 500"},
		{"bad json", http.StatusOK, "{", "failed to parse response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewArchiveClient(srv.URL).Search(context.Background(), ArchiveQuery{Query: "x", Limit: 1})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestArchiveClient_MissingResultsBecomesEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	resp, err := NewArchiveClient(srv.URL).Search(context.Background(), ArchiveQuery{Query: "x", Limit: 1})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Errorf("results = %v, want empty slice", resp.Results)
	}
}

func TestGoogleSheetsClient_NotConfigured(t *testing.T) {
	_, err := NewGoogleSheetsClient("", "").Snapshot(context.Background(), "abc")
	if err != ErrSheetsNotConfigured {
		t.Errorf("err = %v, want ErrSheetsNotConfigured", err)
	}
}

func TestStringifyRows(t *testing.T) {
	rows := stringifyRows([][]interface{}{{"Revenue", 1200.5}, {"EBITDA"}})
	if rows[0][1] != "1200.5" || rows[1][0] != "EBITDA" {
		t.Errorf("rows = %v", rows)
	}
	if stringifyRows(nil) != nil {
		t.Error("empty input should stay nil")
	}
}
