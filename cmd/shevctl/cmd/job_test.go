package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestJobListCommand_PassesStatusAndLimit(t *testing.T) {
	resetViper()

	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": "11111111-1111-1111-1111-111111111111", "status": "Running", "event": map[string]string{"event_type": "deploy"}},
		})
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"job", "list", "--status", "Running", "--limit", "5"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gotQuery, "status=Running") || !strings.Contains(gotQuery, "limit=5") {
		t.Errorf("query = %q, want status and limit params", gotQuery)
	}
	if !strings.Contains(out.String(), "11111111-1111-1111-1111-111111111111") {
		t.Errorf("output = %q, want it to contain the job id", out.String())
	}
}

func TestJobGetCommand_NotFound(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "job not found"})
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"job", "get", "missing-id"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Error (404)") {
		t.Errorf("output = %q, want 404 error message", out.String())
	}
}

func TestJobCancelCommand_Success(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/cancel") {
			t.Errorf("path = %s, want suffix /cancel", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "cancellation requested"})
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"job", "cancel", "job-1"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "cancellation requested") {
		t.Errorf("output = %q, want cancellation confirmation", out.String())
	}
}
