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

func TestEventCreateCommand_Success(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events" {
			t.Errorf("path = %s, want /events", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["event_type"] != "deploy.finished" {
			t.Errorf("event_type = %q, want deploy.finished", body["event_type"])
		}
		json.NewEncoder(w).Encode(map[string]string{
			"id":         "evt-1",
			"event_type": "deploy.finished",
			"message":    "event dispatched",
		})
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"event", "create", "--event-type", "deploy.finished"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "evt-1") {
		t.Errorf("output = %q, want it to contain evt-1", out.String())
	}
}

func TestEventCreateCommand_MissingEventType(t *testing.T) {
	resetViper()
	eventCreateCmd.Flags().Set("event-type", "")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called when validation fails")
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"event", "create"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "--event-type is required") {
		t.Errorf("output = %q, want event-type required message", out.String())
	}
}

func TestEventCreateCommand_ServerError(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"error": "queue is full"})
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"event", "create", "--event-type", "deploy.finished"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Error (503)") {
		t.Errorf("output = %q, want 503 error message", out.String())
	}
}
