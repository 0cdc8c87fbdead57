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

func TestConfigGetCommand_SortsKeys(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"worker_count": "4",
			"port":         "3000",
			"queue_size":   "100",
		})
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"config", "get"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := out.String()
	portIdx := strings.Index(output, "port")
	queueIdx := strings.Index(output, "queue_size")
	workerIdx := strings.Index(output, "worker_count")
	if !(portIdx < queueIdx && queueIdx < workerIdx) {
		t.Errorf("output = %q, want keys sorted alphabetically", output)
	}
}

func TestConfigSetCommand_Success(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || !strings.HasSuffix(r.URL.Path, "/config/worker_count") {
			t.Errorf("request = %s %s, want PUT /config/worker_count", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["value"] != "8" {
			t.Errorf("value = %q, want 8", body["value"])
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "config updated, effective on next restart"})
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"config", "set", "worker_count", "8"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "effective on next restart") {
		t.Errorf("output = %q, want confirmation message", out.String())
	}
}
