package main

import (
	"net/http"
	"os"
	"time"
)

// Minimal liveness probe for container healthchecks: exits 0 when the
// server answers, 1 otherwise.
func main() {
	addr := os.Getenv("DUELGRID_HEALTH_URL")
	if addr == "" {
		addr = "http://127.0.0.1:8080/api/version"
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(addr)
	if err != nil {
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		os.Exit(1)
	}
	os.Exit(0)
}
