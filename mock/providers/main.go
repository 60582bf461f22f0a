// Command providers serves canned extraction API responses for local runs.
//
// Every provider kind is mounted at /<kind>?url=<source>. A source URL
// containing "status=<code>" (for example ...?status=429) makes the mock
// answer with that status instead, to exercise the fallback chain.
package main

import (
	"embed"
	"log"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"time"
)

//go:embed data/*.json
var data embed.FS

var kinds = []string{"tiklydown", "tikwm", "vishavideo", "igpost", "igreel", "facebook"}

var forcedStatus = regexp.MustCompile(`status=(\d{3})`)

func main() {
	mux := http.NewServeMux()

	for _, kind := range kinds {
		body, err := data.ReadFile("data/" + kind + ".json")
		if err != nil {
			log.Fatalf("[mock] missing canned response for %s: %v", kind, err)
		}
		mux.HandleFunc("/"+kind, serveCanned(kind, body))
	}

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
			log.Printf("[mock] health write error: %v", err)
		}
	})

	addr := os.Getenv("MOCK_ADDR")
	if addr == "" {
		addr = ":8081"
	}

	log.Printf("mock providers running on %s", addr)
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

func serveCanned(kind string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Simulate upstream latency (50-200ms)
		time.Sleep(time.Duration(50+time.Now().UnixNano()%150) * time.Millisecond)

		source := r.URL.Query().Get("url")

		if m := forcedStatus.FindStringSubmatch(source); m != nil {
			code, _ := strconv.Atoi(m[1])
			http.Error(w, http.StatusText(code), code)
			log.Printf("[%s] %s - %d (forced)", kind, source, code)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Provider", kind)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			log.Printf("[%s] write error: %v", kind, err)
		}

		log.Printf("[%s] %s - 200 OK", kind, source)
	}
}
