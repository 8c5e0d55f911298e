package main

import (
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates
var templatesFS embed.FS

const (
	defaultPort = "3000"
	defaultAPI  = "http://localhost:8080"
	envWebPort  = "BUDGET_WEB_PORT"
	envAPIURL   = "BUDGET_API_URL"
)

func main() {
	port := getEnv(envWebPort, defaultPort)
	apiBase := getEnv(envAPIURL, defaultAPI)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health (no templates)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Get("/", dashboard(apiBase))
	r.Get("/about", aboutPage)

	log.Printf("Web UI running on http://localhost:%s (API: %s)", port, apiBase)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// apiGet performs GET against the API.
func apiGet(apiBase, path string) ([]byte, int, error) {
	resp, err := http.Get(apiBase + path)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return data, resp.StatusCode, nil
}

func dashboard(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := "/api/expenses"
		userFilter := r.URL.Query().Get("user_id")
		if userFilter != "" {
			path += "?user_id=" + url.QueryEscape(userFilter)
		}

		data, status, err := apiGet(apiBase, path)
		if err != nil {
			renderTemplate(w, "dashboard.html", map[string]interface{}{"Error": "Cannot reach API: " + err.Error()})
			return
		}
		if status != http.StatusOK {
			renderTemplate(w, "dashboard.html", map[string]interface{}{"Error": "API error: " + string(data)})
			return
		}

		var expenses []struct {
			ID          int    `json:"id"`
			Title       string `json:"title"`
			Description string `json:"description"`
			Amount      int    `json:"amount"`
			Date        string `json:"date"`
			Category    string `json:"category"`
			UserID      int    `json:"user_id"`
		}
		if err := json.Unmarshal(data, &expenses); err != nil {
			renderTemplate(w, "dashboard.html", map[string]interface{}{"Error": "Invalid expenses response"})
			return
		}

		total := 0
		for _, e := range expenses {
			total += e.Amount
		}

		renderTemplate(w, "dashboard.html", map[string]interface{}{
			"Expenses":   expenses,
			"Total":      total,
			"UserFilter": userFilter,
		})
	}
}

func aboutPage(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "about.html", nil)
}

func renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	content, err := templatesFS.ReadFile("templates/" + name)
	if err != nil {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	layout, _ := templatesFS.ReadFile("templates/layout.html")
	t := template.Must(template.New("").Parse(string(layout)))
	t = template.Must(t.New("").Parse(string(content)))
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		log.Printf("template execute: %v", err)
	}
}
