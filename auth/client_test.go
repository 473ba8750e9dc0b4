package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
)

func TestFetchToken(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/auth", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-user-name"); got != "Ada" {
			t.Errorf("x-user-name = %q, want Ada", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"authToken":"tok-1"}`))
	}).Methods(http.MethodPost)

	srv := httptest.NewServer(router)
	defer srv.Close()

	client := NewClient(strings.TrimPrefix(srv.URL, "http://"), false)
	token, err := client.FetchToken(context.Background(), "Ada")
	if err != nil {
		t.Fatalf("FetchToken: %v", err)
	}
	if token != "tok-1" {
		t.Errorf("token = %q, want tok-1", token)
	}
}

func TestFetchTokenErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"non-200 status",
			func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusForbidden)
			},
		},
		{
			"invalid body",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
		},
		{
			"empty token",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"authToken":""}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := NewClient(strings.TrimPrefix(srv.URL, "http://"), false)
			if _, err := client.FetchToken(context.Background(), "Ada"); err == nil {
				t.Error("FetchToken succeeded, want error")
			}
		})
	}
}
