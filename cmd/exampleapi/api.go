package main

import (
	"encoding/json"
	"net/http"

	jwtmiddleware "github.com/naosproject/go-jwt-middleware"
	"github.com/naosproject/go-jwt-middleware/validator"
)

// testObject is the resource served at /api/test.
type testObject struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subject string `json:"subject,omitempty"`
}

func testHandler(w http.ResponseWriter, r *http.Request) {
	obj := testObject{ID: "1", Name: "test"}
	if claims, err := jwtmiddleware.GetClaims[*validator.ValidatedClaims](r.Context()); err == nil {
		obj.Subject = claims.RegisteredClaims.Subject
	}
	writeJSON(w, http.StatusOK, obj)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// cors allows any origin and answers preflight requests directly.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,HEAD,PUT,PATCH,POST,DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")

		if r.Method == http.MethodOptions {
			w.Header().Set("Content-Length", "0")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
