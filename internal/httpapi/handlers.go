package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/DoyleJ11/connect-four-server/internal/engine"
	"github.com/DoyleJ11/connect-four-server/internal/lobby"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Healthz(l *lobby.Lobby) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, struct {
			Status  string `json:"status"`
			Players int    `json:"players"`
		}{Status: "ok", Players: l.Population()})
	}
}

// State serves the same snapshot the broadcaster pushes, without a
// recipient name.
func State(l *lobby.Lobby) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, l.Snapshot())
	}
}

func Geometry(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, engine.DefaultGeometry())
}
