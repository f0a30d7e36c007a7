package hudserver

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// RespondWithJSON writes body as JSON with the given status code.
func RespondWithJSON(statusCode int, w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warning("could not write response")
	}
}

func respondWithError(statusCode int, w http.ResponseWriter, message string) {
	RespondWithJSON(statusCode, w, map[string]interface{}{"code": statusCode, "message": message})
}

// allowMethods rejects requests whose method is not listed.
func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	respondWithError(http.StatusMethodNotAllowed, w, "method "+r.Method+" not allowed")
	return false
}
