package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/BaselBoulos/la-maison-privee/apperrors"
	"github.com/BaselBoulos/la-maison-privee/config"
)

// maxBodyBytes bounds every JSON request body
const maxBodyBytes = 1 << 20

// writeJSON encodes v with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

// writeError translates a classified error into its status code and body
func writeError(w http.ResponseWriter, err error) {
	config.ErrorStatus(apperrors.Message(err), apperrors.HTTPStatus(err), w, err)
}

// decodeBody reads a JSON request body into v
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return apperrors.Wrap(apperrors.KindInvalidInput, err, "invalid request body")
	}
	return nil
}

// objectID parses a hex id taken from the request
func objectID(raw, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, apperrors.InvalidInput("invalid %s id %q", what, raw)
	}
	return id, nil
}

// objectIDs parses every id and reports the ones that are not valid hex ids
func objectIDs(raw []string) (ids []primitive.ObjectID, invalid []string) {
	ids = []primitive.ObjectID{}
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
		if err != nil {
			invalid = append(invalid, s)
			continue
		}
		ids = append(ids, id)
	}
	return ids, invalid
}

// queryList collects a multi-valued query parameter. Both ?k=a&k=b and
// ?k=a,b are accepted.
func queryList(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.URL.Query()[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func hexes(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}
