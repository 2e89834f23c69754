package http

import (
	"encoding/json"
	"net/http"

	"filevault/internal/logger"
	"filevault/pkg/store/metadata"
)

// errorBody is the uniform error response shape.
type errorBody struct {
	Error string `json:"error"`
}

// fileBody is the wire rendering of a file record. ParentID is "0" for
// the hierarchy root, the hex id otherwise. LocalPath is present only
// on records that carry a payload.
type fileBody struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	IsPublic  bool   `json:"isPublic"`
	ParentID  string `json:"parentId"`
	LocalPath string `json:"localPath,omitempty"`
}

func fileToBody(f *metadata.File) fileBody {
	return fileBody{
		ID:        f.ID.Hex(),
		UserID:    f.OwnerID.Hex(),
		Name:      f.Name,
		Type:      string(f.Type),
		IsPublic:  f.IsPublic,
		ParentID:  f.Parent.String(),
		LocalPath: f.Location,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response: %v", err)
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// writeError is the single translation point from domain errors to
// status codes. Anything that is not a StoreError is an unexpected
// infrastructure failure: it is logged and collapsed into a generic
// 500 so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	code, ok := metadata.ErrCode(err)
	if !ok {
		logger.Error("Unexpected server error: %v", err)
		writeErrorMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	switch code {
	case metadata.ErrInvalidArgument, metadata.ErrAlreadyExists, metadata.ErrInvalidOperation:
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case metadata.ErrUnauthorized:
		writeErrorMessage(w, http.StatusUnauthorized, err.Error())
	case metadata.ErrNotFound:
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	default:
		logger.Error("Store error: %v", err)
		writeErrorMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
