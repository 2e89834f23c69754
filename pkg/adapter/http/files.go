package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"filevault/internal/logger"
	"filevault/pkg/files"
	"filevault/pkg/store/metadata"
)

// uploadRequest is the POST /files body. ParentID is kept raw because
// clients send it as either a string ("0" or a hex id) or the number 0.
type uploadRequest struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	ParentID json.RawMessage `json:"parentId"`
	IsPublic bool            `json:"isPublic"`
	Data     string          `json:"data"`
}

// parseParentRef maps the wire forms of parentId onto a ParentRef.
// Absent, null, 0 and "0" all mean the hierarchy root. A value that is
// not a valid ObjectID cannot name an existing folder, so it reports
// the same error a missing parent would.
func parseParentRef(raw json.RawMessage) (metadata.ParentRef, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return metadata.RootParent(), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n int64
		if err := json.Unmarshal(raw, &n); err != nil || n != 0 {
			return metadata.ParentRef{}, metadata.ErrParentNotFound
		}
		return metadata.RootParent(), nil
	}

	if s == "" || s == "0" {
		return metadata.RootParent(), nil
	}

	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return metadata.ParentRef{}, metadata.ErrParentNotFound
	}
	return metadata.ParentOf(id), nil
}

// postFiles handles POST /files: folder creation and uploads.
func (h *handlers) postFiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := h.gate.Authenticate(ctx, r.Header.Get(tokenHeader))
	if err != nil {
		writeError(w, err)
		return
	}

	var req uploadRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	parent, err := parseParentRef(req.ParentID)
	if err != nil {
		writeError(w, err)
		return
	}

	fileType := metadata.FileType(req.Type)

	var data []byte
	if req.Data != "" {
		data, err = base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			// Undecodable payloads and absent ones are the same defect
			// from the caller's point of view.
			writeError(w, metadata.ErrMissingData)
			return
		}
	}

	created, err := h.hierarchy.Create(ctx, userID, files.CreateRequest{
		Name:     req.Name,
		Type:     fileType,
		Parent:   parent,
		IsPublic: req.IsPublic,
		Data:     data,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, fileToBody(created))
}

// getFiles handles GET /files: one page of the requester's files under
// the given parent.
func (h *handlers) getFiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := h.gate.Authenticate(ctx, r.Header.Get(tokenHeader))
	if err != nil {
		writeError(w, err)
		return
	}

	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	parent := metadata.RootParent()
	if raw := r.URL.Query().Get("parentId"); raw != "" && raw != "0" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			// A parent that cannot exist has no children.
			writeJSON(w, http.StatusOK, []fileBody{})
			return
		}
		parent = metadata.ParentOf(id)
	}

	page0, err := h.hierarchy.List(ctx, userID, parent, page)
	if err != nil {
		writeError(w, err)
		return
	}

	body := make([]fileBody, 0, len(page0))
	for i := range page0 {
		body = append(body, fileToBody(&page0[i]))
	}

	writeJSON(w, http.StatusOK, body)
}

// fileID extracts and parses the {id} path variable. A malformed id
// cannot name an existing record, so it reports plain not-found.
func fileID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		return primitive.NilObjectID, metadata.ErrFileNotFound
	}
	return id, nil
}

// getFile handles GET /files/{id}.
func (h *handlers) getFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := h.gate.Authenticate(ctx, r.Header.Get(tokenHeader))
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := fileID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	file, err := h.hierarchy.Get(ctx, userID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, fileToBody(file))
}

func (h *handlers) putPublish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, true)
}

func (h *handlers) putUnpublish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, false)
}

func (h *handlers) setVisibility(w http.ResponseWriter, r *http.Request, public bool) {
	ctx := r.Context()

	userID, err := h.gate.Authenticate(ctx, r.Header.Get(tokenHeader))
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := fileID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	file, err := h.hierarchy.SetVisibility(ctx, userID, id, public)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, fileToBody(file))
}

// getFileData handles GET /files/{id}/data: streams the payload of a
// record the requester may read. The token is optional; anonymous
// requests can only reach public records.
func (h *handlers) getFileData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requesterID := primitive.NilObjectID
	authenticated := false
	if token := r.Header.Get(tokenHeader); token != "" {
		// A stale token on a public record must not block the read, so
		// authentication failures degrade to anonymous access here.
		if id, err := h.gate.Authenticate(ctx, token); err == nil {
			requesterID = id
			authenticated = true
		}
	}

	id, err := fileID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	file, err := h.hierarchy.Lookup(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.gate.AuthorizeRead(file, requesterID, authenticated); err != nil {
		writeError(w, err)
		return
	}

	rc, err := h.hierarchy.OpenContent(ctx, file, r.URL.Query().Get("size"))
	if err != nil {
		writeError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", files.ContentTypeFor(file.Name))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		logger.Error("Failed to stream content of %s: %v", file.ID.Hex(), err)
	}
}
