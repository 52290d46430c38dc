package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"inkwell/internal/assetref"
	"inkwell/internal/assetstore"
)

const fallbackMaxImageBytes = 32 << 20

type assetUploadResponse struct {
	Identity string `json:"identity"`
	Size     int    `json:"size"`
}

// handleUploadAsset accepts raw image bytes and stores them content-
// addressed. The editor uses it for flows that bypass paste/drop, such
// as an explicit "insert image" picker.
func (s *Server) handleUploadAsset(w http.ResponseWriter, r *http.Request) {
	limit := s.maxImageBytes
	if limit <= 0 {
		limit = fallbackMaxImageBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	data, err := io.ReadAll(r.Body)
	if err != nil {
		if strings.Contains(err.Error(), "http: request body too large") {
			s.writeErrorReq(w, r, http.StatusRequestEntityTooLarge,
				makeAPIError(http.StatusRequestEntityTooLarge, "request_too_large", ErrCodeRequestTooLarge, err))
			return
		}
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}
	if len(data) == 0 {
		s.writeErrorReq(w, r, http.StatusBadRequest, fmt.Errorf("request body is empty"))
		return
	}

	ext := assetref.ExtensionForMediaType(r.Header.Get("Content-Type"))
	identity, err := s.assets.Save(r.Context(), data, ext)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError,
			internalErrorCode(err, ErrCodeAssetStoreFailure))
		return
	}
	s.writeJSON(w, http.StatusCreated, assetUploadResponse{Identity: identity, Size: len(data)})
}

// handleGetAsset serves blob bytes for the renderer's image fetches.
func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	identity := r.PathValue("identity")

	data, err := s.assets.Get(r.Context(), identity)
	if err != nil {
		if errors.Is(err, assetstore.ErrNotFound) {
			s.writeErrorReq(w, r, http.StatusNotFound,
				notFoundCode(err, ErrCodeAssetNotFound))
			return
		}
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	w.Header().Set("Content-Type", assetref.MediaTypeForIdentity(identity))
	// Content-addressed blobs never change; let the UI cache forever.
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.log().Debug("write asset response", "identity", filepath.Base(identity), "error", err)
	}
}

func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	identity := r.PathValue("identity")

	removed, err := s.assets.Delete(r.Context(), identity)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}
	// Absent is not an error: the caller's intent is "ensure gone".
	s.writeJSON(w, http.StatusOK, map[string]any{"identity": identity, "removed": removed})
}
