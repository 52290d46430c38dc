package server

import (
	"fmt"
	"net/http"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

type folderRequest struct {
	Name string `json:"name"`
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	name, err := models.NormalizeFolderName(req.Name)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	folder := models.Folder{ID: store.NewID(), Name: name}
	if err := s.store.CreateFolder(r.Context(), &folder); err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, folder)
}

func (s *Server) handleListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := s.store.ListFolders(r.Context())
	if err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, err)
		return
	}
	if folders == nil {
		folders = []models.Folder{}
	}
	s.writeJSON(w, http.StatusOK, folders)
}

func (s *Server) handleRenameFolder(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))

	var req folderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	name, err := models.NormalizeFolderName(req.Name)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	ok, err := s.store.RenameFolder(r.Context(), id, name)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		err := notFoundCode(fmt.Errorf("folder not found: %s", id), ErrCodeFolderNotFound)
		s.writeErrorReq(w, r, http.StatusNotFound, err)
		return
	}

	folder, err := s.store.GetFolder(r.Context(), id)
	if err != nil || folder == nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, folder)
}

func (s *Server) handleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))

	ok, err := s.store.DeleteFolder(r.Context(), id)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		err := notFoundCode(fmt.Errorf("folder not found: %s", id), ErrCodeFolderNotFound)
		s.writeErrorReq(w, r, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (s *Server) handleReorderFolders(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	if len(req.IDs) == 0 {
		s.writeErrorReq(w, r, http.StatusBadRequest, fmt.Errorf("ids array is required"))
		return
	}

	if err := s.store.ReorderFolders(r.Context(), req.IDs); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}
	folders, err := s.store.ListFolders(r.Context())
	if err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, folders)
}
