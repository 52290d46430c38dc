package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"inkwell/internal/store"
)

type memoRequest struct {
	FolderID string `json:"folder_id,omitempty"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

type memoPatchRequest struct {
	FolderID *string `json:"folder_id,omitempty"`
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
}

func (s *Server) handleCreateMemo(w http.ResponseWriter, r *http.Request) {
	var req memoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}

	memo, err := s.memoService.CreateMemo(r.Context(), req.FolderID, req.Title, req.Content)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusCreated, memo)
}

func (s *Server) handleListMemos(w http.ResponseWriter, r *http.Request) {
	filter := store.MemoFilter{
		FolderID: strings.TrimSpace(r.URL.Query().Get("folder")),
		Query:    strings.TrimSpace(r.URL.Query().Get("q")),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.writeErrorReq(w, r, http.StatusBadRequest, fmt.Errorf("invalid limit"))
			return
		}
		filter.Limit = limit
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			s.writeErrorReq(w, r, http.StatusBadRequest, fmt.Errorf("invalid offset"))
			return
		}
		filter.Offset = offset
	}

	memos, err := s.memoService.ListMemos(r.Context(), filter)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, memos)
}

func (s *Server) handleGetMemo(w http.ResponseWriter, r *http.Request) {
	memo, err := s.memoService.GetMemo(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, memo)
}

func (s *Server) handleUpdateMemo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req memoPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}

	if req.FolderID != nil {
		memo, err := s.memoService.MoveMemo(r.Context(), id, *req.FolderID)
		if err != nil {
			s.writeErrorReq(w, r, httpStatusFromError(err), err)
			return
		}
		if req.Title == nil && req.Content == nil {
			s.writeJSON(w, http.StatusOK, memo)
			return
		}
	}

	existing, err := s.memoService.GetMemo(r.Context(), id)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	title := existing.Title
	if req.Title != nil {
		title = *req.Title
	}
	content := existing.Content
	if req.Content != nil {
		content = *req.Content
	}

	memo, err := s.memoService.UpdateMemo(r.Context(), id, title, content)
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, memo)
}

func (s *Server) handleDeleteMemo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.memoService.DeleteMemo(r.Context(), id); err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (s *Server) handleRenderedMemo(w http.ResponseWriter, r *http.Request) {
	memo, err := s.memoService.RenderedMemo(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, memo)
}
