package server

import (
	"fmt"
	"net/http"

	"inkwell/internal/auth"
)

// PasscodeSettingKey is the settings row holding the bcrypt passcode
// hash. The CLI writes it too, so the name is shared.
const PasscodeSettingKey = "passcode_hash"

// Version is set at build time via -ldflags.
var Version = "dev"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	_, locked, err := s.store.GetSetting(r.Context(), PasscodeSettingKey)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"version": Version,
		"locked":  locked,
	})
}

type passcodeRequest struct {
	Passcode string `json:"passcode"`
}

func (s *Server) handleSetPasscode(w http.ResponseWriter, r *http.Request) {
	var req passcodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}

	hash, err := auth.HashPasscode(req.Passcode)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}
	if err := s.store.SetSetting(r.Context(), PasscodeSettingKey, hash); err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"locked": true})
}

func (s *Server) handleClearPasscode(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSetting(r.Context(), PasscodeSettingKey); err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"locked": false})
}

func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	var req passcodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}

	hash, ok, err := s.store.GetSetting(r.Context(), PasscodeSettingKey)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		// No passcode configured; the app is not locked.
		s.writeJSON(w, http.StatusOK, map[string]bool{"unlocked": true})
		return
	}
	if !auth.VerifyPasscode(hash, req.Passcode) {
		s.writeErrorReq(w, r, http.StatusUnauthorized,
			makeAPIError(http.StatusUnauthorized, "unauthorized", ErrCodeUnauthorized, fmt.Errorf("wrong passcode")))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"unlocked": true})
}
