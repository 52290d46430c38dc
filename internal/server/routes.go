package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check and info.
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/info", s.handleInfo)

	// Folders.
	mux.HandleFunc("POST /v1/folders", s.handleCreateFolder)
	mux.HandleFunc("GET /v1/folders", s.handleListFolders)
	mux.HandleFunc("POST /v1/folders/reorder", s.handleReorderFolders)
	mux.HandleFunc("PATCH /v1/folders/{id}", s.handleRenameFolder)
	mux.HandleFunc("DELETE /v1/folders/{id}", s.handleDeleteFolder)

	// Memos.
	mux.HandleFunc("POST /v1/memos", s.handleCreateMemo)
	mux.HandleFunc("GET /v1/memos", s.handleListMemos)
	mux.HandleFunc("GET /v1/memos/{id}", s.handleGetMemo)
	mux.HandleFunc("PATCH /v1/memos/{id}", s.handleUpdateMemo)
	mux.HandleFunc("DELETE /v1/memos/{id}", s.handleDeleteMemo)

	// Read-time resolution for the renderer.
	mux.HandleFunc("GET /v1/memos/{id}/rendered", s.handleRenderedMemo)

	// Assets.
	mux.HandleFunc("POST /v1/assets", s.handleUploadAsset)
	mux.HandleFunc("GET /v1/assets/{identity}", s.handleGetAsset)
	mux.HandleFunc("DELETE /v1/assets/{identity}", s.handleDeleteAsset)

	// Passcode lock.
	mux.HandleFunc("PUT /v1/passcode", s.handleSetPasscode)
	mux.HandleFunc("DELETE /v1/passcode", s.handleClearPasscode)
	mux.HandleFunc("POST /v1/unlock", s.handleUnlock)

	return s.withRequestLogging(s.withAuth(mux))
}
