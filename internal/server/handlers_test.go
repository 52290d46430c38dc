package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"inkwell/internal/assetref"
	"inkwell/internal/assetstore"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

func newTestServer(t *testing.T) (*Server, *assetstore.Memory, *store.Store) {
	t.Helper()
	t.Setenv("INKWELL_API_TOKEN", "")

	st, err := store.Open(filepath.Join(t.TempDir(), "inkwell.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	assets := assetstore.NewMemory()
	return New("127.0.0.1:0", st, assets, nil), assets, st
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestFolderAndMemoEndpoints(t *testing.T) {
	srv, _, _ := newTestServer(t)
	handler := srv.routes()

	rec := doJSON(t, handler, http.MethodPost, "/v1/folders", map[string]string{"name": "Inbox"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create folder: %d %s", rec.Code, rec.Body)
	}
	var folder models.Folder
	if err := json.Unmarshal(rec.Body.Bytes(), &folder); err != nil {
		t.Fatalf("decode folder: %v", err)
	}

	content := "hello " + assetref.InlineSpan("img", "image/png", []byte("payload"))
	rec = doJSON(t, handler, http.MethodPost, "/v1/memos",
		map[string]string{"folder_id": folder.ID, "title": "first", "content": content})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create memo: %d %s", rec.Code, rec.Body)
	}
	var memo models.Memo
	if err := json.Unmarshal(rec.Body.Bytes(), &memo); err != nil {
		t.Fatalf("decode memo: %v", err)
	}
	if assetref.HasInline(memo.Content) {
		t.Fatalf("API returned ephemeral content: %q", memo.Content)
	}

	rec = doJSON(t, handler, http.MethodGet, "/v1/memos?folder="+folder.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list memos: %d %s", rec.Code, rec.Body)
	}
	var memos []models.Memo
	if err := json.Unmarshal(rec.Body.Bytes(), &memos); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(memos) != 1 || memos[0].ID != memo.ID {
		t.Fatalf("unexpected list: %+v", memos)
	}

	rec = doJSON(t, handler, http.MethodGet, "/v1/memos/"+memo.ID+"/rendered", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("rendered: %d %s", rec.Code, rec.Body)
	}
	var rendered models.Memo
	if err := json.Unmarshal(rec.Body.Bytes(), &rendered); err != nil {
		t.Fatalf("decode rendered: %v", err)
	}
	if !strings.Contains(rendered.Content, "data:image/png;base64,") {
		t.Fatalf("rendered content not resolved: %q", rendered.Content)
	}

	rec = doJSON(t, handler, http.MethodDelete, "/v1/memos/"+memo.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete memo: %d %s", rec.Code, rec.Body)
	}
	rec = doJSON(t, handler, http.MethodGet, "/v1/memos/"+memo.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestAssetEndpoints(t *testing.T) {
	srv, assets, _ := newTestServer(t)
	handler := srv.routes()

	payload := []byte("raw image bytes")
	req := httptest.NewRequest(http.MethodPost, "/v1/assets", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "image/png")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload: %d %s", rec.Code, rec.Body)
	}
	var uploaded assetUploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &uploaded); err != nil {
		t.Fatalf("decode upload: %v", err)
	}
	if uploaded.Size != len(payload) {
		t.Fatalf("size = %d, want %d", uploaded.Size, len(payload))
	}

	rec = doJSON(t, handler, http.MethodGet, "/v1/assets/"+uploaded.Identity, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get asset: %d %s", rec.Code, rec.Body)
	}
	if !bytes.Equal(rec.Body.Bytes(), payload) {
		t.Fatalf("asset bytes mismatch")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q", ct)
	}

	rec = doJSON(t, handler, http.MethodGet, "/v1/assets/0123abcd.png", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing asset: %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodDelete, "/v1/assets/"+uploaded.Identity, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete asset: %d %s", rec.Code, rec.Body)
	}
	if assets.Len() != 0 {
		t.Fatalf("blob not removed")
	}

	// Deleting an absent blob is a normal false result, not an error.
	rec = doJSON(t, handler, http.MethodDelete, "/v1/assets/"+uploaded.Identity, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete absent asset: %d %s", rec.Code, rec.Body)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode delete response: %v", err)
	}
	if removed, ok := resp["removed"].(bool); !ok || removed {
		t.Fatalf("expected removed=false, got %v", resp)
	}
}

func TestPasscodeEndpoints(t *testing.T) {
	srv, _, _ := newTestServer(t)
	handler := srv.routes()

	rec := doJSON(t, handler, http.MethodPost, "/v1/unlock", map[string]string{"passcode": "anything"})
	if rec.Code != http.StatusOK {
		t.Fatalf("unlock without passcode: %d %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, handler, http.MethodPut, "/v1/passcode", map[string]string{"passcode": "12"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("short passcode accepted: %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPut, "/v1/passcode", map[string]string{"passcode": "123456"})
	if rec.Code != http.StatusOK {
		t.Fatalf("set passcode: %d %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, handler, http.MethodPost, "/v1/unlock", map[string]string{"passcode": "wrong1"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong passcode: %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodPost, "/v1/unlock", map[string]string{"passcode": "123456"})
	if rec.Code != http.StatusOK {
		t.Fatalf("correct passcode: %d %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, handler, http.MethodDelete, "/v1/passcode", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear passcode: %d %s", rec.Code, rec.Body)
	}
}

func TestAPITokenAuth(t *testing.T) {
	t.Setenv("INKWELL_API_TOKEN", "secret")

	st, err := store.Open(filepath.Join(t.TempDir(), "inkwell.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	srv := New("127.0.0.1:0", st, assetstore.NewMemory(), nil)
	handler := srv.routes()

	req := httptest.NewRequest(http.MethodGet, "/v1/folders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/folders", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token rejected: %d %s", rec.Code, rec.Body)
	}

	// Health stays reachable for liveness probes.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("health blocked by auth: %d", rec.Code)
	}
}

func TestListenAddr(t *testing.T) {
	t.Setenv("INKWELL_ALLOW_REMOTE", "")

	addr, err := ListenAddr("http://127.0.0.1:7433")
	if err != nil || addr != "127.0.0.1:7433" {
		t.Fatalf("addr=%q err=%v", addr, err)
	}
	if _, err := ListenAddr("http://0.0.0.0:7433"); err == nil {
		t.Fatalf("remote host must require %s", "INKWELL_ALLOW_REMOTE")
	}
	t.Setenv("INKWELL_ALLOW_REMOTE", "true")
	if _, err := ListenAddr("http://0.0.0.0:7433"); err != nil {
		t.Fatalf("remote host with override: %v", err)
	}
}
