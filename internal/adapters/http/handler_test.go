package httpadapter_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/regenai/regen-agent/internal/adapters/auth"
	httpadapter "github.com/regenai/regen-agent/internal/adapters/http"
	"github.com/regenai/regen-agent/internal/adapters/llm"
	"github.com/regenai/regen-agent/internal/adapters/storage/memory"
	"github.com/regenai/regen-agent/internal/app/agent"
	"github.com/regenai/regen-agent/internal/app/forms"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	formStore := memory.NewFormStore()
	threads := memory.NewThreadStore(3)
	agentSvc := agent.NewService(llm.NewMockLLM(), nil, formStore, threads, nil, agent.Options{})
	formsSvc := forms.NewService(formStore)

	return httpadapter.NewServer(agentSvc, formsSvc, auth.NewJWTVerifier(testSecret))
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return "Bearer " + signed
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestChatRequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	body := []byte(`{"message":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/agent/chat", bytes.NewReader(body))
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/agent/chat", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()

	srv.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with a bad token, got %d", w.Code)
	}
}

func TestChatReturnsReplyAndThreadID(t *testing.T) {
	srv := newTestServer(t)
	token := bearer(t, "user-1")

	body := []byte(`{"message":"What should I plant?"}`)
	req := httptest.NewRequest(http.MethodPost, "/agent/chat", bytes.NewReader(body))
	req.Header.Set("Authorization", token)
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Reply    string `json:"reply"`
		ThreadID string `json:"thread_id"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Reply == "" || resp.ThreadID == "" {
		t.Fatalf("expected reply and thread id, got %+v", resp)
	}

	// Reusing the returned thread id keeps the conversation.
	body2 := []byte(`{"message":"and irrigation?","thread_id":"` + resp.ThreadID + `"}`)
	req2 := httptest.NewRequest(http.MethodPost, "/agent/chat", bytes.NewReader(body2))
	req2.Header.Set("Authorization", token)
	w2 := httptest.NewRecorder()

	srv.ServeHTTP(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w2.Code, w2.Body.String())
	}

	var resp2 struct {
		ThreadID string `json:"thread_id"`
	}
	if err := json.NewDecoder(w2.Body).Decode(&resp2); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp2.ThreadID != resp.ThreadID {
		t.Fatalf("thread id changed across turns: %q vs %q", resp.ThreadID, resp2.ThreadID)
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/agent/chat", bytes.NewReader([]byte(`{"message":"  "}`)))
	req.Header.Set("Authorization", bearer(t, "user-1"))
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty message, got %d", w.Code)
	}
}

func TestFormsCRUD(t *testing.T) {
	srv := newTestServer(t)
	token := bearer(t, "user-1")

	// Create
	body := []byte(`{"location":"Lahore","area_type":"Plain","soil_type":"Loamy","water_source":"Canal","irrigation":"Yes","land_size":"5 acres","goal":"Profit"}`)
	req := httptest.NewRequest(http.MethodPost, "/forms", bytes.NewReader(body))
	req.Header.Set("Authorization", token)
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var created struct {
		ID       int64  `json:"id"`
		Location string `json:"location"`
	}
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if created.ID == 0 || created.Location != "Lahore" {
		t.Fatalf("unexpected created form: %+v", created)
	}

	// List
	req = httptest.NewRequest(http.MethodGet, "/forms", nil)
	req.Header.Set("Authorization", token)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 listing forms, got %d", w.Code)
	}

	// Another user sees nothing.
	req = httptest.NewRequest(http.MethodGet, "/forms", nil)
	req.Header.Set("Authorization", bearer(t, "user-2"))
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	var list []json.RawMessage
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("user-2 must not see user-1's forms, got %d", len(list))
	}
}
