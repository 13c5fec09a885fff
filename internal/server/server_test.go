package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"chatdoc/internal/app"
	"chatdoc/internal/config"
	"chatdoc/internal/embedding"
	"chatdoc/internal/session"
)

const document = `Goroutines are lightweight threads managed by the Go runtime.
Channels let goroutines communicate without sharing memory directly.
The select statement waits on several channel operations at once.`

type stubGenerator struct {
	reply string
	err   error
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return s.reply, s.err
}

func newTestServer(t *testing.T, gen *stubGenerator) *echo.Echo {
	t.Helper()
	cfg := &config.Config{
		ChunkMethod:    "words",
		ChunkSize:      10,
		ChunkOverlap:   3,
		TopK:           2,
		MaxPromptChars: 4000,
	}
	a, err := app.New(cfg, app.Deps{Embedder: embedding.NewHash(64), Generator: gen})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	return New(a, session.NewMemoryStore(time.Hour), 1<<20)
}

func do(t *testing.T, e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func uploadRequest(t *testing.T, sessionID, name string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+sessionID+"/documents", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func createSession(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec := do(t, e, httptest.NewRequest(http.MethodPost, "/api/sessions", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: status %d: %s", rec.Code, rec.Body.String())
	}
	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID == "" {
		t.Fatal("empty session id")
	}
	return resp.ID
}

func errorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body["kind"]
}

func TestHealthz(t *testing.T) {
	e := newTestServer(t, &stubGenerator{})
	rec := do(t, e, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", rec.Code, rec.Body.String())
	}
}

func TestMetrics(t *testing.T) {
	e := newTestServer(t, &stubGenerator{})
	rec := do(t, e, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("metrics output misses default collectors")
	}
}

func TestDocumentQuestionFlow(t *testing.T) {
	e := newTestServer(t, &stubGenerator{reply: "Channels connect goroutines."})
	id := createSession(t, e)

	rec := do(t, e, jsonRequest(http.MethodPost, "/api/sessions/"+id+"/questions", `{"question":"What are channels?"}`))
	if rec.Code != http.StatusConflict || errorKind(t, rec) != "no_document_loaded" {
		t.Fatalf("question before upload: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, e, uploadRequest(t, id, "notes.txt", []byte(document)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload: %d %s", rec.Code, rec.Body.String())
	}
	var doc documentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Name != "notes.txt" || doc.Chunks == 0 {
		t.Fatalf("unexpected document response: %+v", doc)
	}

	rec = do(t, e, jsonRequest(http.MethodPost, "/api/sessions/"+id+"/questions", `{"question":"What are channels?"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("question: %d %s", rec.Code, rec.Body.String())
	}
	var ans answerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &ans); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ans.Answer != "Channels connect goroutines." {
		t.Errorf("answer = %q", ans.Answer)
	}
	if len(ans.Sources) != 2 {
		t.Errorf("expected 2 sources, got %d", len(ans.Sources))
	}

	rec = do(t, e, jsonRequest(http.MethodPost, "/api/sessions/"+id+"/questions", `{"question":"select?","top_k":1}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("question: %d %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &ans); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ans.Sources) != 1 {
		t.Errorf("top_k override ignored: %d sources", len(ans.Sources))
	}
}

func TestErrorMapping(t *testing.T) {
	e := newTestServer(t, &stubGenerator{reply: "ok"})
	id := createSession(t, e)

	tests := []struct {
		name string
		req  *http.Request
		code int
		kind string
	}{
		{"unknown session", jsonRequest(http.MethodPost, "/api/sessions/nope/questions", `{"question":"x"}`), http.StatusNotFound, "session_not_found"},
		{"empty file", uploadRequest(t, id, "empty.txt", nil), http.StatusUnprocessableEntity, "empty_document"},
		{"punctuation file", uploadRequest(t, id, "rules.txt", []byte("--- *** ... !!!")), http.StatusUnprocessableEntity, "empty_document"},
		{"punctuation question", jsonRequest(http.MethodPost, "/api/sessions/"+id+"/questions", `{"question":"???"}`), http.StatusBadRequest, "invalid_question"},
		{"binary file", uploadRequest(t, id, "blob.txt", []byte{0xff, 0xfe, 0x00}), http.StatusUnprocessableEntity, "extraction"},
		{"blank question", jsonRequest(http.MethodPost, "/api/sessions/"+id+"/questions", `{"question":"  "}`), http.StatusBadRequest, "invalid_question"},
		{"missing file field", jsonRequest(http.MethodPost, "/api/sessions/"+id+"/documents", `{}`), http.StatusBadRequest, "http"},
		{"bad quiz", jsonRequest(http.MethodPost, "/api/quiz", `{"topic":""}`), http.StatusBadRequest, "invalid_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, e, tt.req)
			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.code, rec.Body.String())
			}
			if got := errorKind(t, rec); got != tt.kind {
				t.Errorf("kind = %q, want %q", got, tt.kind)
			}
		})
	}
}

func TestSynthesisFailureIsBadGateway(t *testing.T) {
	e := newTestServer(t, &stubGenerator{err: context.DeadlineExceeded})
	id := createSession(t, e)
	if rec := do(t, e, uploadRequest(t, id, "notes.txt", []byte(document))); rec.Code != http.StatusCreated {
		t.Fatalf("upload: %d %s", rec.Code, rec.Body.String())
	}
	rec := do(t, e, jsonRequest(http.MethodPost, "/api/sessions/"+id+"/questions", `{"question":"What are channels?"}`))
	if rec.Code != http.StatusBadGateway || errorKind(t, rec) != "synthesis" {
		t.Fatalf("expected 502 synthesis, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteSession(t *testing.T) {
	e := newTestServer(t, &stubGenerator{reply: "ok"})
	id := createSession(t, e)

	rec := do(t, e, httptest.NewRequest(http.MethodDelete, "/api/sessions/"+id, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d %s", rec.Code, rec.Body.String())
	}
	rec = do(t, e, httptest.NewRequest(http.MethodDelete, "/api/sessions/"+id, nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: %d", rec.Code)
	}
	rec = do(t, e, uploadRequest(t, id, "notes.txt", []byte(document)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("upload to deleted session: %d", rec.Code)
	}
}

func TestQuizEndpoint(t *testing.T) {
	reply := "Q: What do channels do?\n(a) Allocate memory\n(b) Connect goroutines\n(c) Compile code\n(d) Parse JSON\nAnswer: b\nExplanation: Channels pass values.\n"
	e := newTestServer(t, &stubGenerator{reply: reply})

	rec := do(t, e, jsonRequest(http.MethodPost, "/api/quiz", `{"topic":"Go","difficulty":"easy","count":1}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("quiz: %d %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Questions []struct {
			Question string    `json:"question"`
			Options  [4]string `json:"options"`
			Answer   string    `json:"answer"`
		} `json:"questions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Questions) != 1 || resp.Questions[0].Answer != "b" || resp.Questions[0].Options[1] != "Connect goroutines" {
		t.Fatalf("unexpected quiz: %+v", resp)
	}
}

func TestQuizParseFailure(t *testing.T) {
	e := newTestServer(t, &stubGenerator{reply: "Sorry, I can't do that."})
	rec := do(t, e, jsonRequest(http.MethodPost, "/api/quiz", `{"topic":"Go"}`))
	if rec.Code != http.StatusBadGateway || errorKind(t, rec) != "parse" {
		t.Fatalf("expected 502 parse, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestStatusFor(t *testing.T) {
	if statusFor("internal") != http.StatusInternalServerError {
		t.Error("unknown kinds must map to 500")
	}
	if statusFor("embedding") != http.StatusBadGateway {
		t.Error("embedding failures map to 502")
	}
}
