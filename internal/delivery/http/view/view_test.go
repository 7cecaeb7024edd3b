package view

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/user/page-analyzer/internal/entity"
)

// brokenWriter accepts headers but fails every body write, like a client
// that hung up.
type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func TestRender(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	rec := httptest.NewRecorder()
	page := Page{
		Flashes: []entity.Flash{{Level: entity.FlashDanger, Message: "Invalid URL"}},
		Data:    IndexData{Value: "bad", Error: "Invalid URL"},
	}
	if err := r.Render(rec, http.StatusUnprocessableEntity, PageIndex, page); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if body := rec.Body.String(); !strings.Contains(body, "alert-danger") || !strings.Contains(body, `value="bad"`) {
		t.Errorf("unexpected body:\n%s", body)
	}
}

func TestRender_UnknownPage(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	rec := httptest.NewRecorder()
	err = r.Render(rec, http.StatusOK, "missing", Page{})
	if err == nil || errors.Is(err, ErrResponseWrite) {
		t.Fatalf("Render error = %v, want a render error", err)
	}
	if rec.Body.Len() != 0 {
		t.Error("nothing should be written for an unknown page")
	}
}

func TestRender_WriteFailure(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	w := brokenWriter{httptest.NewRecorder()}
	err = r.Render(w, http.StatusOK, PageIndex, Page{Data: IndexData{}})
	if !errors.Is(err, ErrResponseWrite) {
		t.Fatalf("Render error = %v, want ErrResponseWrite", err)
	}
}
