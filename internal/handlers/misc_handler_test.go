package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

func slideForm(t *testing.T, data string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("data", data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func TestCarouselUpdateValidation(t *testing.T) {
	h := &CarouselHandler{}
	r := mux.NewRouter()
	r.HandleFunc("/admin/carousel/{id}", h.Update).Methods("PUT")

	tests := []struct {
		name string
		path string
		data string
	}{
		{"non-numeric id", "/admin/carousel/abc", `{"title":"Diwali"}`},
		{"malformed data field", "/admin/carousel/3", `{"title":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := slideForm(t, tt.data)
			req := httptest.NewRequest("PUT", tt.path, body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestCarouselUpdateRejectsNonMultipart(t *testing.T) {
	h := &CarouselHandler{}
	r := mux.NewRouter()
	r.HandleFunc("/admin/carousel/{id}", h.Update).Methods("PUT")

	req := httptest.NewRequest("PUT", "/admin/carousel/3", bytes.NewBufferString(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
