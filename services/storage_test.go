package services

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

// multipartFile builds a real multipart.File/FileHeader pair the way fiber
// hands them to the upload helper.
func multipartFile(t *testing.T, field, filename, content string) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	writer.Close()

	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("reading form back: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	header := form.File[field][0]
	file, err := header.Open()
	if err != nil {
		t.Fatalf("opening form file: %v", err)
	}
	t.Cleanup(func() { file.Close() })

	return file, header
}

func TestUploadFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parsing upload form: %v", err)
		}
		if got := r.FormValue("folder"); got != "announcements/images" {
			t.Errorf("folder = %q", got)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("upload is missing the file part: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"success":true,"data":{"secure_url":"https://cdn.example.com/a.png","public_id":"announcements/images/a"}}`)
	}))
	defer server.Close()

	t.Setenv("MEDIA_UPLOAD_URL", server.URL)
	t.Setenv("MEDIA_UPLOAD_KEY", "test-key")

	file, header := multipartFile(t, "file", "a.png", "fake image bytes")

	result, err := UploadFile(file, header, "announcements/images")
	if err != nil {
		t.Fatalf("UploadFile returned error: %v", err)
	}
	if result.URL != "https://cdn.example.com/a.png" {
		t.Errorf("url = %q", result.URL)
	}
	if result.PublicID != "announcements/images/a" {
		t.Errorf("public_id = %q", result.PublicID)
	}
}

func TestUploadFileWithoutEndpoint(t *testing.T) {
	t.Setenv("MEDIA_UPLOAD_URL", "")

	file, header := multipartFile(t, "file", "a.png", "x")
	if _, err := UploadFile(file, header, "lisan_avatars"); err == nil {
		t.Fatal("expected error when MEDIA_UPLOAD_URL is unset")
	}
}

func TestParseUploadResponse(t *testing.T) {
	result, err := parseUploadResponse([]byte(`{"success":true,"data":{"secure_url":"https://cdn.example.com/x.mp4","public_id":"v/x"}}`))
	if err != nil {
		t.Fatalf("parseUploadResponse returned error: %v", err)
	}
	if result.URL != "https://cdn.example.com/x.mp4" || result.PublicID != "v/x" {
		t.Errorf("result = %+v", result)
	}
}

func TestParseUploadResponseFailure(t *testing.T) {
	if _, err := parseUploadResponse([]byte(`{"success":false,"error":"quota exceeded"}`)); err == nil {
		t.Fatal("expected error for failed upload")
	}
	if _, err := parseUploadResponse([]byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed response")
	}
}
