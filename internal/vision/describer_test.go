package vision

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ddxlab/ddxbrain/pkg/zerolog"
)

func writeTestImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page_1_img_0.png")
	if err := os.WriteFile(path, []byte("fake-png-bytes"), 0o600); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	return path
}

func TestHTTPDescriber_Describe(t *testing.T) {
	imagePath := writeTestImage(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("got method %s, want POST", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("missing image part: %v", err)
		}
		defer file.Close()
		if header.Filename != "page_1_img_0.png" {
			t.Errorf("got filename %q", header.Filename)
		}

		prompt := r.FormValue("prompt")
		if !strings.Contains(prompt, "medical") {
			t.Errorf("prompt does not mention medical context: %q", prompt)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"description": "An ECG showing ST elevation"}`))
	}))
	defer server.Close()

	describer := NewHTTPDescriber(server.URL, zerolog.NewZerologLogger("vision-test"))

	caption, err := describer.Describe(context.Background(), imagePath)
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if caption != "An ECG showing ST elevation" {
		t.Errorf("got caption %q", caption)
	}
}

func TestHTTPDescriber_Describe_Errors(t *testing.T) {
	imagePath := writeTestImage(t)

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "Endpoint error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model unavailable", http.StatusServiceUnavailable)
			},
		},
		{
			name: "Malformed response body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
		{
			name: "Empty description",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"description": ""}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			describer := NewHTTPDescriber(server.URL, zerolog.NewZerologLogger("vision-test"))
			if _, err := describer.Describe(context.Background(), imagePath); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestHTTPDescriber_Describe_MissingImage(t *testing.T) {
	describer := NewHTTPDescriber("http://127.0.0.1:0", zerolog.NewZerologLogger("vision-test"))
	if _, err := describer.Describe(context.Background(),
		filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Fatal("expected an error for a missing image")
	}
}
