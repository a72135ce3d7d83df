package ingest

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestExtractPages(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Page
	}{
		{
			name:    "Pages split on form feed",
			content: "page one\fpage two",
			want: []Page{
				{Content: "page one", Source: "Oxford Handbook", Number: 1},
				{Content: "page two", Source: "Oxford Handbook", Number: 2},
			},
		},
		{
			name:    "Blank pages dropped but numbering kept",
			content: "page one\f\f   \fpage four",
			want: []Page{
				{Content: "page one", Source: "Oxford Handbook", Number: 1},
				{Content: "page four", Source: "Oxford Handbook", Number: 4},
			},
		},
		{
			name:    "Single page without form feed",
			content: "only page",
			want: []Page{
				{Content: "only page", Source: "Oxford Handbook", Number: 1},
			},
		},
		{
			name:    "Empty dump yields no pages",
			content: "",
			want:    []Page{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "dump.txt")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("failed to write dump: %v", err)
			}

			got, err := ExtractPages(path, "Oxford Handbook")
			if err != nil {
				t.Fatalf("ExtractPages() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractPages() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestExtractPages_MissingFile(t *testing.T) {
	_, err := ExtractPages(filepath.Join(t.TempDir(), "nope.txt"), "Oxford Handbook")
	if err == nil {
		t.Error("expected an error for a missing source dump")
	}
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"page_2_img_1.jpg",
		"page_1_img_0.png",
		"notes.txt",
		"img_without_page.png",
	}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "page_3_img_0.png"), 0o755); err != nil {
		t.Fatalf("failed to create subdirectory: %v", err)
	}

	got, err := ListImages(dir)
	if err != nil {
		t.Fatalf("ListImages() error = %v", err)
	}

	want := []string{
		filepath.Join(dir, "page_1_img_0.png"),
		filepath.Join(dir, "page_2_img_1.jpg"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListImages() = %#v, want %#v", got, want)
	}
}

func TestListImages_MissingDir(t *testing.T) {
	got, err := ListImages(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Errorf("ListImages() error = %v, want nil", err)
	}
	if got != nil {
		t.Errorf("ListImages() = %#v, want nil", got)
	}
}

func TestPageFromImageName(t *testing.T) {
	tests := []struct {
		name string
		path string
		want int
	}{
		{
			name: "png figure",
			path: "/tmp/images/page_42_img_0.png",
			want: 42,
		},
		{
			name: "jpeg figure",
			path: "page_3_img_7.jpeg",
			want: 3,
		},
		{
			name: "name outside the convention",
			path: "figure_42.png",
			want: 0,
		},
		{
			name: "missing page number",
			path: "page__img_0.png",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PageFromImageName(tt.path); got != tt.want {
				t.Errorf("PageFromImageName(%q) = %d, want %d", tt.path, got, tt.want)
			}
		})
	}
}
