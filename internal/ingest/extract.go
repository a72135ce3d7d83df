package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Page is one page of handbook text with its citation metadata.
type Page struct {
	Content string
	Source  string
	Number  int // 1-based page number
}

// imageNamePattern matches extracted figure filenames like "page_42_img_0.png".
var imageNamePattern = regexp.MustCompile(`^page_(\d+)_img_\d+\.(?:png|jpg|jpeg)$`)

// ExtractPages reads a pdftotext-style dump where pages are separated by form
// feed characters. Blank pages are dropped; page numbers count every page in
// the dump, including blank ones, so citations stay aligned with the book.
func ExtractPages(path, source string) ([]Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source dump: %w", err)
	}

	raw := strings.Split(string(data), "\f")
	pages := make([]Page, 0, len(raw))
	for i, content := range raw {
		if strings.TrimSpace(content) == "" {
			continue
		}
		pages = append(pages, Page{
			Content: content,
			Source:  source,
			Number:  i + 1,
		})
	}

	return pages, nil
}

// ListImages returns the figure files in dir, sorted by name.
// A missing directory is not an error; it just yields no images.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageNamePattern.MatchString(entry.Name()) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// PageFromImageName parses the page number out of an extracted figure filename.
// Returns 0 when the name does not follow the page_N_img_M convention.
func PageFromImageName(path string) int {
	matches := imageNamePattern.FindStringSubmatch(filepath.Base(path))
	if matches == nil {
		return 0
	}
	page, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0
	}
	return page
}
