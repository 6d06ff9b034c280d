package web

import (
	"io/fs"
	"strings"
	"testing"
)

func TestStaticFS(t *testing.T) {
	staticFS, err := StaticFS()
	if err != nil {
		t.Fatalf("StaticFS() error: %v", err)
	}

	data, err := fs.ReadFile(staticFS, "index.html")
	if err != nil {
		t.Fatalf("index.html not embedded: %v", err)
	}

	if !strings.Contains(string(data), "/view?file=") {
		t.Error("viewer page does not reference the /view endpoint")
	}
}
