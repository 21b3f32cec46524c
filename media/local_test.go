package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vitrine/models"
)

func TestLocalUploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir, "/static/uploads/")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	st, err := l.Upload(context.Background(), "Photo.JPG", strings.NewReader("jpeg bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(st.URL, "/static/uploads/") || !strings.HasSuffix(st.URL, ".jpg") {
		t.Fatalf("unexpected url: %s", st.URL)
	}
	body, err := os.ReadFile(filepath.Join(dir, st.PublicID))
	if err != nil || string(body) != "jpeg bytes" {
		t.Fatalf("file not written: %q %v", body, err)
	}

	if err := l.Delete(context.Background(), st.PublicID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := l.Delete(context.Background(), st.PublicID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLocalDeleteRejectsPaths(t *testing.T) {
	l, _ := NewLocal(t.TempDir(), "/static/uploads")
	for _, id := range []string{"../secret", "a/b.jpg", ".."} {
		if err := l.Delete(context.Background(), id); !errors.Is(err, models.ErrNotFound) {
			t.Fatalf("%q: expected ErrNotFound, got %v", id, err)
		}
	}
}

func TestObjectNameKeepsExtension(t *testing.T) {
	a, b := objectName("x.PNG"), objectName("x.PNG")
	if a == b || !strings.HasSuffix(a, ".png") {
		t.Fatalf("unexpected names %s %s", a, b)
	}
}

func TestLocalListAndDeleteAll(t *testing.T) {
	dir := t.TempDir()
	l, _ := NewLocal(dir, "/static/uploads")
	ctx := context.Background()

	if got, err := l.List(ctx); err != nil || len(got) != 0 {
		t.Fatalf("empty dir: %v %v", got, err)
	}

	uploaded := map[string]bool{}
	for _, name := range []string{"a.jpg", "b.png", "c.webp"} {
		st, err := l.Upload(ctx, name, strings.NewReader(name))
		if err != nil {
			t.Fatalf("Upload: %v", err)
		}
		uploaded[st.PublicID] = true
	}
	if err := os.Mkdir(filepath.Join(dir, "thumbs"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	listed, err := l.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 images, got %+v", listed)
	}
	for _, st := range listed {
		if !uploaded[st.PublicID] || st.URL != "/static/uploads/"+st.PublicID {
			t.Fatalf("unexpected listed image: %+v", st)
		}
	}

	n, err := l.DeleteAll(ctx)
	if err != nil || n != 3 {
		t.Fatalf("DeleteAll: %d %v", n, err)
	}
	if listed, _ := l.List(ctx); len(listed) != 0 {
		t.Fatalf("images left after DeleteAll: %+v", listed)
	}
}

func TestLocalListIsCapped(t *testing.T) {
	dir := t.TempDir()
	l, _ := NewLocal(dir, "/static/uploads")
	for i := 0; i < ListLimit+5; i++ {
		if _, err := l.Upload(context.Background(), "x.jpg", strings.NewReader("x")); err != nil {
			t.Fatalf("Upload: %v", err)
		}
	}
	listed, _ := l.List(context.Background())
	if len(listed) != ListLimit {
		t.Fatalf("expected %d images, got %d", ListLimit, len(listed))
	}
}
