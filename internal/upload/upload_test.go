package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

func TestSniff(t *testing.T) {
	contentType, r, err := Sniff(bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("Sniff failed: %v", err)
	}
	if contentType != "image/png" {
		t.Errorf("expected image/png, got %s", contentType)
	}
	replayed, _ := io.ReadAll(r)
	if !bytes.Equal(replayed, pngBytes) {
		t.Error("sniffed reader must replay the full body")
	}

	if _, _, err := Sniff(strings.NewReader("plain text, not an image")); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestLocalImageStoreUploadDelete(t *testing.T) {
	store, err := NewLocalImageStore(filepath.Join(t.TempDir(), "uploads"), "/uploads/")
	if err != nil {
		t.Fatalf("NewLocalImageStore failed: %v", err)
	}
	ctx := context.Background()

	res, err := store.Upload(ctx, "me.png", "image/png", bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if !ValidID(res.ID) || !strings.HasSuffix(res.ID, ".png") {
		t.Errorf("unexpected id %q", res.ID)
	}
	if res.URL != "/uploads/"+res.ID {
		t.Errorf("unexpected url %q", res.URL)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), res.ID)); err != nil {
		t.Fatalf("file not written: %v", err)
	}

	if err := store.Delete(ctx, res.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, res.ID); !errors.Is(err, ErrImageNotFound) {
		t.Errorf("second delete should be not found, got %v", err)
	}
}

func TestLocalImageStoreRejects(t *testing.T) {
	store, err := NewLocalImageStore(t.TempDir(), "/uploads/")
	if err != nil {
		t.Fatalf("NewLocalImageStore failed: %v", err)
	}
	ctx := context.Background()

	if _, err := store.Upload(ctx, "a.svg", "image/svg+xml", strings.NewReader("<svg/>")); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
	for _, id := range []string{"../config.json", "x.png", "", "6f1c9b1e-3f1d-4e7a-9a55-0c2f9d1e2a3b.exe"} {
		if err := store.Delete(ctx, id); !errors.Is(err, ErrImageNotFound) {
			t.Errorf("Delete(%q) = %v, want ErrImageNotFound", id, err)
		}
	}
}

func TestDownloadURL(t *testing.T) {
	got := DownloadURL("demo.appspot.com", "portfolio/a b.png", "tok")
	want := "https://firebasestorage.googleapis.com/v0/b/demo.appspot.com/o/portfolio%2Fa%20b.png?alt=media&token=tok"
	if got != want {
		t.Errorf("DownloadURL = %s, want %s", got, want)
	}
}
