package blob

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFilesystemStore_PutGetDelete(t *testing.T) {
	root := filepath.Join(t.TempDir(), "blobs")
	store, err := NewFilesystemStore(root)
	if err != nil {
		t.Fatalf("new filesystem store: %v", err)
	}

	key := "jobs/8e6f1c2a/1700000000.jpg"
	payload := []byte("hello")
	if err := store.Put(context.Background(), key, "text/plain", payload); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("unexpected payload: %q", string(got))
	}

	if err := store.Delete(context.Background(), key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = store.Get(context.Background(), key)
	if !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestFilesystemStore_ConfinesKeysToRoot(t *testing.T) {
	base := t.TempDir()
	store, err := NewFilesystemStore(filepath.Join(base, "blobs"))
	if err != nil {
		t.Fatalf("new filesystem store: %v", err)
	}

	if err := store.Put(context.Background(), "../escape.jpg", "image/jpeg", []byte("x")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "escape.jpg")); !errors.Is(err, os.ErrNotExist) {
		t.Error("traversal key escaped the root directory")
	}

	for _, key := range []string{"", "."} {
		if err := store.Put(context.Background(), key, "image/jpeg", []byte("x")); err == nil {
			t.Errorf("Put(%q) succeeded, want key rejection", key)
		}
	}
}
