package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	key, err := store.Store(ctx, "documents/p1/id.pdf", "application/pdf", strings.NewReader("%PDF fake"), 9)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	reader, err := store.Retrieve(ctx, key)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	content, err := io.ReadAll(reader)
	reader.Close()
	if err != nil || string(content) != "%PDF fake" {
		t.Errorf("content = %q err = %v", content, err)
	}

	if _, err := store.Retrieve(ctx, "documents/p1/missing.pdf"); err == nil {
		t.Error("expected an error for a missing key")
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("documents/p1/doc-%d.pdf", i)
			if _, err := store.Store(ctx, key, "application/pdf", strings.NewReader("body"), 4); err != nil {
				t.Errorf("store %s: %v", key, err)
				return
			}
			reader, err := store.Retrieve(ctx, key)
			if err != nil {
				t.Errorf("retrieve %s: %v", key, err)
				return
			}
			reader.Close()
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		key := fmt.Sprintf("documents/p1/doc-%d.pdf", i)
		reader, err := store.Retrieve(ctx, key)
		if err != nil {
			t.Fatalf("retrieve %s after writes: %v", key, err)
		}
		reader.Close()
	}
}
