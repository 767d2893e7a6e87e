package store

import (
	"context"
	"testing"

	"github.com/matzehuels/sourceflow/pkg/errors"
	"github.com/matzehuels/sourceflow/pkg/source"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	cfg := source.Config{
		"orders": {Type: source.TypeUnionDirectory},
	}
	if err := s.Publish(ctx, "prod", cfg); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	record, err := s.Fetch(ctx, "prod")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if record.Name != "prod" {
		t.Errorf("record name = %q, want prod", record.Name)
	}
	if record.Config["orders"].Type != source.TypeUnionDirectory {
		t.Errorf("record config = %+v", record.Config)
	}
	if record.UpdatedAt.IsZero() {
		t.Error("publish should stamp UpdatedAt")
	}
}

func TestMemoryStorePublishReplaces(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Publish(ctx, "prod", source.Config{"a": {Type: source.TypeUnionDirectory}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Publish(ctx, "prod", source.Config{"b": {Type: source.TypeUnionDirectory}}); err != nil {
		t.Fatal(err)
	}

	record, err := s.Fetch(ctx, "prod")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := record.Config["b"]; !ok {
		t.Error("republish should replace the stored config")
	}
	if _, ok := record.Config["a"]; ok {
		t.Error("republish should not merge with the previous config")
	}
}

func TestMemoryStoreListSorted(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, name := range []string{"staging", "dev", "prod"} {
		if err := s.Publish(ctx, name, source.Config{}); err != nil {
			t.Fatal(err)
		}
	}

	records, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"dev", "prod", "staging"}
	for i, record := range records {
		if record.Name != want[i] {
			t.Errorf("records[%d] = %q, want %q", i, record.Name, want[i])
		}
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Fetch(ctx, "nope"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Fetch error = %v, want NOT_FOUND", err)
	}
	if err := s.Delete(ctx, "nope"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Delete error = %v, want NOT_FOUND", err)
	}
}
