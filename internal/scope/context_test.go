package scope

import (
	"context"
	"testing"
)

func TestWithArtistIDAndArtistIDFromContext(t *testing.T) {
	ctx := context.Background()
	ctx = WithArtistID(ctx, "artist-42")

	got, ok := ArtistIDFromContext(ctx)
	if !ok {
		t.Fatalf("expected artist id to be present")
	}
	if got != "artist-42" {
		t.Fatalf("expected artist-42, got %s", got)
	}
}

func TestArtistIDFromContext_EmptyOrMissing(t *testing.T) {
	ctx := context.Background()
	if _, ok := ArtistIDFromContext(ctx); ok {
		t.Fatalf("expected missing artist id to return false")
	}

	ctx = context.WithValue(ctx, artistKey, 7)
	if _, ok := ArtistIDFromContext(ctx); ok {
		t.Fatalf("expected non-string artist id to return false")
	}

	ctx = WithArtistID(context.Background(), "")
	if _, ok := ArtistIDFromContext(ctx); ok {
		t.Fatalf("expected empty artist id to return false")
	}
}
