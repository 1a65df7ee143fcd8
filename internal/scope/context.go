package scope

import "context"

type ctxKey string

const artistKey ctxKey = "salonbook.artist_id"

// WithArtistID stores the artist id in context.
func WithArtistID(ctx context.Context, artistID string) context.Context {
	return context.WithValue(ctx, artistKey, artistID)
}

// ArtistIDFromContext extracts the artist id if present.
func ArtistIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(artistKey)
	if val == nil {
		return "", false
	}
	artistID, ok := val.(string)
	return artistID, ok && artistID != ""
}
