package catalog

import "context"

// Client is the read-only game catalog
type Client interface {
	ListGames(ctx context.Context, params ListParams) (*Page, error)
	GetGame(ctx context.Context, slug string) (*Detail, error)
	ListReviews(ctx context.Context, slug string) ([]Review, error)
	ListGenres(ctx context.Context) ([]Genre, error)
}
