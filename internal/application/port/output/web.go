package output

import (
	"context"

	"policy-crew/internal/domain/entity"
)

type SearchPort interface {
	Search(ctx context.Context, query entity.SearchQuery) (*entity.SearchResponse, error)
}

type PageReaderPort interface {
	Read(ctx context.Context, url string) (*entity.WebPage, error)
}
