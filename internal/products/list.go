package products

import (
	"context"
	"net/url"
	"strings"

	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
)

// ListPath is the collection route navigation links point at.
const ListPath = "/api/products"

// ListInput carries the listing options supplied by the caller.
type ListInput struct {
	Limit int
	Page  int
	Sort  enums.SortOrder
	// Query filters by exact category when non-empty.
	Query string
}

// Page is the pagination envelope returned by GetProducts.
type Page struct {
	Payload     []ProductDTO `json:"payload"`
	TotalPages  int          `json:"totalPages"`
	PrevPage    *int         `json:"prevPage"`
	NextPage    *int         `json:"nextPage"`
	Page        int          `json:"page"`
	Limit       int          `json:"limit"`
	HasPrevPage bool         `json:"hasPrevPage"`
	HasNextPage bool         `json:"hasNextPage"`
	PrevLink    *string      `json:"prevLink"`
	NextLink    *string      `json:"nextLink"`
	Sort        string       `json:"sort"`
	Query       string       `json:"query"`
	TotalDocs   int64        `json:"totalDocs"`
}

func (s *service) GetProducts(ctx context.Context, input ListInput) (*Page, error) {
	if !input.Sort.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort order").
			WithDetails(map[string]string{"sort": "must be asc or desc"})
	}
	params := pagination.Params{Limit: input.Limit, Page: input.Page}.Normalize()
	category := strings.TrimSpace(input.Query)

	rows, total, err := s.repo.List(ctx, ListQuery{
		Skip:     params.Skip(),
		Limit:    params.Limit,
		Category: category,
		Sort:     input.Sort,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list products")
	}

	window := pagination.Compute(params, total)
	links := pagination.LinkBuilder{
		Path: ListPath,
		Extra: url.Values{
			"sort":  []string{input.Sort.String()},
			"query": []string{category},
		},
	}

	return &Page{
		Payload:     newProductDTOs(rows),
		TotalPages:  window.TotalPages,
		PrevPage:    window.PrevPage,
		NextPage:    window.NextPage,
		Page:        window.Page,
		Limit:       window.Limit,
		HasPrevPage: window.HasPrevPage,
		HasNextPage: window.HasNextPage,
		PrevLink:    links.Link(window.Limit, window.PrevPage),
		NextLink:    links.Link(window.Limit, window.NextPage),
		Sort:        input.Sort.String(),
		Query:       category,
		TotalDocs:   window.TotalDocs,
	}, nil
}
