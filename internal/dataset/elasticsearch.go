package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	apperrors "apartment-estimator/internal/common/errors"
	"apartment-estimator/internal/models"
)

const defaultPageSize = 500

// ElasticsearchSource pages through a listing index with search_after,
// sorted by id.
type ElasticsearchSource struct {
	client   *elasticsearch.Client
	index    string
	pageSize int
}

func NewElasticsearchSource(client *elasticsearch.Client, index string, pageSize int) *ElasticsearchSource {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &ElasticsearchSource{client: client, index: index, pageSize: pageSize}
}

func (s *ElasticsearchSource) Name() string { return "elasticsearch" }

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.RawListing `json:"_source"`
			Sort   []interface{}     `json:"sort"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *ElasticsearchSource) Load(ctx context.Context) ([]models.RawListing, error) {
	var (
		out   []models.RawListing
		after []interface{}
	)
	for {
		page, next, err := s.page(ctx, after)
		if err != nil {
			return nil, apperrors.NewDataSourceError(s.Name(), err)
		}
		out = append(out, page...)
		if len(page) < s.pageSize || next == nil {
			return out, nil
		}
		after = next
	}
}

func (s *ElasticsearchSource) page(ctx context.Context, after []interface{}) ([]models.RawListing, []interface{}, error) {
	query := map[string]interface{}{
		"size":  s.pageSize,
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
		"sort":  []interface{}{map[string]interface{}{"id": "asc"}},
	}
	if after != nil {
		query["search_after"] = after
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, nil, err
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, nil, fmt.Errorf("decode search response: %w", err)
	}

	listings := make([]models.RawListing, 0, len(r.Hits.Hits))
	var last []interface{}
	for _, h := range r.Hits.Hits {
		listings = append(listings, h.Source)
		last = h.Sort
	}
	return listings, last, nil
}
