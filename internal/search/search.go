// Package search keeps a full-text index of challenges in Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"hiring-platform/internal/common/logger"
	"hiring-platform/internal/models"
)

var (
	ErrSearchQueryFailed = errors.New("SEARCH_QUERY_FAILED")
	ErrIndexFailed       = errors.New("SEARCH_INDEX_FAILED")
)

const (
	defaultIndex = "challenges"
	maxResults   = 100
)

const indexMapping = `{
  "mappings": {
    "properties": {
      "id":            {"type": "long"},
      "title":         {"type": "text"},
      "description":   {"type": "text"},
      "company_id":    {"type": "long"},
      "company_email": {"type": "keyword"}
    }
  }
}`

type ChallengeIndex struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewChallengeIndex(client *elasticsearch.Client, index string, log logger.Logger) *ChallengeIndex {
	if index == "" {
		index = defaultIndex
	}
	return &ChallengeIndex{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "challenge-index"}),
	}
}

// EnsureIndex creates the index with its mapping unless it already exists.
func (c *ChallengeIndex) EnsureIndex(ctx context.Context) error {
	res, err := c.client.Indices.Exists([]string{c.index}, c.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: check index: %v", ErrIndexFailed, err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = c.client.Indices.Create(
		c.index,
		c.client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
		c.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("%w: create index: %v", ErrIndexFailed, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("%w: create index: %s", ErrIndexFailed, res.String())
	}

	c.logger.Info("search index created", map[string]interface{}{"index": c.index})
	return nil
}

func (c *ChallengeIndex) IndexChallenge(ctx context.Context, challenge models.ChallengeWithCompany) error {
	body, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("%w: encode document: %v", ErrIndexFailed, err)
	}

	req := esapi.IndexRequest{
		Index:      c.index,
		DocumentID: strconv.FormatInt(challenge.ID, 10),
		Body:       bytes.NewReader(body),
		Refresh:    "wait_for",
	}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexFailed, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("%w: %s", ErrIndexFailed, res.String())
	}
	return nil
}

// Search runs a multi_match over title and description, title boosted.
func (c *ChallengeIndex) Search(ctx context.Context, query string) ([]models.ChallengeWithCompany, error) {
	body, _ := json.Marshal(buildSearchQuery(query))
	size := maxResults

	req := esapi.SearchRequest{
		Index: []string{c.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchQueryFailed, res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchQueryFailed, err)
	}

	out := make([]models.ChallengeWithCompany, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		out = append(out, hit.Source)
	}
	return out, nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.ChallengeWithCompany `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func buildSearchQuery(query string) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"title^2", "description"},
				"type":      "best_fields",
				"fuzziness": "AUTO",
			},
		},
	}
}
