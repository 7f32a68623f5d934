package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiring-platform/internal/common/logger"
	"hiring-platform/internal/models"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

func newTestIndex(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*ChallengeIndex, *[]recordedRequest) {
	t.Helper()
	var recorded []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.Body)
		}
		recorded = append(recorded, rec)

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	return NewChallengeIndex(client, "challenges", logger.NewTestLogger(t)), &recorded
}

// ==========================
// Search
// ==========================

func TestSearch_ReturnsSources(t *testing.T) {
	idx, recorded := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{
			"took": 3,
			"hits": {
				"total": {"value": 1},
				"hits": [{
					"_id": "4",
					"_source": {"id": 4, "title": "Go API", "description": "grpc", "company_id": 2, "company_email": "acme@example.com"}
				}]
			}
		}`)
	})

	got, err := idx.Search(context.Background(), "golang")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(4), got[0].ID)
	assert.Equal(t, "Go API", got[0].Title)
	assert.Equal(t, "acme@example.com", got[0].CompanyEmail)

	require.Len(t, *recorded, 1)
	req := (*recorded)[0]
	assert.Equal(t, "/challenges/_search", req.Path)
	match := req.Body["query"].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "golang", match["query"])
	assert.Equal(t, []interface{}{"title^2", "description"}, match["fields"])
}

func TestSearch_ErrorResponse(t *testing.T) {
	idx, _ := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error": {"type": "parsing_exception"}}`)
	})

	_, err := idx.Search(context.Background(), "golang")
	assert.ErrorIs(t, err, ErrSearchQueryFailed)
}

func TestSearch_EmptyHits(t *testing.T) {
	idx, _ := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"hits": {"hits": []}}`)
	})

	got, err := idx.Search(context.Background(), "cobol")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ==========================
// Indexing
// ==========================

func TestIndexChallenge(t *testing.T) {
	idx, recorded := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result": "created"}`)
	})

	err := idx.IndexChallenge(context.Background(), models.ChallengeWithCompany{
		Challenge:    models.Challenge{ID: 9, Title: "Parser", Description: "regex", CompanyID: 1},
		CompanyEmail: "acme@example.com",
	})

	require.NoError(t, err)
	require.Len(t, *recorded, 1)
	req := (*recorded)[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/challenges/_doc/9", req.Path)
	assert.Equal(t, "Parser", req.Body["title"])
	assert.Equal(t, "acme@example.com", req.Body["company_email"])
}

func TestIndexChallenge_Failure(t *testing.T) {
	idx, _ := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error": "unavailable"}`)
	})

	err := idx.IndexChallenge(context.Background(), models.ChallengeWithCompany{})
	assert.ErrorIs(t, err, ErrIndexFailed)
}

func TestEnsureIndex(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		idx, recorded := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		require.NoError(t, idx.EnsureIndex(context.Background()))
		assert.Len(t, *recorded, 1)
	})

	t.Run("creates when missing", func(t *testing.T) {
		idx, recorded := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = io.WriteString(w, `{"acknowledged": true}`)
		})

		require.NoError(t, idx.EnsureIndex(context.Background()))
		require.Len(t, *recorded, 2)
		assert.Equal(t, http.MethodPut, (*recorded)[1].Method)
		assert.Contains(t, (*recorded)[1].Body, "mappings")
	})
}
