// Package catalog mirrors the classified scheme directory into
// Elasticsearch so it can be browsed and reported on outside a session.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	apperrors "govscheme-workers/internal/common/errors"
	"govscheme-workers/internal/models"
	"govscheme-workers/internal/scheme"
)

const DefaultIndex = "govscheme-schemes"

// Document is the indexed form of one scheme.
type Document struct {
	Key        string    `json:"key"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Kind       string    `json:"kind"`
	Ministry   string    `json:"ministry,omitempty"`
	Level      string    `json:"level,omitempty"`
	KeywordSet string    `json:"keyword_set"`
	IndexedAt  time.Time `json:"indexed_at"`
}

var indexMapping = `{
  "mappings": {
    "properties": {
      "key":         {"type": "keyword"},
      "name":        {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "category":    {"type": "keyword"},
      "kind":        {"type": "keyword"},
      "ministry":    {"type": "text"},
      "level":       {"type": "keyword"},
      "keyword_set": {"type": "keyword"},
      "indexed_at":  {"type": "date"}
    }
  }
}`

type Indexer struct {
	es    *elasticsearch.Client
	index string
	now   func() time.Time
}

func NewIndexer(es *elasticsearch.Client, index string) *Indexer {
	if index == "" {
		index = DefaultIndex
	}
	return &Indexer{es: es, index: index, now: time.Now}
}

func (i *Indexer) Index() string {
	return i.index
}

// EnsureIndex creates the index with its mapping when it is missing.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	existsReq := esapi.IndicesExistsRequest{Index: []string{i.index}}
	exists, err := existsReq.Do(ctx, i.es)
	if err != nil {
		return apperrors.NewCatalogIndexFailedError(i.index, err)
	}
	exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}

	createReq := esapi.IndicesCreateRequest{
		Index: i.index,
		Body:  strings.NewReader(indexMapping),
	}
	res, err := createReq.Do(ctx, i.es)
	if err != nil {
		return apperrors.NewCatalogIndexFailedError(i.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return apperrors.NewCatalogIndexFailedError(i.index, fmt.Errorf("create index: %s", res.String()))
	}
	return nil
}

func (i *Indexer) toDocument(s models.Scheme, at time.Time) Document {
	kind := s.Type
	if kind == "" {
		kind = string(scheme.Classify(s))
	}
	return Document{
		Key:        s.Key(),
		Name:       s.DisplayName(),
		Category:   scheme.FormatCategory(s.Category),
		Kind:       kind,
		Ministry:   s.Ministry,
		Level:      s.Level,
		KeywordSet: scheme.KeywordTableVersion,
		IndexedAt:  at,
	}
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		Status int `json:"status"`
		Error  struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

// IndexSchemes upserts every scheme under its stable key and returns how
// many documents were accepted.
func (i *Indexer) IndexSchemes(ctx context.Context, schemes []models.Scheme) (int, error) {
	if len(schemes) == 0 {
		return 0, nil
	}

	now := i.now().UTC()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, s := range schemes {
		doc := i.toDocument(s, now)
		meta := map[string]interface{}{"index": map[string]interface{}{"_id": doc.Key}}
		if err := enc.Encode(meta); err != nil {
			return 0, apperrors.NewCatalogIndexFailedError(i.index, err)
		}
		if err := enc.Encode(doc); err != nil {
			return 0, apperrors.NewCatalogIndexFailedError(i.index, err)
		}
	}

	req := esapi.BulkRequest{
		Index: i.index,
		Body:  &buf,
	}
	res, err := req.Do(ctx, i.es)
	if err != nil {
		return 0, apperrors.NewCatalogIndexFailedError(i.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, apperrors.NewCatalogIndexFailedError(i.index, fmt.Errorf("bulk: %s", res.String()))
	}

	var br bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		return 0, apperrors.NewCatalogIndexFailedError(i.index, fmt.Errorf("decode bulk response: %w", err))
	}

	accepted := 0
	var firstReason string
	for _, item := range br.Items {
		for _, result := range item {
			if result.Status >= 200 && result.Status < 300 {
				accepted++
			} else if firstReason == "" {
				firstReason = result.Error.Type + ": " + result.Error.Reason
			}
		}
	}
	if br.Errors {
		return accepted, apperrors.NewCatalogIndexFailedError(i.index,
			fmt.Errorf("%d of %d documents rejected, first: %s", len(schemes)-accepted, len(schemes), firstReason))
	}
	return accepted, nil
}
