// Package opensearch implements vectorstore.Store against an OpenSearch
// 2.x cluster's REST API, over net/http + encoding/json/gjson for the
// same reason internal/vectorstore/elasticsearch does: no OpenSearch
// client module exists anywhere in the retrieved pack.
//
// OpenSearch's query DSL diverges from Elasticsearch's in exactly one
// place this package cares about: a k-NN match is not a sibling "knn"
// clause alongside "query" (Elasticsearch's 8.x shape) but replaces the
// entire "query" object with a top-level "knn" object keyed by field.
package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tangerg/codewiki/internal/codewikierr"
	"github.com/tangerg/codewiki/internal/retry"
	"github.com/tangerg/codewiki/internal/vectorstore"
)

// Config configures one Store construction.
type Config struct {
	BaseURL     string
	Username    string
	Password    string
	RetryPolicy retry.Policy
}

type store struct {
	cfg  Config
	conn *vectorstore.Conn[*client]
}

// New builds a vectorstore.Store backed by OpenSearch.
func New(cfg Config) vectorstore.Store {
	s := &store{cfg: cfg}
	s.conn = vectorstore.NewConn(func(ctx context.Context) (*client, error) {
		c := &client{cfg: cfg}
		if err := c.Ping(ctx); err != nil {
			return nil, err
		}
		return c, nil
	})
	return s
}

type client struct {
	cfg Config
}

func (c *client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(""), nil)
	if err != nil {
		return codewikierr.Wrap(codewikierr.KindIO, "build opensearch ping request", err)
	}
	c.authorize(req)
	resp, err := vectorstore.HTTPClient().Do(req)
	if err != nil {
		return codewikierr.Wrap(codewikierr.KindTransientRemote, "opensearch ping failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return codewikierr.New(codewikierr.KindTransientRemote, "opensearch ping failed: "+resp.Status)
	}
	return nil
}

func (c *client) endpoint(path string) string {
	base := strings.TrimRight(c.cfg.BaseURL, "/")
	if path == "" {
		return base
	}
	return base + "/" + strings.TrimLeft(path, "/")
}

func (c *client) authorize(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Username != "" {
		req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	}
}

func (c *client) do(ctx context.Context, method, path string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return nil, 0, codewikierr.Wrap(codewikierr.KindIO, "build opensearch request", err)
	}
	c.authorize(req)
	resp, err := vectorstore.HTTPClient().Do(req)
	if err != nil {
		return nil, 0, codewikierr.Wrap(codewikierr.KindTransientRemote, "opensearch request failed", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, codewikierr.Wrap(codewikierr.KindIO, "read opensearch response", err)
	}
	return raw, resp.StatusCode, nil
}

func (s *store) client(ctx context.Context) (*client, error) {
	return s.conn.Client(ctx)
}

func (s *store) CreateSpace(ctx context.Context, name string, vectorSize int) error {
	c, err := s.client(ctx)
	if err != nil {
		return err
	}
	body, err := json.Marshal(map[string]any{
		"settings": map[string]any{"index.knn": true},
		"mappings": map[string]any{
			"properties": map[string]any{
				"embedding": map[string]any{
					"type":      "knn_vector",
					"dimension": vectorSize,
					"method": map[string]any{
						"name":       "hnsw",
						"space_type": "cosinesimil",
						"engine":     "nmslib",
					},
				},
			},
		},
	})
	if err != nil {
		return codewikierr.Wrap(codewikierr.KindIO, "build create-space request", err)
	}
	_, err = retry.Do(ctx, s.cfg.RetryPolicy, func(ctx context.Context, _ int) (struct{}, error) {
		raw, status, err := c.do(ctx, http.MethodPut, name, body)
		if err != nil {
			return struct{}{}, err
		}
		if status >= 300 && !strings.Contains(string(raw), "resource_already_exists_exception") {
			return struct{}{}, codewikierr.New(codewikierr.KindIO, fmt.Sprintf("create space %q failed: %s", name, raw))
		}
		return struct{}{}, nil
	})
	return err
}

func (s *store) DeleteSpace(ctx context.Context, name string) error {
	c, err := s.client(ctx)
	if err != nil {
		return err
	}
	_, err = retry.Do(ctx, s.cfg.RetryPolicy, func(ctx context.Context, _ int) (struct{}, error) {
		raw, status, err := c.do(ctx, http.MethodDelete, name, nil)
		if err != nil {
			return struct{}{}, err
		}
		if status >= 300 && status != http.StatusNotFound {
			return struct{}{}, codewikierr.New(codewikierr.KindIO, fmt.Sprintf("delete space %q failed: %s", name, raw))
		}
		return struct{}{}, nil
	})
	return err
}

func (s *store) SpaceExists(ctx context.Context, name string) (bool, error) {
	c, err := s.client(ctx)
	if err != nil {
		return false, err
	}
	return retry.Do(ctx, s.cfg.RetryPolicy, func(ctx context.Context, _ int) (bool, error) {
		_, status, err := c.do(ctx, http.MethodHead, name, nil)
		if err != nil {
			return false, err
		}
		return status == http.StatusOK, nil
	})
}

func (s *store) InsertRecords(ctx context.Context, space string, records []vectorstore.Record) error {
	if len(records) == 0 {
		return nil
	}
	c, err := s.client(ctx)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	for _, rec := range records {
		action, err := json.Marshal(map[string]any{
			"index": map[string]any{"_index": space, "_id": rec.ID},
		})
		if err != nil {
			return codewikierr.Wrap(codewikierr.KindIO, "build bulk action", err)
		}
		doc, err := json.Marshal(rec.Fields)
		if err != nil {
			return codewikierr.Wrap(codewikierr.KindIO, "build bulk document", err)
		}
		buf.Write(action)
		buf.WriteByte('\n')
		buf.Write(doc)
		buf.WriteByte('\n')
	}

	_, err = retry.Do(ctx, s.cfg.RetryPolicy, func(ctx context.Context, _ int) (struct{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("_bulk"), bytes.NewReader(buf.Bytes()))
		if err != nil {
			return struct{}{}, codewikierr.Wrap(codewikierr.KindIO, "build bulk request", err)
		}
		req.Header.Set("Content-Type", "application/x-ndjson")
		c.authorize(req)
		resp, err := vectorstore.HTTPClient().Do(req)
		if err != nil {
			return struct{}{}, codewikierr.Wrap(codewikierr.KindTransientRemote, "bulk insert failed", err)
		}
		defer resp.Body.Close()
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return struct{}{}, codewikierr.Wrap(codewikierr.KindIO, "read bulk response", err)
		}
		if resp.StatusCode >= 300 || gjson.GetBytes(raw, "errors").Bool() {
			return struct{}{}, codewikierr.New(codewikierr.KindIO, "bulk insert reported errors: "+string(raw))
		}
		return struct{}{}, nil
	})
	return err
}

func (s *store) UpdateRecords(ctx context.Context, space string, condition vectorstore.Condition, newValue map[string]any, fieldsToRemove []string) error {
	c, err := s.client(ctx)
	if err != nil {
		return err
	}
	script := "ctx._source.putAll(params.newValue);"
	for _, field := range fieldsToRemove {
		script += fmt.Sprintf("ctx._source.remove(%q);", field)
	}
	query := matchAllOr(vectorstore.BuildBoolQuery(&vectorstore.SearchRequest{Condition: &condition}, 0))
	body, err := json.Marshal(map[string]any{
		"query": query,
		"script": map[string]any{
			"source": script,
			"params": map[string]any{"newValue": newValue},
		},
	})
	if err != nil {
		return codewikierr.Wrap(codewikierr.KindIO, "build update-by-query request", err)
	}

	_, err = retry.Do(ctx, s.cfg.RetryPolicy, func(ctx context.Context, _ int) (struct{}, error) {
		raw, status, err := c.do(ctx, http.MethodPost, space+"/_update_by_query", body)
		if err != nil {
			return struct{}{}, err
		}
		if status >= 300 {
			return struct{}{}, codewikierr.New(codewikierr.KindIO, "update by query failed: "+string(raw))
		}
		return struct{}{}, nil
	})
	return err
}

func (s *store) DeleteRecords(ctx context.Context, space string, condition vectorstore.Condition) (int, error) {
	c, err := s.client(ctx)
	if err != nil {
		return 0, err
	}
	query := matchAllOr(vectorstore.BuildBoolQuery(&vectorstore.SearchRequest{Condition: &condition}, 0))
	body, err := json.Marshal(map[string]any{"query": query})
	if err != nil {
		return 0, codewikierr.Wrap(codewikierr.KindIO, "build delete-by-query request", err)
	}

	return retry.Do(ctx, s.cfg.RetryPolicy, func(ctx context.Context, _ int) (int, error) {
		raw, status, err := c.do(ctx, http.MethodPost, space+"/_delete_by_query", body)
		if err != nil {
			return 0, err
		}
		if status >= 300 {
			return 0, codewikierr.New(codewikierr.KindIO, "delete by query failed: "+string(raw))
		}
		return int(gjson.GetBytes(raw, "deleted").Int()), nil
	})
}

func (s *store) GetRecord(ctx context.Context, spaces []string, id string) (*vectorstore.Record, error) {
	c, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	for _, space := range spaces {
		rec, err := retry.Do(ctx, s.cfg.RetryPolicy, func(ctx context.Context, _ int) (*vectorstore.Record, error) {
			raw, status, err := c.do(ctx, http.MethodGet, space+"/_doc/"+id, nil)
			if err != nil {
				return nil, err
			}
			if status == http.StatusNotFound {
				return nil, nil
			}
			if status >= 300 {
				return nil, codewikierr.New(codewikierr.KindIO, "get record failed: "+string(raw))
			}
			var fields map[string]any
			if err := json.Unmarshal(gjson.GetBytes(raw, "_source").Raw, &fields); err != nil {
				return nil, codewikierr.Wrap(codewikierr.KindParse, "parse record source", err)
			}
			return &vectorstore.Record{ID: id, Fields: fields}, nil
		})
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}
	return nil, codewikierr.New(codewikierr.KindNotFound, "record not found: "+id)
}

func (s *store) Search(ctx context.Context, spaces []string, req *vectorstore.SearchRequest) (*vectorstore.SearchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	c, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"from": req.Offset,
		"size": effectiveLimit(req.Limit),
	}
	if len(req.SelectFields) > 0 {
		body["_source"] = req.SelectFields
	}
	if sort := vectorstore.BuildSort(req.OrderBy); sort != nil {
		body["sort"] = sort
	}
	if len(req.HighlightFields) > 0 {
		fields := map[string]any{}
		for _, f := range req.HighlightFields {
			fields[f] = map[string]any{}
		}
		body["highlight"] = map[string]any{"fields": fields}
	}

	textBoost := vectorstore.TextBoostFor(req)
	boolQuery := vectorstore.BuildBoolQuery(req, textBoost)

	// OpenSearch expresses a k-NN match by replacing "query" outright with
	// a top-level "knn" object, rather than Elasticsearch's sibling "knn"
	// clause. A filter (the bool query built above, minus its should
	// clauses) travels inside the knn field's own "filter" key.
	if len(req.MatchDenses) > 0 {
		m := req.MatchDenses[0]
		knnField := map[string]any{
			"vector": m.Vector,
			"k":      topN(m.TopN, req.Limit),
		}
		if filter, _ := buildFilterOnly(req.Condition); filter != nil {
			knnField["filter"] = filter
		}
		if req.Fusion != nil {
			knnField["boost"] = req.Fusion.DenseWeight()
		}
		body["query"] = map[string]any{"knn": map[string]any{m.Column: knnField}}

		// A text match alongside a dense match still needs expressing: OS
		// has no native multi-query fusion, so the text clause rides as a
		// should alongside the knn query under a bool wrapper when present.
		if len(req.MatchTexts) > 0 {
			should := vectorstore.BuildBoolQuery(req, textBoost)
			body["query"] = map[string]any{
				"bool": map[string]any{
					"should":               []any{body["query"], should},
					"minimum_should_match": 1,
				},
			}
		}
	} else if boolQuery != nil {
		body["query"] = boolQuery
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, codewikierr.Wrap(codewikierr.KindIO, "build search request", err)
	}

	path := strings.Join(spaces, ",") + "/_search"
	return retry.Do(ctx, s.cfg.RetryPolicy, func(ctx context.Context, _ int) (*vectorstore.SearchResult, error) {
		raw, status, err := c.do(ctx, http.MethodPost, path, payload)
		if err != nil {
			return nil, err
		}
		if status >= 300 {
			return nil, codewikierr.New(codewikierr.KindIO, "search failed: "+string(raw))
		}
		var result map[string]any
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, codewikierr.Wrap(codewikierr.KindParse, "parse search response", err)
		}
		return &vectorstore.SearchResult{Raw: result}, nil
	})
}

// buildFilterOnly returns just the condition's filter clauses, without any
// text should clause, for embedding inside a knn field's own "filter" key.
func buildFilterOnly(cond *vectorstore.Condition) (map[string]any, error) {
	if cond == nil {
		return nil, nil
	}
	q := vectorstore.BuildBoolQuery(&vectorstore.SearchRequest{Condition: cond}, 0)
	return q, nil
}

func effectiveLimit(limit int) int {
	if limit <= 0 {
		return vectorstore.DefaultTopK
	}
	return limit
}

func topN(n, fallback int) int {
	if n > 0 {
		return n
	}
	return effectiveLimit(fallback)
}

func matchAllOr(query map[string]any) map[string]any {
	if query != nil {
		return query
	}
	return map[string]any{"match_all": map[string]any{}}
}
