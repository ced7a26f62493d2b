package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goto/finder/core/search"
	"github.com/goto/finder/internal/query"
	"github.com/goto/salt/log"
	"github.com/olivere/elastic/v7"
)

// fields searched for each scope; patterns are case sensitive in
// elasticsearch so both spellings are listed
var scopeFields = map[search.Scope][]string{
	search.ScopeAllFields:     {"*"},
	search.ScopeNameFields:    {"*name*", "*Name*"},
	search.ScopeEmailFields:   {"*email*", "*Email*"},
	search.ScopePhoneFields:   {"*phone*", "*Phone*"},
	search.ScopeSidebarFields: {"*name*", "*Name*", "*email*", "*Email*", "*phone*", "*Phone*"},
}

type searchHit struct {
	Index  string                 `json:"_index"`
	ID     string                 `json:"_id"`
	Source map[string]interface{} `json:"_source"`
}

type msearchResponse struct {
	Responses []struct {
		Status int `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
		Hits struct {
			Hits []searchHit `json:"hits"`
		} `json:"hits"`
	} `json:"responses"`
}

// SearchRepository executes FIND statements against elasticsearch. Each
// object type lives in its own index.
type SearchRepository struct {
	cli    *Client
	logger log.Logger
}

func NewSearchRepository(cli *Client, logger log.Logger) *SearchRepository {
	return &SearchRepository{
		cli:    cli,
		logger: logger,
	}
}

// Execute runs every object clause of stmt in a single _msearch request.
// Object names that differ only in case share an index and are rejected
// as a malformed query.
func (repo *SearchRepository) Execute(ctx context.Context, stmt string) (groups []search.RecordGroup, err error) {
	q, err := query.Parse(stmt)
	if err != nil {
		return nil, err
	}

	defer func(start time.Time) {
		repo.cli.instrumentOp("msearch", start, err)
	}(time.Now())

	body, err := repo.buildMultiSearch(q)
	if err != nil {
		return nil, search.ExecutionError{Op: "Execute", Err: fmt.Errorf("build query: %w", err)}
	}
	repo.logger.Debug("elasticsearch multi search", "objects", q.Names())

	msearch := repo.cli.client.Msearch
	res, err := msearch(
		body,
		msearch.WithContext(ctx),
	)
	if err != nil {
		return nil, search.ExecutionError{Op: "Execute", Err: elasticSearchError(err)}
	}
	defer drainBody(res)
	if res.IsError() {
		code, reason := errorCodeAndReason(res)
		return nil, search.ExecutionError{Op: "Execute", Code: code, Err: errors.New(reason)}
	}

	var response msearchResponse
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, search.ExecutionError{Op: "Execute", Err: fmt.Errorf("decode search response: %w", err)}
	}

	return repo.toRecordGroups(q, response)
}

func (repo *SearchRepository) buildMultiSearch(q query.Query) (io.Reader, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, obj := range q.Objects {
		header := map[string]interface{}{
			"index":              repo.cli.indexName(obj.Name),
			"ignore_unavailable": true,
		}
		if err := enc.Encode(header); err != nil {
			return nil, err
		}

		src, err := buildSearchSource(q.Term, q.Scope, obj, repo.cli.maxResults()).Source()
		if err != nil {
			return nil, fmt.Errorf("search source for %s: %w", obj.Name, err)
		}
		if err := enc.Encode(src); err != nil {
			return nil, err
		}
	}
	return &buf, nil
}

func buildSearchSource(term string, scope search.Scope, obj query.Object, maxResults int) *elastic.SearchSource {
	boolQuery := elastic.NewBoolQuery().Must(
		elastic.NewMultiMatchQuery(term, scopeFields[scope]...).
			Lenient(true),
	)
	if obj.Condition != "" {
		boolQuery.Filter(elastic.NewQueryStringQuery(obj.Condition))
	}

	size := maxResults
	if obj.Limit > 0 {
		size = obj.Limit
	}

	return elastic.NewSearchSource().
		Query(boolQuery).
		Size(size).
		FetchSourceContext(elastic.NewFetchSourceContext(true).Include(obj.Fields...))
}

// toRecordGroups turns every sub response into a group. The record type
// is taken from the index each hit came from.
func (repo *SearchRepository) toRecordGroups(q query.Query, response msearchResponse) ([]search.RecordGroup, error) {
	objectByIndex := make(map[string]string, len(q.Objects))
	for _, obj := range q.Objects {
		objectByIndex[repo.cli.indexName(obj.Name)] = obj.Name
	}

	groups := make([]search.RecordGroup, 0, len(response.Responses))
	for i, r := range response.Responses {
		if r.Error != nil {
			var object string
			if i < len(q.Objects) {
				object = q.Objects[i].Name
			}
			return nil, search.ExecutionError{Op: "Execute", Object: object, Code: r.Error.Type, Err: errors.New(r.Error.Reason)}
		}

		group := make(search.RecordGroup, 0, len(r.Hits.Hits))
		for _, hit := range r.Hits.Hits {
			typ, ok := objectByIndex[hit.Index]
			if !ok {
				typ = hit.Index
			}
			group = append(group, search.Record{
				Type:   typ,
				ID:     hit.ID,
				Fields: hit.Source,
			})
		}
		groups = append(groups, group)
	}
	return groups, nil
}
