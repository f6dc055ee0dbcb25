package es

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/conflicts"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
)

const MaxSearchDepth = 400

type PerfumeRepo interface {
	SearchPerfumes(ctx context.Context, queryText string, houseType string, from, size int) ([]*PerfumeES, error)
	SearchByNotes(ctx context.Context, noteNames []string, from, size int) ([]*PerfumeES, error)
	GetSuggestions(ctx context.Context, keyword string) ([]string, error)
	GetLatestPerfumes(ctx context.Context, from, size int) ([]*PerfumeES, error)
	GetLatestPerfumesByCursor(ctx context.Context, lastSortValues []interface{}, size int) ([]*PerfumeES, error)
	IndexPerfume(ctx context.Context, perfume *PerfumeES, version int64) error
	DeletePerfume(ctx context.Context, id uint64) error
	UpdateHouseName(ctx context.Context, houseID uint64, newName string) error
}

type PerfumeRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewPerfumeRepo(client *elasticsearch.TypedClient) PerfumeRepo {
	return &PerfumeRepoImpl{client: client}
}

func (s *PerfumeRepoImpl) SearchPerfumes(ctx context.Context, queryText string, houseType string, from, size int) ([]*PerfumeES, error) {
	if from >= MaxSearchDepth {
		return []*PerfumeES{}, nil
	}

	boolQuery := &types.BoolQuery{
		Should: []types.Query{
			{
				MultiMatch: &types.MultiMatchQuery{
					Query:  queryText,
					Fields: []string{"name^3", "house_name^2", "notes^2", "description"},
					Boost:  ptrFloat32(2.0),
				},
			},
			{
				MultiMatch: &types.MultiMatchQuery{
					Query:     queryText,
					Fields:    []string{"name", "house_name"},
					Fuzziness: ptrStr("AUTO"),
					Boost:     ptrFloat32(0.5),
				},
			},
		},
	}

	if houseType != "" {
		boolQuery.Filter = []types.Query{{
			Term: map[string]types.TermQuery{
				"house_type": {Value: houseType},
			},
		}}
	}

	req := s.client.Search().Index(PerfumeIndex).
		Query(&types.Query{Bool: boolQuery}).
		From(from).
		Size(size)

	return s.executeSearch(ctx, req)
}

// SearchByNotes 按香调组合检索, 命中的香调越多排序越靠前
func (s *PerfumeRepoImpl) SearchByNotes(ctx context.Context, noteNames []string, from, size int) ([]*PerfumeES, error) {
	if len(noteNames) == 0 || from >= MaxSearchDepth {
		return []*PerfumeES{}, nil
	}

	should := make([]types.Query, 0, len(noteNames))
	for _, name := range noteNames {
		should = append(should, types.Query{
			Match: map[string]types.MatchQuery{
				"notes": {Query: name},
			},
		})
	}

	req := s.client.Search().Index(PerfumeIndex).
		Query(&types.Query{
			Bool: &types.BoolQuery{
				Should:             should,
				MinimumShouldMatch: 1,
			},
		}).
		From(from).
		Size(size)

	return s.executeSearch(ctx, req)
}

func (s *PerfumeRepoImpl) GetSuggestions(ctx context.Context, keyword string) ([]string, error) {
	suggestKey := "perfume-suggest"

	suggester := types.NewSuggester()
	suggester.Suggesters[suggestKey] = types.FieldSuggester{
		Prefix: &keyword,
		Completion: &types.CompletionSuggester{
			Field: "name.suggestion",
			Fuzzy: &types.SuggestFuzziness{
				Fuzziness: ptrStr("AUTO"),
			},
			Size: ptrInt(5),
		},
	}

	res, err := s.client.Search().
		Index(PerfumeIndex).
		Suggest(suggester).
		Size(0).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := make([]string, 0)
	if results, ok := res.Suggest[suggestKey]; ok {
		for _, r := range results {
			if cs, ok := r.(*types.CompletionSuggest); ok {
				for _, opt := range cs.Options {
					suggestions = append(suggestions, opt.Text)
				}
			}
		}
	}
	return suggestions, nil
}

// GetLatestPerfumes 获取最新收录的香水列表
func (s *PerfumeRepoImpl) GetLatestPerfumes(ctx context.Context, from, size int) ([]*PerfumeES, error) {
	req := s.client.Search().
		Index(PerfumeIndex).
		Query(&types.Query{MatchAll: &types.MatchAllQuery{}}).
		Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"created_at": {Order: &sortorder.Desc},
		}}).
		From(from).
		Size(size)

	return s.executeSearch(ctx, req)
}

func (s *PerfumeRepoImpl) GetLatestPerfumesByCursor(ctx context.Context, lastSortValues []interface{}, size int) ([]*PerfumeES, error) {
	req := s.client.Search().
		Index(PerfumeIndex).
		Query(&types.Query{MatchAll: &types.MatchAllQuery{}}).
		Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"created_at": {Order: &sortorder.Desc},
		}}).
		Size(size)

	// 注入游标
	if len(lastSortValues) > 0 {
		searchAfterValues := make([]types.FieldValue, len(lastSortValues))
		for i, v := range lastSortValues {
			searchAfterValues[i] = v
		}
		req.SearchAfter(searchAfterValues...)
	}

	return s.executeSearch(ctx, req)
}

func (s *PerfumeRepoImpl) IndexPerfume(ctx context.Context, perfume *PerfumeES, version int64) error {
	docID := strconv.FormatUint(perfume.ID, 10)

	_, err := s.client.Index(PerfumeIndex).
		Id(docID).
		Document(perfume).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == ConflictCode {
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *PerfumeRepoImpl) DeletePerfume(ctx context.Context, id uint64) error {
	docID := strconv.FormatUint(id, 10)

	_, err := s.client.Delete(PerfumeIndex, docID).Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil
			}
		}
		return err
	}

	return nil
}

// UpdateHouseName 品牌改名后批量修正文档上的冗余字段
func (s *PerfumeRepoImpl) UpdateHouseName(ctx context.Context, houseID uint64, newName string) error {
	nameJSON, _ := json.Marshal(newName)

	params := map[string]json.RawMessage{
		"new_name": json.RawMessage(nameJSON),
	}

	scriptSource := "ctx._source.house_name = params.new_name;"

	req := s.client.UpdateByQuery(PerfumeIndex).
		Query(&types.Query{
			Term: map[string]types.TermQuery{
				"house_id": {Value: houseID},
			},
		}).
		Script(&types.Script{
			Source: &scriptSource,
			Params: params,
		}).
		Conflicts(conflicts.Proceed)

	resp, err := req.Do(ctx)
	if err != nil {
		return fmt.Errorf("perfume index: update house name failed: %w", err)
	}

	if len(resp.Failures) != 0 {
		return fmt.Errorf("perfume index: update house name has failures, count: %d", len(resp.Failures))
	}

	return nil
}

func (s *PerfumeRepoImpl) executeSearch(ctx context.Context, req *search.Search) ([]*PerfumeES, error) {
	resp, err := req.Do(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*PerfumeES, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		var perfume PerfumeES
		if hit.Source_ == nil {
			continue
		}
		if err = json.Unmarshal(hit.Source_, &perfume); err != nil {
			continue
		}
		if perfume.Notes == nil {
			perfume.Notes = make([]string, 0)
		}
		if len(hit.Sort) > 0 {
			perfume.Sort = make([]interface{}, len(hit.Sort))
			for i, v := range hit.Sort {
				perfume.Sort[i] = v
			}
		}
		results = append(results, &perfume)
	}
	return results, nil
}

func ptrInt(i int) *int             { return &i }
func ptrStr(s string) *string       { return &s }
func ptrFloat32(f float32) *float32 { return &f }
