package vectorstore

// buildConditionClauses translates a Condition into the term/terms/exists
// filter clauses shared by both backends' query DSL (Elasticsearch and
// OpenSearch use the same bool-filter shape for these).
func buildConditionClauses(cond *Condition) (filter []map[string]any, mustNot []map[string]any) {
	if cond == nil {
		return nil, nil
	}
	if len(cond.IDs) > 0 {
		ids := make([]any, len(cond.IDs))
		for i, id := range cond.IDs {
			ids[i] = id
		}
		filter = append(filter, map[string]any{"ids": map[string]any{"values": ids}})
	}
	for field, value := range cond.Term {
		filter = append(filter, map[string]any{"term": map[string]any{field: value}})
	}
	for field, values := range cond.Terms {
		filter = append(filter, map[string]any{"terms": map[string]any{field: values}})
	}
	for _, field := range cond.Exists {
		filter = append(filter, map[string]any{"exists": map[string]any{"field": field}})
	}
	for _, field := range cond.NotExists {
		mustNot = append(mustNot, map[string]any{"exists": map[string]any{"field": field}})
	}
	return filter, mustNot
}

// buildTextShould translates MatchTextExpr entries into a multi_match
// should clause list, applying a boost override (used by fusion to hand
// the text clause 1-denseWeight of the combined score) when boost > 0.
func buildTextShould(matches []MatchTextExpr, boost float64) []map[string]any {
	var should []map[string]any
	for _, m := range matches {
		clause := map[string]any{
			"fields": m.Fields,
			"query":  m.Text,
		}
		if m.MinimumShouldMatch != "" {
			clause["minimum_should_match"] = m.MinimumShouldMatch
		}
		if boost > 0 {
			clause["boost"] = boost
		}
		should = append(should, map[string]any{"multi_match": clause})
	}
	return should
}

// BuildBoolQuery assembles the non-KNN portion of a search request: text
// match clauses plus the condition's filter/must_not, wrapped in a bool
// query. Returns nil when the request has neither, signaling the caller
// should fall back to match_all.
func BuildBoolQuery(req *SearchRequest, textBoost float64) map[string]any {
	filter, mustNot := buildConditionClauses(req.Condition)
	should := buildTextShould(req.MatchTexts, textBoost)

	if len(filter) == 0 && len(mustNot) == 0 && len(should) == 0 {
		return nil
	}

	boolBody := map[string]any{}
	if len(should) > 0 {
		boolBody["should"] = should
		boolBody["minimum_should_match"] = 1
	}
	if len(filter) > 0 {
		boolBody["filter"] = filter
	}
	if len(mustNot) > 0 {
		boolBody["must_not"] = mustNot
	}
	return map[string]any{"bool": boolBody}
}

// BuildSort translates SearchRequest.OrderBy into the backend sort array
// shape, carrying mode/unmapped_type/numeric_type through when set.
func BuildSort(orderBy []SortField) []map[string]any {
	if len(orderBy) == 0 {
		return nil
	}
	sort := make([]map[string]any, 0, len(orderBy))
	for _, f := range orderBy {
		spec := map[string]any{"order": string(f.Order)}
		if f.Mode != "" {
			spec["mode"] = string(f.Mode)
		}
		if f.UnmappedType != "" {
			spec["unmapped_type"] = f.UnmappedType
		}
		if f.NumericType != "" {
			spec["numeric_type"] = f.NumericType
		}
		sort = append(sort, map[string]any{f.Field: spec})
	}
	return sort
}

// TextBoostFor returns the text clause's boost when req carries a fusion
// expression (1 - dense weight, per spec), or 0 (no override) otherwise.
func TextBoostFor(req *SearchRequest) float64 {
	if req.Fusion == nil {
		return 0
	}
	return 1 - req.Fusion.DenseWeight()
}
