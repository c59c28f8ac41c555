package search

// RankStrategy decides how a fetched catalog page becomes the response order.
// The catalog store always sorts and paginates first; a strategy can only
// reorder or drop entries within that one page.
type RankStrategy interface {
	Name() string
	Rank(entries []CatalogEntry, query string) []ScoredEntry
	isRankStrategy()
}

const (
	StrategyNameDatabaseSort        = "database_sort"
	StrategyNameInMemoryRescorePage = "in_memory_rescore_page"
)

// StrategyDatabaseSort keeps the store's order and attaches no scores.
type StrategyDatabaseSort struct{}

func (StrategyDatabaseSort) Name() string { return StrategyNameDatabaseSort }

func (StrategyDatabaseSort) Rank(entries []CatalogEntry, _ string) []ScoredEntry {
	out := make([]ScoredEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, ScoredEntry{CatalogEntry: entry})
	}
	return out
}

func (StrategyDatabaseSort) isRankStrategy() {}

// StrategyInMemoryRescorePage fuzzy-scores the page and highlights matches.
type StrategyInMemoryRescorePage struct {
	Scorer *Scorer
}

func (StrategyInMemoryRescorePage) Name() string { return StrategyNameInMemoryRescorePage }

func (s StrategyInMemoryRescorePage) Rank(entries []CatalogEntry, query string) []ScoredEntry {
	scorer := s.Scorer
	if scorer == nil {
		scorer = NewScorer(DefaultThreshold, DefaultFieldWeights)
	}
	scored := scorer.Score(entries, query)
	highlightEntries(scored, query)
	return scored
}

func (StrategyInMemoryRescorePage) isRankStrategy() {}

// strategyFor picks database order for empty queries and page rescoring otherwise.
func strategyFor(req SearchRequest, scorer *Scorer) RankStrategy {
	if !req.HasQuery() {
		return StrategyDatabaseSort{}
	}
	return StrategyInMemoryRescorePage{Scorer: scorer}
}
