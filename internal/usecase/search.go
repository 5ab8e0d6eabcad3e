package usecase

import (
	"strings"
	"sync"
	"time"

	"stockview/internal/domain/models"
	drepo "stockview/internal/domain/repository"
	"stockview/internal/service/directory"
)

// SearchState distinguishes "no query entered" from "query matched nothing".
type SearchState int

const (
	SearchUntouched SearchState = iota
	SearchNoMatch
	SearchMatched
)

// SearchResult is the settled outcome of one debounced evaluation.
type SearchResult struct {
	Query      string
	State      SearchState
	Securities []models.Security
}

// Searcher debounces free-text queries against the directory. It holds a
// single cancellable timer slot: each new query cancels the pending
// evaluation and restarts the window, so only the final settled query runs.
// Results are delivered through the sink callback.
type Searcher struct {
	dir      *directory.Directory
	debounce time.Duration
	limit    int
	metrics  drepo.Metrics
	sink     func(SearchResult)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	seq     uint64
	current SearchResult

	sinkMu  sync.Mutex
	sinkSeq uint64
}

// NewSearcher creates a Searcher. sink may be nil when callers only poll
// Current().
func NewSearcher(dir *directory.Directory, debounce time.Duration, limit int, metrics drepo.Metrics, sink func(SearchResult)) *Searcher {
	if limit <= 0 {
		limit = directory.DefaultSearchLimit
	}
	return &Searcher{
		dir:      dir,
		debounce: debounce,
		limit:    limit,
		metrics:  metrics,
		sink:     sink,
		current:  SearchResult{State: SearchUntouched, Securities: []models.Security{}},
	}
}

// SetQuery replaces the pending query. The previous timer, if any, is
// cancelled; a whitespace-only query settles immediately to the untouched
// state without consuming a debounce window.
func (s *Searcher) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if strings.TrimSpace(query) == "" {
		s.deliverLocked(SearchResult{Query: query, State: SearchUntouched, Securities: []models.Security{}})
		return
	}

	gen := s.gen
	s.timer = time.AfterFunc(s.debounce, func() {
		s.evaluate(query, gen)
	})
}

func (s *Searcher) evaluate(query string, gen uint64) {
	matches := s.dir.Search(query, s.limit)
	if s.metrics != nil {
		s.metrics.RecordSearch()
	}

	state := SearchMatched
	if len(matches) == 0 {
		state = SearchNoMatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// a newer query superseded this evaluation while it ran
	if gen != s.gen {
		return
	}
	s.deliverLocked(SearchResult{Query: query, State: state, Securities: matches})
}

// Select commits a picked security: the query and result set are cleared and
// the selection is returned for the caller to route on.
func (s *Searcher) Select(sec models.Security) models.Security {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.deliverLocked(SearchResult{State: SearchUntouched, Securities: []models.Security{}})
	return sec
}

// SelectFirst picks the highest-ranked current match, the same path the
// enter key takes in the search box. ok is false when there is nothing to
// select.
func (s *Searcher) SelectFirst() (models.Security, bool) {
	s.mu.Lock()
	if s.current.State != SearchMatched || len(s.current.Securities) == 0 {
		s.mu.Unlock()
		return models.Security{}, false
	}
	first := s.current.Securities[0]
	s.mu.Unlock()

	return s.Select(first), true
}

// Current returns the latest settled result.
func (s *Searcher) Current() SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Searcher) deliverLocked(r SearchResult) {
	s.current = r
	if s.sink == nil {
		return
	}

	// Sinks run on their own goroutine so they may call back in. Each
	// delivery carries a sequence number and sinkMu serializes the calls:
	// a result that arrives at the sink after a newer one is dropped, so
	// the sink never observes the search state moving backwards.
	s.seq++
	seq := s.seq
	go func() {
		s.sinkMu.Lock()
		defer s.sinkMu.Unlock()
		if seq <= s.sinkSeq {
			return
		}
		s.sinkSeq = seq
		s.sink(r)
	}()
}
