package edr

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
)

const collectionsMemoSize int = 256

// documentMemo stores rendered collection documents keyed by collection
// id. It is a memo of deterministic render output, not an eviction
// engine, refreshes happen in bulk via the admin endpoint.
type documentMemo struct {
	cache *lru.Cache[string, []byte]

	hits   prometheus.Counter
	misses prometheus.Counter
}

func newDocumentMemo(size int, registerer prometheus.Registerer) (*documentMemo, error) {
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}

	hits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "edr_collections_memo_hits_total",
		Help: "Number of collection document requests served from the memo.",
	})
	misses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "edr_collections_memo_misses_total",
		Help: "Number of collection document requests that required a render.",
	})

	if registerer != nil {
		registerer.MustRegister(hits, misses)
	}

	return &documentMemo{cache: cache, hits: hits, misses: misses}, nil
}

func (m *documentMemo) get(key string) ([]byte, bool) {
	doc, ok := m.cache.Get(key)
	if ok {
		m.hits.Inc()
	} else {
		m.misses.Inc()
	}

	return doc, ok
}

func (m *documentMemo) add(key string, doc []byte) {
	m.cache.Add(key, doc)
}

func (m *documentMemo) purge() {
	m.cache.Purge()
}
