package dedup

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(url, domain, title, snippet string) Candidate {
	return Candidate{
		ID:            uuid.New(),
		NormalizedURL: url,
		Domain:        domain,
		Title:         title,
		Snippet:       snippet,
	}
}

func TestExactURLMatchIsDefinite(t *testing.T) {
	e := NewEngine(DefaultConfig())

	a := candidate("https://example.org/report", "example.org", "Annual report", "Summary of findings")
	e.Add(a, nil)

	b := candidate("https://example.org/report", "example.org", "Different title entirely", "other snippet")
	m, dup := e.Check(b)

	require.True(t, dup)
	assert.Equal(t, a.ID, m.OriginalID)
	assert.Equal(t, MethodExactURL, m.Method)
	assert.Equal(t, 1.0, m.Similarity)
	assert.Equal(t, ConfidenceDefinite, m.Confidence)
}

func TestTitleSimilarityOnSameDomain(t *testing.T) {
	e := NewEngine(DefaultConfig())

	a := candidate("https://example.org/a", "example.org", "Early mobilisation after stroke: a systematic review", "x")
	e.Add(a, nil)

	// Cosmetic punctuation/case difference, same domain.
	b := candidate("https://example.org/b", "example.org", "Early Mobilisation After Stroke — A Systematic Review", "y")
	m, dup := e.Check(b)

	require.True(t, dup)
	assert.Equal(t, a.ID, m.OriginalID)
	assert.Equal(t, MethodTitleSimilarity, m.Method)
	assert.Equal(t, ConfidenceProbable, m.Confidence)
	assert.GreaterOrEqual(t, m.Similarity, DefaultTitleThreshold)
}

func TestTitleSimilarityIgnoresOtherDomains(t *testing.T) {
	e := NewEngine(DefaultConfig())

	e.Add(candidate("https://a.org/x", "a.org", "Identical title here", "s1"), nil)

	m, dup := e.Check(candidate("https://b.org/y", "b.org", "Identical title here", "different snippet body"))
	// Same title on another domain must not fire the title strategy.
	if dup {
		assert.NotEqual(t, MethodTitleSimilarity, m.Method)
	}
}

func TestContentHashCatchesCosmeticDifferences(t *testing.T) {
	e := NewEngine(DefaultConfig())

	a := candidate("https://a.org/x", "a.org", "Trial results", "Patients improved significantly.")
	e.Add(a, nil)

	b := candidate("https://mirror.net/y", "mirror.net", "TRIAL RESULTS!", "patients improved,   significantly")
	m, dup := e.Check(b)

	require.True(t, dup)
	assert.Equal(t, a.ID, m.OriginalID)
	assert.Equal(t, MethodContentHash, m.Method)
	assert.Equal(t, ConfidenceProbable, m.Confidence)
}

func TestEmptyContentNeverMatchesByHash(t *testing.T) {
	e := NewEngine(DefaultConfig())

	// Two unrelated metadata-poor records: distinct URLs and domains,
	// nothing to hash.
	a := candidate("https://a.org/one", "a.org", "", "")
	e.Add(a, nil)

	b := candidate("https://b.org/two", "b.org", "", "")
	_, dup := e.Check(b)
	assert.False(t, dup)

	// Punctuation-only content normalizes to empty and is just as
	// unhashable.
	c := candidate("https://c.org/three", "c.org", "—!?", "...")
	_, dup = e.Check(c)
	assert.False(t, dup)
}

func TestTransitiveSafety(t *testing.T) {
	e := NewEngine(DefaultConfig())

	a := candidate("https://example.org/doc", "example.org", "Doc", "s")
	e.Add(a, nil)

	// B duplicates A at a different URL (content hash).
	b := candidate("https://mirror.net/doc", "mirror.net", "Doc", "s")
	mb, dup := e.Check(b)
	require.True(t, dup)
	require.Equal(t, a.ID, mb.OriginalID)
	e.Add(b, &mb)

	// C matches B's URL exactly. It must link to A, never to B.
	c := candidate("https://mirror.net/doc", "mirror.net", "unrelated", "unrelated")
	mc, dup := e.Check(c)
	require.True(t, dup)
	assert.Equal(t, MethodExactURL, mc.Method)
	assert.Equal(t, a.ID, mc.OriginalID)
}

func TestFirstSeenWins(t *testing.T) {
	e := NewEngine(DefaultConfig())

	first := candidate("https://example.org/p", "example.org", "Paper", "s")
	e.Add(first, nil)

	// A later unique record with the same URL key must not re-point the
	// index.
	second := candidate("https://example.org/p", "example.org", "Paper", "s")
	m, dup := e.Check(second)
	require.True(t, dup)
	e.Add(second, &m)

	third := candidate("https://example.org/p", "example.org", "Paper", "s")
	m3, dup := e.Check(third)
	require.True(t, dup)
	assert.Equal(t, first.ID, m3.OriginalID)
}

func TestStrategyToggles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExactURL = false
	cfg.TitleSimilarity = false
	cfg.ContentHash = false
	e := NewEngine(cfg)

	a := candidate("https://example.org/doc", "example.org", "Doc", "s")
	e.Add(a, nil)

	_, dup := e.Check(candidate("https://example.org/doc", "example.org", "Doc", "s"))
	assert.False(t, dup)
}

func TestUniqueRecordsStillGroupedByDomain(t *testing.T) {
	e := NewEngine(DefaultConfig())

	a := candidate("https://a.org/1", "a.org", "One", "s1")
	b := candidate("https://a.org/2", "a.org", "Two two two", "a completely different snippet")
	e.Add(a, nil)
	e.Add(b, nil)

	groups := e.DomainGroups()
	require.Len(t, groups["a.org"], 2)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, groups["a.org"])
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "trial results", normalizeText("  TRIAL — Results!! "))
	assert.Equal(t, "", normalizeText("—!?"))
}

func TestSimilarityBounds(t *testing.T) {
	assert.Equal(t, 1.0, similarity("abc", "abc"))
	assert.Equal(t, 0.0, similarity("", "abc"))
	s := similarity("kitten", "sitting")
	assert.Greater(t, s, 0.0)
	assert.Less(t, s, 1.0)
}
