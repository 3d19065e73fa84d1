package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visioai/internal/domain"
)

func TestReplaceInsightOverwrites(t *testing.T) {
	sess := New("s1", domain.ProviderOpenAI)

	first := sess.ReplaceInsight("A dog on grass.", domain.ProviderOpenAI, domain.ModeAuto)
	assert.Equal(t, 1, first.Version)

	second := sess.ReplaceInsight("A cat on a sofa.", domain.ProviderOpenAI, domain.ModeHybrid)
	assert.Equal(t, 2, second.Version)

	live := sess.Insight()
	require.NotNil(t, live)
	assert.Equal(t, "A cat on a sofa.", live.Text)
	assert.Equal(t, domain.ModeHybrid, live.Mode)
}

func TestInsightIsNilBeforeProcessing(t *testing.T) {
	sess := New("s1", domain.ProviderGemini)
	assert.Nil(t, sess.Insight())
}

func TestAppendTurnTagsInsightVersion(t *testing.T) {
	sess := New("s1", domain.ProviderOpenAI)
	sess.ReplaceInsight("A dog on grass.", domain.ProviderOpenAI, domain.ModeAuto)

	sess.AppendTurn("What color is the grass?", "Green.")
	sess.ReplaceInsight("A red car.", domain.ProviderOpenAI, domain.ModeAuto)
	sess.AppendTurn("What color is the car?", "Red.")

	history := sess.History()
	require.Len(t, history, 2)
	assert.Equal(t, 1, history[0].InsightVersion)
	assert.Equal(t, 2, history[1].InsightVersion)
}

func TestHistoryReturnsCopy(t *testing.T) {
	sess := New("s1", domain.ProviderOpenAI)
	sess.ReplaceInsight("insight", domain.ProviderOpenAI, domain.ModeAuto)
	sess.AppendTurn("q", "a")

	history := sess.History()
	history[0].Answer = "mutated"

	assert.Equal(t, "a", sess.History()[0].Answer)
}

func TestManagerCreateAndGet(t *testing.T) {
	m := NewManager(domain.ProviderOpenAI, time.Minute)

	sess := m.Create()
	require.NotEmpty(t, sess.ID)

	got, ok := m.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)

	provider, mode, webSearch := got.Settings()
	assert.Equal(t, domain.ProviderOpenAI, provider)
	assert.Equal(t, domain.ModeAuto, mode)
	assert.False(t, webSearch)
}

func TestManagerUnknownID(t *testing.T) {
	m := NewManager(domain.ProviderOpenAI, time.Minute)

	_, ok := m.Get("nope")
	assert.False(t, ok)
}

func TestManagerDrop(t *testing.T) {
	m := NewManager(domain.ProviderOpenAI, time.Minute)
	sess := m.Create()

	m.Drop(sess.ID)

	_, ok := m.Get(sess.ID)
	assert.False(t, ok)
}

func TestManagerExpiry(t *testing.T) {
	m := NewManager(domain.ProviderOpenAI, 10*time.Millisecond)
	sess := m.Create()

	time.Sleep(30 * time.Millisecond)

	_, ok := m.Get(sess.ID)
	assert.False(t, ok)
}
