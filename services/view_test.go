package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura-report/models"
	"aura-report/providers"
)

// blockingBuilder meldet jeden Aufruf auf started und wartet dann auf release.
type blockingBuilder struct {
	started chan string
	release chan struct{}
	views   []ReportView
	err     error
	calls   atomic.Int32
}

func newBlockingBuilder(views []ReportView, err error) *blockingBuilder {
	return &blockingBuilder{
		started: make(chan string, 8),
		release: make(chan struct{}),
		views:   views,
		err:     err,
	}
}

func (b *blockingBuilder) Build(_ context.Context, userID string) ([]ReportView, error) {
	b.calls.Add(1)
	b.started <- userID
	<-b.release
	return b.views, b.err
}

func summaryView() ReportView {
	view, _ := BuildView(models.Report{ID: 1, ReportData: []byte(`{"summary":"s","remedies":["r"]}`)})
	return view
}

func waitFor(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("builder was not called")
		return ""
	}
}

func TestView_LoadGate(t *testing.T) {
	b := newBlockingBuilder([]ReportView{summaryView()}, nil)
	v := NewView(b, "u-1")

	done := make(chan bool)
	go func() { done <- v.Load(context.Background()) }()

	assert.Equal(t, "u-1", waitFor(t, b.started))
	assert.True(t, v.State().Loading)
	assert.False(t, v.Load(context.Background()), "second load while pending must be a no-op")
	assert.False(t, v.Reload(context.Background()))

	close(b.release)
	assert.True(t, <-done)
	assert.Equal(t, int32(1), b.calls.Load())

	state := v.State()
	assert.False(t, state.Loading)
	assert.NoError(t, state.Err)
	assert.Len(t, state.Reports, 1)
}

func TestView_ReplaceDiscardsStaleResult(t *testing.T) {
	b := newBlockingBuilder([]ReportView{summaryView()}, nil)
	v := NewView(b, "u-1")

	done := make(chan bool)
	go func() { done <- v.Load(context.Background()) }()
	waitFor(t, b.started)

	v.Replace("u-2")
	close(b.release)
	<-done

	state := v.State()
	assert.Equal(t, "u-2", state.UserID)
	assert.Equal(t, uint64(1), state.Epoch)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Reports, "result of the replaced view must be discarded")

	assert.True(t, v.Load(context.Background()))
	assert.Equal(t, "u-2", waitFor(t, b.started))
	assert.Len(t, v.State().Reports, 1)
}

func TestView_ErrorState(t *testing.T) {
	b := newBlockingBuilder(nil, providers.NewError(providers.ErrNoData, ""))
	close(b.release)
	v := NewView(b, "u-1")

	assert.True(t, v.Load(context.Background()))

	state := v.State()
	assert.False(t, state.Loading)
	assert.Nil(t, state.Reports)
	assert.Equal(t, "no_data", state.ErrorKind())

	assert.True(t, v.Reload(context.Background()))
	assert.Equal(t, int32(2), b.calls.Load())
}

func TestView_Toggle(t *testing.T) {
	b := newBlockingBuilder([]ReportView{summaryView()}, nil)
	close(b.release)
	v := NewView(b, "u-1")
	require.True(t, v.Load(context.Background()))

	before := v.State()
	require.True(t, v.Toggle(0, "remedies"))

	after := v.State()
	assert.Equal(t, []string{"remedies", "summary"}, sectionKeys(after.Reports[0].Document))
	assert.True(t, after.Reports[0].Document.Sections[0].Expanded)
	assert.False(t, after.Reports[0].Document.Sections[1].Expanded)
	assert.False(t, before.Reports[0].Document.Sections[0].Expanded, "earlier snapshot must stay unchanged")

	assert.False(t, v.Toggle(1, "remedies"))
	assert.False(t, v.Toggle(0, "missing"))
}
