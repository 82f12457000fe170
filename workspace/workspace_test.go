package workspace

import (
	"fmt"
	"sync"
	"testing"

	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceKeepsCachesPerDocument(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scriptrunner.workspace")
	defer teardown()
	//
	ws, err := New(4)
	require.NoError(t, err)
	ws.Update("a.kts", "val a = 1\nval b = 2\n", 0)
	ws.Update("b.kts", "fun f() {}\n", 0)
	r := ws.Update("a.kts", "val a = 1\nval b = 3\n", 0)
	assert.Equal(t, 1, r.Stats.Hits)
	assert.Equal(t, 1, r.Stats.Misses)
	assert.Equal(t, 2, ws.Len())
	assert.Equal(t, 1, ws.Open("b.kts").CachedLines())
	ws.Close("a.kts")
	assert.False(t, ws.IsOpen("a.kts"))
	assert.Equal(t, 1, ws.Len())
}

func TestWorkspaceEvictsLeastRecentlyUsed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scriptrunner.workspace")
	defer teardown()
	//
	ws, err := New(2)
	require.NoError(t, err)
	ws.Open("one")
	ws.Open("two")
	ws.Open("one")
	ws.Open("three")
	assert.True(t, ws.IsOpen("one"))
	assert.False(t, ws.IsOpen("two"))
	assert.True(t, ws.IsOpen("three"))
}

func TestWorkspaceSizeFromConfig(t *testing.T) {
	gconf.Initialize(testconfig.Conf{"workspace.max-documents": 3})
	defer gconf.Initialize(testconfig.Conf{})
	teardown := gotestingadapter.QuickConfig(t, "scriptrunner.workspace")
	defer teardown()
	//
	ws, err := New(0)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		ws.Open(fmt.Sprintf("doc%d", i))
	}
	assert.Equal(t, 3, ws.Len())
}

func TestWorkspaceConcurrentUpdates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scriptrunner.workspace")
	defer teardown()
	//
	ws, err := New(8)
	require.NoError(t, err)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("doc%d", i%3)
			for j := 0; j < 20; j++ {
				r := ws.Update(id, fmt.Sprintf("val x = %d\n(", j), 0)
				assert.Len(t, r.Unmatched, 1)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 3, ws.Len())
}
