package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedClock(t *testing.T) {
	c := NewFixedClock(time.Time{})
	start := c.Now()
	assert.Equal(t, 2024, start.Year())
	assert.Equal(t, start, c.Now(), "clock does not move on its own")

	c.Advance(time.Second)
	assert.Equal(t, start.Add(time.Second), c.Now())
}

func TestSequentialIDs(t *testing.T) {
	g := NewSequentialIDs("")
	assert.Equal(t, "run-0001", g.Generate())
	assert.Equal(t, "run-0002", g.Generate())
}

func TestSequentialIDs_ThreadSafe(t *testing.T) {
	g := NewSequentialIDs("t")
	seen := sync.Map{}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, dup := seen.LoadOrStore(g.Generate(), true)
				assert.False(t, dup)
			}
		}()
	}
	wg.Wait()

	count := 0
	seen.Range(func(_, _ any) bool { count++; return true })
	assert.Equal(t, 500, count)
}

func TestFixtures(t *testing.T) {
	hw := HelloWorldProgram()
	require.Len(t, hw.Modules, 1)
	assert.Equal(t, "Initialize", hw.Modules[0].Instructions[0].ContextType)

	tok := TokenProgram()
	assert.Len(t, tok.AccountStructs, 3)
	assert.Len(t, tok.RawAccounts, 2)

	assert.Len(t, DuplicateStructProgram().AccountStructs, 2)
	assert.Equal(t, "Missing", DanglingReferenceProgram().Modules[0].Instructions[0].ContextType)
}
