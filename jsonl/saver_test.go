package jsonl_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/prscope"
	"github.com/fwojciec/prscope/jsonl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaver_Write(t *testing.T) {
	t.Parallel()

	t.Run("appends results creating directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out", "results.jsonl")
		saver := jsonl.NewSaver(path)

		require.NoError(t, saver.Write(prscope.BatchResult{ID: "a", Report: &prscope.Report{RunID: "r1"}}))
		require.NoError(t, saver.Write(prscope.BatchResult{ID: "b", Error: "diff: input too large"}))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		require.Len(t, lines, 2)

		var first, second prscope.BatchResult
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
		require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
		assert.Equal(t, "r1", first.Report.RunID)
		assert.Empty(t, first.Error)
		assert.Nil(t, second.Report)
		assert.Equal(t, "diff: input too large", second.Error)
	})
}

func TestWriter_Write(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := jsonl.NewWriter(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, w.Write(prscope.BatchResult{ID: "case"}))
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 10)
	for _, l := range lines {
		assert.JSONEq(t, `{"id":"case"}`, l)
	}
}
