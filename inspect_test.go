package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/icco/podcast/lib/db/dbtest"
	"github.com/icco/podcast/lib/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	s := store.New(dbtest.Open(t), dbtest.Logger())
	require.NoError(t, s.Seed(context.Background()))

	var buf bytes.Buffer
	require.NoError(t, inspect(context.Background(), &buf, s))

	out := buf.String()
	for _, want := range []string{"Overview", "Episodes", "Guests", "Appearances", "1/14/99", "Tracey Ullman", "television actress", "3.83"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderTable(t *testing.T) {
	assert.Empty(t, renderTable("", nil, nil, nil))

	out := renderTable("Guests", []string{"ID", "Name"}, [][]string{{"1"}, {"2", "Robin Williams"}}, []columnAlignment{alignRight})
	assert.Contains(t, out, "Robin Williams")
	assert.Equal(t, 0, strings.Count(out, "<nil>"))
}
