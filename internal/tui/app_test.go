package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querydesk/querydesk/internal/database"
)

func TestQueryExecutedReleasesCancel(t *testing.T) {
	canceled := false
	m := Model{}
	m.execCancel = func() { canceled = true }

	updated, _ := m.Update(queryExecutedMsg{result: &database.QueryResult{}})

	got, ok := updated.(Model)
	require.True(t, ok)
	assert.True(t, canceled, "completion must release the execution context")
	assert.Nil(t, got.execCancel)
}
