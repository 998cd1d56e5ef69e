package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/querybuilder"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBuildCommand(t *testing.T) {
	out, err := run(t, "build", "product", "price=[gte]100&sort=-price&page=2&size=10", "-o", "json")
	require.NoError(t, err)

	var got builtQuery
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.Equal(t, "product", got.Resource)
	assert.Equal(t, "(products.price >= ?)", got.Where)
	assert.Equal(t, []interface{}{"100"}, got.Args)
	assert.Equal(t, []string{"products.price DESC", "products.created_at DESC"}, got.OrderBy)
	assert.Equal(t, 10, got.Limit)
	assert.Equal(t, 10, got.Offset)
	assert.Equal(t, 2, got.Page)
	assert.NotEmpty(t, got.CacheKey)
}

func TestBuildCommand_Rejected(t *testing.T) {
	out, err := run(t, "build", "product", "bogus=1&size=0", "-o", "json")
	require.ErrorIs(t, err, errRejected)

	var got querybuilder.ValidationErrors
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"UNEXPECTED_QUERY_PARAMETER", "INVALID_PAGINATION"}, got.Codes())
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "validate", "order", "sort=totalPrice,DESC&status=paid")
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	_, err = run(t, "validate", "order", "sort=-totalPrice")
	assert.ErrorIs(t, err, errRejected)
}

func TestRulesCommand(t *testing.T) {
	out, err := run(t, "rules", "category", "-o", "json")
	require.NoError(t, err)

	var got []querybuilder.RulesSummary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "category", got[0].Resource)
	assert.Equal(t, 50, got[0].DefaultPageSize)
	assert.Equal(t, 200, got[0].MaxPageSize)
	assert.Equal(t, "createdAt DESC", got[0].DefaultSort)
}

func TestRulesCommand_UnknownResource(t *testing.T) {
	_, err := run(t, "rules", "invoice")
	assert.Error(t, err)
}

func TestRulesCommand_CustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	rules := `resources:
  - name: article
    table: articles
    filters: [title]
    sort:
      fields: [title]
      default: title
`
	require.NoError(t, os.WriteFile(path, []byte(rules), 0o600))

	out, err := run(t, "rules", "--rules", path, "--default-size", "5", "--max-size", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "resource: article")
	assert.Contains(t, out, "defaultPageSize: 5")
	assert.Contains(t, out, "maxPageSize: 10")
	assert.Contains(t, out, "defaultSort: title ASC")
}
