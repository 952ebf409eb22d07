package soqlparser

import (
	"os"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queryCase struct {
	Name  string `yaml:"name"`
	Query string `yaml:"query"`
	Valid bool   `yaml:"valid"`
}

func loadQueryCorpus(t *testing.T) []queryCase {
	t.Helper()
	data, err := os.ReadFile("testdata/queries.yml")
	require.NoError(t, err)

	var cases []queryCase
	require.NoError(t, yaml.Unmarshal(data, &cases))
	return cases
}

func TestParseCorpus(t *testing.T) {
	for _, tc := range loadQueryCorpus(t) {
		t.Run(tc.Name, func(t *testing.T) {
			q, err := ParseQuery(tc.Query, DefaultOptions())
			if tc.Valid {
				require.NoError(t, err)
				assert.NotNil(t, q)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestIsQueryValid(t *testing.T) {
	assert.True(t, IsQueryValid("SELECT Id FROM Account"))
	assert.False(t, IsQueryValid("SELECT Id Account"))
}

func TestParseQueryContinueIfErrors(t *testing.T) {
	_, err := ParseQuery("SELECT Id FROM Account WHERE Name ~ 'x'", Options{ContinueIfErrors: true, IncludeSubqueryAsField: true})
	assert.Error(t, err)
}

func TestParseQueryStopsReturnsEveryAccumulatedError(t *testing.T) {
	q, err := ParseQuery("SELECT Id FROM Account WHERE Name ~ 'x' AND Foo # 'y'", DefaultOptions())
	require.Error(t, err)
	assert.Nil(t, q)
	assert.ErrorContains(t, err, "~")
	assert.ErrorContains(t, err, "#")
}

func TestParseQueryBuildsRelationshipFields(t *testing.T) {
	q, err := ParseQuery("SELECT a.Id, a.Owner.Name FROM Account a", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, q.Fields, 2)

	first, ok := q.Fields[0].(interface{ TypeName() string })
	require.True(t, ok)
	assert.Equal(t, "Field", first.TypeName())
}
