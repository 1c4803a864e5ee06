package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleTable struct {
	headers []string
	rows    [][]string
}

func (s sampleTable) Headers() []string { return s.headers }
func (s sampleTable) Rows() [][]string  { return s.rows }

func TestPrintTable(t *testing.T) {
	data := sampleTable{
		headers: []string{"Name", "Value"},
		rows:    [][]string{{"key1", "value1"}, {"key2", "value2"}},
	}

	var buf bytes.Buffer
	require.NoError(t, PrintTable(&buf, data))

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "VALUE")
	assert.Contains(t, out, "key1")
	assert.Contains(t, out, "key2")
}
