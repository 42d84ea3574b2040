package sqldb

import (
	"context"
	"testing"

	"holdings-api/internal/mapper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnKind(t *testing.T) {
	tests := []struct {
		dbType string
		want   numericKind
	}{
		{"INT", integerColumn},
		{"BIGINT", integerColumn},
		{"integer", integerColumn},
		{"UNSIGNED BIGINT", unsignedColumn},
		{"DECIMAL", floatColumn},
		{"DECIMAL(10,2)", floatColumn},
		{"DOUBLE", floatColumn},
		{"REAL", floatColumn},
		{"VARCHAR", notNumeric},
		{"DATE", notNumeric},
		{"", notNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			assert.Equal(t, tt.want, columnKind(tt.dbType))
		})
	}
}

func TestTypeNumbers(t *testing.T) {
	values := []any{
		[]byte("10001"),
		[]byte("Georgi"),
		[]byte("10.50"),
		[]byte("18446744073709551615"),
		nil,
		int64(7),
		[]byte("n/a"),
	}
	kinds := []numericKind{integerColumn, notNumeric, floatColumn, unsignedColumn, integerColumn, integerColumn, floatColumn}

	typeNumbers(values, kinds)

	assert.Equal(t, int64(10001), values[0])
	assert.Equal(t, []byte("Georgi"), values[1])
	assert.Equal(t, 10.5, values[2])
	assert.Equal(t, uint64(18446744073709551615), values[3])
	assert.Nil(t, values[4])
	assert.Equal(t, int64(7), values[5])
	assert.Equal(t, []byte("n/a"), values[6])
}

func TestQueryKeepsNumbersTyped(t *testing.T) {
	ex := newTestExecutor(t)
	ctx := context.Background()

	_, err := ex.DB().Exec(`INSERT INTO notes (title, score) VALUES ('first', 2.25)`)
	require.NoError(t, err)

	raw, err := ex.Query(ctx, "SELECT id, title, score FROM notes", nil)
	require.NoError(t, err)

	recs := mapper.NormalizeRows(raw)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(1), recs[0]["id"])
	assert.Equal(t, 2.25, recs[0]["score"])
}
