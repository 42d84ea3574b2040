package mapper

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var holdingSchema = MustSchema("holding",
	Field{Name: "id", Column: "id", Type: Integer, OutputOnly: true},
	Field{Name: "currency", Column: "Currency", Type: String, Required: true},
	Field{Name: "purchaseDate", Column: "PurchaseDate", Type: Date, Required: true},
	Field{Name: "amount", Column: "Amount", Type: Float, Required: true},
	Field{Name: "price", Column: "Price", Type: Float, Required: true},
	Field{Name: "value", Column: "Value", Type: Float, Required: true},
	Field{Name: "created_at", Column: "created_at", Type: Timestamp, OutputOnly: true, Nullable: true},
)

func TestNormalizeRows_Positional(t *testing.T) {
	raw := Positional{
		Columns: []string{"Currency", "PurchaseDate", "Amount", "Price", "Value", "id"},
		Rows: [][]any{
			{"USD", "2024-01-01", 10.0, 50.0, 500.0, 7},
			{"EUR", "2024-02-01", 1.5, 4.0, 6.0, 8},
		},
	}

	recs := NormalizeRows(raw)
	require.Len(t, recs, 2)
	for i, rec := range recs {
		assert.Len(t, rec, len(raw.Rows[i]))
	}
	assert.Equal(t, "EUR", recs[1]["Currency"])
	assert.Equal(t, 8, recs[1]["id"])
}

func TestNormalizeRows_PositionalValuesAreUntouched(t *testing.T) {
	raw := Positional{
		Columns: []string{"Amount", "note"},
		Rows:    [][]any{{[]byte("10.50"), nil}},
	}

	recs := NormalizeRows(raw)
	require.Len(t, recs, 1)
	assert.Equal(t, []byte("10.50"), recs[0]["Amount"])
	v, ok := recs[0]["note"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestNormalizeRows_OverflowColumnsAreSynthesized(t *testing.T) {
	raw := Positional{
		Columns: []string{"Currency", "PurchaseDate", "Amount", "Price", "Value"},
		Rows:    [][]any{{"USD", "2024-01-01", 10.0, 50.0, 500.0, 7}},
	}

	recs := NormalizeRows(raw)
	require.Len(t, recs, 1)
	assert.Len(t, recs[0], 6)
	assert.Equal(t, 7, recs[0]["c5"])
	assert.Equal(t, "USD", recs[0]["Currency"])
}

func TestNormalizeRows_NameCollisionsKeepEveryValue(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		row     []any
		want    Record
	}{
		{
			name:    "synthesized name already used",
			columns: []string{"a", "b", "c5", "d", "e"},
			row:     []any{1, 2, 3, 4, 5, 6},
			want:    Record{"a": 1, "b": 2, "c5": 3, "d": 4, "e": 5, "c5_5": 6},
		},
		{
			name:    "blank name falls back onto a real one",
			columns: []string{"c1", ""},
			row:     []any{1, 2},
			want:    Record{"c1": 1, "c1_1": 2},
		},
		{
			name:    "repeated column names",
			columns: []string{"id", "id", "id"},
			row:     []any{1, 2, 3},
			want:    Record{"id": 1, "id_1": 2, "id_2": 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := NormalizeRows(Positional{Columns: tt.columns, Rows: [][]any{tt.row}})
			require.Len(t, recs, 1)
			assert.Len(t, recs[0], len(tt.row))
			assert.Equal(t, tt.want, recs[0])
		})
	}
}

func TestNormalizeRows_FewerValuesThanNames(t *testing.T) {
	raw := Positional{
		Columns: []string{"a", "b", "c"},
		Rows:    [][]any{{1}},
	}

	recs := NormalizeRows(raw)
	require.Len(t, recs, 1)
	assert.Equal(t, Record{"a": 1}, recs[0])
}

func TestNormalizeRows_TaggedCells(t *testing.T) {
	raw := TaggedCells{
		Metadata: []ColumnMeta{{Name: "Currency"}, {Name: "Amount"}, {Name: "id"}},
		Records: [][]TaggedCell{
			{{"stringValue": "USD"}, {"doubleValue": 10.0}, {"longValue": int64(7)}},
			// the tag is not used for dispatch
			{{"doubleValue": "GBP"}, {"stringValue": "2.5"}, {"stringValue": int64(9)}},
		},
	}

	recs := NormalizeRows(raw)
	require.Len(t, recs, 2)
	assert.Equal(t, Record{"Currency": "USD", "Amount": 10.0, "id": int64(7)}, recs[0])
	assert.Equal(t, Record{"Currency": "GBP", "Amount": "2.5", "id": int64(9)}, recs[1])
}

func TestNormalizeRows_TaggedCellsWithoutMetadata(t *testing.T) {
	raw := TaggedCells{
		Records: [][]TaggedCell{{{"stringValue": "x"}, {"longValue": int64(1)}}},
	}

	recs := NormalizeRows(raw)
	require.Len(t, recs, 1)
	assert.Equal(t, Record{"c0": "x", "c1": int64(1)}, recs[0])
}

func TestTaggedCell_Value(t *testing.T) {
	tests := []struct {
		name string
		cell TaggedCell
		want any
	}{
		{"string", TaggedCell{"stringValue": "a"}, "a"},
		{"double", TaggedCell{"doubleValue": 1.25}, 1.25},
		{"long", TaggedCell{"longValue": int64(3)}, int64(3)},
		{"unknown tag", TaggedCell{"somethingElse": true}, true},
		{"empty", TaggedCell{}, nil},
		{"several tags", TaggedCell{"z": 1, "a": 2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cell.Value())
		})
	}
}

func TestNormalizeRows_Nil(t *testing.T) {
	recs := NormalizeRows(nil)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestToAPIRecord_ReferenceRow(t *testing.T) {
	raw := Positional{
		Columns: []string{"Currency", "PurchaseDate", "Amount", "Price", "Value", "id"},
		Rows:    [][]any{{"USD", "2024-01-01", 10.0, 50.0, 500.0, 7}},
	}

	recs := NormalizeRows(raw)
	require.Len(t, recs, 1)

	api, err := ToAPIRecord(recs[0], holdingSchema)
	require.NoError(t, err)

	body, err := json.Marshal(api)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"currency":"USD","purchaseDate":"2024-01-01","amount":10.0,"price":50.0,"value":500.0,"id":7}`,
		string(body))
}

func TestToAPIRecord_Coercion(t *testing.T) {
	rec := Record{
		"id":           []byte("12"),
		"Currency":     []byte("PLN"),
		"PurchaseDate": time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		"Amount":       []byte("10.5000"),
		"Price":        int64(4),
		"Value":        float32(42),
		"created_at":   time.Date(2024, 3, 9, 14, 5, 6, 0, time.FixedZone("CET", 3600)),
		"extra":        "dropped",
	}

	api, err := ToAPIRecord(rec, holdingSchema)
	require.NoError(t, err)
	assert.Equal(t, Record{
		"id":           int64(12),
		"currency":     "PLN",
		"purchaseDate": "2024-03-09",
		"amount":       10.5,
		"price":        4.0,
		"value":        42.0,
		"created_at":   "2024-03-09 14:05:06",
	}, api)
}

func TestToAPIRecord_TimestampIsOpaque(t *testing.T) {
	rec := Record{
		"Currency": "USD", "PurchaseDate": "2024-01-01T23:30:00+05:00",
		"Amount": 1.0, "Price": 1.0, "Value": 1.0,
		"created_at": "2024-01-01T23:30:00+05:00",
	}

	api, err := ToAPIRecord(rec, holdingSchema)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", api["purchaseDate"])
	assert.Equal(t, "2024-01-01T23:30:00+05:00", api["created_at"])
}

func TestToAPIRecord_NullableAndOptional(t *testing.T) {
	rec := Record{"Currency": "USD", "PurchaseDate": "2024-01-01", "Amount": 1, "Price": 2, "Value": 2, "created_at": nil}

	api, err := ToAPIRecord(rec, holdingSchema)
	require.NoError(t, err)

	_, hasID := api["id"]
	assert.False(t, hasID)
	createdAt, ok := api["created_at"]
	assert.True(t, ok)
	assert.Nil(t, createdAt)
}

func TestToAPIRecord_NullOnNonNullableField(t *testing.T) {
	rec := Record{"Currency": "USD", "PurchaseDate": "2024-01-01", "Amount": 1, "Price": 2, "Value": 2, "id": nil}

	_, err := ToAPIRecord(rec, holdingSchema)
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "id", verr.Field)
}

func TestToAPIRecord_MissingRequired(t *testing.T) {
	rec := Record{"Currency": "USD", "PurchaseDate": "2024-01-01", "Amount": 1.0, "Price": 2.0}

	_, err := ToAPIRecord(rec, holdingSchema)
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "value", verr.Field)
}

func TestToAPIRecord_CoercionFailure(t *testing.T) {
	rec := Record{"Currency": "USD", "PurchaseDate": "yesterday", "Amount": 1.0, "Price": 2.0, "Value": 2.0}

	_, err := ToAPIRecord(rec, holdingSchema)
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "purchaseDate", verr.Field)
	assert.Contains(t, verr.Message, "purchaseDate must be a valid date")
}

func TestToAPIRecord_CaseInsensitiveColumns(t *testing.T) {
	rec := Record{"currency": "USD", "purchasedate": "2024-01-01", "AMOUNT": 1.0, "price": 2.0, "value": 2.0}

	api, err := ToAPIRecord(rec, holdingSchema)
	require.NoError(t, err)
	assert.Equal(t, "USD", api["currency"])
	assert.Equal(t, "2024-01-01", api["purchaseDate"])
	assert.Equal(t, 1.0, api["amount"])
}

func TestFromAPIInput_Aliases(t *testing.T) {
	external := map[string]any{
		"currency": "USD", "purchaseDate": "2024-01-01",
		"amount": 10.0, "price": 50.0, "value": 500.0,
	}
	storage := map[string]any{
		"Currency": "USD", "PurchaseDate": "2024-01-01",
		"Amount": 10.0, "Price": 50.0, "Value": 500.0,
	}

	fromExternal, err := FromAPIInput(external, holdingSchema)
	require.NoError(t, err)
	fromStorage, err := FromAPIInput(storage, holdingSchema)
	require.NoError(t, err)

	assert.Equal(t, fromExternal, fromStorage)
	assert.Equal(t, []string{"Currency", "PurchaseDate", "Amount", "Price", "Value"}, fromExternal.Columns())
	assert.Equal(t, []string{":currency", ":purchaseDate", ":amount", ":price", ":value"}, fromExternal.Placeholders())
}

func TestFromAPIInput_ExternalNameWins(t *testing.T) {
	input := map[string]any{
		"currency": "USD", "Currency": "EUR", "purchaseDate": "2024-01-01",
		"amount": 1, "price": 1, "value": 1,
	}

	params, err := FromAPIInput(input, holdingSchema)
	require.NoError(t, err)
	assert.Equal(t, "USD", params[0].StringValue())
}

func TestFromAPIInput_ParamKinds(t *testing.T) {
	input := map[string]any{
		"currency": "USD", "PurchaseDate": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"amount": json.Number("10"), "price": "50.25", "value": 500,
		"id": 99, "created_at": "ignored",
	}

	params, err := FromAPIInput(input, holdingSchema)
	require.NoError(t, err)
	require.Len(t, params, 5)

	assert.Equal(t, Param{Name: "currency", Column: "Currency", Kind: KindString, Value: "USD"}, params[0])
	assert.Equal(t, Param{Name: "purchaseDate", Column: "PurchaseDate", Kind: KindString, Value: "2024-01-01", TypeHint: TypeHintDate}, params[1])
	assert.Equal(t, KindDouble, params[2].Kind)
	assert.Equal(t, 10.0, params[2].DoubleValue())
	assert.Equal(t, 50.25, params[3].DoubleValue())
	assert.Equal(t, 500.0, params[4].DoubleValue())
}

func TestFromAPIInput_MissingAmount(t *testing.T) {
	input := map[string]any{"currency": "USD", "purchaseDate": "2024-01-01", "price": 50.0, "value": 500.0}

	_, err := FromAPIInput(input, holdingSchema)
	require.Error(t, err)

	verr, ok := AsValidationError(err)
	require.True(t, ok, "expected *ValidationError, got %T", err)
	assert.Equal(t, "amount", verr.Field)
	assert.Equal(t, "amount is required", verr.Error())
}

func TestFromAPIInput_InvalidValues(t *testing.T) {
	base := func() map[string]any {
		return map[string]any{"currency": "USD", "purchaseDate": "2024-01-01", "amount": 1.0, "price": 2.0, "value": 2.0}
	}

	tests := []struct {
		name  string
		key   string
		value any
		field string
	}{
		{"non-numeric amount", "amount", "ten", "amount"},
		{"bool price", "price", true, "price"},
		{"bad date", "purchaseDate", "01/02/2024", "purchaseDate"},
		{"numeric currency", "currency", 12, "currency"},
		{"blank currency", "currency", "  ", "currency"},
		{"null value", "value", nil, "value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := base()
			input[tt.key] = tt.value

			_, err := FromAPIInput(input, holdingSchema)
			verr, ok := AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestFromAPIInput_OptionalFieldBecomesNull(t *testing.T) {
	schema := MustSchema("note",
		Field{Name: "title", Type: String, Required: true},
		Field{Name: "due", Column: "DueDate", Type: Date},
	)

	params, err := FromAPIInput(map[string]any{"title": "x"}, schema)
	require.NoError(t, err)
	require.Len(t, params, 2)
	assert.Equal(t, KindNull, params[1].Kind)
	assert.Equal(t, TypeHintDate, params[1].TypeHint)
	assert.Equal(t, map[string]any{"title": "x", "due": nil}, params.Named())
}

func TestRoundTrip(t *testing.T) {
	inputs := []map[string]any{
		{"currency": "USD", "purchaseDate": "2024-01-01", "amount": 10.0, "price": 50.0, "value": 500.0},
		{"Currency": "EUR", "PurchaseDate": "1999-12-31", "Amount": 0.5, "Price": 3.0, "Value": 1.5},
		{"currency": "JPY", "PurchaseDate": "2020-02-29", "amount": 7.0, "Price": 0.01, "value": 0.07},
	}

	for i, in := range inputs {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			params, err := FromAPIInput(in, holdingSchema)
			require.NoError(t, err)

			api, err := ToAPIRecord(params.Record(), holdingSchema)
			require.NoError(t, err)

			for _, f := range holdingSchema.Fields() {
				if !f.Required {
					continue
				}
				want, ok := in[f.Name]
				if !ok {
					want = in[f.Column]
				}
				assert.Equal(t, want, api[f.Name], f.Name)
			}
		})
	}
}

func TestToScalars(t *testing.T) {
	rec := Record{
		"name":  []byte("Ann"),
		"hired": time.Date(2020, 5, 1, 9, 0, 0, 0, time.UTC),
		"id":    int64(3),
		"boss":  nil,
	}

	assert.Equal(t, Record{
		"name":  "Ann",
		"hired": "2020-05-01 09:00:00",
		"id":    int64(3),
		"boss":  nil,
	}, ToScalars(rec))
}

func TestNewSchema_AliasCollision(t *testing.T) {
	_, err := NewSchema("bad",
		Field{Name: "a", Column: "b"},
		Field{Name: "b", Column: "c"},
	)
	assert.Error(t, err)

	s, err := NewSchema("ok", Field{Name: "a"})
	require.NoError(t, err)
	f, ok := s.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "a", f.Column)
}

func TestSchema_Lookup(t *testing.T) {
	byExternal, ok := holdingSchema.Lookup("purchaseDate")
	require.True(t, ok)
	byStorage, ok := holdingSchema.Lookup("PurchaseDate")
	require.True(t, ok)
	assert.Equal(t, byExternal, byStorage)

	_, ok = holdingSchema.Lookup("missing")
	assert.False(t, ok)
	assert.Len(t, holdingSchema.Writable(), 5)
}

func TestConcurrentMapping(t *testing.T) {
	t.Parallel()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			currency := fmt.Sprintf("C%02d", w)
			raw := Positional{
				Columns: []string{"Currency", "PurchaseDate", "Amount", "Price", "Value", "id"},
				Rows:    [][]any{{currency, "2024-01-01", float64(w), 2.0, float64(w) * 2, w}},
			}
			for i := 0; i < 200; i++ {
				recs := NormalizeRows(raw)
				api, err := ToAPIRecord(recs[0], holdingSchema)
				if err != nil {
					errs <- err
					return
				}
				if api["currency"] != currency || api["id"] != int64(w) {
					errs <- fmt.Errorf("worker %d saw %v", w, api)
					return
				}
			}
		}(w)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
