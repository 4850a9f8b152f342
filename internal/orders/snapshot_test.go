package orders

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderItem_ObjectDetails(t *testing.T) {
	data := []byte(`{
		"id": "item-1",
		"orderId": "ord-1",
		"serviceName": "Document Printing",
		"quantity": 20,
		"calculatedPrice": 17.85,
		"status": "PENDING",
		"selectedConfigDetails": {
			"baseConfiguration": {"id": "b1", "name": "A4", "type": "PRESET", "unitPrice": 0.6, "customValue": null},
			"options": [{"id": "o1", "name": "Color", "priceModifier": 0.25}],
			"customSpecs": [{"id": "s1", "name": "Lamination", "priceModifier": "5.00"}]
		}
	}`)

	it, err := ParseOrderItem(data)
	require.NoError(t, err)

	assert.Equal(t, "item-1", it.ID)
	assert.Equal(t, int64(20), it.Quantity)
	assert.Equal(t, "17.85", it.CalculatedPrice.String())

	base, ok := it.Snapshot.Base()
	require.True(t, ok)
	assert.Equal(t, "A4", base.Name)
	assert.Equal(t, "0.6", base.UnitPrice.String())

	opts := it.Snapshot.Options()
	require.Len(t, opts, 1)
	assert.Equal(t, "Color", opts[0].Name)
	assert.Equal(t, "0.25", opts[0].PriceModifier.String())

	specs := it.Snapshot.CustomSpecs()
	require.Len(t, specs, 1)
	assert.Equal(t, "5", specs[0].PriceModifier.String())
}

func TestParseOrderItem_StringEncodedDetails(t *testing.T) {
	details := `{"options":"[{\"name\":\"Front & Back\",\"price\":0.1}]","customSpecs":{"Binding":{"priceModifier":12},"Rush":3,"Gift wrap":false}}`
	payload, err := json.Marshal(map[string]any{
		"id":                    "item-2",
		"calculatedPrice":       "30.50",
		"quantity":              1,
		"selectedConfigDetails": details,
	})
	require.NoError(t, err)

	it, err := ParseOrderItem(payload)
	require.NoError(t, err)

	opts := it.Snapshot.Options()
	require.Len(t, opts, 1)
	assert.Equal(t, "Front & Back", opts[0].Name)
	assert.Equal(t, "0.1", opts[0].PriceModifier.String())

	specs := it.Snapshot.CustomSpecs()
	require.Len(t, specs, 2)
	assert.Equal(t, "Binding", specs[0].Name)
	assert.Equal(t, "12", specs[0].PriceModifier.String())
	assert.Equal(t, "Rush", specs[1].Name)
	assert.Equal(t, "3", specs[1].PriceModifier.String())

	_, ok := it.Snapshot.Base()
	assert.False(t, ok)
}

func TestParseOrderItem_LegacyItemOptions(t *testing.T) {
	it, err := ParseOrderItem([]byte(`{"id":"item-3","calculatedPrice":5,"options":"{\"color\":true,\"duplex\":false}"}`))
	require.NoError(t, err)

	opts := it.Snapshot.Options()
	require.Len(t, opts, 1)
	assert.Equal(t, "color", opts[0].Name)
	assert.True(t, opts[0].PriceModifier.IsZero())
}

func TestParseOrderItem_MalformedDetailsBecomeEmpty(t *testing.T) {
	for _, details := range []string{`"not json"`, `42`, `{"options": 7, "customSpecs": "[oops"}`, `null`} {
		it, err := ParseOrderItem([]byte(`{"id":"x","calculatedPrice":1,"selectedConfigDetails":` + details + `}`))
		require.NoError(t, err, details)
		assert.Empty(t, it.Snapshot.Options(), details)
		assert.Empty(t, it.Snapshot.CustomSpecs(), details)
	}
}

func TestOrderPriceSnapshot_AccessorsReturnCopies(t *testing.T) {
	it, err := ParseOrderItem([]byte(`{"id":"x","calculatedPrice":1,"selectedConfigDetails":{"options":[{"name":"Color","priceModifier":0.25}]}}`))
	require.NoError(t, err)

	opts := it.Snapshot.Options()
	opts[0].Name = "tampered"

	assert.Equal(t, "Color", it.Snapshot.Options()[0].Name)
}

func TestClerkOrderItem_MarshalRoundTripsSnapshot(t *testing.T) {
	it, err := ParseOrderItem([]byte(`{"id":"x","calculatedPrice":2.5,"selectedConfigDetails":"{\"options\":{\"Color\":0.25}}"}`))
	require.NoError(t, err)

	out, err := json.Marshal(it)
	require.NoError(t, err)

	again, err := ParseOrderItem(out)
	require.NoError(t, err)
	assert.Equal(t, it.Snapshot.Options(), again.Snapshot.Options())
	assert.True(t, it.CalculatedPrice.Equal(again.CalculatedPrice))
}
