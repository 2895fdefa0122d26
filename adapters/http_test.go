package adapters

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSVVectorRoundTrip(t *testing.T) {
	data, err := ParseCSVVector("1,2.5,-3,0")
	require.NoError(t, err)
	require.Equal(t, "1,2.5,-3,0", FormatCSVVector(data))
}

func TestCSVVectorEmptyIsNilNotError(t *testing.T) {
	data, err := ParseCSVVector("")
	require.NoError(t, err)
	require.Nil(t, data)
}

func TestCSVVectorInvalidFloatErrors(t *testing.T) {
	_, err := ParseCSVVector("1,not-a-number,3")
	require.Error(t, err)
}

func TestBase64VectorRoundTrip(t *testing.T) {
	data, err := ParseCSVVector("1,2,3,4")
	require.NoError(t, err)
	encoded := FormatBase64Vector(data)

	decoded, err := ParseBase64Vector(encoded, 4)
	require.NoError(t, err)
	require.Equal(t, data, decoded)
}

func TestBase64VectorDimMismatchErrors(t *testing.T) {
	data, err := ParseCSVVector("1,2,3,4")
	require.NoError(t, err)
	encoded := FormatBase64Vector(data)

	_, err = ParseBase64Vector(encoded, 5)
	require.Error(t, err)
}

func TestEncodeNodeResponseShapesJSON(t *testing.T) {
	raw, err := EncodeNodeResponse(7, []string{"Person"}, []WireProperty{
		{Key: "name", Value: WireValue{Kind: "text", Text: "Ada"}},
	})
	require.NoError(t, err)
	require.Contains(t, string(raw), `"id":7`)
	require.Contains(t, string(raw), `"Person"`)
	require.Contains(t, string(raw), `"name":"Ada"`)
}

func TestEncodeKNNResponseShapesJSON(t *testing.T) {
	raw, err := EncodeKNNResponse([]KNNHit{{NodeID: 1, Score: 0.5}})
	require.NoError(t, err)
	require.Contains(t, string(raw), `"nodeId":1`)
	require.Contains(t, string(raw), `"score":0.5`)
}
