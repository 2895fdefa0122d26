package adapters

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseCSVVector decodes a comma-separated list of decimal floats into
// raw little-endian float32 bytes (spec.md §6.2: "Vectors may be passed
// as CSV of decimal floats").
func ParseCSVVector(csv string) ([]byte, error) {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return nil, nil
	}
	parts := strings.Split(csv, ",")
	out := make([]byte, len(parts)*4)
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("adapters: invalid float at position %d: %w", i, err)
		}
		putFloat32LE(out[i*4:], float32(f))
	}
	return out, nil
}

// FormatCSVVector is ParseCSVVector's inverse, for responses that echo
// a vector back as CSV.
func FormatCSVVector(data []byte) string {
	vals := decodeFloat32LESlice(data)
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return strings.Join(parts, ",")
}

// ParseBase64Vector decodes base64-encoded raw float32 bytes, requiring
// the decoded length to equal dim*4 (spec.md §6.2: "base64 of raw
// float32 bytes with an explicit dim").
func ParseBase64Vector(encoded string, dim int) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("adapters: invalid base64 vector: %w", err)
	}
	if len(data) != dim*4 {
		return nil, fmt.Errorf("adapters: base64 vector length %d does not match dim %d (want %d bytes)", len(data), dim, dim*4)
	}
	return data, nil
}

// FormatBase64Vector is ParseBase64Vector's inverse.
func FormatBase64Vector(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func putFloat32LE(b []byte, v float32) {
	bits := math.Float32bits(v)
	b[0] = byte(bits)
	b[1] = byte(bits >> 8)
	b[2] = byte(bits >> 16)
	b[3] = byte(bits >> 24)
}

func decodeFloat32LESlice(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		bits := uint32(b[i*4]) | uint32(b[i*4+1])<<8 | uint32(b[i*4+2])<<16 | uint32(b[i*4+3])<<24
		out[i] = math.Float32frombits(bits)
	}
	return out
}

// NodeResponse shapes GetNode's result as JSON (spec.md §6.2:
// "Responses are JSON").
type NodeResponse struct {
	ID     uint64                 `json:"id"`
	Labels []string               `json:"labels"`
	Props  map[string]interface{} `json:"props"`
}

// KNNResponse shapes KNN's result as JSON.
type KNNResponse struct {
	Hits []KNNHitResponse `json:"hits"`
}

// KNNHitResponse is one KNN row on the wire.
type KNNHitResponse struct {
	NodeID uint64  `json:"nodeId"`
	Score  float64 `json:"score"`
}

// wireValueToJSON collapses a WireValue down to the single scalar its
// Kind names, for compact JSON responses; bytes are base64-encoded by
// encoding/json's default []byte handling.
func wireValueToJSON(v WireValue) interface{} {
	switch v.Kind {
	case "i64":
		return v.I64
	case "f64":
		return v.F64
	case "bool":
		return v.Bool
	case "text":
		return v.Text
	case "bytes":
		return v.Bytes
	case "null":
		return nil
	default:
		return nil
	}
}

// EncodeNodeResponse marshals a GetNode result as the JSON shape
// NodeResponse describes.
func EncodeNodeResponse(id uint64, labels []string, props []WireProperty) ([]byte, error) {
	propMap := make(map[string]interface{}, len(props))
	for _, p := range props {
		propMap[p.Key] = wireValueToJSON(p.Value)
	}
	return json.Marshal(NodeResponse{ID: id, Labels: labels, Props: propMap})
}

// EncodeKNNResponse marshals a KNN result as the JSON shape KNNResponse describes.
func EncodeKNNResponse(hits []KNNHit) ([]byte, error) {
	out := make([]KNNHitResponse, len(hits))
	for i, h := range hits {
		out[i] = KNNHitResponse{NodeID: h.NodeID, Score: h.Score}
	}
	return json.Marshal(KNNResponse{Hits: out})
}
