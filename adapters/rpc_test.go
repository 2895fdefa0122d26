package adapters

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stardust-db/stardust/pkg/graphenv"
	"github.com/stardust-db/stardust/pkg/store"
)

func newTestCapability(t *testing.T) *Capability {
	t.Helper()
	env, err := graphenv.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return NewCapability(store.New(env))
}

func TestCreateNodeThenGetNodeRoundTripsWireNames(t *testing.T) {
	c := newTestCapability(t)

	id, err := c.CreateNode(
		[]string{"Person", "Admin"},
		[]WireProperty{{Key: "name", Value: WireValue{Kind: "text", Text: "Ada"}}},
		nil,
		nil,
	)
	require.NoError(t, err)

	labels, props, err := c.GetNode(id)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Person", "Admin"}, labels)
	require.Len(t, props, 1)
	require.Equal(t, "name", props[0].Key)
	require.Equal(t, "Ada", props[0].Value.Text)
}

func TestUnknownLabelOnReadPathIsEmptyNotError(t *testing.T) {
	c := newTestCapability(t)

	nodes, err := c.ScanNodesByLabel("Ghost", 0)
	require.NoError(t, err)
	require.Empty(t, nodes)
}

func TestAddEdgeAndListAdjacencyResolvesTypeName(t *testing.T) {
	c := newTestCapability(t)

	aID, err := c.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)
	bID, err := c.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)

	_, err = c.AddEdge(aID, bID, "knows", nil)
	require.NoError(t, err)

	rows, err := c.ListAdjacency(aID, "out", 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "knows", rows[0].Type)
	require.Equal(t, bID, rows[0].NeighborID)
}

func TestUpsertVectorAndKNN(t *testing.T) {
	c := newTestCapability(t)
	id, err := c.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)

	data, err := ParseCSVVector("1,0,0,0")
	require.NoError(t, err)
	require.NoError(t, c.UpsertVector(id, "embedding", data))

	hits, err := c.KNN("embedding", data, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, id, hits[0].NodeID)
	require.InDelta(t, 1.0, hits[0].Score, 1e-6)
}

func TestKNNUnknownTagIsEmptyNotError(t *testing.T) {
	c := newTestCapability(t)
	hits, err := c.KNN("missing-tag", nil, 5)
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestWriteBatchDispatchesAndIsNonAtomic(t *testing.T) {
	c := newTestCapability(t)

	results, err := c.WriteBatch([]WriteBatchOp{
		{Op: "createNode", Labels: []string{"Person"}},
		{Op: "upsertNodeProps", NodeID: 999999},
		{Op: "createNode", Labels: []string{"Person"}},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.NoError(t, results[0].Err)
	require.Error(t, results[1].Err)
	require.NoError(t, results[2].Err)
	require.Greater(t, results[2].NodeID, results[0].NodeID)
}

func TestDeleteNodeThenGetNodeIsNotFound(t *testing.T) {
	c := newTestCapability(t)
	id, err := c.CreateNode(nil, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, c.DeleteNode(id))

	_, _, err = c.GetNode(id)
	require.Error(t, err)
}
