package thread

import (
	"testing"

	"ayubo/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reply(id uint, parentID *uint) *models.Reply {
	return &models.Reply{ID: id, PostID: 1, ParentID: parentID}
}

func ptr(id uint) *uint { return &id }

func countNodes(forest []*Node) int {
	n := 0
	for _, root := range forest {
		n += 1 + countNodes(root.Children)
	}
	return n
}

func TestBuildTree_Nesting(t *testing.T) {
	t.Parallel()

	// R1 and R4 top-level, R2 under R1, R3 under R2
	flat := []*models.Reply{
		reply(1, nil),
		reply(2, ptr(1)),
		reply(3, ptr(2)),
		reply(4, nil),
	}

	forest := BuildTree(flat)
	require.Len(t, forest, 2)
	assert.Equal(t, uint(1), forest[0].ID)
	assert.Equal(t, uint(4), forest[1].ID)

	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, uint(2), forest[0].Children[0].ID)
	require.Len(t, forest[0].Children[0].Children, 1)
	assert.Equal(t, uint(3), forest[0].Children[0].Children[0].ID)
	assert.Empty(t, forest[1].Children)

	assert.Equal(t, len(flat), countNodes(forest))
}

func TestBuildTree_PreservesInputOrder(t *testing.T) {
	t.Parallel()

	// Newest-first input: children lists must keep that order.
	flat := []*models.Reply{
		reply(1, nil),
		reply(5, ptr(1)),
		reply(3, ptr(1)),
		reply(2, ptr(1)),
	}

	forest := BuildTree(flat)
	require.Len(t, forest, 1)
	require.Len(t, forest[0].Children, 3)
	assert.Equal(t, uint(5), forest[0].Children[0].ID)
	assert.Equal(t, uint(3), forest[0].Children[1].ID)
	assert.Equal(t, uint(2), forest[0].Children[2].ID)
}

func TestBuildTree_DropsOrphans(t *testing.T) {
	t.Parallel()

	// Replies 3 and 4 reference a parent that is not in the input.
	flat := []*models.Reply{
		reply(1, nil),
		reply(2, ptr(1)),
		reply(3, ptr(99)),
		reply(4, ptr(3)), // parented under an orphan: indexed, so kept under 3, but 3 is unreachable
	}

	forest := BuildTree(flat)
	assert.Equal(t, 2, countNodes(forest))
}

func TestBuildTree_Idempotent(t *testing.T) {
	t.Parallel()

	flat := []*models.Reply{
		reply(1, nil),
		reply(2, ptr(1)),
		reply(3, ptr(1)),
		reply(4, ptr(2)),
		reply(5, nil),
	}

	first := BuildTree(flat)
	second := BuildTree(Flatten(first))

	assert.Equal(t, countNodes(first), countNodes(second))
	assert.Equal(t, first, second)
}

func TestBuildTree_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, BuildTree(nil))
	assert.Empty(t, Flatten(nil))
}

func TestCollectSubtreeIDs_Chain(t *testing.T) {
	t.Parallel()

	// A(1) <- B(2) <- C(3)
	flat := []*models.Reply{
		reply(1, nil),
		reply(2, ptr(1)),
		reply(3, ptr(2)),
	}

	assert.ElementsMatch(t, []uint{1, 2, 3}, CollectSubtreeIDs(1, flat))
	assert.ElementsMatch(t, []uint{2, 3}, CollectSubtreeIDs(2, flat))
	assert.ElementsMatch(t, []uint{3}, CollectSubtreeIDs(3, flat))
}

func TestCollectSubtreeIDs_Branching(t *testing.T) {
	t.Parallel()

	flat := []*models.Reply{
		reply(1, nil),
		reply(2, ptr(1)),
		reply(3, ptr(1)),
		reply(4, ptr(2)),
		reply(5, nil),
	}

	assert.ElementsMatch(t, []uint{1, 2, 3, 4}, CollectSubtreeIDs(1, flat))
	assert.ElementsMatch(t, []uint{5}, CollectSubtreeIDs(5, flat))
}

func TestCollectSubtreeIDs_CycleTerminates(t *testing.T) {
	t.Parallel()

	// Corrupted data: 2 and 3 point at each other.
	flat := []*models.Reply{
		reply(2, ptr(3)),
		reply(3, ptr(2)),
	}

	ids := CollectSubtreeIDs(2, flat)
	assert.ElementsMatch(t, []uint{2, 3}, ids)
}

func TestCollectSubtreeIDs_UnknownRoot(t *testing.T) {
	t.Parallel()

	// The deletion closure for an id with no rows still includes the id
	// itself so a re-run of an interrupted cascade stays a no-op.
	assert.Equal(t, []uint{42}, CollectSubtreeIDs(42, nil))
}
