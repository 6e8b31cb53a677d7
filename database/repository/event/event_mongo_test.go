package eventRepo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestJoinSlotFilterGuardsCapacityInQuery(t *testing.T) {
	t.Parallel()

	filter := joinSlotFilter("event-1", "slot-1", "member-1", 2)
	assert.Equal(t, "event-1", filter["id"])

	elem, ok := filter["volunteer_slots"].(bson.M)["$elemMatch"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "slot-1", elem["slot_id"])
	assert.Equal(t, bson.M{"$ne": "member-1"}, elem["member_ids"])

	// The last seat is index capacity-1; its existence means the slot is full
	// and the update must not match. This is what makes two concurrent signups
	// for one remaining seat mutually exclusive on the server.
	assert.Equal(t, bson.M{"$exists": false}, elem["member_ids.1"])
}

func TestJoinSlotFilterSingleSeatSlot(t *testing.T) {
	t.Parallel()

	filter := joinSlotFilter("event-1", "slot-1", "member-1", 1)
	elem := filter["volunteer_slots"].(bson.M)["$elemMatch"].(bson.M)
	assert.Equal(t, bson.M{"$exists": false}, elem["member_ids.0"])
}
