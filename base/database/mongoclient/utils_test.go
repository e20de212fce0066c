package mongoclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/namebid/goapi/base/ptr"
)

func TestMakeBsonM(t *testing.T) {
	type patchableListing struct {
		Status      *string    `bson:"status,omitempty"`
		SoldPrice   *string    `bson:"soldPrice,omitempty"`
		UpdatedAt   *time.Time `bson:"updatedAt,omitempty"`
		CancelledAt *time.Time `bson:"cancelledAt,omitempty"`
		Note        string     `bson:"note"`
	}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	patchable := &patchableListing{
		Status:    ptr.String("SOLD"),
		SoldPrice: ptr.String("1000000000000000000"),
		UpdatedAt: ptr.Time(now),
		Note:      "manual",
	}

	updater, err := MakeBsonM(patchable)

	assert.NoError(t, err)
	assert.Equal(
		t,
		bson.M{
			"status":    "SOLD",
			"soldPrice": "1000000000000000000",
			"updatedAt": now,
			// cancelledAt is nil, so ignore
			"note": "manual",
		},
		updater,
	)
}
