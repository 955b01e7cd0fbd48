package output_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
	"github.com/tsinghua-fib-lab/trafficsim-oss/output"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// newSink 连接是惰性的，不写入时不需要MongoDB服务
func newSink(t *testing.T) *output.MongoSink {
	t.Helper()
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	require.NoError(t, err)
	t.Cleanup(func() { client.Disconnect(context.Background()) })
	return output.NewMongoSink(client.Database("sim").Collection("reports"), time.Second)
}

func TestMongoDocuments(t *testing.T) {
	sink := newSink(t)
	_, err := uuid.Parse(sink.RunID())
	require.NoError(t, err)

	docs := sink.Documents(sampleSnapshot())
	require.Len(t, docs, 3)
	kinds := make([]string, 0, len(docs))
	for _, d := range docs {
		m := d.(bson.M)
		assert.Equal(t, sink.RunID(), m["run"])
		assert.Equal(t, int32(1), m["time"])
		kinds = append(kinds, m["kind"].(string))
	}
	assert.Equal(t, []string{output.JunctionSection, output.RoadSection, output.VehicleSection}, kinds)

	vehicle := docs[2].(bson.M)
	assert.Equal(t, "v1", vehicle["id"])
	assert.Equal(t, 50, vehicle["report"].(entity.VehicleReport).Location)
}

func TestMongoRunIDsDiffer(t *testing.T) {
	assert.NotEqual(t, newSink(t).RunID(), newSink(t).RunID())
}

func TestMongoWriteEmptySnapshot(t *testing.T) {
	assert.NoError(t, newSink(t).Write(&entity.Snapshot{Time: 3}))
}
