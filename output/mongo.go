package output

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoSink MongoDB报告输出
// 功能：每个tick把全部实体的报告作为文档批量写入集合，每个文档带有本次运行的ID
type MongoSink struct {
	coll    *mongo.Collection
	runID   string
	timeout time.Duration
}

// NewMongoSink 创建MongoDB报告输出
// 参数：coll-目标集合，timeout-单次写入超时
// 返回：输出实例，运行ID为随机UUID
func NewMongoSink(coll *mongo.Collection, timeout time.Duration) *MongoSink {
	s := &MongoSink{
		coll:    coll,
		runID:   uuid.NewString(),
		timeout: timeout,
	}
	log.Infof("write reports to %s.%s with run id %s", coll.Database().Name(), coll.Name(), s.runID)
	return s
}

// RunID 本次运行的ID
func (s *MongoSink) RunID() string {
	return s.runID
}

// Documents 把报告转换为待写入的文档
func (s *MongoSink) Documents(snapshot *entity.Snapshot) []any {
	docs := make([]any, 0, len(snapshot.Junctions)+len(snapshot.Roads)+len(snapshot.Vehicles))
	add := func(kind string, id string, report any) {
		docs = append(docs, bson.M{
			"run":    s.runID,
			"kind":   kind,
			"id":     id,
			"time":   snapshot.Time,
			"report": report,
		})
	}
	for _, r := range snapshot.Junctions {
		add(JunctionSection, r.ID, r)
	}
	for _, r := range snapshot.Roads {
		add(RoadSection, r.ID, r)
	}
	for _, r := range snapshot.Vehicles {
		add(VehicleSection, r.ID, r)
	}
	return docs
}

// Write 写入一个tick的报告
func (s *MongoSink) Write(snapshot *entity.Snapshot) error {
	docs := s.Documents(snapshot)
	if len(docs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert %d reports: %w", len(docs), err)
	}
	return nil
}
