package input

import (
	"context"
	"fmt"
	"os"

	"git.fiblab.net/general/common/v2/mongoutil"
	"github.com/tsinghua-fib-lab/trafficsim-oss/event"
	"github.com/tsinghua-fib-lab/trafficsim-oss/utils/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Load 加载场景事件
// 功能：根据配置从文件或MongoDB读取场景，并校验、构造为事件列表
// 参数：config-配置对象
// 返回：按场景中出现顺序排列的事件列表，错误
// 算法说明：
// 1. 文件优先：配置了events.file时读取YAML文件
// 2. 数据库加载：否则连接input.uri，从events.db/events.col读取，每个文档是一个事件
// 3. 校验：所有事件经过同样的校验，任何一个非法都返回ErrInvalidEvent
// 说明：返回的事件尚未进入调度队列，执行时间排序由event.Queue负责
func Load(config config.Config) ([]event.Event, error) {
	path := config.Input.Events
	if path.File != "" {
		data, err := os.ReadFile(path.File)
		if err != nil {
			return nil, fmt.Errorf("read scenario %s: %w", path.File, err)
		}
		events, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", path.File, err)
		}
		log.Infof("load %d events from %s", len(events), path.File)
		return events, nil
	}
	if config.Input.URI == "" || path.DB == "" || path.Col == "" {
		return nil, fmt.Errorf("no scenario source: set input.events.file or input.uri with input.events.db/col")
	}
	client := mongoutil.NewClient(config.Input.URI)
	defer client.Disconnect(context.Background())
	raws, err := download(context.Background(), mongoutil.GetMongoColl(client, path))
	if err != nil {
		return nil, fmt.Errorf("download scenario %s.%s: %w", path.DB, path.Col, err)
	}
	events, err := buildAll(raws)
	if err != nil {
		return nil, fmt.Errorf("scenario %s.%s: %w", path.DB, path.Col, err)
	}
	log.Infof("load %d events from %s.%s", len(events), path.DB, path.Col)
	return events, nil
}

// download 读取集合中的全部事件文档，按time、_id排序
func download(ctx context.Context, coll *mongo.Collection) ([]rawEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	var raws []rawEvent
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, err
	}
	return raws, nil
}
