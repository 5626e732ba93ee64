package output

import (
	"context"
	"fmt"

	"git.fiblab.net/general/common/v2/mongoutil"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/config"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoRecorder 将回合结果写入MongoDB集合
type MongoRecorder struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoRecorder 连接MongoDB并定位输出集合
// 参数：c-输出配置，包含连接字符串、数据库名与集合名
func NewMongoRecorder(c config.Output) *MongoRecorder {
	client := mongoutil.NewClient(c.URI)
	log.Infof("episode records go to %s.%s", c.DB, c.Col)
	return &MongoRecorder{
		client: client,
		coll:   mongoutil.GetMongoColl(client, c),
	}
}

// Record 插入一条回合记录
func (m *MongoRecorder) Record(ctx context.Context, r EpisodeRecord) error {
	r = r.withDefaults()
	if _, err := m.coll.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("output: insert episode %d: %w", r.Episode, err)
	}
	return nil
}

// Close 断开MongoDB连接
func (m *MongoRecorder) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
