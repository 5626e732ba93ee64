// 回合结果输出
package output

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/config"
)

// EpisodeRecord 单个回合的汇总
type EpisodeRecord struct {
	ID             string    `bson:"_id"`
	Job            string    `bson:"job"`
	Policy         string    `bson:"policy"`
	Episode        int       `bson:"episode"`
	Ticks          int32     `bson:"ticks"`
	SimTime        float64   `bson:"sim_time"`
	Return         float64   `bson:"return"`
	Reason         string    `bson:"reason"`
	PeakPopulation int       `bson:"peak_population"`
	Spawned        int       `bson:"spawned"`
	Collisions     int       `bson:"collisions"`
	FinishedAt     time.Time `bson:"finished_at"`
}

// withDefaults 补全ID与结束时间
func (r EpisodeRecord) withDefaults() EpisodeRecord {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	return r
}

// Recorder 回合结果输出接口
type Recorder interface {
	Record(ctx context.Context, r EpisodeRecord) error
	Close(ctx context.Context) error
}

// New 根据输出配置创建Recorder
// 说明：未配置MongoDB地址时不输出
func New(c config.Output) Recorder {
	if c.URI == "" {
		log.Info("output uri is empty, episode records are discarded")
		return Nop{}
	}
	return NewMongoRecorder(c)
}

// Nop 丢弃所有记录
type Nop struct{}

func (Nop) Record(ctx context.Context, r EpisodeRecord) error {
	r = r.withDefaults()
	log.Debugf("episode %d (%s): return=%.2f reason=%s", r.Episode, r.ID, r.Return, r.Reason)
	return nil
}

func (Nop) Close(ctx context.Context) error {
	return nil
}

// Memory 将记录保存在内存中
type Memory struct {
	Records []EpisodeRecord
}

func (m *Memory) Record(ctx context.Context, r EpisodeRecord) error {
	m.Records = append(m.Records, r.withDefaults())
	return nil
}

func (m *Memory) Close(ctx context.Context) error {
	return nil
}
