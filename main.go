package main

import (
	"context"
	"encoding/base64"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"git.fiblab.net/sim/syncer/v3"
	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/crossing-sim/env"
	"github.com/tsinghua-fib-lab/crossing-sim/policy"
	"github.com/tsinghua-fib-lab/crossing-sim/rollout"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/config"
	"github.com/tsinghua-fib-lab/crossing-sim/utils/output"
)

const (
	SelfName = "crossing" // 本程序在模拟任务集群中的名字
)

var (
	// 分布式模式syncer地址，如果设置为空则激活独立部署模式
	syncerAddr = flag.String("syncer", "", "syncer address (empty means standalone mode), e.g. http://localhost:53001")
	// 模拟任务名，用于输出记录
	job = flag.String("job", "job0", "the name of the whole simulation task")
	// 本程序监听的gRPC地址
	grpcAddr = flag.String("listen", ":51102", "gRPC listening address")
	// 配置文件路径
	configPath = flag.String("config", "", "config file path (empty means built-in defaults)")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")
	// 运行模式
	// serve：由外部学习器通过EnvService驱动环境
	// run：由脚本化策略驱动环境，与syncer逐步对齐
	mode = flag.String("mode", "serve", "run mode (serve | run)")
	// run模式下使用的策略
	policyName = flag.String("policy", "fixed", "policy used in run mode (fixed | max_pressure | random | noop)")
	// run模式下运行的回合数
	episodes = flag.Int("episodes", 10, "number of episodes in run mode (0 means until syncer closes)")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")

	log = logrus.WithField("module", "crossing")
)

// loadConfig 获取配置
// 说明：-config优先于-config-data，二者都为空时使用默认配置
func loadConfig() config.Config {
	var file []byte
	var err error
	if *configPath != "" {
		file, err = os.ReadFile(*configPath)
		if err != nil {
			log.Panicf("config file load err: %v", err)
		}
	} else if *configData != "" {
		file, err = base64.StdEncoding.DecodeString(*configData)
		if err != nil {
			log.Panicf("config data load err: %v", err)
		}
	} else {
		log.Warn("no config file or config data, use defaults")
	}
	c, err := config.Parse(file)
	if err != nil {
		log.Panicf("config file load err: %v", err)
	}
	return c
}

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	// log: 运行时才修改
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}
	c := loadConfig()
	log.Infof("%+v", c.Redacted())

	e, err := env.New(c)
	if err != nil {
		log.Panicf("failed to create environment: %v", err)
	}

	sidecar := syncer.NewSidecar(SelfName, *grpcAddr, *syncerAddr)
	e.Context().Register(sidecar)

	switch *mode {
	case "serve":
		// 仅serve模式对外提供EnvService，run模式下环境由策略独占驱动
		env.NewServer(e).Register(sidecar)
		log.Infof("serving %s on %s", env.EnvServiceName, *grpcAddr)
		if err := sidecar.Serve(); err != nil {
			log.Panicf("failed to serve: %v", err)
		}
	case "run":
		run(c, e, sidecar)
	default:
		log.Panicf("mode must be serve or run, got %q", *mode)
	}
}

// run 用脚本化策略驱动环境
func run(c config.Config, e *env.Environment, sidecar *syncer.Sidecar) {
	p, err := policy.New(*policyName, e.Scheme(), c.Spawn.Seed)
	if err != nil {
		log.Panicf("%v", err)
	}
	recorder := output.New(c.Output)

	// sidecar协程，用于提供gRPC服务
	sidecarCloseCh := make(chan struct{})
	go func() {
		if err := sidecar.Serve(); err != nil {
			log.Panicf("failed to serve: %v", err)
		}
		close(sidecarCloseCh)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	n := rollout.NewRunner(*job, e, p, sidecar, recorder, *episodes).Run(ctx)
	log.Infof("engine complete after %d episodes", n)

	if err := recorder.Close(context.Background()); err != nil {
		log.Errorf("failed to close output: %v", err)
	}
	sidecar.Close()
	// wait for graceful stop
	<-sidecarCloseCh
}
