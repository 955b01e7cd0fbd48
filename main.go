package main

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.fiblab.net/general/common/v2/mongoutil"
	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/trafficsim-oss/event"
	"github.com/tsinghua-fib-lab/trafficsim-oss/output"
	"github.com/tsinghua-fib-lab/trafficsim-oss/task"
	"github.com/tsinghua-fib-lab/trafficsim-oss/utils/config"
	"github.com/tsinghua-fib-lab/trafficsim-oss/utils/input"
	"github.com/tsinghua-fib-lab/trafficsim-oss/utils/topology"
)

var (
	// 配置文件路径
	configPath = flag.String("config", "", "config file path")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")
	// 覆盖配置中的运行步数
	steps = flag.Int("steps", 0, "number of ticks to run (0 means control.steps in config)")

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

	log = logrus.WithField("module", "trafficsim")
)

const mongoWriteTimeout = 10 * time.Second

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
	// 获取配置
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
		log.Panic("config file or config data must be specified")
	}
	c, err := config.Parse(file)
	if err != nil {
		log.Panicf("config file load err: %v", err)
	}
	if *steps > 0 {
		c.Control.Steps = *steps
	}
	rc := config.NewRuntimeConfig(c)
	log.Infof("%+v", rc.All)

	// 场景
	events, err := input.Load(rc.All)
	if err != nil {
		log.Fatalf("scenario load err: %v", err)
	}
	checkItineraries(events)

	// 报告输出
	t := task.NewContext()
	if rc.All.Output.File != "" {
		var w io.Writer = os.Stdout
		if rc.All.Output.File != "-" {
			f, err := os.Create(rc.All.Output.File)
			if err != nil {
				log.Fatalf("create report file err: %v", err)
			}
			defer f.Close()
			w = f
		}
		t.AddSink(output.NewWriter(w))
	}
	if m := rc.All.Output.Mongo; m != nil {
		client := mongoutil.NewClient(m.URI)
		defer client.Disconnect(context.Background())
		sink := output.NewMongoSink(mongoutil.GetMongoColl(client, *m), mongoWriteTimeout)
		log.Infof("mongo report run id: %s", sink.RunID())
		t.AddSink(sink)
	}

	for _, e := range events {
		if err := t.PushEvent(e); err != nil {
			log.Fatalf("push event `%s` err: %v", e.Description(), err)
		}
	}

	stepper := task.NewStepper(t, rc.C.Interactive)
	stepper.After = func(ctx *task.Context) {
		log.Infof("simulation finished at tick %d", ctx.Time())
		if rc.All.Output.Graph == "" {
			return
		}
		data, err := topology.Build(ctx).DOT()
		if err != nil {
			log.Errorf("network graph export err: %v", err)
			return
		}
		if err := os.WriteFile(rc.All.Output.Graph, data, 0o644); err != nil {
			log.Errorf("network graph write err: %v", err)
		}
	}

	sigCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	err = stepper.Run(sigCtx, rc.C.Steps, rc.Delay())
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		log.Warnf("simulation interrupted with %d steps left", stepper.StepsLeft())
	case rc.C.Interactive:
		log.Errorf("simulation reset after failure: %v", err)
	default:
		log.Fatalf("simulation failed: %v", err)
	}
}

// checkItineraries 运行前检查车辆行程中相邻路口是否有直连道路
// 说明：只记录警告，车辆到达缺少道路的路口后会一直停在等待队列中
func checkItineraries(events []event.Event) {
	g := topology.FromEvents(events)
	for _, e := range events {
		ev, ok := e.(*event.NewVehicle)
		if !ok {
			continue
		}
		for _, i := range g.MissingHops(ev.Attr.Itinerary) {
			it := ev.Attr.Itinerary
			log.Warnf("vehicle %s: no road from %s to %s", ev.Attr.ID, it[i], it[i+1])
		}
	}
}
