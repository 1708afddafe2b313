package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"quota-service/internal/conf"
	"quota-service/internal/server"

	"github.com/gaoyong06/go-pkg/logger"
	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/tracing"
	"github.com/go-kratos/kratos/v2/transport/http"

	_ "go.uber.org/automaxprocs"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	Name     = "quota-service"
	Version  = "v1.0.0"
	flagconf string
	logLevel string
	logFile  string
	id, _    = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "../../configs", "config path, eg: -conf config.yaml")
	flag.StringVar(&logLevel, "log.level", "info", "log level: debug/info/warn/error")
	flag.StringVar(&logFile, "log.file", "logs/quota-service.log", "log file path")
}

func newApp(bc *conf.Bootstrap, logger log.Logger, hs *http.Server, mq *server.MQConsumerServer) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{
			"metrics": server.MetricsPath,
		}),
		kratos.Logger(logger),
		kratos.Server(
			hs,
			mq,
		),
		kratos.AfterStart(func(context.Context) error {
			logStartup(log.NewHelper(logger), bc)
			return nil
		}),
	)
}

// logStartup 记录引擎启动时的关键配置
func logStartup(h *log.Helper, bc *conf.Bootstrap) {
	types := make([]string, 0, len(bc.GetCostTracking().GetPrices()))
	for _, p := range bc.GetCostTracking().GetPrices() {
		types = append(types, p.GetResourceType())
	}
	h.Infof("quota engine started: database=%s, redis_lock=%t, lifecycle_consumer=%t, cost_tracked_types=[%s]",
		bc.GetData().GetDatabase().GetDriver(),
		bc.GetData().GetRedis().GetAddr() != "",
		bc.GetData().GetRocketmq().GetEnabled(),
		strings.Join(types, ","))
}

func loadBootstrap(path string) *conf.Bootstrap {
	c := config.New(
		config.WithSource(
			file.NewSource(path),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}
	bc := &conf.Bootstrap{}
	if err := c.Scan(bc); err != nil {
		panic(err)
	}
	return bc
}

func main() {
	flag.Parse()

	bc := loadBootstrap(flagconf)

	// 初始化日志 (使用 go-pkg/logger)
	loggerInstance := log.With(logger.NewLogger(&logger.Config{
		Level:         logLevel,
		Format:        "json",
		Output:        "stdout",
		FilePath:      logFile,
		MaxSize:       100,
		MaxAge:        30,
		MaxBackups:    10,
		Compress:      true,
		EnableConsole: true,
	}),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
		"trace.id", tracing.TraceID(),
		"span.id", tracing.SpanID(),
	)

	app, cleanup, err := wireApp(bc, loggerInstance)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	// start and wait for stop signal
	if err := app.Run(); err != nil {
		panic(err)
	}
}
