package main

import (
	"fieldops/apiclient"
	"fieldops/common"
	"fieldops/config"
	"fieldops/persistence"
	"fieldops/servehttp"
	"fieldops/session"
	"io"
	"log"

	"github.com/joho/godotenv"
	"github.com/opentracing/opentracing-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	jaegerlog "github.com/uber/jaeger-client-go/log"
	"github.com/uber/jaeger-lib/metrics"
)

func main() {
	log.Println("service start")

	// optional, env vars win over the file
	_ = godotenv.Load()

	cfg := config.Load()
	session.TokenExpiration = cfg.SessionTTL

	closer, err := initTracer()
	if err != nil {
		log.Fatalf("tracer init failed %v\n", err)
	}
	defer closer.Close()

	ds := &persistence.DataSourceManager{DatabaseURL: cfg.SessionDatabaseURL}
	if err := ds.Start(); err != nil {
		log.Fatalf("database connection failed %v\n", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration (race condition)
	if err := ds.GormDB(nil).AutoMigrate(&session.SessionRecord{}).Error; err != nil {
		log.Fatalf("database migration failed %v\n", err)
	}

	apiclient.ActiveClient = apiclient.NewClient(cfg.APIBaseURL)

	common.Log.WithField("apiBaseURL", cfg.APIBaseURL).Info("console starting")

	engine := servehttp.NewEngine("")
	engine.Static("/static", "servehttp/static")
	servehttp.StartHTTPServer(engine, cfg.ListenAddr)
}

func initTracer() (io.Closer, error) {
	tracerCfg, err := jaegercfg.FromEnv()
	if err != nil {
		return nil, err
	}
	tracerCfg.ServiceName = common.GetServiceName()

	tracer, closer, err := tracerCfg.NewTracer(
		jaegercfg.Logger(jaegerlog.StdLogger),
		jaegercfg.Metrics(metrics.NullFactory),
	)
	if err != nil {
		return nil, err
	}
	opentracing.SetGlobalTracer(tracer)
	return closer, nil
}
