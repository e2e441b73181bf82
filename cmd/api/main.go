package main

import (
	"Inkwell/internal/api/config"
	"Inkwell/internal/pkg/cron"
	"Inkwell/internal/pkg/database"
	"Inkwell/internal/pkg/es"
	"Inkwell/internal/pkg/logger"
	"Inkwell/internal/pkg/minio"
	"Inkwell/internal/pkg/mongo"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/pkg/security"
	"Inkwell/internal/wire"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// mustInit 启动阶段任何依赖不可用都直接退出
func mustInit(name string, fn func() error) {
	if err := fn(); err != nil {
		log.Error("Fatal error: failed to initialize "+name, "err", err)
		panic(err)
	}
}

// initInfra 按依赖顺序建立外部连接
func initInfra(cfg *config.Config) (db *gorm.DB, mongoDB *mongodriver.Database) {
	mustInit("database", func() (err error) {
		dbCfg := cfg.DB
		db, err = database.NewGormDB(&dbCfg)
		return err
	})
	mustInit("redis", func() error { return redis.InitRedis(cfg.Redis) })
	mustInit("mongo", func() (err error) {
		mongoDB, err = mongo.InitMongo(cfg.Mongo)
		return err
	})
	mustInit("minio", minio.Init)
	mustInit("elasticsearch", es.InitClient)
	return db, mongoDB
}

func main() {
	mustInit("configuration", config.LoadConfig)
	cfg := config.Cfg
	logger.InitLogger()
	security.SetSecret(cfg.Server.JWTSecret)

	db, mongoDB := initInfra(cfg)

	var app *wire.ApplicationContainer
	mustInit("application", func() (err error) {
		app, err = wire.BuildApplication(db, mongoDB, cfg)
		return err
	})
	mustInit("cron jobs", func() error { return cron.InitCron(app.CronMgr) })

	if err := serve(cfg, app); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("App exited with error", "err", err)
	}

	// 等待发布后的副作用落地再关闭生产者
	app.Effects.Wait()
	if err := app.Producer.Close(); err != nil {
		log.Error("Kafka producer close failed", "err", err)
	}
	log.Info("App exited successfully.")
}

// serve 运行 HTTP、Kafka 消费和定时任务，收到退出信号后依次停止
func serve(cfg *config.Config, app *wire.ApplicationContainer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: app.Router,
	}

	g.Go(func() error {
		log.Info("Kafka Consumers starting...")
		return app.KafkaManager.Start(ctx)
	})
	g.Go(func() error {
		log.Info("HTTP Server starting...", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down...", "cause", context.Cause(ctx))

		// 先停止接收新请求，再等待正在执行的定时任务
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP Server shutdown failed", "err", err)
		}
		select {
		case <-app.CronMgr.Stop().Done():
		case <-shutdownCtx.Done():
			log.Warn("Cron Jobs did not finish before shutdown timeout")
		}
		return nil
	})
	return g.Wait()
}
