package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	commonlog "files_manager/server/common/log"
	workerapp "files_manager/server/worker/app"
)

func main() {
	cfg := workerapp.LoadConfig()

	worker, err := workerapp.NewWorker(cfg)
	if err != nil {
		log.Fatalf("initialize thumbnail worker: %v", err)
	}
	defer worker.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	commonlog.Infof("start thumbnail worker on queue %s", cfg.ThumbnailQueue)
	if err := worker.Run(ctx); err != nil {
		commonlog.Errorf("thumbnail worker stopped: %v", err)
	}
}
