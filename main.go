package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"assessment-service/api"
	_ "assessment-service/docs"
	"assessment-service/logger"

	"assessment-service/service"

	daprd "github.com/dapr/go-sdk/service/http"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

var (
	PORT         = 80
	BASE_CONTEXT = ""
)

func init() {
	logger.InitLogger()

	if val := os.Getenv("LISTEN_PORT"); val != "" {
		PORT, _ = strconv.Atoi(val)
	}

	if val := os.Getenv("BASE_CONTEXT"); val != "" {
		BASE_CONTEXT = val
	}
}

// @title 不动产评估数据质量服务 API
// @version 1.0
// @description 不动产评估记录的数据校验、质量度量与血缘溯源后台服务
// @BasePath /swagger/assessment-service
func main() {
	mux := chi.NewRouter()

	// 如果有BASE_CONTEXT，则在该路径下挂载所有路由
	if BASE_CONTEXT != "" {
		mux.Route(BASE_CONTEXT, func(r chi.Router) {
			subMux := r.(*chi.Mux)
			api.InitRoute(subMux)
			r.Handle("/metrics", promhttp.Handler())
			r.Handle("/swagger*", httpSwagger.WrapHandler)
		})
	} else {
		api.InitRoute(mux)
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/swagger*", httpSwagger.WrapHandler)
	}

	// 周期性再校验调度
	if os.Getenv("REVALIDATION_ENABLED") == "true" {
		if err := service.GlobalScheduler.Start(); err != nil {
			log.Fatalf("再校验调度器启动失败: %v", err)
		}
		defer service.GlobalScheduler.Stop()
	}

	s := daprd.NewServiceWithMux(":"+strconv.Itoa(PORT), mux)
	if err := s.Start(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("error: %v", err)
	}
}
