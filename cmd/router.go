package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
)

// routes обработчики и middleware роутера
type routes struct {
	availabilityPost http.HandlerFunc
	availabilityGet  http.HandlerFunc
	bookingRules     http.HandlerFunc
	health           http.HandlerFunc
	ready            http.HandlerFunc

	// nil если метрики выключены
	metrics     *metrics.Metrics
	metricsPath string

	// лимит только для /api/booking, nil без ограничения
	apiLimiter middleware.Middleware
}

func newRouter(rt routes) *mux.Router {
	r := mux.NewRouter()

	// Metrics middleware работает внутри роутера, чтобы видеть шаблон маршрута
	if rt.metrics != nil {
		r.Use(middleware.Metrics(rt.metrics))
		r.Handle(rt.metricsPath, promhttp.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/health", rt.health).Methods(http.MethodGet)
	r.HandleFunc("/ready", rt.ready).Methods(http.MethodGet)

	api := r.PathPrefix("/api/booking").Subrouter()
	if rt.apiLimiter != nil {
		api.Use(mux.MiddlewareFunc(rt.apiLimiter))
	}

	// Проверка доступности слотов
	api.HandleFunc("/availability", rt.availabilityPost).Methods(http.MethodPost)
	api.HandleFunc("/availability", rt.availabilityGet).Methods(http.MethodGet)

	// Правила записи для формы на сайте
	api.HandleFunc("/rules", rt.bookingRules).Methods(http.MethodGet)

	return r
}
