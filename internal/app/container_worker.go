package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"fuel-delivery-service/internal/config"
	"fuel-delivery-service/internal/logx"
	"fuel-delivery-service/internal/service/delivery"
	"fuel-delivery-service/internal/service/statusevents"
	"fuel-delivery-service/internal/transport/kafka"
)

type processorIn struct {
	dig.In

	Logger   logx.Logger
	Delivery *delivery.Service
	Results  *prometheus.CounterVec `name:"status_events_total"`
}

func newStatusProcessor(in processorIn) *statusevents.Processor {
	return statusevents.NewProcessor(in.Delivery, in.Logger.With(logx.String("component", "statusevents")),
		statusevents.WithResultsCounter(in.Results),
	)
}

func newStatusConsumer(cfg *config.Config, logger logx.Logger, p *statusevents.Processor) (*kafka.Consumer, error) {
	return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.StatusTopic, makeStatusEventsKafka(p))
}

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		newStatusProcessor,
		newStatusConsumer,
	)
}
