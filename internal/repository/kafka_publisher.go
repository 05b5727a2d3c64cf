package repository

import (
	"context"
	"math"

	"FactorLab/internal/domain/models"
	pkgkafka "FactorLab/pkg/kafka"
)

// KafkaPublisher fans persisted regression results out to a Kafka topic.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, r *models.RegressionResult) error {
	// NaN is not representable in JSON; an undefined r2 goes out as null.
	var r2 interface{}
	if !math.IsNaN(r.R2) {
		r2 = r.R2
	}
	payload := map[string]interface{}{
		"ticker":   r.Ticker,
		"model":    r.Model(),
		"start_ym": r.StartYM,
		"end_ym":   r.EndYM,
		"nobs":     r.Nobs,
		"r2":       r2,
		"alpha":    r.Alpha,
		"beta_mkt": r.BetaMkt,
		"beta_smb": r.BetaSMB,
		"beta_hml": r.BetaHML,
	}
	if r.BetaMom != nil {
		payload["beta_mom"] = *r.BetaMom
	}
	return p.producer.Publish(ctx, p.topic, []byte(r.Ticker), payload)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
