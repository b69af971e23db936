package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedkafka "github.com/radieske/dota2-scout/internal/shared/kafka"
	"github.com/radieske/dota2-scout/pkg/contracts/events"
)

// KafkaPublisher encapsula o writer Kafka e o logger.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

// NewKafkaPublisher cria um publisher para um tópico Kafka.
// Em ambientes local/dev garante a existência do tópico antes de criar o writer.
func NewKafkaPublisher(brokers []string, topic, env string, log *zap.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not provided")
	}

	if env == "local" || env == "dev" {
		ensureTopic(brokers[0], topic, log)
	}

	// Writer com timeouts e balanceamento por hash da chave (match_id),
	// mantendo reprocessamentos da mesma partida na mesma partição.
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		ReadTimeout:            10 * time.Second,
		WriteTimeout:           10 * time.Second,
	}

	return &KafkaPublisher{writer: writer, log: log}, nil
}

// ensureTopic cria o tópico via controller do cluster; "already exists" é ignorado
func ensureTopic(broker, topic string, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", broker)
	if err != nil {
		log.Warn("failed to connect to kafka", zap.Error(err))
		return
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		log.Warn("failed to get kafka controller", zap.Error(err))
		return
	}

	cconn, err := kafka.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		log.Warn("failed to dial controller", zap.Error(err))
		return
	}
	defer cconn.Close()

	err = cconn.CreateTopics(kafka.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	switch {
	case err == nil:
		log.Info("kafka topic created", zap.String("topic", topic))
	case !strings.Contains(err.Error(), "already exists"):
		log.Warn("failed to create kafka topic", zap.String("topic", topic), zap.Error(err))
	}
}

// Publish serializa o evento em JSON e envia para o tópico configurado.
// A chave da mensagem é o match_id.
func (p *KafkaPublisher) Publish(ctx context.Context, e events.MatchIngested) error {
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}

	if err := sharedkafka.WriteJSON(ctx, p.writer, strconv.FormatInt(e.Match.ID, 10), value); err != nil {
		p.log.Error("failed to publish match", zap.Int64("match_id", e.Match.ID), zap.Error(err))
		return err
	}

	p.log.Debug("published match", zap.Int64("match_id", e.Match.ID), zap.String("ingest_id", e.IngestID))
	return nil
}

// Close finaliza o writer e libera recursos associados.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
