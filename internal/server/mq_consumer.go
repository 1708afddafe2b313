package server

import (
	"context"
	"encoding/json"

	"quota-service/internal/conf"
	quotaErrors "quota-service/internal/errors"
	"quota-service/internal/service"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/go-kratos/kratos/v2/log"
)

// EventDispatcher 生命周期事件分发
type EventDispatcher interface {
	Dispatch(ctx context.Context, event *service.LifecycleEvent) error
}

// MQConsumerServer consumes lifecycle events from RocketMQ
type MQConsumerServer struct {
	c          rocketmq.PushConsumer
	dispatcher EventDispatcher
	topic      string
	log        *log.Helper
	enabled    bool
}

// NewMQConsumerServer creates a RocketMQ consumer server
func NewMQConsumerServer(c *conf.Bootstrap, events *service.EventService, logger log.Logger) *MQConsumerServer {
	helper := log.NewHelper(logger)
	if c == nil || c.Data == nil || c.Data.Rocketmq == nil || !c.Data.Rocketmq.Enabled {
		return &MQConsumerServer{log: helper, enabled: false}
	}
	mq := c.Data.Rocketmq

	r, err := rocketmq.NewPushConsumer(
		consumer.WithNsResolver(primitive.NewPassthroughResolver(mq.NameServers)),
		consumer.WithGroupName(mq.GroupName),
		consumer.WithRetry(int(mq.RetryTimes)),
		consumer.WithConsumeMessageBatchMaxSize(1), // 计数类事件不幂等，逐条消费避免整批重投
	)
	if err != nil {
		helper.Errorf("init consumer error: %v", err)
		return &MQConsumerServer{log: helper, enabled: false}
	}

	return &MQConsumerServer{
		c:          r,
		dispatcher: events,
		topic:      mq.Topic,
		log:        helper,
		enabled:    true,
	}
}

// Start starts the consumer
func (s *MQConsumerServer) Start(ctx context.Context) error {
	if !s.enabled {
		s.log.Infof("MQConsumerServer is disabled, skipping startup")
		return nil
	}

	if s.c == nil {
		s.log.Warnf("MQConsumerServer consumer is nil, skipping startup")
		return nil
	}

	s.log.Infof("Starting MQConsumerServer, topic: %s", s.topic)

	err := s.c.Subscribe(s.topic, consumer.MessageSelector{}, s.handler)
	if err != nil {
		s.log.Errorf("Failed to subscribe to topic %s: %v", s.topic, err)
		// 不返回错误，避免导致整个应用启动失败
		return nil
	}

	if err := s.c.Start(); err != nil {
		s.log.Errorf("Failed to start RocketMQ consumer: %v", err)
		return nil
	}
	return nil
}

// Stop stops the consumer
func (s *MQConsumerServer) Stop(ctx context.Context) error {
	if !s.enabled || s.c == nil {
		return nil
	}
	s.log.Info("Stopping MQConsumerServer")
	return s.c.Shutdown()
}

// handler 格式错误或不可重试的消息直接丢弃，其余错误稍后重试
func (s *MQConsumerServer) handler(ctx context.Context, msgs ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
	for _, msg := range msgs {
		var event service.LifecycleEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			s.log.Errorf("Unmarshal message failed: %v, body: %s", err, string(msg.Body))
			continue
		}
		if err := s.dispatcher.Dispatch(ctx, &event); err != nil {
			if quotaErrors.IsPermanent(err) {
				s.log.Warnf("Drop lifecycle event %s of %s: %v", event.Type, event.Scope, err)
				continue
			}
			s.log.Errorf("Dispatch lifecycle event %s of %s failed: %v", event.Type, event.Scope, err)
			return consumer.ConsumeRetryLater, nil
		}
	}
	return consumer.ConsumeSuccess, nil
}
