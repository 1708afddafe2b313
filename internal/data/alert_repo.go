package data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quota-service/internal/biz"
	"quota-service/internal/conf"
	"quota-service/internal/data/model"

	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// alertRepo 告警状态数据访问
type alertRepo struct {
	data *Data
	log  *log.Helper
}

// NewAlertRepo 创建告警 repo
func NewAlertRepo(data *Data, logger log.Logger) biz.AlertRepo {
	return &alertRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func openAlertScope(key biz.AlertKey) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("scope_kind = ? AND scope_id = ? AND quota_name = ? AND alert_type = ? AND closed_at IS NULL",
			string(key.Scope.Kind), key.Scope.ID, key.Name, key.Type)
	}
}

// OpenAlert 开启告警，已有未关闭告警时不重复创建（由唯一索引保证）
func (r *alertRepo) OpenAlert(ctx context.Context, key biz.AlertKey, message string) (bool, error) {
	opened := true
	alert := model.QuotaAlert{
		QuotaAlertID: uuid.New().String(),
		ScopeKind:    string(key.Scope.Kind),
		ScopeID:      key.Scope.ID,
		QuotaName:    key.Name,
		AlertType:    key.Type,
		Opened:       &opened,
		Message:      message,
	}
	result := r.data.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&alert)
	if result.Error != nil {
		return false, fmt.Errorf("failed to open alert: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CloseAlert 关闭未关闭的告警
func (r *alertRepo) CloseAlert(ctx context.Context, key biz.AlertKey) (bool, error) {
	now := time.Now()
	result := r.data.db.WithContext(ctx).Model(&model.QuotaAlert{}).
		Scopes(openAlertScope(key)).
		Updates(map[string]interface{}{"closed_at": &now, "opened": nil})
	if result.Error != nil {
		return false, fmt.Errorf("failed to close alert: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// alertPublisher 告警发布：启用 RocketMQ 时发送到告警 topic，否则只记录日志
type alertPublisher struct {
	data  *Data
	topic string
	log   *log.Helper
}

// NewAlertPublisher 创建告警发布器
func NewAlertPublisher(data *Data, c *conf.Bootstrap, logger log.Logger) biz.AlertPublisher {
	topic := "quota_alert_events"
	if c != nil && c.Data != nil && c.Data.Rocketmq != nil && c.Data.Rocketmq.AlertTopic != "" {
		topic = c.Data.Rocketmq.AlertTopic
	}
	return &alertPublisher{
		data:  data,
		topic: topic,
		log:   log.NewHelper(logger),
	}
}

// PublishAlert 发布告警
func (p *alertPublisher) PublishAlert(ctx context.Context, event *biz.AlertEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if p.data.mq == nil {
		p.log.Infof("alert: %s", string(body))
		return nil
	}

	msg := primitive.NewMessage(p.topic, body)
	msg.WithTag(event.Type)
	msg.WithKeys([]string{event.Scope.String()})
	if _, err := p.data.mq.SendSync(ctx, msg); err != nil {
		p.log.Errorf("Send RocketMQ failed: %v", err)
		return err
	}
	return nil
}
