package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 事件处理标记：消费端短路重复投递用，仅为性能优化。
// 正确性由数据库唯一索引兜底，Redis 不可用时标记全部视为不存在。
const eventMarkTTL = 30 * time.Minute

func eventMarkKey(taskName string, orderID uint) string {
	return fmt.Sprintf("event:%s:%d", taskName, orderID)
}

// MarkEventProcessed 记录订单事件已处理
func MarkEventProcessed(ctx context.Context, taskName string, orderID uint) error {
	if !Enabled() {
		return nil
	}
	return redisClient.Set(ctx, buildKey(eventMarkKey(taskName, orderID)), "1", eventMarkTTL).Err()
}

// IsEventProcessed 判断订单事件是否已处理过
func IsEventProcessed(ctx context.Context, taskName string, orderID uint) (bool, error) {
	if !Enabled() {
		return false, nil
	}
	_, err := redisClient.Get(ctx, buildKey(eventMarkKey(taskName, orderID))).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
