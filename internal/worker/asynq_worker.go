package worker

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/gaubong-next/internal/logger"
	"github.com/gaubong-next/internal/provider"
	"github.com/gaubong-next/internal/queue"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskStockAlert, c.handleStockAlert)
}

// handleStockAlert 库存告警：重读最新库存再落告警日志，
// 任务入队与消费之间库存可能已经恢复
func (c *Consumer) handleStockAlert(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_stock_alert_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.StockAlertPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_stock_alert_unmarshal_failed", "error", err)
		return err
	}
	if payload.ProductID == 0 {
		logger.Debugw("worker_stock_alert_skip_invalid_payload", "product_id", payload.ProductID)
		return nil
	}

	product, err := c.ProductRepo.GetByID(payload.ProductID)
	if err != nil {
		logger.Warnw("worker_stock_alert_fetch_product_failed", "product_id", payload.ProductID, "error", err)
		return err
	}
	if product == nil || product.IsTrashed() {
		logger.Debugw("worker_stock_alert_skip_product_gone", "product_id", payload.ProductID)
		return nil
	}
	if product.StockQuantity > payload.StockQuantity {
		logger.Debugw("worker_stock_alert_skip_restocked",
			"product_id", product.ID,
			"stock_quantity", product.StockQuantity,
		)
		return nil
	}

	logger.Warnw("stock_alert",
		"product_id", product.ID,
		"product_name", product.Name,
		"sku", product.SKU,
		"stock_status", product.StockStatus,
		"stock_quantity", product.StockQuantity,
	)
	return nil
}
