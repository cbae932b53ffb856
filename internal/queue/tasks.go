package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/gaubong-next/internal/constants"
)

const (
	// TaskStockAlert 库存告警任务
	TaskStockAlert = constants.TaskStockAlert
)

// StockAlertPayload 库存告警任务载荷
type StockAlertPayload struct {
	ProductID     uint   `json:"product_id"`
	StockStatus   string `json:"stock_status"`
	StockQuantity int    `json:"stock_quantity"`
}

// NewStockAlertTask 构建库存告警任务
func NewStockAlertTask(payload StockAlertPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStockAlert, data), nil
}

// ParseStockAlertPayload 解析库存告警任务载荷
func ParseStockAlertPayload(task *asynq.Task) (StockAlertPayload, error) {
	var payload StockAlertPayload
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
