package queue

import "testing"

func TestStockAlertTaskRoundTrip(t *testing.T) {
	task, err := NewStockAlertTask(StockAlertPayload{
		ProductID:     42,
		StockStatus:   "outofstock",
		StockQuantity: 0,
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if task.Type() != TaskStockAlert {
		t.Fatalf("task type want %s got %s", TaskStockAlert, task.Type())
	}

	payload, err := ParseStockAlertPayload(task)
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.ProductID != 42 || payload.StockStatus != "outofstock" || payload.StockQuantity != 0 {
		t.Fatalf("payload mismatch: %+v", payload)
	}
}

func TestClientNilSafety(t *testing.T) {
	var client *Client
	if client.Enabled() {
		t.Fatal("nil client must report disabled")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("nil client close want nil got %v", err)
	}
	if err := client.EnqueueStockAlert(1, "outofstock", 0); err != nil {
		t.Fatalf("nil client enqueue want silent skip got %v", err)
	}
}
