package queue

import (
	"encoding/json"
	"testing"

	"github.com/suhome/internal/config"
)

func TestDisabledClientIsNoop(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueInvoiceEmail(InvoiceEmailPayload{OrderID: 1}); err != nil {
		t.Fatalf("disabled enqueue should be noop: %v", err)
	}
	if err := client.EnqueueOrderStatusEmail(OrderStatusEmailPayload{OrderID: 1, Status: "in_transit"}); err != nil {
		t.Fatalf("disabled enqueue should be noop: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	var nilClient *Client
	if nilClient.Enabled() {
		t.Fatalf("nil client should be disabled")
	}
}

func TestInvoiceEmailTaskPayload(t *testing.T) {
	task, err := NewInvoiceEmailTask(InvoiceEmailPayload{OrderID: 9, Email: "a@b.com"})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskInvoiceEmail {
		t.Fatalf("unexpected type: %s", task.Type())
	}
	var payload InvoiceEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("decode payload failed: %v", err)
	}
	if payload.OrderID != 9 || payload.Email != "a@b.com" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, serverCfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("unexpected addr: %s", opt.Addr)
	}
	if serverCfg.Concurrency != 10 || serverCfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", serverCfg)
	}
}
