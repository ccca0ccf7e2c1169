package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/user/stream-harness/internal/domain/mocks"
)

func TestForwardUseCase_Forward(t *testing.T) {
	t.Run("publishes under fixed key", func(t *testing.T) {
		publisher := &mocks.MockPublisher{}
		uc := NewForwardUseCase(publisher, testLogger())

		frame := []byte(`{"user_id":"User-1","event":"play"}`)
		if err := uc.Forward(context.Background(), frame); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		records := publisher.Records()
		if len(records) != 1 {
			t.Fatalf("expected 1 published record, got %d", len(records))
		}
		if string(records[0].Key) != "log" {
			t.Errorf("expected key %q, got %q", "log", records[0].Key)
		}
		if string(records[0].Value) != string(frame) {
			t.Errorf("frame was modified in transit: got %s", records[0].Value)
		}
	})

	t.Run("propagates publish error", func(t *testing.T) {
		publisher := &mocks.MockPublisher{PublishErr: errors.New("broker unavailable")}
		uc := NewForwardUseCase(publisher, testLogger())

		if err := uc.Forward(context.Background(), []byte("x")); err == nil {
			t.Fatal("expected an error, got nil")
		}
	})
}
