package aerox

import (
	"errors"
	"testing"
)

func TestResponseSenderSendSucceedsWithoutCancel(t *testing.T) {
	ch := make(chan Response, 1)
	s := ResponseSender{ch: ch}

	if err := s.Send(Response{MessageID: 1}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	select {
	case resp := <-ch:
		if resp.MessageID != 1 {
			t.Fatalf("got message_id %d, want 1", resp.MessageID)
		}
	default:
		t.Fatal("expected the response to be enqueued")
	}
}

func TestResponseSenderSendFailsAfterCancel(t *testing.T) {
	ch := make(chan Response, 1)
	cancel := make(chan struct{})
	close(cancel)

	s := ResponseSender{ch: ch}.WithCancel(cancel)

	if err := s.Send(Response{MessageID: 1}); !errors.Is(err, ErrSendFailed) {
		t.Fatalf("expected ErrSendFailed, got %v", err)
	}
	select {
	case resp := <-ch:
		t.Fatalf("expected no response to be enqueued, got %+v", resp)
	default:
	}
}

func TestResponseSenderSendFailsOnClosedChannel(t *testing.T) {
	ch := make(chan Response, 1)
	s := ResponseSender{ch: ch}
	close(ch)

	if err := s.Send(Response{MessageID: 1}); !errors.Is(err, ErrSendFailed) {
		t.Fatalf("expected ErrSendFailed, got %v", err)
	}
}
