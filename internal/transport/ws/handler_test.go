package ws

import (
	"reflect"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestReply(t *testing.T) {
	t.Run("ping carries a timestamp", func(t *testing.T) {
		ev, ok := reply(inboundMessage{Type: "ping"})
		if !ok || ev.Type != "pong" {
			t.Fatalf("reply = %+v %v, want pong", ev, ok)
		}
		data, ok := ev.Data.(gin.H)
		if !ok {
			t.Fatalf("data = %T, want gin.H", ev.Data)
		}
		if _, ok := data["timestamp"].(time.Time); !ok {
			t.Errorf("data.timestamp = %v, want a time", data["timestamp"])
		}
	})

	t.Run("subscribe echoes the requested channels", func(t *testing.T) {
		ev, ok := reply(inboundMessage{Type: "subscribe", Channels: []string{"xp", "badges"}})
		if !ok || ev.Type != "subscribed" {
			t.Fatalf("reply = %+v %v, want subscribed", ev, ok)
		}
		data := ev.Data.(gin.H)
		if !reflect.DeepEqual(data["channels"], []string{"xp", "badges"}) {
			t.Errorf("channels = %v, want the request echoed", data["channels"])
		}
	})

	t.Run("subscribe without channels echoes an empty list", func(t *testing.T) {
		ev, _ := reply(inboundMessage{Type: "subscribe"})
		data := ev.Data.(gin.H)
		if got, ok := data["channels"].([]string); !ok || len(got) != 0 {
			t.Errorf("channels = %v, want empty list", data["channels"])
		}
	})

	t.Run("unknown type gets no reply", func(t *testing.T) {
		if _, ok := reply(inboundMessage{Type: "nonsense"}); ok {
			t.Error("unexpected reply to unknown message type")
		}
	})
}
