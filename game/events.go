// game/events.go
package game

import (
	"github.com/maxiusi3/wordchallenge-sub000/logger"
)

// LoggingEventSink 把核心事件写入结构化日志。事件是即发即弃的，
// 丢失不影响对局状态。
type LoggingEventSink struct{}

func NewLoggingEventSink() *LoggingEventSink {
	return &LoggingEventSink{}
}

func (s *LoggingEventSink) Dispatch(event string, fields map[string]interface{}) {
	kv := make([]interface{}, 0, len(fields)*2+2)
	kv = append(kv, "event", event)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	logger.Log.Infow("game event", kv...)
}
