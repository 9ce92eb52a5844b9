package events

import "github.com/r3labs/sse/v2"

var Server *sse.Server

func Init() {
	server := sse.New()
	server.AutoReplay = false
	Server = server
}

// Publish pushes an event onto a stream, tolerating an uninitialised server
// so library consumers and tests can run without SSE wiring.
func Publish(stream string, data []byte) {
	if Server == nil {
		return
	}
	Server.Publish(stream, &sse.Event{Data: data})
}
