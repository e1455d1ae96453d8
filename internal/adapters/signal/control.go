package signal

import "github.com/dkeye/CodeRoom/internal/domain"

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	ctl.sendJSON(conn, domain.SimpleEvent{Type: domain.EventPong})
}

// reject queues a single typed event and closes the connection after it
// has been written.
func (ctl *SignalWSController) reject(conn *WsSignalConn, eventType string) {
	ctl.sendJSON(conn, domain.SimpleEvent{Type: eventType})
	conn.Close()
}
