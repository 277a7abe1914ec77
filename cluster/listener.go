package cluster

import (
	"context"
	"net"

	"github.com/coder/websocket"
)

// wsListener implements net.Listener over websocket connections accepted
// by the http handler, so the irpc server can serve them.
type wsListener struct {
	ch     chan *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
	addr   wsAddr
}

func newWSListener(addr string) *wsListener {
	ctx, cancel := context.WithCancel(context.Background())
	return &wsListener{
		ch:     make(chan *websocket.Conn),
		ctx:    ctx,
		cancel: cancel,
		addr:   wsAddr{addr: addr},
	}
}

// handoff passes c to Accept. It closes c and reports false when the
// listener is closed or ctx ends first.
func (l *wsListener) handoff(ctx context.Context, c *websocket.Conn) bool {
	select {
	case l.ch <- c:
		return true
	case <-l.ctx.Done():
	case <-ctx.Done():
	}
	c.CloseNow()
	return false
}

func (l *wsListener) Accept() (net.Conn, error) {
	select {
	case c := <-l.ch:
		return websocket.NetConn(l.ctx, c, websocket.MessageBinary), nil
	case <-l.ctx.Done():
		return nil, net.ErrClosed
	}
}

func (l *wsListener) Addr() net.Addr {
	return l.addr
}

// Close stops Accept and closes every connection it returned.
func (l *wsListener) Close() error {
	l.cancel()
	return nil
}

// wsAddr implements net.Addr
type wsAddr struct {
	addr string
}

func (a wsAddr) Network() string {
	return "ws"
}

func (a wsAddr) String() string {
	return a.addr
}
