// This file is part of go-mc/server project.
// Copyright (C) 2023.  Tnze
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package client is the server side of one browser connection. It reads
// input frames off the WebSocket and hands them to an Inputs sink, and it
// writes queued frames back from a single goroutine.
package client

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"hoopshot/protocol"
)

const (
	queueSize    = 256
	readLimit    = 1 << 16
	pongWait     = 60 * time.Second
	pingPeriod   = 25 * time.Second
	writeTimeout = 10 * time.Second
)

// Inputs receives the player's actions. Implementations must be safe to
// call from the client's receive goroutine.
type Inputs interface {
	Press()
	Release()
	Submit(name string)
}

// Client is one connected player.
type Client struct {
	log     *zap.Logger
	conn    *websocket.Conn
	codec   protocol.Codec
	inputs  Inputs
	limiter *rate.Limiter

	mu     sync.Mutex
	queue  chan []byte
	closed bool
}

// Handler processes one decoded envelope. A returned error drops the
// connection.
type Handler func(env protocol.Envelope, c *Client) error

// New wraps conn. limiter throttles input frames; nil means unlimited.
func New(log *zap.Logger, conn *websocket.Conn, codec protocol.Codec, inputs Inputs, limiter *rate.Limiter) *Client {
	return &Client{
		log:     log,
		conn:    conn,
		codec:   codec,
		inputs:  inputs,
		limiter: limiter,
		queue:   make(chan []byte, queueSize),
	}
}

// Start runs the send and receive loops and returns when either stops.
// The connection is closed on return.
func (c *Client) Start() {
	stopped := make(chan struct{}, 2)
	done := func() {
		stopped <- struct{}{}
	}
	go c.startSend(done)
	go c.startReceive(done)
	<-stopped
	c.Close()
	_ = c.conn.Close()
}

// Close stops accepting frames. Queued frames are still flushed, followed
// by a close frame.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.queue)
	}
}

// push queues a frame. A full queue drops it: views are superseded by the
// next one anyway.
func (c *Client) push(frame []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.queue <- frame:
	default:
		c.log.Debug("Send queue full, frame dropped")
	}
}

func (c *Client) startSend(done func()) {
	defer done()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case frame, ok := <-c.queue:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(c.codec.FrameType(), frame); err != nil {
				c.log.Debug("Send frame fail", zap.Error(err))
				return
			}
		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.Debug("Send ping fail", zap.Error(err))
				return
			}
		}
	}
}

func (c *Client) startReceive(done func()) {
	defer done()
	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		mt, data, err := c.conn.ReadMessage()
		if err != nil {
			c.log.Debug("Receive frame fail", zap.Error(err))
			return
		}
		if mt != c.codec.FrameType() {
			c.log.Debug("Unexpected frame type", zap.Int("type", mt), zap.String("codec", c.codec.Name()))
			return
		}
		env, err := protocol.DecodeEnvelope(c.codec, data)
		if err != nil {
			c.log.Debug("Invalid frame", zap.Int("len", len(data)), zap.Error(err))
			return
		}
		handler, ok := handlers[env.T]
		if !ok {
			c.log.Debug("Unknown message type", zap.String("type", env.T))
			continue
		}
		if c.limiter != nil && !c.limiter.Allow() {
			c.SendRejected(env.T, "rate limited")
			continue
		}
		if err := handler(env, c); err != nil {
			c.log.Error("Handle message error", zap.String("type", env.T), zap.Error(err))
			return
		}
	}
}

var handlers = map[string]Handler{
	protocol.MsgPress:   clientPress,
	protocol.MsgRelease: clientRelease,
	protocol.MsgSubmit:  clientSubmit,
}
