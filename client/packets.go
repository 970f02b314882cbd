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

package client

import (
	"go.uber.org/zap"

	"hoopshot/court"
	"hoopshot/protocol"
)

// Send queues a message of type t.
func (c *Client) Send(t string, payload any) {
	frame, err := protocol.Encode(c.codec, t, payload)
	if err != nil {
		c.log.Error("Marshal message error", zap.String("type", t), zap.Error(err))
		return
	}
	c.push(frame)
}

func (c *Client) SendWelcome(sessionID string, tickHz int) {
	c.Send(protocol.MsgWelcome, protocol.Welcome{
		SessionID: sessionID,
		TickHz:    tickHz,
		Codec:     c.codec.Name(),
	})
}

func (c *Client) SendView(v court.View) {
	c.Send(protocol.MsgView, v)
}

func (c *Client) SendCue(cue court.Cue) {
	c.Send(protocol.MsgCue, protocol.Cue{Name: string(cue)})
}

// SendRejected tells the client that its input of type input was refused.
func (c *Client) SendRejected(input, reason string) {
	c.log.Debug("Input rejected", zap.String("input", input), zap.String("reason", reason))
	c.Send(protocol.MsgRejected, protocol.Rejected{Input: input, Reason: reason})
}
