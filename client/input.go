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

	"hoopshot/protocol"
)

func clientPress(_ protocol.Envelope, c *Client) error {
	c.inputs.Press()
	return nil
}

func clientRelease(_ protocol.Envelope, c *Client) error {
	c.inputs.Release()
	return nil
}

func clientSubmit(env protocol.Envelope, c *Client) error {
	s, err := protocol.DecodePayload[protocol.Submit](c.codec, env)
	if err != nil {
		c.log.Debug("Invalid submit payload", zap.Error(err))
		c.SendRejected(protocol.MsgSubmit, "invalid submission")
		return nil
	}
	c.inputs.Submit(s.Name)
	return nil
}
