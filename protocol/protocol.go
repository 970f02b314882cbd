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

// Package protocol defines the messages exchanged over a game session's
// WebSocket. Every frame carries one Envelope: a type tag and a payload
// encoded with the session's codec.
package protocol

const (
	// Client to server.
	MsgPress   = "press"
	MsgRelease = "release"
	MsgSubmit  = "submit"

	// Server to client.
	MsgWelcome  = "welcome"
	MsgView     = "view"
	MsgCue      = "cue"
	MsgRejected = "rejected"
)

// Envelope is a decoded frame. P holds the raw payload bytes, still in the
// encoding of the codec that read the frame.
type Envelope struct {
	T string
	P []byte
}

// Submit asks to record the current score under Name.
type Submit struct {
	Name string `json:"name"`
}

// Welcome is the first message of every session.
type Welcome struct {
	SessionID string `json:"sessionId"`
	TickHz    int    `json:"tickHz"`
	Codec     string `json:"codec"`
}

// Cue tells the client to play a sound cue, served at /sfx/<Name>.wav.
type Cue struct {
	Name string `json:"name"`
}

// Rejected reports an input the server refused, such as an invalid
// leaderboard submission.
type Rejected struct {
	Input  string `json:"input"`
	Reason string `json:"reason"`
}
