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

package protocol

import (
	"errors"
	"testing"

	"github.com/gorilla/websocket"
)

func TestMessageConstants(t *testing.T) {
	for got, want := range map[string]string{
		MsgPress:    "press",
		MsgRelease:  "release",
		MsgSubmit:   "submit",
		MsgWelcome:  "welcome",
		MsgView:     "view",
		MsgCue:      "cue",
		MsgRejected: "rejected",
	} {
		if got != want {
			t.Fatalf("message type = %q, want %q", got, want)
		}
	}
}

func TestCodecByName(t *testing.T) {
	for name, want := range map[string]Codec{"": JSON, "json": JSON, "msgpack": MsgPack} {
		c, err := CodecByName(name)
		if err != nil {
			t.Fatalf("CodecByName(%q): %v", name, err)
		}
		if c != want {
			t.Errorf("CodecByName(%q) = %s, want %s", name, c.Name(), want.Name())
		}
	}
	if _, err := CodecByName("protobuf"); !errors.Is(err, ErrUnknownCodec) {
		t.Errorf("CodecByName(protobuf) err = %v, want ErrUnknownCodec", err)
	}
}

func TestFrameTypes(t *testing.T) {
	if JSON.FrameType() != websocket.TextMessage {
		t.Error("json should use text frames")
	}
	if MsgPack.FrameType() != websocket.BinaryMessage {
		t.Error("msgpack should use binary frames")
	}
}

func TestJSONPayloadIsInline(t *testing.T) {
	b, err := Encode(JSON, MsgCue, Cue{Name: "score"})
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"t":"cue","p":{"name":"score"}}`; string(b) != want {
		t.Fatalf("Encode = %s, want %s", b, want)
	}

	b, err = Encode(JSON, MsgPress, nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"t":"press"}`; string(b) != want {
		t.Fatalf("Encode bare = %s, want %s", b, want)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []Codec{JSON, MsgPack} {
		t.Run(c.Name(), func(t *testing.T) {
			b, err := Encode(c, MsgSubmit, Submit{Name: "Ada"})
			if err != nil {
				t.Fatal(err)
			}
			env, err := DecodeEnvelope(c, b)
			if err != nil {
				t.Fatal(err)
			}
			if env.T != MsgSubmit {
				t.Fatalf("type = %q, want %q", env.T, MsgSubmit)
			}
			s, err := DecodePayload[Submit](c, env)
			if err != nil {
				t.Fatal(err)
			}
			if s.Name != "Ada" {
				t.Fatalf("name = %q, want Ada", s.Name)
			}
		})
	}
}

func TestDecodeBareEnvelope(t *testing.T) {
	for _, c := range []Codec{JSON, MsgPack} {
		b, err := Encode(c, MsgRelease, nil)
		if err != nil {
			t.Fatal(err)
		}
		env, err := DecodeEnvelope(c, b)
		if err != nil {
			t.Fatalf("%s: %v", c.Name(), err)
		}
		if env.T != MsgRelease {
			t.Errorf("%s: type = %q", c.Name(), env.T)
		}
		if _, err := DecodePayload[Submit](c, env); err == nil {
			t.Errorf("%s: expected error decoding missing payload", c.Name())
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := DecodeEnvelope(JSON, nil); err == nil {
		t.Error("expected error for empty frame")
	}
	if _, err := DecodeEnvelope(JSON, []byte(`{"p":{}}`)); err == nil {
		t.Error("expected error for missing type")
	}
	if _, err := DecodeEnvelope(JSON, []byte(`not json`)); err == nil {
		t.Error("expected error for garbage")
	}
	if _, err := Encode(JSON, "", nil); err == nil {
		t.Error("expected error encoding empty type")
	}
}
