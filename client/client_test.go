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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"hoopshot/court"
	"hoopshot/protocol"
)

type recorder struct{ events chan string }

func (r *recorder) Press()             { r.events <- "press" }
func (r *recorder) Release()           { r.events <- "release" }
func (r *recorder) Submit(name string) { r.events <- "submit:" + name }

func (r *recorder) expect(t *testing.T, want string) {
	t.Helper()
	select {
	case got := <-r.events:
		if got != want {
			t.Fatalf("input = %q, want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %q", want)
	}
}

var upgrader = websocket.Upgrader{}

// dial starts a server that runs one Client and connects to it.
func dial(t *testing.T, codec protocol.Codec, limiter *rate.Limiter) (*websocket.Conn, *recorder, *Client) {
	t.Helper()
	rec := &recorder{events: make(chan string, 16)}
	clients := make(chan *Client, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error(err)
			return
		}
		c := New(zap.NewNop(), conn, codec, rec, limiter)
		clients <- c
		c.Start()
	}))
	t.Cleanup(srv.Close)

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = ws.Close() })
	_ = ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	return ws, rec, <-clients
}

func send(t *testing.T, ws *websocket.Conn, codec protocol.Codec, typ string, payload any) {
	t.Helper()
	frame, err := protocol.Encode(codec, typ, payload)
	if err != nil {
		t.Fatal(err)
	}
	if err := ws.WriteMessage(codec.FrameType(), frame); err != nil {
		t.Fatal(err)
	}
}

func receive(t *testing.T, ws *websocket.Conn, codec protocol.Codec) protocol.Envelope {
	t.Helper()
	mt, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if mt != codec.FrameType() {
		t.Fatalf("frame type %d, want %d", mt, codec.FrameType())
	}
	env, err := protocol.DecodeEnvelope(codec, data)
	if err != nil {
		t.Fatal(err)
	}
	return env
}

func TestInputsForwarded(t *testing.T) {
	for _, codec := range []protocol.Codec{protocol.JSON, protocol.MsgPack} {
		t.Run(codec.Name(), func(t *testing.T) {
			ws, rec, _ := dial(t, codec, nil)
			send(t, ws, codec, protocol.MsgPress, nil)
			send(t, ws, codec, protocol.MsgRelease, nil)
			send(t, ws, codec, protocol.MsgSubmit, protocol.Submit{Name: "Ada"})
			rec.expect(t, "press")
			rec.expect(t, "release")
			rec.expect(t, "submit:Ada")
		})
	}
}

func TestBrowserJSON(t *testing.T) {
	ws, rec, _ := dial(t, protocol.JSON, nil)
	if err := ws.WriteMessage(websocket.TextMessage, []byte(`{"t":"submit","p":{"name":"Lin"}}`)); err != nil {
		t.Fatal(err)
	}
	rec.expect(t, "submit:Lin")
}

func TestUnknownTypeIgnored(t *testing.T) {
	ws, rec, _ := dial(t, protocol.JSON, nil)
	send(t, ws, protocol.JSON, "dance", nil)
	send(t, ws, protocol.JSON, protocol.MsgPress, nil)
	rec.expect(t, "press")
}

func TestSendMessages(t *testing.T) {
	for _, codec := range []protocol.Codec{protocol.JSON, protocol.MsgPack} {
		t.Run(codec.Name(), func(t *testing.T) {
			ws, _, c := dial(t, codec, nil)
			c.SendWelcome("abc", 60)
			c.SendCue(court.CueScore)
			c.SendView(court.View{Score: 3, Message: "hi"})

			env := receive(t, ws, codec)
			w, err := protocol.DecodePayload[protocol.Welcome](codec, env)
			if err != nil || env.T != protocol.MsgWelcome {
				t.Fatalf("welcome: %q %v", env.T, err)
			}
			if w.SessionID != "abc" || w.TickHz != 60 || w.Codec != codec.Name() {
				t.Errorf("welcome = %+v", w)
			}

			env = receive(t, ws, codec)
			cue, err := protocol.DecodePayload[protocol.Cue](codec, env)
			if err != nil || cue.Name != "score" {
				t.Errorf("cue = %+v, %v", cue, err)
			}

			env = receive(t, ws, codec)
			v, err := protocol.DecodePayload[court.View](codec, env)
			if err != nil || env.T != protocol.MsgView {
				t.Fatalf("view: %q %v", env.T, err)
			}
			if v.Score != 3 || v.Message != "hi" {
				t.Errorf("view = %+v", v)
			}
		})
	}
}

func TestRateLimitedInput(t *testing.T) {
	ws, rec, _ := dial(t, protocol.JSON, rate.NewLimiter(rate.Every(time.Hour), 1))
	send(t, ws, protocol.JSON, protocol.MsgPress, nil)
	send(t, ws, protocol.JSON, protocol.MsgRelease, nil)
	rec.expect(t, "press")

	env := receive(t, ws, protocol.JSON)
	if env.T != protocol.MsgRejected {
		t.Fatalf("got %q, want rejected", env.T)
	}
	r, err := protocol.DecodePayload[protocol.Rejected](protocol.JSON, env)
	if err != nil || r.Input != protocol.MsgRelease {
		t.Errorf("rejected = %+v, %v", r, err)
	}
	select {
	case got := <-rec.events:
		t.Errorf("limited input reached the sink: %q", got)
	default:
	}
}

func TestBadSubmitIsRejected(t *testing.T) {
	ws, rec, _ := dial(t, protocol.JSON, nil)
	send(t, ws, protocol.JSON, protocol.MsgSubmit, nil)
	if err := ws.WriteMessage(websocket.TextMessage, []byte(`{"t":"submit","p":{"name":5}}`)); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		env := receive(t, ws, protocol.JSON)
		if env.T != protocol.MsgRejected {
			t.Fatalf("got %q, want rejected", env.T)
		}
		r, err := protocol.DecodePayload[protocol.Rejected](protocol.JSON, env)
		if err != nil || r.Input != protocol.MsgSubmit {
			t.Errorf("rejected = %+v, %v", r, err)
		}
	}

	// The session survives and still takes input.
	send(t, ws, protocol.JSON, protocol.MsgSubmit, protocol.Submit{Name: "Ada"})
	rec.expect(t, "submit:Ada")
}

func TestMalformedFrameDisconnects(t *testing.T) {
	ws, _, _ := dial(t, protocol.JSON, nil)
	if err := ws.WriteMessage(websocket.TextMessage, []byte("garbage")); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ws.ReadMessage(); err == nil {
		t.Fatal("expected the server to close the connection")
	}
}

func TestCloseFlushesQueue(t *testing.T) {
	ws, _, c := dial(t, protocol.JSON, nil)
	c.SendCue(court.CueMiss)
	c.Close()

	env := receive(t, ws, protocol.JSON)
	if env.T != protocol.MsgCue {
		t.Fatalf("got %q, want cue", env.T)
	}
	_, _, err := ws.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("err = %v, want normal closure", err)
	}
}

func TestPushAfterCloseAndOverflow(t *testing.T) {
	c := New(zap.NewNop(), nil, protocol.JSON, nil, nil)
	for i := 0; i < queueSize+10; i++ {
		c.SendCue(court.CueLaunch)
	}
	if got := len(c.queue); got != queueSize {
		t.Fatalf("queue length %d, want %d", got, queueSize)
	}
	c.Close()
	c.Close()
	c.SendCue(court.CueLaunch)
}
