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

package game

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"hoopshot/court"
	"hoopshot/protocol"
	"hoopshot/sfx"
	"hoopshot/tuning"
)

var sounds = sfx.Render(zap.NewNop(), sfx.DefaultConfig())

func newTestGame(t *testing.T, edit func(*Config)) (*Game, *httptest.Server) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>hoopshot</html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	config := DefaultConfig()
	config.StaticDir = dir
	config.Seed = 7
	if edit != nil {
		edit(&config)
	}
	tu := tuning.Default()
	g := NewGame(zap.NewNop(), config, &tu, sounds)
	srv := httptest.NewServer(g.Handler())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := g.Shutdown(ctx); err != nil {
			t.Error(err)
		}
		srv.Close()
	})
	return g, srv
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
}

func dialSession(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(wsURL(srv, query), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = ws.Close() })
	_ = ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	return ws
}

// next reads frames until one of type typ arrives.
func next(t *testing.T, ws *websocket.Conn, codec protocol.Codec, typ string) protocol.Envelope {
	t.Helper()
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %s: %v", typ, err)
		}
		env, err := protocol.DecodeEnvelope(codec, data)
		if err != nil {
			t.Fatal(err)
		}
		if env.T == typ {
			return env
		}
	}
}

func TestStaticAndSounds(t *testing.T) {
	_, srv := newTestGame(t, nil)

	resp, err := http.Get(srv.URL + "/some/route")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "<html>hoopshot</html>" {
		t.Errorf("GET /some/route = %d %q", resp.StatusCode, body)
	}

	resp, err = http.Get(srv.URL + "/sfx/score.wav")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "audio/wav" {
		t.Errorf("GET /sfx/score.wav = %d %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	resp, err = http.Get(srv.URL + "/sfx/unknown.wav")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /sfx/unknown.wav = %d, want 404", resp.StatusCode)
	}
}

func TestSessionHandshake(t *testing.T) {
	for _, codec := range []protocol.Codec{protocol.JSON, protocol.MsgPack} {
		t.Run(codec.Name(), func(t *testing.T) {
			g, srv := newTestGame(t, nil)
			ws := dialSession(t, srv, "?codec="+codec.Name())

			env := next(t, ws, codec, protocol.MsgWelcome)
			w, err := protocol.DecodePayload[protocol.Welcome](codec, env)
			if err != nil {
				t.Fatal(err)
			}
			if w.SessionID == "" || w.TickHz != 60 || w.Codec != codec.Name() {
				t.Errorf("welcome = %+v", w)
			}
			env = next(t, ws, codec, protocol.MsgView)
			v, err := protocol.DecodePayload[court.View](codec, env)
			if err != nil {
				t.Fatal(err)
			}
			if v.Message == "" || v.Accuracy != "0.0" {
				t.Errorf("first view = %+v", v)
			}
			if g.Len() != 1 {
				t.Errorf("%d sessions, want 1", g.Len())
			}
		})
	}
}

func TestSessionPlays(t *testing.T) {
	_, srv := newTestGame(t, nil)
	ws := dialSession(t, srv, "")
	next(t, ws, protocol.JSON, protocol.MsgWelcome)

	for _, frame := range []string{`{"t":"press"}`, `{"t":"release"}`} {
		if err := ws.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			t.Fatal(err)
		}
		time.Sleep(60 * time.Millisecond)
	}
	env := next(t, ws, protocol.JSON, protocol.MsgCue)
	cue, err := protocol.DecodePayload[protocol.Cue](protocol.JSON, env)
	if err != nil || cue.Name != string(court.CueLaunch) {
		t.Fatalf("cue = %+v, %v", cue, err)
	}

	if err := ws.WriteMessage(websocket.TextMessage, []byte(`{"t":"submit","p":{"name":"Ada"}}`)); err != nil {
		t.Fatal(err)
	}
	env = next(t, ws, protocol.JSON, protocol.MsgRejected)
	r, err := protocol.DecodePayload[protocol.Rejected](protocol.JSON, env)
	if err != nil || r.Input != protocol.MsgSubmit {
		t.Fatalf("rejected = %+v, %v", r, err)
	}
}

func TestSessionRefusals(t *testing.T) {
	dialStatus := func(url string) int {
		ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			t.Cleanup(func() { _ = ws.Close() })
			return http.StatusSwitchingProtocols
		}
		if resp == nil {
			t.Fatal(err)
		}
		return resp.StatusCode
	}

	_, srv := newTestGame(t, func(c *Config) { c.MaxSessions = 1 })
	if got := dialStatus(wsURL(srv, "")); got != http.StatusSwitchingProtocols {
		t.Fatalf("first session: %d", got)
	}
	if got := dialStatus(wsURL(srv, "")); got != http.StatusServiceUnavailable {
		t.Errorf("over capacity: %d, want 503", got)
	}

	_, srv = newTestGame(t, func(c *Config) {
		c.SessionLimiter = Limiter{Every: duration{time.Hour}, N: 1}
	})
	if got := dialStatus(wsURL(srv, "?codec=yaml")); got != http.StatusBadRequest {
		t.Errorf("unknown codec: %d, want 400", got)
	}
	if got := dialStatus(wsURL(srv, "")); got != http.StatusTooManyRequests {
		t.Errorf("rate limited: %d, want 429", got)
	}
}

func TestShutdownClosesSessions(t *testing.T) {
	g, srv := newTestGame(t, nil)
	ws := dialSession(t, srv, "")
	next(t, ws, protocol.JSON, protocol.MsgWelcome)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.Shutdown(ctx); err != nil {
		t.Fatal(err)
	}
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				t.Errorf("err = %v, want normal closure", err)
			}
			break
		}
	}
	if g.Len() != 0 {
		t.Errorf("%d sessions left after shutdown", g.Len())
	}
	if _, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil); err == nil {
		t.Error("dial after shutdown should fail")
	} else if resp != nil {
		resp.Body.Close()
	}
}
