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

// Package static serves the built browser client from a directory.
//
// Paths that do not name a file inside the root fall back to the index
// document, so client side routes always load the app.
package static

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"go.uber.org/zap"
)

var mimeTypes = map[string]string{
	".html": "text/html",
	".js":   "text/javascript",
	".css":  "text/css",
	".json": "application/json",
	".png":  "image/png",
	".jpg":  "image/jpg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
}

const defaultType = "application/octet-stream"

// ContentType maps a file name to the type sent with it.
func ContentType(name string) string {
	if t, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return defaultType
}

type Server struct {
	log   *zap.Logger
	root  string
	index string
}

// New returns a Server for the files under root. index is the fallback
// document, relative to root.
func New(log *zap.Logger, root, index string) *Server {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Server{log: log, root: filepath.Clean(root), index: index}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	name := s.resolve(r.URL.Path)
	content, err := os.ReadFile(name)
	if err != nil {
		code := errorCode(err)
		s.log.Warn("Read static file error", zap.String("path", r.URL.Path), zap.String("code", code), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Server Error: " + code))
		return
	}

	h := w.Header()
	h.Set("Content-Type", ContentType(name))
	h.Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = w.Write(content)
	}
	s.log.Debug("Served", zap.String("path", r.URL.Path), zap.String("file", name))
}

// resolve maps a request path to a regular file under root. Anything else
// becomes the index.
func (s *Server) resolve(urlPath string) string {
	index := filepath.Join(s.root, s.index)
	clean := path.Clean("/" + urlPath)
	if clean == "/" {
		return index
	}
	name := filepath.Join(s.root, filepath.FromSlash(clean))
	if !s.contains(name) {
		return index
	}
	if fi, err := os.Stat(name); err != nil || fi.IsDir() {
		return index
	}
	return name
}

func (s *Server) contains(name string) bool {
	rel, err := filepath.Rel(s.root, name)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "ENOENT"
	case errors.Is(err, fs.ErrPermission):
		return "EACCES"
	case errors.Is(err, syscall.EISDIR):
		return "EISDIR"
	default:
		return "EIO"
	}
}
