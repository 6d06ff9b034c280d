// Package handler serves decoded BMP images over websocket to the
// embedded HTML5 viewer.
package handler

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/rcarmo/bmp-html5/bmp"
	"github.com/rcarmo/bmp-html5/internal/config"
	"github.com/rcarmo/bmp-html5/internal/logging"
)

const (
	webSocketReadBufferSize  = 8192
	webSocketWriteBufferSize = 8192 * 2

	// Frame prelude: width and height, little-endian uint32 each.
	framePreludeSize = 8
)

// View upgrades the request to a websocket, decodes the BMP named by the
// file query parameter (resolved under the configured image directory)
// and sends the viewer a single binary frame: an 8-byte width/height
// prelude followed by top-down RGBA pixels.
func View(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  webSocketReadBufferSize,
		WriteBufferSize: webSocketWriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return isAllowedOrigin(r.Header.Get("Origin"))
		},
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Errorf("upgrade websocket: %v", err)

		return
	}

	defer func() {
		if err = wsConn.Close(); err != nil {
			logging.Errorf("error closing websocket: %v", err)
		}
	}()

	cfg := config.GetGlobalConfig()
	if cfg == nil {
		// Fallback for tests that never ran the server startup path.
		cfg, err = config.Load()
		if err != nil {
			logging.Errorf("load config: %v", err)

			return
		}
	}

	name := r.URL.Query().Get("file")
	path, err := resolveImagePath(cfg.Viewer.ImageDir, name)
	if err != nil {
		logging.Warnf("resolve %q: %v", name, err)
		writeCloseError(wsConn, err)

		return
	}

	img, err := decodeWithinLimits(path, &cfg.Viewer)
	if err != nil {
		logging.Warnf("decode %q: %v", name, err)
		writeCloseError(wsConn, err)

		return
	}

	logging.Infof("serving %s (%dx%d)", name, img.Width(), img.Height())

	frame := rgbaFrame(img)
	if err = wsConn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		if !errors.Is(err, websocket.ErrCloseSent) {
			logging.Errorf("failed sending frame to ws: %v", err)
		}

		return
	}

	// Hold the connection until the viewer goes away.
	for {
		if _, _, err = wsConn.ReadMessage(); err != nil {
			return
		}
	}
}

// resolveImagePath joins name onto the image directory and rejects
// anything that escapes it.
func resolveImagePath(imageDir, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("missing file parameter")
	}

	path := filepath.Join(imageDir, name)

	rel, err := filepath.Rel(imageDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("file %q escapes the image directory", name)
	}

	return path, nil
}

func decodeWithinLimits(path string, limits *config.ViewerConfig) (*bmp.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat image: %w", err)
	}

	if info.Size() > limits.MaxFileSize {
		return nil, fmt.Errorf("image is %d bytes, limit is %d", info.Size(), limits.MaxFileSize)
	}

	img, err := bmp.Open(path)
	if err != nil {
		return nil, err
	}

	if img.Width() > limits.MaxWidth || img.Height() > limits.MaxHeight {
		return nil, fmt.Errorf("image is %dx%d, limit is %dx%d",
			img.Width(), img.Height(), limits.MaxWidth, limits.MaxHeight)
	}

	return img, nil
}

// rgbaFrame renders the image top row first as the canvas wants it,
// walking the coordinate iterator so rows come out in display order.
func rgbaFrame(img *bmp.Image) []byte {
	frame := make([]byte, framePreludeSize+img.Width()*img.Height()*4)
	binary.LittleEndian.PutUint32(frame[0:4], uint32(img.Width()))
	binary.LittleEndian.PutUint32(frame[4:8], uint32(img.Height()))

	i := framePreludeSize
	it := img.Coordinates()
	for {
		x, y, ok := it.Next()
		if !ok {
			break
		}

		px := img.GetPixel(x, y)
		frame[i] = px.R
		frame[i+1] = px.G
		frame[i+2] = px.B
		frame[i+3] = 255
		i += 4
	}

	return frame
}

func writeCloseError(wsConn *websocket.Conn, err error) {
	msg := websocket.FormatCloseMessage(websocket.CloseUnsupportedData, err.Error())
	if werr := wsConn.WriteMessage(websocket.CloseMessage, msg); werr != nil {
		logging.Debugf("write close message: %v", werr)
	}
}

func isAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}

	normalized := strings.TrimPrefix(strings.TrimPrefix(origin, "http://"), "https://")
	normalized = strings.TrimSuffix(normalized, "/")

	if strings.HasPrefix(normalized, "localhost") || strings.HasPrefix(normalized, "127.0.0.1") {
		return true
	}

	cfg := config.GetGlobalConfig()
	if cfg == nil {
		return false
	}

	for _, entry := range cfg.Server.AllowedOrigins {
		candidate := strings.TrimSpace(entry)
		if candidate == "" {
			continue
		}

		if candidate == origin || candidate == normalized {
			return true
		}

		if strings.TrimPrefix(candidate, "http://") == normalized || strings.TrimPrefix(candidate, "https://") == normalized {
			return true
		}
	}

	return false
}
