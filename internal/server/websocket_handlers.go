package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/symscan/symscan/internal/reader"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// WebSocketDecodeRequest is a decode request sent over the stream.
type WebSocketDecodeRequest struct {
	Type   string         `json:"type"` // "image" or "pixmap"
	Image  []byte         `json:"image,omitempty"`
	Pixmap *PixmapRequest `json:"pixmap,omitempty"`

	Options *PixmapOptions `json:"options,omitempty"`
}

// WebSocketConnWriter is an interface for writing WebSocket messages.
type WebSocketConnWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// WebSocketDecodeResponse is a decode response sent over the stream.
type WebSocketDecodeResponse struct {
	Type      string          `json:"type"`
	Status    string          `json:"status"` // "completed" or "error"
	Symbols   []reader.Record `json:"symbols,omitempty"`
	Count     int             `json:"count"`
	Error     string          `json:"error,omitempty"`
	ErrorType string          `json:"error_type,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// decodeWebSocketHandler handles WebSocket connections for streaming decode.
func (s *Server) decodeWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

	s.handleWebSocketConnection(conn)
}

// handleWebSocketConnection processes messages from a WebSocket connection.
func (s *Server) handleWebSocketConnection(conn *websocket.Conn) {
	// Set read deadline to prevent hanging connections
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Send ping messages to keep connection alive
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleWebSocketMessage(conn, data)
		}
	}
}

// handleWebSocketMessage processes one decode request message.
func (s *Server) handleWebSocketMessage(conn *websocket.Conn, data []byte) {
	var req WebSocketDecodeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWebSocketError(conn, "invalid_request", fmt.Sprintf("Failed to parse request: %v", err), "")
		return
	}

	requestID := strconv.FormatInt(time.Now().UnixNano(), 10)

	opts := s.applyOverrides(req.Options)

	var records []reader.Record
	start := time.Now()
	switch req.Type {
	case "image":
		if len(req.Image) == 0 {
			s.sendWebSocketError(conn, "invalid_request", "No image data provided", requestID)
			return
		}
		records = s.reader.DecodeImageMulti(req.Image, opts)
	case "pixmap":
		if req.Pixmap == nil {
			s.sendWebSocketError(conn, "invalid_request", "No pixmap provided", requestID)
			return
		}
		pm, err := pixmapFromRequest(req.Pixmap)
		if err != nil {
			s.sendWebSocketError(conn, "invalid_request", err.Error(), requestID)
			return
		}
		records = s.reader.DecodePixmapMulti(pm, opts)
	default:
		s.sendWebSocketError(conn, "invalid_request", "Unsupported request type: "+req.Type, requestID)
		return
	}
	duration := time.Since(start)

	if len(records) == 1 && records[0].Error != "" && records[0].Format == "" {
		decodeRequestsTotal.WithLabelValues("websocket", "error").Inc()
		s.sendWebSocketError(conn, "decode_error", records[0].Error, requestID)
		return
	}

	decodeRequestsTotal.WithLabelValues("websocket", "success").Inc()
	decodeDuration.WithLabelValues("websocket").Observe(duration.Seconds())
	symbolsDecoded.WithLabelValues("websocket").Observe(float64(countDecoded(records)))

	if records == nil {
		records = []reader.Record{}
	}
	s.sendWebSocketResponse(conn, WebSocketDecodeResponse{
		Type:      "decode_response",
		Status:    "completed",
		Symbols:   records,
		Count:     len(records),
		RequestID: requestID,
	})
}

func pixmapFromRequest(req *PixmapRequest) (reader.Pixmap, error) {
	switch req.Layout {
	case "rgba":
		return reader.RGBAPixmap(req.Width, req.Height, req.Pixels), nil
	case "gray", "":
		return reader.GrayPixmap(req.Width, req.Height, req.Pixels), nil
	default:
		return reader.Pixmap{}, fmt.Errorf("unsupported pixel layout: %s", req.Layout)
	}
}

// sendWebSocketResponse sends a response message over WebSocket.
func (s *Server) sendWebSocketResponse(conn WebSocketConnWriter, response WebSocketDecodeResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}

// sendWebSocketError sends an error message over WebSocket.
func (s *Server) sendWebSocketError(conn WebSocketConnWriter, errorType, message, requestID string) {
	response := WebSocketDecodeResponse{
		Type:      "error",
		Status:    "error",
		Error:     message,
		ErrorType: errorType,
		RequestID: requestID,
	}

	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket error response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket error message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}
