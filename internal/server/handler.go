package server

import (
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jzx17/gothreadpool/pkg/request"
	"github.com/jzx17/gothreadpool/pkg/types"
)

// Status lines written ahead of the body
const (
	StatusOK               = "HTTP/1.1 200 OK"
	StatusNotFound         = "HTTP/1.1 404 Not Found"
	StatusMethodNotAllowed = "HTTP/1.1 405 Method Not Allowed"
)

const defaultReadTimeout = 30 * time.Second

// HandlerConfig defines configuration for the connection handler
type HandlerConfig struct {
	// Pages renders response bodies
	Pages *Pages

	// SleepDelay is how long /sleep requests wait before answering
	SleepDelay time.Duration

	// ReadBufferSize bounds the bytes read from a connection
	ReadBufferSize int

	// ReadTimeout bounds the wait for the request bytes (optional)
	ReadTimeout time.Duration

	// Clock for the sleep delay (optional, defaults to real clock)
	Clock types.Clock

	// Logger (optional)
	Logger logrus.FieldLogger
}

// Response is a status line and a body
type Response struct {
	Status string
	Body   string
}

// Bytes renders the response in wire format
func (r Response) Bytes() []byte {
	return []byte(r.Status + "\r\n\r\n" + r.Body)
}

// Handler answers a single request per connection
type Handler struct {
	pages       *Pages
	sleepDelay  time.Duration
	bufSize     int
	readTimeout time.Duration
	clock       types.Clock
	logger      logrus.FieldLogger
}

// NewHandler creates a Handler
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.Pages == nil {
		pages, err := LoadPages("")
		if err != nil {
			return nil, err
		}
		cfg.Pages = pages
	}
	if cfg.ReadBufferSize <= 0 {
		return nil, fmt.Errorf("read buffer size must be positive, got %d", cfg.ReadBufferSize)
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	return &Handler{
		pages:       cfg.Pages,
		sleepDelay:  cfg.SleepDelay,
		bufSize:     cfg.ReadBufferSize,
		readTimeout: cfg.ReadTimeout,
		clock:       types.OrRealClock(cfg.Clock),
		logger:      cfg.Logger,
	}, nil
}

// ServeConn reads one request from conn, writes the response and closes conn
func (h *Handler) ServeConn(conn net.Conn) {
	defer conn.Close()

	log := h.logger.WithField("remote", conn.RemoteAddr().String())

	if err := conn.SetReadDeadline(time.Now().Add(h.readTimeout)); err != nil {
		log.WithError(err).Warn("Failed to set read deadline")
	}

	buf := make([]byte, h.bufSize)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		log.WithError(err).Warn("Failed to read request")
		return
	}

	raw := string(buf[:n])
	log.Debugf("Request: %s", raw)

	resp, err := h.Respond(request.ParseRequest(raw))
	if err != nil {
		log.WithError(err).Error("Failed to build response")
		return
	}

	if _, err := conn.Write(resp.Bytes()); err != nil {
		log.WithError(err).Warn("Failed to write response")
		return
	}
	log.Infof("Response: %s", resp.Status)
}

// Respond decides the status and body for a parsed request
func (h *Handler) Respond(req map[string]string) (Response, error) {
	method := request.Method(req)
	endpoint := request.Endpoint(req)
	data := PageData{Method: method, Endpoint: endpoint}

	status, page := StatusNotFound, PageNotFound
	switch {
	case !isValidEndpoint(endpoint):
	case method != "GET" && method != "POST":
		status, page = StatusMethodNotAllowed, PageMethodNotAllowed
	case isSleepEndpoint(endpoint):
		h.clock.Sleep(h.sleepDelay)
		data.Delay = h.sleepDelay
		status, page = StatusOK, PageSleep
	default:
		status, page = StatusOK, PageHello
	}

	body, err := h.pages.Render(page, data)
	if err != nil {
		return Response{}, err
	}
	return Response{Status: status, Body: body}, nil
}

func isValidEndpoint(endpoint string) bool {
	return endpoint == "/" || isSleepEndpoint(endpoint)
}

func isSleepEndpoint(endpoint string) bool {
	return strings.Contains(endpoint, "/sleep")
}
