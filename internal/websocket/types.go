package websocket

import (
	"net/url"
	"strings"
	"time"

	"github.com/coder/websocket"
)

// Message types sent to the browser.
const (
	MessageReload = "reload"
)

// Client represents a WebSocket client connection
type Client struct {
	conn         *websocket.Conn
	send         chan []byte
	remoteAddr   string
	lastActivity time.Time
}

// UpdateMessage represents a message sent to the browser
type UpdateMessage struct {
	Type      string    `json:"type"`
	Target    string    `json:"target,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// OriginValidator decides whether a browser origin may open a connection.
type OriginValidator interface {
	IsAllowedOrigin(origin, host string) bool
}

// AllowList accepts same-origin connections and the listed origins.
type AllowList []string

func (a AllowList) IsAllowedOrigin(origin, host string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if strings.EqualFold(u.Host, host) {
		return true
	}

	for _, allowed := range a {
		if strings.EqualFold(strings.TrimSuffix(allowed, "/"), origin) {
			return true
		}
	}

	return false
}
