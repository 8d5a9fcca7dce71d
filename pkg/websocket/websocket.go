package websocketPkg

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"ArdenGolang/pkg/generator"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const BackendName = "sidecar"

type generateRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type generateMessage struct {
	Token string `json:"token"`
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

type sidecarClient struct {
	log          *logrus.Logger
	url          string
	maxFragments int
	writeTimeout time.Duration
	dialer       *websocket.Dialer
}

// NewSidecarClient streams generations from a local model process speaking
// the token protocol over a websocket. The URL comes from ASSISTANT_SIDECAR_URL
// when url is empty.
func NewSidecarClient(log *logrus.Logger, url string, maxFragments int) (generator.IGenerator, error) {
	if url == "" {
		url = os.Getenv("ASSISTANT_SIDECAR_URL")
	}
	if url == "" {
		return nil, fmt.Errorf("%w: sidecar URL not configured", generator.ErrBackendUnavailable)
	}

	return &sidecarClient{
		log:          log,
		url:          url,
		maxFragments: maxFragments,
		writeTimeout: 5 * time.Second,
		dialer: &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: 10 * time.Second,
		},
	}, nil
}

func (c *sidecarClient) Name() string {
	return BackendName
}

func (c *sidecarClient) Generate(ctx context.Context, prompt generator.Prompt) (*generator.Stream, error) {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to %s: %v", generator.ErrBackendUnavailable, c.url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		if err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout)); err != nil {
			c.log.WithError(err).Warn("Error sending pong to sidecar")
		}
		return nil
	})

	payload, err := jsoniter.Marshal(generateRequest{
		Prompt:      prompt.Format(),
		MaxTokens:   c.maxFragments,
		Temperature: 0.1,
	})
	if err != nil {
		conn.Close()
		return nil, err
	}

	conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: error sending prompt: %v", generator.ErrBackendUnavailable, err)
	}
	conn.SetWriteDeadline(time.Time{})

	return generator.Start(ctx, BackendName, c.log, func(ctx context.Context, emit func(string) bool) error {
		var once sync.Once
		closeConn := func() { once.Do(func() { conn.Close() }) }
		defer closeConn()

		// ReadMessage has no context; closing the socket unblocks it.
		stop := context.AfterFunc(ctx, closeConn)
		defer stop()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("error reading sidecar message: %w", err)
			}

			var msg generateMessage
			if err := jsoniter.Unmarshal(data, &msg); err != nil {
				return fmt.Errorf("error unmarshaling sidecar message: %w", err)
			}
			if msg.Error != "" {
				return fmt.Errorf("sidecar error: %s", msg.Error)
			}
			if msg.Token != "" && !emit(msg.Token) {
				return nil
			}
			if msg.Done {
				return nil
			}
		}
	}, generator.WithMaxFragments(c.maxFragments)), nil
}
