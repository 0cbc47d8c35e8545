package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// WSClientConfig configures the WebSocket confirmation client.
type WSClientConfig struct {
	// HandshakeTimeout is the timeout for the websocket dial.
	HandshakeTimeout time.Duration
	// WriteTimeout is the timeout for writing subscription requests.
	WriteTimeout time.Duration
}

// DefaultWSConfig returns default WebSocket configuration.
func DefaultWSConfig() WSClientConfig {
	return WSClientConfig{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     10 * time.Second,
	}
}

// WSClient waits for signature confirmations over a websocket
// subscription instead of polling.
type WSClient struct {
	endpoint string
	config   WSClientConfig
}

// NewWSClient creates a websocket confirmation client.
func NewWSClient(endpoint string, config *WSClientConfig) *WSClient {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}
	return &WSClient{endpoint: endpoint, config: cfg}
}

type wsSubscribeRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type wsMessage struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
	Method string          `json:"method"`
	Params *struct {
		Result struct {
			Value struct {
				Err interface{} `json:"err"`
			} `json:"value"`
		} `json:"result"`
	} `json:"params"`
}

// WaitForSignature subscribes to the signature and blocks until the
// ledger reports it confirmed, it fails on-chain, or the context is
// done. A confirmed signature returns nil; an on-chain error returns a
// non-nil error describing it.
func (c *WSClient) WaitForSignature(ctx context.Context, signature string) error {
	dialer := websocket.Dialer{HandshakeTimeout: c.config.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}
	defer conn.Close()

	// Unblock the read loop when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	req := wsSubscribeRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "signatureSubscribe",
		Params: []interface{}{
			signature,
			map[string]interface{}{"commitment": "confirmed"},
		},
	}
	conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	if err := conn.WriteJSON(req); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read notification: %w", err)
		}
		if msg.Error != nil {
			return msg.Error
		}
		if msg.Method == "signatureNotification" && msg.Params != nil {
			if txErr := msg.Params.Result.Value.Err; txErr != nil {
				return fmt.Errorf("transaction failed on-chain: %v", txErr)
			}
			return nil
		}
	}
}
