// Package deepgram implements a voice activity detector on deepgram's live
// listen API. It forwards speech start/end edges to the companion without
// consuming transcripts.
package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"github.com/okvist/companion-core/core/audio"
	"github.com/okvist/companion-core/core/voice"
)

// Detector is a speaking-activity source backed by deepgram's websocket
// listen endpoint. One Listen call drives one connection.
type Detector struct {
	conn   *websocket.Conn
	connMu sync.Mutex

	lastMsgTs      time.Time
	unendedSegment bool
}

func NewDetector() *Detector {
	return &Detector{}
}

// Listen opens the websocket and starts forwarding speech edges to the
// configured callbacks. It returns once the connection is established;
// processing continues until ctx is done or the stream is stopped.
func (d *Detector) Listen(ctx context.Context, opts ...voice.ListenOption) error {
	options := &voice.ListenOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.EncodingInfo.IsZero() {
		options.EncodingInfo = audio.GetDefaultEncodingInfo()
	}

	encoding, err := convertEncoding(options.EncodingInfo)
	if err != nil {
		return fmt.Errorf("invalid encoding: %w", err)
	}

	conn, err := connectWebsocket(connectionOptions{
		sampleRate: encoding.SampleRate,
		encoding:   encoding.Format.Name(),
	})
	if err != nil {
		return fmt.Errorf("failed to open websocket: %w", err)
	}

	d.conn = conn
	go d.readAndProcessMessages(ctx, conn, *options)

	return nil
}

type connectionOptions struct {
	sampleRate int
	encoding   string
}

func connectWebsocket(options connectionOptions) (*websocket.Conn, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	listenUrl, _ := url.Parse("wss://api.deepgram.com/v1/listen")
	queryParams := listenUrl.Query()
	queryParams.Set("encoding", options.encoding)
	queryParams.Set("sample_rate", strconv.Itoa(options.sampleRate))
	queryParams.Set("channels", "1")
	queryParams.Set("model", "nova-3")
	queryParams.Set("language", "en-US")
	// Only activity edges matter here; transcripts are discarded, so the
	// interim/utterance settings exist purely to sharpen end detection.
	queryParams.Set("vad_events", "true")
	queryParams.Set("interim_results", "true")
	queryParams.Set("utterance_end_ms", "1000")
	queryParams.Set("endpointing", "300")

	listenUrl.RawQuery = queryParams.Encode()
	conn, _, err := websocket.DefaultDialer.Dial(listenUrl.String(),
		http.Header{"Authorization": {"Token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, err
}

// SendAudio forwards one captured audio chunk to the listen stream.
func (d *Detector) SendAudio(audio []byte) error {
	d.connMu.Lock()
	defer d.connMu.Unlock()

	if d.conn == nil {
		return fmt.Errorf("detector not listening")
	}

	d.lastMsgTs = time.Now()
	if err := d.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("failed to write to deepgram client: %w", err)
	}
	return nil
}

// StopStream asks deepgram to close the stream gracefully.
func (d *Detector) StopStream() error {
	d.connMu.Lock()
	defer d.connMu.Unlock()

	if d.conn != nil {
		if err := d.conn.WriteJSON(struct {
			Type string `json:"type"`
		}{Type: string(api.TypeCloseStreamResponse)}); err != nil {
			return fmt.Errorf("failed to close deepgram stream through websocket: %w", err)
		}
	}
	return nil
}

func (d *Detector) sendKeepAlive() {
	d.connMu.Lock()
	defer d.connMu.Unlock()

	if d.conn == nil {
		return
	}
	if err := d.conn.WriteJSON(
		struct {
			Type string `json:"type"`
		}{
			Type: "KeepAlive",
		}); err != nil {
		log.Println("Failed to write to deepgram client", "error", err)
	}
}

func (d *Detector) readAndProcessMessages(ctx context.Context, conn *websocket.Conn, options voice.ListenOptions) {
	keepAliveCtx, keepAliveCancel := context.WithCancel(ctx)
	defer keepAliveCancel()

	go d.keepAliveLoop(keepAliveCtx)

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if err.Error() != "websocket: close 1000 (normal)" {
				log.Println("Failed to read deepgram websocket message", "error", err)
			}

			d.connMu.Lock()
			d.conn = nil
			d.connMu.Unlock()
			conn.Close()
			return
		}
		if msgType != websocket.BinaryMessage {
			d.processMessage(msg, options)
		}
	}
}

func (d *Detector) processMessage(msg []byte, options voice.ListenOptions) {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	err := json.Unmarshal(msg, &parsedMsg)
	if err != nil {
		log.Println("Failed to unmarshal deepgram message", "error", err)
		return
	}

	switch api.TypeResponse(parsedMsg.Type) {
	case api.TypeMessageResponse:
		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}
		if msgResp.IsFinal && msgResp.SpeechFinal {
			d.onSpeechEnded(options)
		}

	case api.TypeUtteranceEndResponse:
		var msgResp api.UtteranceEndResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}

		if d.unendedSegment {
			d.onSpeechEnded(options)
		}

	case api.TypeSpeechStartedResponse:
		var msgResp api.SpeechStartedResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}

		if !d.unendedSegment {
			d.unendedSegment = true
			if options.SpeakingStartedCallback != nil {
				options.SpeakingStartedCallback()
			}
		}
	}
}

func (d *Detector) onSpeechEnded(options voice.ListenOptions) {
	if !d.unendedSegment {
		return
	}
	d.unendedSegment = false
	if options.SpeakingEndedCallback != nil {
		options.SpeakingEndedCallback()
	}
}

// keepAliveLoop keeps the connection open across capture gaps. Deepgram
// drops idle connections; a KeepAlive every few seconds of silence holds it.
func (d *Detector) keepAliveLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.connMu.Lock()
			idle := time.Since(d.lastMsgTs) >= 5*time.Second
			d.connMu.Unlock()
			if idle {
				d.sendKeepAlive()
				d.connMu.Lock()
				d.lastMsgTs = time.Now()
				d.connMu.Unlock()
			}
		}
	}
}
