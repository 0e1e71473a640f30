// Package integration drives a live Nakama server running the gesturecards
// module. Tests skip unless GESTURECARDS_NAKAMA_IT=1.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/rtapi"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"nhooyr.io/websocket"
)

const (
	ServerKey = "defaultkey"
	Host      = "127.0.0.1"
	Port      = 7350

	envToggle = "GESTURECARDS_NAKAMA_IT"
)

var unmarshal = protojson.UnmarshalOptions{DiscardUnknown: true}

func requireServer(t *testing.T) {
	t.Helper()
	if os.Getenv(envToggle) != "1" {
		t.Skipf("set %s=1 to run against a live Nakama", envToggle)
	}
}

type TestClient struct {
	HTTP    *http.Client
	Session *api.Session
	Socket  *websocket.Conn

	mu      sync.Mutex
	waiters map[int64][]chan *rtapi.MatchData
	cancel  context.CancelFunc
}

func baseURL() string {
	return "http://" + Host + ":" + strconv.Itoa(Port)
}

func NewTestClient(t *testing.T) *TestClient {
	t.Helper()
	tc := &TestClient{HTTP: &http.Client{Timeout: 10 * time.Second}, waiters: map[int64][]chan *rtapi.MatchData{}}

	deviceID := fmt.Sprintf("test_device_%d", time.Now().UnixNano())
	body := []byte(fmt.Sprintf(`{"id":%q}`, deviceID))
	req, err := http.NewRequest(http.MethodPost, baseURL()+"/v2/account/authenticate/device?create=true", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.SetBasicAuth(ServerKey, "")
	tc.Session = &api.Session{}
	if err := tc.do(req, tc.Session); err != nil {
		t.Fatalf("Failed to authenticate: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	tc.cancel = cancel
	wsURL := fmt.Sprintf("ws://%s:%d/ws?format=protobuf&token=%s", Host, Port, url.QueryEscape(tc.Session.Token))
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect socket: %v", err)
	}
	conn.SetReadLimit(1 << 20)
	tc.Socket = conn
	go tc.readLoop(ctx)
	return tc
}

func (tc *TestClient) do(req *http.Request, out proto.Message) error {
	req.Header.Set("Content-Type", "application/json")
	resp, err := tc.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, data)
	}
	return unmarshal.Unmarshal(data, out)
}

func (tc *TestClient) Close() {
	tc.cancel()
	if tc.Socket != nil {
		tc.Socket.Close(websocket.StatusNormalClosure, "")
	}
}

func (tc *TestClient) readLoop(ctx context.Context) {
	for {
		_, data, err := tc.Socket.Read(ctx)
		if err != nil {
			return
		}
		env := &rtapi.Envelope{}
		if err := proto.Unmarshal(data, env); err != nil {
			continue
		}
		md := env.GetMatchData()
		if md == nil {
			continue
		}
		tc.mu.Lock()
		waiting := tc.waiters[md.OpCode]
		delete(tc.waiters, md.OpCode)
		tc.mu.Unlock()
		for _, ch := range waiting {
			ch <- md
		}
	}
}

func unmarshalJSON(s string, v any) error {
	return json.Unmarshal([]byte(s), v)
}

func (tc *TestClient) send(ctx context.Context, env *rtapi.Envelope) error {
	data, err := proto.Marshal(env)
	if err != nil {
		return err
	}
	return tc.Socket.Write(ctx, websocket.MessageBinary, data)
}

// QuickMatch calls the quick_match RPC and joins the returned match.
func (tc *TestClient) QuickMatch(t *testing.T) string {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, baseURL()+"/v2/rpc/quick_match", bytes.NewReader([]byte(`"{}"`)))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+tc.Session.Token)
	rpc := &api.Rpc{}
	if err := tc.do(req, rpc); err != nil {
		t.Fatalf("RPC quick_match failed: %v", err)
	}

	var resp struct {
		MatchID string `json:"match_id"`
	}
	if err := unmarshalJSON(rpc.Payload, &resp); err != nil || resp.MatchID == "" {
		t.Fatalf("RPC quick_match returned %q", rpc.Payload)
	}

	join := &rtapi.Envelope{Message: &rtapi.Envelope_MatchJoin{MatchJoin: &rtapi.MatchJoin{
		Id: &rtapi.MatchJoin_MatchId{MatchId: resp.MatchID},
	}}}
	if err := tc.send(context.Background(), join); err != nil {
		t.Fatalf("Failed to join match %s: %v", resp.MatchID, err)
	}
	return resp.MatchID
}

// SendMatchState sends a client opcode to the match.
func (tc *TestClient) SendMatchState(t *testing.T, matchID string, opCode int64, data []byte) {
	t.Helper()
	env := &rtapi.Envelope{Message: &rtapi.Envelope_MatchDataSend{MatchDataSend: &rtapi.MatchDataSend{
		MatchId:  matchID,
		OpCode:   opCode,
		Data:     data,
		Reliable: true,
	}}}
	if err := tc.send(context.Background(), env); err != nil {
		t.Fatalf("Failed to send opcode %d: %v", opCode, err)
	}
}

// Expect registers interest in opCode; call it before triggering the event.
func (tc *TestClient) Expect(opCode int64) <-chan *rtapi.MatchData {
	ch := make(chan *rtapi.MatchData, 1)
	tc.mu.Lock()
	tc.waiters[opCode] = append(tc.waiters[opCode], ch)
	tc.mu.Unlock()
	return ch
}

// Wait blocks for a registered expectation.
func Wait(t *testing.T, ch <-chan *rtapi.MatchData, timeout time.Duration) *rtapi.MatchData {
	t.Helper()
	select {
	case data := <-ch:
		return data
	case <-time.After(timeout):
		t.Fatalf("Timeout waiting for match data")
		return nil
	}
}
