package integration

import (
	"testing"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"gesturecards/internal/ports/nakama"
)

func TestSoloMatchPlaysAGesture(t *testing.T) {
	requireServer(t)

	client := NewTestClient(t)
	defer client.Close()

	snapshot := client.Expect(nakama.OpStateSnapshot)
	matchID := client.QuickMatch(t)
	t.Logf("Joined match: %s", matchID)
	Wait(t, snapshot, 5*time.Second)

	link, err := structpb.NewStruct(map[string]any{"connected": true})
	if err != nil {
		t.Fatal(err)
	}
	payload, err := proto.Marshal(link)
	if err != nil {
		t.Fatal(err)
	}

	start := client.Expect(nakama.OpCountdown)
	client.SendMatchState(t, matchID, nakama.OpLinkState, payload)
	Wait(t, start, 5*time.Second)

	// The countdown takes a few seconds; keep offering the gesture until a
	// card lands.
	deadline := time.Now().Add(15 * time.Second)
	for time.Now().Before(deadline) {
		spawned := client.Expect(nakama.OpCardSpawned)
		client.SendMatchState(t, matchID, nakama.OpGestureToken, []byte("rock"))
		select {
		case data := <-spawned:
			event := &structpb.Struct{}
			if err := proto.Unmarshal(data.Data, event); err != nil {
				t.Fatalf("Failed to unmarshal card_spawned: %v", err)
			}
			if got := event.Fields["gesture"].GetStringValue(); got != "rock" {
				t.Fatalf("spawned gesture = %q, want rock", got)
			}
			return
		case <-time.After(time.Second):
		}
	}
	t.Fatal("no card spawned before the deadline")
}
