package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to get a table of their own.
	RpcQuickMatch = "quick_match"

	// MatchNameGestureCards is the authoritative match handler name registered with Nakama.
	MatchNameGestureCards = "gesturecards_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpGestureToken  int64 = 1 // raw text, whitespace separated tokens
	OpMoveCard      int64 = 2 // struct {side, from, to | drop_x}
	OpFinishReorder int64 = 3
	OpResetMatch    int64 = 4
	OpLinkState     int64 = 5 // struct {connected}

	// Server -> Client events
	OpStateSnapshot     int64 = 100
	OpPhaseChanged      int64 = 101
	OpCountdown         int64 = 102
	OpAnnouncement      int64 = 103
	OpTimerTick         int64 = 104
	OpCardSpawned       int64 = 105
	OpCardRemoved       int64 = 106
	OpCardMoved         int64 = 107
	OpCardSnappedBack   int64 = 108
	OpDamage            int64 = 109
	OpHealthReset       int64 = 110
	OpRoundEnded        int64 = 111
	OpMatchEnded        int64 = 112
	OpConnectionChanged int64 = 113
	OpQuitOffered       int64 = 114
	OpGestureRejected   int64 = 115 // sent to the human only
)
