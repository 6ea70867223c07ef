// Package natsapi serves games over NATS request/reply, with the same
// payloads as the HTTP API.
package natsapi

const (
	OpCreateGame = "game.create"
	OpGetGame    = "game.get"
	OpJoinGame   = "game.join"
	OpTranscript = "game.transcript"
	OpSubmitMove = "move.submit"
	OpGetMove    = "move.get"
)

var ops = []string{OpCreateGame, OpGetGame, OpJoinGame, OpTranscript, OpSubmitMove, OpGetMove}

// QueueGroup lets several servers share the load of one subject prefix.
const QueueGroup = "tilegrid-workers"

func subject(prefix, op string) string {
	return prefix + "." + op
}

// Request is the body of every request. Each operation reads the fields
// it needs.
type Request struct {
	Game       string `json:"game,omitempty"`
	Player     string `json:"player,omitempty"`
	Seq        int    `json:"seq,omitempty"`
	Size       int    `json:"size,omitempty"`
	MaxPlayers int    `json:"maxPlayers,omitempty"`
	Placements string `json:"placements,omitempty"`
}
