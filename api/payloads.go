package api

// Payloads shared by the HTTP and NATS transports. Boards, racks and
// placements travel in their comma-delimited, single-character form.

type CreateGameRequest struct {
	Size       int `json:"size"`
	MaxPlayers int `json:"maxPlayers"`
}

type CreateGameResponse struct {
	ID string `json:"id"`
}

type PlayerSummary struct {
	Order int `json:"order"`
	Score int `json:"score"`
}

// PlayerState is what a player sees of themself.
type PlayerState struct {
	ID    string `json:"id,omitempty"`
	Order int    `json:"order"`
	Rack  string `json:"rack"`
	Score int    `json:"score"`
}

type GameResponse struct {
	ID         string          `json:"id"`
	Size       int             `json:"size"`
	MaxPlayers int             `json:"maxPlayers"`
	Board      string          `json:"board"`
	Status     string          `json:"status"`
	NextMove   int             `json:"nextMove"`
	NextPlayer int             `json:"nextPlayer"`
	Pool       int             `json:"pool"`
	Players    []PlayerSummary `json:"players"`
	// Player is set when the game was fetched on behalf of a player.
	Player *PlayerState `json:"player,omitempty"`
}

type JoinResponse struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
	Rack  string `json:"rack"`
}

type MoveResponse struct {
	Seq        int    `json:"seq"`
	Placements string `json:"placements"`
	Score      int    `json:"score"`
	Player     string `json:"player"`
}

type SubmitMoveRequest struct {
	Placements string `json:"placements"`
}

type GameCounters struct {
	Status     string `json:"status"`
	NextMove   int    `json:"nextMove"`
	NextPlayer int    `json:"nextPlayer"`
}

type SubmitMoveResponse struct {
	Player PlayerState  `json:"player"`
	Game   GameCounters `json:"game"`
	Score  int          `json:"score"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
