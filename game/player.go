package game

import (
	"fmt"

	"github.com/domino14/tilegrid/alphabet"
)

// Player is one seat in a game.
type Player struct {
	ID     string
	GameID string
	// Order is the player's turn slot, assigned at join time from 0.
	Order int
	Rack  alphabet.Rack
	Score int
}

func (p *Player) Copy() *Player {
	cp := *p
	return &cp
}

func (p *Player) stateString(myturn bool) string {
	onturn := ""
	if myturn {
		onturn = "-> "
	}
	return fmt.Sprintf("%4v%4d %-36v%9v %4v", onturn, p.Order, p.ID,
		p.Rack.UserVisible(), p.Score)
}

// StateString renders the players as a table, marking whoever is on turn.
// Racks are only shown for the player whose ID is viewer, or for all
// players if viewer is empty.
func StateString(g *Game, players []*Player, viewer string) string {
	s := ""
	for _, p := range players {
		cp := p.Copy()
		if viewer != "" && p.ID != viewer {
			cp.Rack = alphabet.NewRack()
		}
		myturn := g.Status == StatusPlaying && p.Order == g.NextPlayerOrder
		s += cp.stateString(myturn) + "\n"
	}
	return s
}
