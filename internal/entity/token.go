package entity

// Token is the occupant of a single board cell.
type Token uint8

const (
	Empty Token = iota
	PlayerA
	PlayerB
)

// Players lists both players in turn order.
var Players = [2]Token{PlayerA, PlayerB}

// Opponent - returns the other player. Empty has no opponent.
func (that Token) Opponent() Token {
	switch that {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	default:
		return Empty
	}
}

func (that Token) IsPlayer() bool {
	return that == PlayerA || that == PlayerB
}

func (that Token) String() string {
	switch that {
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	default:
		return "-"
	}
}
