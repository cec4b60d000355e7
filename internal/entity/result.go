package entity

const (
	ResultNone = "none"
	ResultWin  = "win"
	ResultDraw = "draw"
)

// WinResult is the outcome of evaluating the board after a move.
type WinResult struct {
	Kind   string `json:"kind"`
	Player Token  `json:"player,omitempty"`
	Line   []Cell `json:"line,omitempty"`
}

func NoResult() WinResult {
	return WinResult{Kind: ResultNone}
}

func DrawResult() WinResult {
	return WinResult{Kind: ResultDraw}
}

func WinFor(player Token, line []Cell) WinResult {
	return WinResult{Kind: ResultWin, Player: player, Line: line}
}

func (that WinResult) IsWin() bool {
	return that.Kind == ResultWin
}

func (that WinResult) IsDraw() bool {
	return that.Kind == ResultDraw
}
