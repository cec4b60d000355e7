package entity

// MoveOutcome describes an accepted move.
type MoveOutcome struct {
	Player Token     `json:"player"`
	Cell   Cell      `json:"cell"`
	Result WinResult `json:"result"`
	Status Status    `json:"status"`
}
