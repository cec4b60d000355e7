package entity

// Cell addresses a board position. Row 0 is the bottom row.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}
