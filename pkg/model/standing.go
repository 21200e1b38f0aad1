package model

import "github.com/shopspring/decimal"

type DriverStanding struct {
	Driver  Driver `json:"driver"`
	Points  int    `json:"points"`
	Wins    int    `json:"wins"`
	Podiums int    `json:"podiums"`
	// 1-based rank, assigned after sorting
	Position int `json:"position"`
	// PositionHistory[i] counts finishes in position i+1
	PositionHistory []int           `json:"positionHistory"`
	OfficialPoints  decimal.Decimal `json:"officialPoints"`
}
