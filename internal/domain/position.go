package domain

// Position 持仓（负数表示空头）
type Position struct {
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
}

// IsShort 是否为空头仓位
func (p Position) IsShort() bool {
	return p.Quantity < 0
}
