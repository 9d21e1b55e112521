package domain

import "strings"

// ActionType 订单动作
type ActionType string

const (
	ActionTypeInsert ActionType = "INSERT"
	ActionTypeUpdate ActionType = "UPDATE"
	ActionTypeCancel ActionType = "CANCEL"
)

// ActionTypes 返回全部动作（表单下拉顺序）
func ActionTypes() []ActionType {
	return []ActionType{ActionTypeInsert, ActionTypeUpdate, ActionTypeCancel}
}

func (a ActionType) Valid() bool {
	switch a {
	case ActionTypeInsert, ActionTypeUpdate, ActionTypeCancel:
		return true
	}
	return false
}

func (a ActionType) String() string { return string(a) }

// OrderType 买卖方向
type OrderType string

const (
	OrderTypeBuy  OrderType = "BUY"
	OrderTypeSell OrderType = "SELL"
)

// OrderTypes 返回全部买卖方向
func OrderTypes() []OrderType {
	return []OrderType{OrderTypeBuy, OrderTypeSell}
}

func (o OrderType) Valid() bool {
	return o == OrderTypeBuy || o == OrderTypeSell
}

func (o OrderType) String() string { return string(o) }

// Sign BUY 为 +1，SELL 为 -1
func (o OrderType) Sign() int64 {
	if o == OrderTypeSell {
		return -1
	}
	return 1
}

// ParseActionType 不区分大小写解析动作
func ParseActionType(s string) (ActionType, bool) {
	a := ActionType(strings.ToUpper(strings.TrimSpace(s)))
	return a, a.Valid()
}

// ParseOrderType 不区分大小写解析买卖方向
func ParseOrderType(s string) (OrderType, bool) {
	o := OrderType(strings.ToUpper(strings.TrimSpace(s)))
	return o, o.Valid()
}

// Order 用户提交的订单（由表单构造，提交或重置后即丢弃）
type Order struct {
	TradeID    string     `json:"tradeId"`
	Symbol     string     `json:"symbol"`
	Quantity   int64      `json:"quantity"`
	ActionType ActionType `json:"actionType"`
	OrderType  OrderType  `json:"orderType"`
}

// SignedQuantity 带方向的数量
func (o Order) SignedQuantity() int64 {
	return o.OrderType.Sign() * o.Quantity
}

// ExecuteOrderResult 下单结果
type ExecuteOrderResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	OrderID string `json:"orderId,omitempty"`
}
