// Package model 定义看板客户端使用的核心数据结构。
// 包含交易对（Coin）、行情、余额、订单簿、成交、订单与通知。
package model

import "strings"

// Coin 可交易市场（交易所 + 基础币 + 计价币）
// 相等性仅由 Key 决定。
type Coin struct {
	// Exchange 交易所标识，如 binance
	Exchange string `json:"exchange" yaml:"exchange"`
	// Base 基础币，如 BTC
	Base string `json:"base" yaml:"base"`
	// Counter 计价币，如 USDT
	Counter string `json:"counter" yaml:"counter"`
}

// NewCoin 创建交易对，币种统一为大写，交易所统一为小写
func NewCoin(exchange, base, counter string) Coin {
	return Coin{
		Exchange: strings.ToLower(strings.TrimSpace(exchange)),
		Base:     strings.ToUpper(strings.TrimSpace(base)),
		Counter:  strings.ToUpper(strings.TrimSpace(counter)),
	}
}

// Key 返回交易对唯一标识: exchange/base/counter
func (c Coin) Key() string {
	return c.Exchange + "/" + c.Base + "/" + c.Counter
}

// String 实现 fmt.Stringer
func (c Coin) String() string {
	return c.Key()
}

// HasCurrency 判断币种是否属于该交易对（基础币或计价币）
func (c Coin) HasCurrency(currency string) bool {
	return c.Base == currency || c.Counter == currency
}

// SameCoin 判断两个交易对是否相同
// 任一为 nil 时返回 false。
func SameCoin(left, right *Coin) bool {
	return left != nil && right != nil && left.Key() == right.Key()
}

// SameSelection 判断两次选择是否一致（允许均为 nil）
// 用于检测导航前后选中交易对是否变化。
func SameSelection(prev, next *Coin) bool {
	if prev == nil || next == nil {
		return prev == nil && next == nil
	}
	return prev.Key() == next.Key()
}
