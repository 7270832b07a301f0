package main

import (
	"errors"
	"fmt"
	"strings"

	"trading-dashboard-client/internal/core/action"
	"trading-dashboard-client/internal/core/model"
	"trading-dashboard-client/internal/core/nav"
)

var errUnknownCommand = errors.New("未知命令")

type navigator interface {
	Push(location string)
}

type dispatcher interface {
	Dispatch(a action.Action)
}

type resubscriber interface {
	Resubscribe()
}

// commandTarget 标准输入命令的作用对象
// 支持的命令:
//
//	/coin/{exchange}/{base}/{counter}  切换选中交易对（任意以 / 开头的路径）
//	+{exchange}/{base}/{counter}       跟踪交易对并重订阅
//	-{exchange}/{base}/{counter}       取消跟踪并重订阅
type commandTarget struct {
	history navigator
	store   dispatcher
	bridge  resubscriber
}

func (c *commandTarget) handle(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	switch line[0] {
	case '/':
		c.history.Push(line)
		return nil
	case '+', '-':
		coin, err := parseCoin(line[1:])
		if err != nil {
			return err
		}
		if line[0] == '+' {
			c.store.Dispatch(action.AddCoin(coin))
		} else {
			c.store.Dispatch(action.RemoveCoin(coin))
		}
		c.bridge.Resubscribe()
		return nil
	}
	return fmt.Errorf("%w: %q", errUnknownCommand, line)
}

// parseCoin 解析 exchange/base/counter
func parseCoin(s string) (model.Coin, error) {
	coin := nav.LocationToCoin("/coin/" + s)
	if coin == nil {
		return model.Coin{}, fmt.Errorf("无效交易对 %q，格式为 exchange/base/counter", s)
	}
	return *coin, nil
}
