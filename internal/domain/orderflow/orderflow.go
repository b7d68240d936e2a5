// Package orderflow は注文ステータスの直線的な遷移を定義する。
//
//	ORDER_PLACED → PROCESSING → PACKAGED → SHIPPED → OUT_FOR_DELIVERY → DELIVERED
//
// 分岐・スキップ・巻き戻しはない。キャンセルや返品はこのモデルに存在しない。
package orderflow

import (
	"github.com/go-faster/errors"

	"storefront/internal/domain/model"
)

var (
	ErrUnknownStatus = errors.New("unknown order status")
	ErrTerminal      = errors.New("order already delivered")
	ErrInvalidStep   = errors.New("status must advance exactly one stage")
)

// Stage は表示用の段階定義
type Stage struct {
	Status      model.OrderStatus `json:"status"`
	Label       string            `json:"label"`
	Description string            `json:"description"`
}

var stages = []Stage{
	{model.OrderStatusPlaced, "Order Placed", "Your order has been confirmed"},
	{model.OrderStatusProcessing, "Processing", "Order is being prepared"},
	{model.OrderStatusPackaged, "Packaged", "Order has been packaged"},
	{model.OrderStatusShipped, "Shipped", "Order is on its way"},
	{model.OrderStatusOutForDelivery, "Out for Delivery", "Order is out for delivery"},
	{model.OrderStatusDelivered, "Delivered", "Order has been delivered"},
}

// Initial は注文作成時に唯一許される状態
const Initial = model.OrderStatusPlaced

// Stages は全段階を順番どおりに返す（コピー）
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

// StageIndex は段階の位置を返す。未知の値は -1。
func StageIndex(status model.OrderStatus) int {
	for i, s := range stages {
		if s.Status == status {
			return i
		}
	}
	return -1
}

func IsTerminal(status model.OrderStatus) bool {
	return StageIndex(status) == len(stages)-1
}

// Next は次の段階を返す。
func Next(status model.OrderStatus) (model.OrderStatus, error) {
	i := StageIndex(status)
	switch {
	case i < 0:
		return "", errors.Wrapf(ErrUnknownStatus, "%q", status)
	case i == len(stages)-1:
		return "", ErrTerminal
	}
	return stages[i+1].Status, nil
}

// CanTransition は from から to へちょうど1段階進む場合だけ nil
func CanTransition(from, to model.OrderStatus) error {
	next, err := Next(from)
	if err != nil {
		return err
	}
	if to != next {
		return ErrInvalidStep
	}
	return nil
}

// StageProgress は1段階分の表示状態
type StageProgress struct {
	Stage
	Completed bool `json:"completed"`
	Current   bool `json:"current"`
}

// Progress は current を基準に各段階の完了/現在を計算する。
// 未知のステータスでは何も完了せず、現在の段階もない（エラーにはしない）。
func Progress(current model.OrderStatus) []StageProgress {
	idx := StageIndex(current)

	out := make([]StageProgress, 0, len(stages))
	for i, s := range stages {
		out = append(out, StageProgress{
			Stage:     s,
			Completed: idx >= 0 && i <= idx,
			Current:   idx >= 0 && i == idx,
		})
	}
	return out
}
