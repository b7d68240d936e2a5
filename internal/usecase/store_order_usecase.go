package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"storefront/internal/domain/model"
	"storefront/internal/domain/orderflow"
	repo "storefront/internal/repository"
)

type AdvanceStatusInput struct {
	Status model.OrderStatus `json:"status"`
}

// 出品者が自店舗の注文を扱う
type StoreOrderUsecase struct {
	tx      repo.TransactionManager
	orders  *OrderUsecase
	metrics OrderMetrics
	newID   IDGenerator
	now     func() time.Time
}

func NewStoreOrderUsecase(tx repo.TransactionManager, orders *OrderUsecase, metrics OrderMetrics) *StoreOrderUsecase {
	return &StoreOrderUsecase{tx: tx, orders: orders, metrics: metrics, newID: NewUUID, now: time.Now}
}

// 自店舗の注文一覧
func (u *StoreOrderUsecase) List(ctx context.Context, storeID string, in ListOrdersInput) (OrderListOutput, error) {
	in.StoreID = storeID
	in.UserID = ""
	return u.orders.List(ctx, in)
}

// AdvanceStatus はちょうど1段階だけ進める。他店舗の注文は404
func (u *StoreOrderUsecase) AdvanceStatus(ctx context.Context, actorUserID, storeID, orderID string, in AdvanceStatusInput) (model.Order, error) {
	if actorUserID == "" {
		return model.Order{}, Unauthorized()
	}
	to := model.OrderStatus(strings.ToUpper(strings.TrimSpace(string(in.Status))))
	if to == "" {
		return model.Order{}, Validation("status is required")
	}
	if orderflow.StageIndex(to) < 0 {
		return model.Order{}, Validation("invalid status")
	}
	if !isID(orderID) {
		return model.Order{}, NotFound("order not found")
	}

	var updated model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("order not found")
		}
		if err != nil {
			return Internal(err)
		}
		if o.StoreID != storeID {
			return NotFound("order not found")
		}

		if err := orderflow.CanTransition(o.Status, to); err != nil {
			switch {
			case errors.Is(err, orderflow.ErrTerminal):
				return Rule("order is already delivered")
			case errors.Is(err, orderflow.ErrUnknownStatus):
				return Rule("order has an unknown status")
			default:
				next, _ := orderflow.Next(o.Status)
				return Rule("status can only advance to " + string(next))
			}
		}

		if err := r.Orders().UpdateStatus(ctx, o.ID, o.Status, to); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return Rule("order status was changed by another request")
			}
			return Internal(err)
		}

		if err := r.AuditLogs().Create(ctx, auditEntry(
			u.newID(), actorUserID,
			model.AuditActionAdvanceOrderStatus, model.AuditResourceOrder, o.ID,
			map[string]string{"status": string(o.Status)},
			map[string]string{"status": string(to)},
			u.now(),
		)); err != nil {
			return Internal(err)
		}

		o.Status = to
		updated = o
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return model.Order{}, err
		}
		return model.Order{}, Internal(err)
	}

	u.metrics.StatusAdvanced(ctx, string(to))
	return updated, nil
}
