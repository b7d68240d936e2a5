package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// 出店申請フォーム（multipart）の入力
type CreateStoreInput struct {
	Name        string
	Username    string
	Description string
	Email       string
	Contact     string
	Address     string
	Image       *FileInput
}

// CreateStoreOutput は既に店舗がある場合 Existing=true で状態だけ返す
type CreateStoreOutput struct {
	Store    model.Store
	Existing bool
}

// 公開ページ向けの店舗情報
type StoreInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Username    string    `json:"username"`
	Description string    `json:"description"`
	Logo        string    `json:"logo"`
	Email       string    `json:"email"`
	Contact     string    `json:"contact"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"createdAt"`
}

type StorePage struct {
	StoreInfo StoreInfo       `json:"storeInfo"`
	Products  []model.Product `json:"products"`
}

type ReviewStoreInput struct {
	StoreID string            `json:"storeId"`
	Status  model.StoreStatus `json:"status"`
}

type ToggleStoreInput struct {
	StoreID string `json:"storeId"`
}

type StoreUsecase struct {
	tx       repo.TransactionManager
	stores   repo.StoreRepository
	products repo.ProductRepository
	media    MediaStore
	newID    IDGenerator
	now      func() time.Time
}

func NewStoreUsecase(tx repo.TransactionManager, stores repo.StoreRepository, products repo.ProductRepository, media MediaStore) *StoreUsecase {
	return &StoreUsecase{tx: tx, stores: stores, products: products, media: media, newID: NewUUID, now: time.Now}
}

// Create は出店申請。審査待ち・非公開で作る
func (u *StoreUsecase) Create(ctx context.Context, userID string, in CreateStoreInput) (CreateStoreOutput, error) {
	if userID == "" {
		return CreateStoreOutput{}, Unauthorized()
	}
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if strings.TrimSpace(in.Name) == "" || username == "" ||
		strings.TrimSpace(in.Description) == "" || strings.TrimSpace(in.Email) == "" ||
		strings.TrimSpace(in.Contact) == "" || strings.TrimSpace(in.Address) == "" ||
		in.Image == nil {
		return CreateStoreOutput{}, Validation("missing store info")
	}

	// 申請済みなら状態だけ返す
	existing, err := u.stores.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		return CreateStoreOutput{Store: existing, Existing: true}, nil
	case !errors.Is(err, repo.ErrNotFound):
		return CreateStoreOutput{}, Internal(err)
	}

	_, err = u.stores.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return CreateStoreOutput{}, Rule("username already taken")
	case !errors.Is(err, repo.ErrNotFound):
		return CreateStoreOutput{}, Internal(err)
	}

	logo, err := u.media.Upload(ctx, "logos", in.Image.Filename, in.Image.Body)
	if err != nil {
		return CreateStoreOutput{}, uploadErr(err)
	}

	now := u.now()
	s, err := u.stores.Create(ctx, model.Store{
		ID:          u.newID(),
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		Username:    username,
		Description: strings.TrimSpace(in.Description),
		Email:       strings.TrimSpace(in.Email),
		Contact:     strings.TrimSpace(in.Contact),
		Address:     strings.TrimSpace(in.Address),
		Logo:        logo,
		Status:      model.StoreStatusPending,
		IsActive:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		// 同時申請で一意制約に当たった
		if errors.Is(err, repo.ErrDuplicate) {
			return CreateStoreOutput{}, Rule("username already taken")
		}
		return CreateStoreOutput{}, Internal(err)
	}
	return CreateStoreOutput{Store: s}, nil
}

// Page は公開ページ。承認済みかつ有効な店舗だけ
func (u *StoreUsecase) Page(ctx context.Context, username string) (StorePage, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return StorePage{}, Validation("missing username")
	}

	s, err := u.stores.FindByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return StorePage{}, NotFound("Store not found")
	}
	if err != nil {
		return StorePage{}, Internal(err)
	}
	if !s.IsVisible() {
		return StorePage{}, Forbidden("Store is not available")
	}

	products, err := u.products.ListByStore(ctx, s.ID, true)
	if err != nil {
		return StorePage{}, Internal(err)
	}
	return StorePage{
		StoreInfo: StoreInfo{
			ID:          s.ID,
			Name:        s.Name,
			Username:    s.Username,
			Description: s.Description,
			Logo:        s.Logo,
			Email:       s.Email,
			Contact:     s.Contact,
			Address:     s.Address,
			CreatedAt:   s.CreatedAt,
		},
		Products: products,
	}, nil
}

// SellerStore は出品者の店舗。承認済みでなければ403
func (u *StoreUsecase) SellerStore(ctx context.Context, userID string) (model.Store, error) {
	if userID == "" {
		return model.Store{}, Unauthorized()
	}
	s, err := u.stores.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Store{}, Forbidden("not authorized")
	}
	if err != nil {
		return model.Store{}, Internal(err)
	}
	if s.Status != model.StoreStatusApproved {
		return model.Store{}, Forbidden("not authorized")
	}
	return s, nil
}

// 審査待ち・却下済みの店舗
func (u *StoreUsecase) ListForReview(ctx context.Context) ([]model.Store, error) {
	list, err := u.stores.ListByStatus(ctx, model.StoreStatusPending, model.StoreStatusRejected)
	if err != nil {
		return nil, Internal(err)
	}
	return list, nil
}

// 承認済みの店舗
func (u *StoreUsecase) ListApproved(ctx context.Context) ([]model.Store, error) {
	list, err := u.stores.ListByStatus(ctx, model.StoreStatusApproved)
	if err != nil {
		return nil, Internal(err)
	}
	return list, nil
}

// Review は審査結果を反映する。approved なら公開、rejected なら非公開
func (u *StoreUsecase) Review(ctx context.Context, adminUserID string, in ReviewStoreInput) (model.Store, error) {
	if strings.TrimSpace(in.StoreID) == "" {
		return model.Store{}, Validation("missing storeId")
	}
	status := model.StoreStatus(strings.ToLower(strings.TrimSpace(string(in.Status))))
	if status != model.StoreStatusApproved && status != model.StoreStatusRejected {
		return model.Store{}, Validation("status must be approved or rejected")
	}
	if !isID(in.StoreID) {
		return model.Store{}, NotFound("store not found")
	}
	active := status == model.StoreStatusApproved

	return u.updateStore(ctx, adminUserID, in.StoreID, model.AuditActionUpdateStoreStatus,
		func(r repo.StoreRepository, s model.Store) (model.Store, error) {
			if err := r.UpdateStatus(ctx, s.ID, status, active); err != nil {
				return model.Store{}, err
			}
			s.Status = status
			s.IsActive = active
			return s, nil
		})
}

// Toggle は公開/非公開を反転する
func (u *StoreUsecase) Toggle(ctx context.Context, adminUserID string, in ToggleStoreInput) (model.Store, string, error) {
	if strings.TrimSpace(in.StoreID) == "" {
		return model.Store{}, "", Validation("missing storeId")
	}
	if !isID(in.StoreID) {
		return model.Store{}, "", NotFound("store not found")
	}

	s, err := u.updateStore(ctx, adminUserID, in.StoreID, model.AuditActionToggleStore,
		func(r repo.StoreRepository, s model.Store) (model.Store, error) {
			if err := r.SetActive(ctx, s.ID, !s.IsActive); err != nil {
				return model.Store{}, err
			}
			s.IsActive = !s.IsActive
			return s, nil
		})
	if err != nil {
		return model.Store{}, "", err
	}

	state := "deactivated"
	if s.IsActive {
		state = "activated"
	}
	return s, fmt.Sprintf("Store %s successfully", state), nil
}

type storeState struct {
	Status   model.StoreStatus `json:"status"`
	IsActive bool              `json:"isActive"`
}

// updateStore は読み込み→変更→監査ログを1トランザクションで行う
func (u *StoreUsecase) updateStore(
	ctx context.Context,
	actorUserID, storeID string,
	action model.AuditAction,
	apply func(r repo.StoreRepository, s model.Store) (model.Store, error),
) (model.Store, error) {
	var updated model.Store
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		s, err := r.Stores().FindByID(ctx, storeID)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("store not found")
		}
		if err != nil {
			return Internal(err)
		}

		before := storeState{Status: s.Status, IsActive: s.IsActive}
		s, err = apply(r.Stores(), s)
		if err != nil {
			return Internal(err)
		}
		s.UpdatedAt = u.now()

		if err := r.AuditLogs().Create(ctx, auditEntry(
			u.newID(), actorUserID, action, model.AuditResourceStore, s.ID,
			before, storeState{Status: s.Status, IsActive: s.IsActive},
			u.now(),
		)); err != nil {
			return Internal(err)
		}
		updated = s
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return model.Store{}, err
		}
		return model.Store{}, Internal(err)
	}
	return updated, nil
}
