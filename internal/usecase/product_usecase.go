package usecase

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// FileInput はアップロードされた1ファイル
type FileInput struct {
	Filename string
	Body     io.Reader
}

// 出品フォーム（multipart）の入力
type CreateProductInput struct {
	Name        string
	Description string
	MRP         string
	Price       string
	Category    string
	Images      []FileInput
}

type StockToggleInput struct {
	ProductID string `json:"productId"`
}

type ProductUsecase struct {
	tx       repo.TransactionManager
	products repo.ProductRepository
	media    MediaStore
	newID    IDGenerator
	now      func() time.Time
}

func NewProductUsecase(tx repo.TransactionManager, products repo.ProductRepository, media MediaStore) *ProductUsecase {
	return &ProductUsecase{tx: tx, products: products, media: media, newID: NewUUID, now: time.Now}
}

// 公開中の店舗の在庫あり商品
func (u *ProductUsecase) ListPublic(ctx context.Context) ([]model.Product, error) {
	items, err := u.products.ListPublic(ctx)
	if err != nil {
		return nil, Internal(err)
	}
	return items, nil
}

// 出品者の商品一覧（在庫なしも含む）
func (u *ProductUsecase) ListForStore(ctx context.Context, storeID string) ([]model.Product, error) {
	items, err := u.products.ListByStore(ctx, storeID, false)
	if err != nil {
		return nil, Internal(err)
	}
	return items, nil
}

func parseMoney(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Decimal{}, Validation(field + " is required")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, Validation(field + " must be a non-negative number")
	}
	return d.Round(2), nil
}

// Create は画像を保存してから商品を登録する
func (u *ProductUsecase) Create(ctx context.Context, storeID string, in CreateProductInput) (model.Product, error) {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return model.Product{}, Validation("name is required")
	case strings.TrimSpace(in.Description) == "":
		return model.Product{}, Validation("description is required")
	case strings.TrimSpace(in.Category) == "":
		return model.Product{}, Validation("category is required")
	case len(in.Images) == 0:
		return model.Product{}, Validation("at least one image is required")
	}
	mrp, err := parseMoney("mrp", in.MRP)
	if err != nil {
		return model.Product{}, err
	}
	price, err := parseMoney("price", in.Price)
	if err != nil {
		return model.Product{}, err
	}

	urls := make([]string, 0, len(in.Images))
	for _, img := range in.Images {
		url, err := u.media.Upload(ctx, "products", img.Filename, img.Body)
		if err != nil {
			return model.Product{}, uploadErr(err)
		}
		urls = append(urls, url)
	}

	now := u.now()
	p, err := u.products.Create(ctx, model.Product{
		ID:          u.newID(),
		StoreID:     storeID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		MRP:         mrp,
		Price:       price,
		Category:    strings.TrimSpace(in.Category),
		Images:      urls,
		InStock:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Product{}, Internal(err)
	}
	return p, nil
}

// ToggleStock は在庫あり/なしを反転し、監査ログを残す
func (u *ProductUsecase) ToggleStock(ctx context.Context, actorUserID, storeID string, in StockToggleInput) (model.Product, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return model.Product{}, Validation("missing details: productId")
	}
	if !isID(in.ProductID) {
		return model.Product{}, NotFound("Product not found or not authorized")
	}

	var updated model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, in.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("Product not found or not authorized")
		}
		if err != nil {
			return Internal(err)
		}
		// 他店舗の商品は見えないものとして扱う
		if p.StoreID != storeID {
			return NotFound("Product not found or not authorized")
		}

		next := !p.InStock
		if err := r.Products().SetInStock(ctx, p.ID, next); err != nil {
			return Internal(err)
		}
		if err := r.AuditLogs().Create(ctx, auditEntry(
			u.newID(), actorUserID,
			model.AuditActionToggleStock, model.AuditResourceProduct, p.ID,
			map[string]bool{"inStock": p.InStock},
			map[string]bool{"inStock": next},
			u.now(),
		)); err != nil {
			return Internal(err)
		}

		p.InStock = next
		updated = p
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return model.Product{}, err
		}
		return model.Product{}, Internal(err)
	}
	return updated, nil
}
