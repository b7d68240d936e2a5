package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

type AddressCreateRequest struct {
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Street      string            `json:"street"`
	City        string            `json:"city"`
	State       string            `json:"state"`
	Zip         string            `json:"zip"`
	Country     string            `json:"country"`
	Phone       string            `json:"phone"`
	ClientType  model.ClientType  `json:"clientType"`
	AddressType model.AddressType `json:"addressType"`
	Notes       string            `json:"notes"`
}

type AddressUsecase struct {
	addresses repository.AddressRepository
	newID     IDGenerator
	now       func() time.Time
}

func NewAddressUsecase(addresses repository.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addresses: addresses, newID: NewUUID, now: time.Now}
}

// 新しい順
func (u *AddressUsecase) List(ctx context.Context, userID string) ([]model.Address, error) {
	if userID == "" {
		return nil, Unauthorized()
	}

	list, err := u.addresses.ListByUserID(ctx, userID)
	if err != nil {
		return nil, Internal(err)
	}
	return list, nil
}

func (u *AddressUsecase) Create(ctx context.Context, userID string, req AddressCreateRequest) (model.Address, error) {
	if userID == "" {
		return model.Address{}, Unauthorized()
	}

	//入力チェック（最初に見つかった項目を返す）
	required := []struct{ name, value string }{
		{"name", req.Name},
		{"email", req.Email},
		{"street", req.Street},
		{"city", req.City},
		{"state", req.State},
		{"zip", req.Zip},
		{"country", req.Country},
		{"phone", req.Phone},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return model.Address{}, Validation(f.name + " is required")
		}
	}

	if req.ClientType == "" {
		req.ClientType = model.ClientIndividual
	}
	switch req.ClientType {
	case model.ClientIndividual, model.ClientBusiness, model.ClientOrganization:
	default:
		return model.Address{}, Validation("invalid clientType")
	}

	if req.AddressType == "" {
		req.AddressType = model.AddressHome
	}
	switch req.AddressType {
	case model.AddressHome, model.AddressOffice, model.AddressWarehouse, model.AddressOther:
	default:
		return model.Address{}, Validation("invalid addressType")
	}

	a := model.Address{
		ID:          u.newID(),
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Street:      strings.TrimSpace(req.Street),
		City:        strings.TrimSpace(req.City),
		State:       strings.TrimSpace(req.State),
		Zip:         strings.TrimSpace(req.Zip),
		Country:     strings.TrimSpace(req.Country),
		Phone:       strings.TrimSpace(req.Phone),
		ClientType:  req.ClientType,
		AddressType: req.AddressType,
		Notes:       req.Notes,
		CreatedAt:   u.now(),
	}

	created, err := u.addresses.Create(ctx, a)
	if err != nil {
		return model.Address{}, Internal(err)
	}
	return created, nil
}

// 他人の住所は存在しない扱い（404）
func (u *AddressUsecase) Delete(ctx context.Context, userID, addressID string) error {
	if userID == "" {
		return Unauthorized()
	}
	if strings.TrimSpace(addressID) == "" {
		return Validation("Address ID is required")
	}

	if !isID(addressID) {
		return NotFound("Address not found or unauthorized")
	}

	owned, err := u.addresses.IsOwnedByUser(ctx, addressID, userID)
	if err != nil {
		return Internal(err)
	}
	if !owned {
		return NotFound("Address not found or unauthorized")
	}

	if err := u.addresses.Delete(ctx, addressID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFound("Address not found or unauthorized")
		}
		return Internal(err)
	}
	return nil
}
