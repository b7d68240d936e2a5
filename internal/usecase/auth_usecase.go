package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, email, password, name string) error
	ValidateLogin(ctx context.Context, email, password string) error
}

type UserDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type JwtAccessTokenDTO struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
}

type AuthRegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type AuthRegisterResponse struct {
	User UserDTO `json:"user"`
}

type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthLoginResponse struct {
	User  UserDTO           `json:"user"`
	Token JwtAccessTokenDTO `json:"token"`
}

type AuthUsecase struct {
	secret    []byte
	ttl       time.Duration
	users     repository.UserRepository
	validator AuthValidator
	newID     IDGenerator
	now       func() time.Time
}

func NewAuthUsecase(cfg config.Config, users repository.UserRepository, validator AuthValidator) *AuthUsecase {
	return &AuthUsecase{
		secret:    []byte(cfg.JWTSecret),
		ttl:       cfg.JWTTTL,
		users:     users,
		validator: validator,
		newID:     NewUUID,
		now:       time.Now,
	}
}

func (u *AuthUsecase) Register(ctx context.Context, req AuthRegisterRequest) (*AuthRegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)

	//入力検証（validatorに寄せる）
	if err := u.validator.ValidateRegister(ctx, email, req.Password, name); err != nil {
		return nil, err
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, Internal(err)
	}

	now := u.now()
	user := &model.User{
		ID:           u.newID(),
		Email:        email,
		Name:         name,
		PasswordHash: string(pwHash),
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Rule("email already used")
		}
		return nil, Internal(err)
	}

	return &AuthRegisterResponse{User: toUserDTO(user)}, nil
}

func (u *AuthUsecase) Login(ctx context.Context, req AuthLoginRequest) (*AuthLoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := u.validator.ValidateLogin(ctx, email, req.Password); err != nil {
		return nil, err
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, Internal(err)
	}
	if user == nil {
		return nil, Unauthorized()
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, Unauthorized()
	}

	accessToken, expiresIn, err := u.issueAccessToken(user)
	if err != nil {
		return nil, Internal(err)
	}

	return &AuthLoginResponse{
		User: toUserDTO(user),
		Token: JwtAccessTokenDTO{
			AccessToken: accessToken,
			ExpiresIn:   expiresIn,
		},
	}, nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID string) (*UserDTO, error) {
	if !isID(userID) {
		return nil, Unauthorized()
	}
	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && user == nil) {
		return nil, Unauthorized()
	}
	if err != nil {
		return nil, Internal(err)
	}
	dto := toUserDTO(user)
	return &dto, nil
}

// HS256。sub=ユーザーID、role=USER/ADMIN
func (u *AuthUsecase) issueAccessToken(user *model.User) (string, int, error) {
	now := u.now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(u.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(u.secret)
	if err != nil {
		return "", 0, errors.Wrap(err, "sign token")
	}
	return signed, int(u.ttl.Seconds()), nil
}

// model.UserをAPI返却用DTOに変換。
func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  string(u.Role),
	}
}
