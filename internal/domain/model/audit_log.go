package model

import "time"

// 管理者・出品者の操作種別
type AuditAction string

const (
	// 注文ステータスを1段階進めた
	AuditActionAdvanceOrderStatus AuditAction = "ADVANCE_ORDER_STATUS"
	// 店舗の審査結果を更新した
	AuditActionUpdateStoreStatus AuditAction = "UPDATE_STORE_STATUS"
	// 店舗の公開/非公開を切り替えた
	AuditActionToggleStore AuditAction = "TOGGLE_STORE"
	// 在庫あり/なしを切り替えた
	AuditActionToggleStock AuditAction = "TOGGLE_STOCK"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceOrder   AuditResourceType = "order"
	AuditResourceStore   AuditResourceType = "store"
	AuditResourceProduct AuditResourceType = "product"
)

// 監査ログ。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID           string            `gorm:"type:uuid;primaryKey" json:"id"`
	ActorUserID  string            `gorm:"type:uuid;not null;index" json:"actorUserId"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resourceType"`
	ResourceID   string            `gorm:"type:uuid;not null;index" json:"resourceId"`
	BeforeJSON   string            `gorm:"type:text" json:"beforeJson"`
	AfterJSON    string            `gorm:"type:text" json:"afterJson"`
	CreatedAt    time.Time         `gorm:"not null;index" json:"createdAt"`
}
