package usecase

import (
	"encoding/json"
	"time"

	"storefront/internal/domain/model"
)

// 監査ログ1件を組み立てる。before/after は JSON にする
func auditEntry(id, actor string, action model.AuditAction, rt model.AuditResourceType, resourceID string, before, after any, at time.Time) model.AuditLog {
	return model.AuditLog{
		ID:           id,
		ActorUserID:  actor,
		Action:       action,
		ResourceType: rt,
		ResourceID:   resourceID,
		BeforeJSON:   toJSON(before),
		AfterJSON:    toJSON(after),
		CreatedAt:    at,
	}
}

func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
