package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"quincena/internal/logger"
	"quincena/internal/models"
)

type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log appends one row to the user's audit trail, e.g. CREATE_EXPENSE on an
// expense or UPDATE_SETTINGS on user_settings. changes holds the submitted
// fields; money values are stored as decimal strings. A failed write is
// logged and dropped, never surfaced to the caller.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      encodeChanges(action, changes),
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("audit write dropped",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource", resourceType+"/"+resourceID,
		)
	}
}

// encodeChanges renders changes as a JSON object. Empty change sets are
// stored as "" and unencodable ones as "{}".
func encodeChanges(action string, changes map[string]any) string {
	if len(changes) == 0 {
		return ""
	}
	data, err := json.Marshal(changes)
	if err != nil {
		logger.Get().Errorw("audit changes not encodable", "error", err, "action", action)
		return "{}"
	}
	return string(data)
}
