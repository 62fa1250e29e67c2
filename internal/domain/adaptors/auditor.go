package adaptors

import (
	"context"

	"link_auditor/internal/domain/models"
)

type AuditRunner interface {
	Run(ctx context.Context) (*models.AuditResult, error)
}
