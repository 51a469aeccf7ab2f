package dto

import "bolt-sync-be/internal/pkg/logger"

type GetLogsResponse struct {
	Logs []logger.LogEntry `json:"logs"`
}
