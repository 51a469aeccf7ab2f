package service

import (
	"context"

	"bolt-sync-be/internal/dto"
	"bolt-sync-be/internal/pkg/logger"
)

type IAdminService interface {
	GetSystemLogs(ctx context.Context, page, limit int, level string) (*dto.GetLogsResponse, error)
}

type adminService struct {
	logger logger.ILogger
}

func NewAdminService(log logger.ILogger) IAdminService {
	return &adminService{
		logger: log,
	}
}

func (s *adminService) GetSystemLogs(ctx context.Context, page, limit int, level string) (*dto.GetLogsResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}
	offset := (page - 1) * limit

	logs, err := s.logger.GetLogs(level, limit, offset)
	if err != nil {
		return nil, err
	}

	return &dto.GetLogsResponse{Logs: logs}, nil
}
