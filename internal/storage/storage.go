// Package storage provides the storage interface and implementations.
package storage

import (
	"github.com/mandalnilabja/klingate/internal/storage/models"
	"github.com/mandalnilabja/klingate/internal/storage/sqlite"
)

// Re-export types from models package for convenience
type (
	KlingKey            = models.KlingKey
	KlingKeyPreview     = models.KlingKeyPreview
	ClientAPIKey        = models.ClientAPIKey
	ClientAPIKeyPreview = models.ClientAPIKeyPreview
	RequestLog          = models.RequestLog
	LogFilter           = models.LogFilter
	DailyUsage          = models.DailyUsage
	PathStats           = models.PathStats
	UsageStats          = models.UsageStats
	StatsFilter         = models.StatsFilter
)

// Re-export functions from models package
var MaskAccessKey = models.MaskAccessKey

// Request outcome values
const (
	OutcomeSuccess  = models.OutcomeSuccess
	OutcomeAPIError = models.OutcomeAPIError
	OutcomeNoKeys   = models.OutcomeNoKeys
	OutcomeFailed   = models.OutcomeFailed
)

// Re-export errors from sqlite package
var (
	ErrNotFound        = sqlite.ErrNotFound
	ErrDuplicateKey    = sqlite.ErrDuplicateKey
	ErrInvalidInput    = sqlite.ErrInvalidInput
	ErrStorageClosed   = sqlite.ErrStorageClosed
	ErrEncryptionError = sqlite.ErrEncryptionError
)

// Storage defines the interface for persistent data storage
type Storage interface {
	// Kling credential operations
	CreateKlingKey(key *models.KlingKey) error
	GetKlingKey(id string) (*models.KlingKey, error)
	ListKlingKeys() ([]*models.KlingKey, error)
	UpdateKlingKey(key *models.KlingKey) error
	SetKlingKeyEnabled(id string, enabled bool) error
	DeleteKlingKey(id string) error

	// Request logging operations
	LogRequest(log *models.RequestLog) error
	GetRequestLogs(filter models.LogFilter) ([]*models.RequestLog, error)
	DeleteRequestLogs(olderThan string) (int64, error)

	// Usage statistics operations
	GetUsageStats(filter models.StatsFilter) (*models.UsageStats, error)
	GetDailyUsage(startDate, endDate string) ([]*models.DailyUsage, error)
	UpdateDailyUsage(usage *models.DailyUsage) error

	// Client API key operations
	CreateAPIKey(key *models.ClientAPIKey) error
	GetAPIKey(id string) (*models.ClientAPIKey, error)
	GetAPIKeyByPrefix(prefix string) ([]*models.ClientAPIKey, error)
	ListAPIKeys() ([]*models.ClientAPIKey, error)
	UpdateAPIKey(key *models.ClientAPIKey) error
	DeleteAPIKey(id string) error
	UpdateAPIKeyLastUsed(id string) error

	// Admin password operations
	GetAdminPasswordHash() (string, error)
	SetAdminPasswordHash(hash string) error
	HasAdminPassword() (bool, error)

	// Maintenance operations
	Close() error
}

// NewSQLiteStorage creates a new SQLite storage instance
// This is the main factory function for creating storage
func NewSQLiteStorage(dbPath string) (Storage, error) {
	return sqlite.New(dbPath)
}
