// Package models contains data models for storage operations.
package models

import "time"

// KlingKey is a stored Kling API credential. AccessKey and SecretKey are
// encrypted at rest; the secret never appears in any preview or log.
type KlingKey struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	AccessKey      string     `json:"access_key"`
	SecretKey      string     `json:"secret_key"`
	Region         string     `json:"region"`  // global or cn
	Purpose        string     `json:"purpose"` // image, video or all
	Enabled        bool       `json:"enabled"`
	RemainingUnits *float64   `json:"remaining_units,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// KlingKeyPreview is a safe representation of a stored key: the access key
// is masked and the secret is absent entirely.
type KlingKeyPreview struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	AccessKeyPreview string     `json:"access_key_preview"`
	Region           string     `json:"region"`
	Purpose          string     `json:"purpose"`
	Enabled          bool       `json:"enabled"`
	RemainingUnits   *float64   `json:"remaining_units,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// MaskAccessKey creates a masked preview of an access key
func MaskAccessKey(key string) string {
	if len(key) <= 10 {
		return "***"
	}
	return key[:6] + "..." + key[len(key)-4:]
}

// ToPreview converts a KlingKey to a safe KlingKeyPreview
func (k *KlingKey) ToPreview() *KlingKeyPreview {
	return &KlingKeyPreview{
		ID:               k.ID,
		Name:             k.Name,
		AccessKeyPreview: MaskAccessKey(k.AccessKey),
		Region:           k.Region,
		Purpose:          k.Purpose,
		Enabled:          k.Enabled,
		RemainingUnits:   k.RemainingUnits,
		ExpiresAt:        k.ExpiresAt,
		CreatedAt:        k.CreatedAt,
		UpdatedAt:        k.UpdatedAt,
	}
}
