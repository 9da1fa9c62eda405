package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mandalnilabja/klingate/internal/storage/models"
)

// CreateKlingKey stores a new upstream credential. Access and secret keys
// are encrypted before they touch the database.
func (s *Storage) CreateKlingKey(key *models.KlingKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	if key.AccessKey == "" || key.SecretKey == "" || key.Region == "" || key.Purpose == "" {
		return ErrInvalidInput
	}

	if key.ID == "" {
		key.ID = generateID("kk")
	}
	if key.Name == "" {
		key.Name = key.ID
	}

	encAccess, err := s.encryptor.Encrypt(key.AccessKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncryptionError, err)
	}
	encSecret, err := s.encryptor.Encrypt(key.SecretKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncryptionError, err)
	}

	now := time.Now().UTC()
	key.CreatedAt = now
	key.UpdatedAt = now

	_, err = s.db.Exec(`
		INSERT INTO kling_keys (id, name, access_key, secret_key, region, purpose,
			enabled, remaining_units, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, key.ID, key.Name, encAccess, encSecret, key.Region, key.Purpose,
		boolToInt(key.Enabled), key.RemainingUnits, key.ExpiresAt, key.CreatedAt, key.UpdatedAt)

	return err
}

// GetKlingKey retrieves a credential by ID with secrets decrypted.
func (s *Storage) GetKlingKey(id string) (*models.KlingKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	row := s.db.QueryRow(`
		SELECT id, name, access_key, secret_key, region, purpose,
			enabled, remaining_units, expires_at, created_at, updated_at
		FROM kling_keys WHERE id = ?
	`, id)

	key, err := s.scanKlingKey(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return key, err
}

// ListKlingKeys retrieves all stored credentials with secrets decrypted.
func (s *Storage) ListKlingKeys() ([]*models.KlingKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	rows, err := s.db.Query(`
		SELECT id, name, access_key, secret_key, region, purpose,
			enabled, remaining_units, expires_at, created_at, updated_at
		FROM kling_keys ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []*models.KlingKey
	for rows.Next() {
		key, err := s.scanKlingKey(rows.Scan)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}

// UpdateKlingKey updates an existing credential.
func (s *Storage) UpdateKlingKey(key *models.KlingKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	if key.ID == "" {
		return ErrInvalidInput
	}

	encAccess, err := s.encryptor.Encrypt(key.AccessKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncryptionError, err)
	}
	encSecret, err := s.encryptor.Encrypt(key.SecretKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncryptionError, err)
	}

	key.UpdatedAt = time.Now().UTC()

	result, err := s.db.Exec(`
		UPDATE kling_keys
		SET name = ?, access_key = ?, secret_key = ?, region = ?, purpose = ?,
			enabled = ?, remaining_units = ?, expires_at = ?, updated_at = ?
		WHERE id = ?
	`, key.Name, encAccess, encSecret, key.Region, key.Purpose,
		boolToInt(key.Enabled), key.RemainingUnits, key.ExpiresAt, key.UpdatedAt, key.ID)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// SetKlingKeyEnabled flips the enabled flag without touching the secrets.
func (s *Storage) SetKlingKeyEnabled(id string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	result, err := s.db.Exec(
		"UPDATE kling_keys SET enabled = ?, updated_at = ? WHERE id = ?",
		boolToInt(enabled), time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteKlingKey removes a credential by ID.
func (s *Storage) DeleteKlingKey(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	result, err := s.db.Exec("DELETE FROM kling_keys WHERE id = ?", id)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// scanKlingKey decodes one row and decrypts the credential pair.
func (s *Storage) scanKlingKey(scan func(dest ...any) error) (*models.KlingKey, error) {
	var key models.KlingKey
	var enabled int
	var encAccess, encSecret string
	var remainingUnits sql.NullFloat64
	var expiresAt sql.NullTime

	err := scan(&key.ID, &key.Name, &encAccess, &encSecret, &key.Region, &key.Purpose,
		&enabled, &remainingUnits, &expiresAt, &key.CreatedAt, &key.UpdatedAt)
	if err != nil {
		return nil, err
	}

	access, err := s.encryptor.Decrypt(encAccess)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionError, err)
	}
	secret, err := s.encryptor.Decrypt(encSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionError, err)
	}

	key.AccessKey = access
	key.SecretKey = secret
	key.Enabled = enabled == 1
	if remainingUnits.Valid {
		key.RemainingUnits = &remainingUnits.Float64
	}
	if expiresAt.Valid {
		key.ExpiresAt = &expiresAt.Time
	}

	return &key, nil
}
