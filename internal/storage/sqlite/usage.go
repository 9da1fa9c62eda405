package sqlite

import "github.com/mandalnilabja/klingate/internal/storage/models"

// UpdateDailyUsage upserts daily usage data
func (s *Storage) UpdateDailyUsage(usage *models.DailyUsage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	// key_id stays an empty string rather than NULL so ON CONFLICT matches
	_, err := s.db.Exec(`
		INSERT INTO usage_daily (date, key_id, path, request_count, error_count, units)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, key_id, path) DO UPDATE SET
			request_count = request_count + excluded.request_count,
			error_count = error_count + excluded.error_count,
			units = units + excluded.units
	`, usage.Date, usage.KeyID, usage.Path, usage.RequestCount, usage.ErrorCount, usage.Units)

	return err
}

// GetUsageStats retrieves aggregated usage statistics
func (s *Storage) GetUsageStats(filter models.StatsFilter) (*models.UsageStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	query := `SELECT
		COALESCE(SUM(request_count), 0),
		COALESCE(SUM(error_count), 0),
		COALESCE(SUM(units), 0)
		FROM usage_daily WHERE 1=1`

	var args []any

	if filter.KeyID != "" {
		query += " AND key_id = ?"
		args = append(args, filter.KeyID)
	}
	if filter.Path != "" {
		query += " AND path = ?"
		args = append(args, filter.Path)
	}
	if filter.StartDate != nil {
		query += " AND date >= ?"
		args = append(args, filter.StartDate.Format("2006-01-02"))
	}
	if filter.EndDate != nil {
		query += " AND date <= ?"
		args = append(args, filter.EndDate.Format("2006-01-02"))
	}

	stats := &models.UsageStats{
		PathBreakdown: make(map[string]*models.PathStats),
	}

	err := s.db.QueryRow(query, args...).Scan(
		&stats.TotalRequests,
		&stats.ErrorCount,
		&stats.TotalUnits,
	)
	if err != nil {
		return nil, err
	}

	// Per-endpoint breakdown
	pathQuery := `SELECT path,
		COALESCE(SUM(request_count), 0),
		COALESCE(SUM(error_count), 0),
		COALESCE(SUM(units), 0)
		FROM usage_daily WHERE 1=1`

	if filter.KeyID != "" {
		pathQuery += " AND key_id = ?"
	}
	if filter.Path != "" {
		pathQuery += " AND path = ?"
	}
	if filter.StartDate != nil {
		pathQuery += " AND date >= ?"
	}
	if filter.EndDate != nil {
		pathQuery += " AND date <= ?"
	}
	pathQuery += " GROUP BY path"

	rows, err := s.db.Query(pathQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ps models.PathStats
		err := rows.Scan(&ps.Path, &ps.RequestCount, &ps.ErrorCount, &ps.Units)
		if err != nil {
			return nil, err
		}
		stats.PathBreakdown[ps.Path] = &ps
	}

	return stats, rows.Err()
}

// GetDailyUsage retrieves daily usage data for a date range
func (s *Storage) GetDailyUsage(startDate, endDate string) ([]*models.DailyUsage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	rows, err := s.db.Query(`
		SELECT date, COALESCE(key_id, ''), path, request_count, error_count, units
		FROM usage_daily
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC, path ASC
	`, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usage []*models.DailyUsage
	for rows.Next() {
		var u models.DailyUsage
		err := rows.Scan(&u.Date, &u.KeyID, &u.Path, &u.RequestCount, &u.ErrorCount, &u.Units)
		if err != nil {
			return nil, err
		}
		usage = append(usage, &u)
	}

	return usage, rows.Err()
}
