// 包 store：PostgreSQL 访问层，只记录调用量统计，从不保存换算结果
package store

import (
	"context"
	"database/sql"
	"errors"

	"coord-api/internal/logger"
)

// Store 持有连接池
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// Totals 累计与当日的请求数、点数
type Totals struct {
	TotalRequests int64 `json:"total_requests"`
	TotalPoints   int64 `json:"total_points"`
	TodayRequests int64 `json:"today_requests"`
	TodayPoints   int64 `json:"today_points"`
}

// 文档注释：一次成功换算请求后递增统计
// 背景：总表单行自增，日表按 current_date upsert；两条语句放在同一事务内保证口径一致。
// 约束：points<=0 视为 0；失败返回错误，调用方只记录日志不影响响应。
func (s *Store) IncrStats(ctx context.Context, points int) error {
	if points < 0 {
		points = 0
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, "UPDATE _conv_stats_total SET total_requests=total_requests+1, total_points=total_points+$1 WHERE id=1", points); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO _conv_stats_daily(day, requests, points) VALUES(current_date, 1, $1)
        ON CONFLICT (day) DO UPDATE SET requests=_conv_stats_daily.requests+1, points=_conv_stats_daily.points+EXCLUDED.points`, points); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	logger.L().Debug("stats_incr", "points", points)
	return nil
}

// GetTotals 读取累计与当日统计；当日尚无记录时为 0
func (s *Store) GetTotals(ctx context.Context) (*Totals, error) {
	var t Totals
	row := s.db.QueryRowContext(ctx, "SELECT total_requests, total_points FROM _conv_stats_total WHERE id=1")
	if err := row.Scan(&t.TotalRequests, &t.TotalPoints); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	row2 := s.db.QueryRowContext(ctx, "SELECT requests, points FROM _conv_stats_daily WHERE day=current_date")
	if err := row2.Scan(&t.TodayRequests, &t.TodayPoints); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	logger.L().Debug("stats_totals", "total", t.TotalRequests, "today", t.TodayRequests)
	return &t, nil
}
