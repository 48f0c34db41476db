package migrate

import (
	"context"
	"database/sql"

	"coord-api/internal/logger"
)

// 文档注释：首次运行创建统计表
// 约束：IF NOT EXISTS / ON CONFLICT DO NOTHING 保证可重复执行。
var schema = []string{
	`CREATE TABLE IF NOT EXISTS _conv_stats_total (
        id INT PRIMARY KEY,
        total_requests BIGINT NOT NULL DEFAULT 0,
        total_points BIGINT NOT NULL DEFAULT 0
    )`,
	`CREATE TABLE IF NOT EXISTS _conv_stats_daily (
        day DATE PRIMARY KEY,
        requests BIGINT NOT NULL DEFAULT 0,
        points BIGINT NOT NULL DEFAULT 0
    )`,
	`INSERT INTO _conv_stats_total(id, total_requests, total_points)
     VALUES(1, 0, 0)
     ON CONFLICT (id) DO NOTHING`,
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, s := range schema {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
