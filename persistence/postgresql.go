// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq"

	"github.com/wfunc/bingoserver/models"
)

// PostgreSQL 数据库实现 (database/sql)
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	// 设置连接池参数
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 初始化表结构
	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

// initTables 初始化数据库表结构
func initTables(db *sql.DB) error {
	// 创建玩家表
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS gorm_players (
            id SERIAL PRIMARY KEY,
            player_id VARCHAR(255) UNIQUE NOT NULL,
            name VARCHAR(255) NOT NULL,
            balance DOUBLE PRECISION NOT NULL DEFAULT 50,
            wins INTEGER NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            deleted_at TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	// 创建游戏记录表
	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS gorm_game_records (
            id SERIAL PRIMARY KEY,
            room_id VARCHAR(255) NOT NULL,
            room_name VARCHAR(255) NOT NULL,
            winner_id VARCHAR(255),
            winner_name VARCHAR(255),
            pattern VARCHAR(50),
            prize_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
            numbers_drawn INTEGER NOT NULL DEFAULT 0,
            player_count INTEGER NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            deleted_at TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	// 创建索引以提高查询性能
	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_gorm_players_player_id ON gorm_players(player_id);
        CREATE INDEX IF NOT EXISTS idx_gorm_game_records_room_id ON gorm_game_records(room_id);
        CREATE INDEX IF NOT EXISTS idx_gorm_game_records_winner_id ON gorm_game_records(winner_id);
    `)

	return err
}

// GetPlayer 加载玩家数据
func (p *PostgreSQL) GetPlayer(playerID string) (*models.PlayerData, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return scanPlayer(p.db.QueryRowContext(ctx,
		`SELECT player_id, name, balance, wins, created_at, updated_at
         FROM gorm_players WHERE player_id = $1 AND deleted_at IS NULL`, playerID))
}

// EnsurePlayer 返回玩家记录，不存在时以初始余额创建
func (p *PostgreSQL) EnsurePlayer(playerID, name string) (*models.PlayerData, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := p.db.ExecContext(ctx, `
        INSERT INTO gorm_players (player_id, name, balance, wins)
        VALUES ($1, $2, $3, 0)
        ON CONFLICT (player_id) DO NOTHING
    `, playerID, name, float64(defaultStartingBalance))
	if err != nil {
		return nil, err
	}
	return p.GetPlayer(playerID)
}

// AdjustBalance 原子调整玩家余额，返回新余额
func (p *PostgreSQL) AdjustBalance(playerID string, delta float64) (float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var balance float64
	err = tx.QueryRowContext(ctx,
		`SELECT balance FROM gorm_players WHERE player_id = $1 AND deleted_at IS NULL FOR UPDATE`,
		playerID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrRecordNotFound
		}
		return 0, err
	}

	if delta < 0 && balance+delta < 0 {
		return 0, ErrInsufficientFunds
	}

	newBalance := balance + delta
	_, err = tx.ExecContext(ctx,
		`UPDATE gorm_players SET balance = $1, updated_at = CURRENT_TIMESTAMP WHERE player_id = $2`,
		newBalance, playerID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newBalance, nil
}

// IncrementWins 累加玩家胜场
func (p *PostgreSQL) IncrementWins(playerID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := p.db.ExecContext(ctx,
		`UPDATE gorm_players SET wins = wins + 1, updated_at = CURRENT_TIMESTAMP WHERE player_id = $1`,
		playerID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// SaveGameRecord 保存游戏记录
func (p *PostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := p.db.ExecContext(ctx, `
        INSERT INTO gorm_game_records
            (room_id, room_name, winner_id, winner_name, pattern, prize_amount, numbers_drawn, player_count)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, record.RoomID, record.RoomName, record.WinnerID, record.WinnerName,
		record.Pattern, record.PrizeAmount, record.NumbersDrawn, record.PlayerCount)

	return err
}

// GetPlayerStats 获取玩家统计信息
func (p *PostgreSQL) GetPlayerStats(playerID string) (*models.PlayerStats, error) {
	player, err := p.GetPlayer(playerID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var totalGames int
	err = p.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM gorm_game_records WHERE winner_id = $1`,
		playerID).Scan(&totalGames)
	if err != nil {
		return nil, err
	}

	return &models.PlayerStats{
		TotalGames: totalGames,
		Wins:       player.Wins,
		Balance:    player.Balance,
	}, nil
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}

func scanPlayer(row *sql.Row) (*models.PlayerData, error) {
	var player models.PlayerData
	err := row.Scan(&player.PlayerID, &player.Name, &player.Balance, &player.Wins,
		&player.CreatedAt, &player.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &player, nil
}
