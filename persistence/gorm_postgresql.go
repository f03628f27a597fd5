// persistence/gorm_postgresql.go
package persistence

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/wfunc/bingoserver/models"
)

// 新玩家的初始余额
const defaultStartingBalance = 50

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// 配置GORM日志
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移表结构
	if err := db.AutoMigrate(&models.GormPlayer{}, &models.GormGameRecord{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// GetPlayer 加载玩家数据
func (p *GormPostgreSQL) GetPlayer(playerID string) (*models.PlayerData, error) {
	var player models.GormPlayer
	if err := p.db.Where("player_id = ?", playerID).First(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return toPlayerData(&player), nil
}

// EnsurePlayer 返回玩家记录，不存在时以初始余额创建
func (p *GormPostgreSQL) EnsurePlayer(playerID, name string) (*models.PlayerData, error) {
	var player models.GormPlayer
	err := p.db.Where("player_id = ?", playerID).First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		player = models.GormPlayer{
			PlayerID: playerID,
			Name:     name,
			Balance:  defaultStartingBalance,
		}
		if err := p.db.Create(&player).Error; err != nil {
			return nil, err
		}
		return toPlayerData(&player), nil
	}
	if err != nil {
		return nil, err
	}
	return toPlayerData(&player), nil
}

// AdjustBalance 原子调整玩家余额，返回新余额
// 负的delta在余额不足时返回 ErrInsufficientFunds，不产生任何变更。
func (p *GormPostgreSQL) AdjustBalance(playerID string, delta float64) (float64, error) {
	var newBalance float64
	err := p.db.Transaction(func(tx *gorm.DB) error {
		var player models.GormPlayer
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("player_id = ?", playerID).First(&player).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}

		if delta < 0 && player.Balance+delta < 0 {
			return ErrInsufficientFunds
		}

		if err := tx.Model(&player).Update("balance", gorm.Expr("balance + ?", delta)).Error; err != nil {
			return err
		}
		newBalance = player.Balance + delta
		return nil
	})
	return newBalance, err
}

// IncrementWins 累加玩家胜场
func (p *GormPostgreSQL) IncrementWins(playerID string) error {
	result := p.db.Model(&models.GormPlayer{}).
		Where("player_id = ?", playerID).
		Update("wins", gorm.Expr("wins + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// SaveGameRecord 保存游戏记录
func (p *GormPostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	gameRecord := models.GormGameRecord{
		RoomID:       record.RoomID,
		RoomName:     record.RoomName,
		WinnerID:     record.WinnerID,
		WinnerName:   record.WinnerName,
		Pattern:      record.Pattern,
		PrizeAmount:  record.PrizeAmount,
		NumbersDrawn: record.NumbersDrawn,
		PlayerCount:  record.PlayerCount,
	}
	return p.db.Create(&gameRecord).Error
}

// GetPlayerStats 获取玩家统计信息
func (p *GormPostgreSQL) GetPlayerStats(playerID string) (*models.PlayerStats, error) {
	player, err := p.GetPlayer(playerID)
	if err != nil {
		return nil, err
	}

	var totalGames int64
	if err := p.db.Model(&models.GormGameRecord{}).
		Where("winner_id = ?", playerID).
		Count(&totalGames).Error; err != nil {
		return nil, err
	}

	return &models.PlayerStats{
		TotalGames: int(totalGames),
		Wins:       player.Wins,
		Balance:    player.Balance,
	}, nil
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toPlayerData(player *models.GormPlayer) *models.PlayerData {
	return &models.PlayerData{
		PlayerID:  player.PlayerID,
		Name:      player.Name,
		Balance:   player.Balance,
		Wins:      player.Wins,
		CreatedAt: player.CreatedAt,
		UpdatedAt: player.UpdatedAt,
	}
}
