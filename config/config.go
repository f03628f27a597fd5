package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
	JWTSecret      string `mapstructure:"jwt_secret"`
}

type DatabaseConfig struct {
	// Driver selects the persistence implementation: "gorm" or "sql".
	Driver   string         `mapstructure:"driver"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// GameConfig carries the per-room game pacing parameters.
type GameConfig struct {
	TickInterval      time.Duration `mapstructure:"tick_interval"`
	DrawInterval      time.Duration `mapstructure:"draw_interval"`
	MaxDraws          int           `mapstructure:"max_draws"`
	PostEndDelay      time.Duration `mapstructure:"post_end_delay"`
	DefaultMaxPlayers int           `mapstructure:"default_max_players"`
	DefaultPrize      float64       `mapstructure:"default_prize"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("database.driver", "gorm")
	viper.SetDefault("game.tick_interval", "100ms")
	viper.SetDefault("game.draw_interval", "4s")
	viper.SetDefault("game.max_draws", 50)
	viper.SetDefault("game.post_end_delay", "10s")
	viper.SetDefault("game.default_max_players", 10)
	viper.SetDefault("game.default_prize", 10)

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
