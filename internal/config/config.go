package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/optimizer"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/sweep"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"60"` // 同步进化可能比较耗时
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	Admin struct {
		Username     string `env:"USERNAME" envDefault:"admin"`
		PasswordHash string `env:"PASSWORD_HASH,required"` // bcrypt
	} `envPrefix:"ADMIN_"`
	JWT struct {
		Expiration int    `env:"EXPIRATION" envDefault:"86400"` // 1 天
		Secret     string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	Email struct {
		Enabled bool `env:"ENABLED" envDefault:"false"`
		SMTP    struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		SweepQueue     string `env:"SWEEP_QUEUE" envDefault:"sweep_queue"`
		EmailQueue     string `env:"EMAIL_QUEUE" envDefault:"email_queue"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host                string `env:"HOST" envDefault:"localhost"`
		Port                int    `env:"PORT" envDefault:"6379"`
		Password            string `env:"PASSWORD,required"`
		ConnectTimeout      int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationExpiration int    `env:"OPERATION_EXPIRATION" envDefault:"10"`
		ProgressExpiration  int    `env:"PROGRESS_EXPIRATION" envDefault:"604800"` // 7 天
	} `envPrefix:"REDIS_"`
	Layout struct {
		Guests int `env:"GUESTS" envDefault:"64"`
		Tables int `env:"TABLES" envDefault:"8"`
	} `envPrefix:"LAYOUT_"`
	Optimizer struct {
		PopulationSize   int     `env:"POPULATION_SIZE" envDefault:"100"`
		MaxGenerations   int     `env:"MAX_GENERATIONS" envDefault:"100"`
		CrossoverRate    float64 `env:"CROSSOVER_RATE" envDefault:"0.9"`
		MutationRate     float64 `env:"MUTATION_RATE" envDefault:"0.1"`
		EliteCount       int     `env:"ELITE_COUNT" envDefault:"1"`
		TournamentSize   int     `env:"TOURNAMENT_SIZE" envDefault:"5"`
		CrossoverParents int     `env:"CROSSOVER_PARENTS" envDefault:"3"`
		Workers          int     `env:"WORKERS" envDefault:"1"`
	} `envPrefix:"OPTIMIZER_"`
	Sweep struct {
		Trials             int `env:"TRIALS" envDefault:"30"`
		Concurrency        int `env:"CONCURRENCY" envDefault:"0"` // 0 表示 GOMAXPROCS
		MaxSyncGenerations int `env:"MAX_SYNC_GENERATIONS" envDefault:"500"`
		MaxSyncPopulation  int `env:"MAX_SYNC_POPULATION" envDefault:"1000"`
		MaxSyncGuests      int `env:"MAX_SYNC_GUESTS" envDefault:"256"`
	} `envPrefix:"SWEEP_"`
	Worker struct {
		MetricsPort string `env:"METRICS_PORT" envDefault:"9091"`
	} `envPrefix:"WORKER_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}

// OptimizerParameters 由配置得到的默认进化参数，算子取默认值
func (cfg *Config) OptimizerParameters() *optimizer.Parameters {
	p := optimizer.DefaultParameters()
	p.PopulationSize = cfg.Optimizer.PopulationSize
	p.MaxGenerations = cfg.Optimizer.MaxGenerations
	p.CrossoverRate = cfg.Optimizer.CrossoverRate
	p.MutationRate = cfg.Optimizer.MutationRate
	p.EliteCount = cfg.Optimizer.EliteCount
	p.TournamentSize = cfg.Optimizer.TournamentSize
	p.CrossoverParents = cfg.Optimizer.CrossoverParents
	p.Workers = cfg.Optimizer.Workers
	return p
}

func (cfg *Config) SweepDefaults() sweep.Defaults {
	return sweep.Defaults{
		Parameters:  cfg.OptimizerParameters(),
		Tables:      cfg.Layout.Tables,
		Trials:      cfg.Sweep.Trials,
		Concurrency: cfg.Sweep.Concurrency,
	}
}
