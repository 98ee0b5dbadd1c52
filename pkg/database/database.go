package database

import (
	"fmt"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/hadmin/pkg/config"
	"github.com/hadmin/pkg/logger"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var (
	once sync.Once
	db   *gorm.DB
)

// 连接池默认值
const (
	defaultMaxIdleConns = 10
	defaultMaxOpenConns = 100
	defaultMaxLifetime  = time.Hour
)

// Init 初始化数据库连接，重复调用只生效一次
func Init(cfg *config.DatabaseConfig) error {
	var err error
	once.Do(func() {
		db, err = open(cfg)
	})
	return err
}

// open 建立连接并配置连接池
func open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := buildDialector(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true, // 使用单数表名
		},
		Logger: logger.NewGormLogger(cfg.LogLevel,
			time.Duration(cfg.SlowThresholdMs)*time.Millisecond),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}

	if err := configurePool(conn, cfg); err != nil {
		return nil, err
	}
	return conn, nil
}

// buildDialector 按驱动构造方言
func buildDialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		return mysql.Open(cfg.DSN()), nil
	case "postgres":
		return postgres.Open(cfg.DSN()), nil
	case "sqlite":
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
}

// configurePool 配置连接池。sqlite内存库每个连接是独立的数据库，
// 连接数必须固定为1。
func configurePool(conn *gorm.DB, cfg *config.DatabaseConfig) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("获取底层连接失败: %w", err)
	}

	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = defaultMaxIdleConns
	}
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	if cfg.Driver == "sqlite" && cfg.DSN() == ":memory:" {
		maxIdle, maxOpen = 1, 1
	}

	lifetime := defaultMaxLifetime
	if cfg.MaxLifetimeMinutes > 0 {
		lifetime = time.Duration(cfg.MaxLifetimeMinutes) * time.Minute
	}

	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(lifetime)
	return nil
}

// Get 获取数据库实例
func Get() *gorm.DB {
	if db == nil {
		panic("database not initialized, call Init first")
	}
	return db
}

// Close 关闭数据库连接
func Close() error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction 执行事务
func Transaction(fn func(tx *gorm.DB) error) error {
	return Get().Transaction(fn)
}

// AutoMigrate 自动迁移
func AutoMigrate(models ...interface{}) error {
	return Get().AutoMigrate(models...)
}
