package server

import (
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"taskmanager/internal/domain/errors"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string
	Port             int
	Store            string
	DBStr            string
	MigratePath      string
	MongoURI         string
	MongoDB          string
	JWTSecret        string
	JWTTTL           time.Duration
	AdminInviteToken string
	CORSOrigins      []string
	LogLevel         string
	LogFile          string

	// Warnings collects values that were rejected while loading.
	Warnings []string
}

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

const (
	defaultAddr        = "0.0.0.0"
	defaultPort        = 8080
	defaultStore       = StoreMemory
	defaultDBStr       = "postgresql://taskmanager:taskmanager@db:5432/tasks?sslmode=disable"
	defaultMigratePath = "migrations"
	defaultMongoURI    = "mongodb://localhost:27017"
	defaultMongoDB     = "taskmanager"
	defaultJWTSecret   = "shouldbeinVaultsecret"
	defaultJWTTTL      = 7 * 24 * time.Hour
	defaultLogLevel    = "info"
	defaultEnvFile     = ".env"
)

var defaultCORSOrigins = []string{"http://localhost:5173"}

func DefaultConfig() *Config {
	return &Config{
		Addr:        defaultAddr,
		Port:        defaultPort,
		Store:       defaultStore,
		DBStr:       defaultDBStr,
		MigratePath: defaultMigratePath,
		MongoURI:    defaultMongoURI,
		MongoDB:     defaultMongoDB,
		JWTSecret:   defaultJWTSecret,
		JWTTTL:      defaultJWTTTL,
		CORSOrigins: append([]string{}, defaultCORSOrigins...),
		LogLevel:    defaultLogLevel,
	}
}

// ListenAddr is the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Addr, strconv.Itoa(c.Port))
}

// withDefaults fills zero fields so a partially built Config is usable.
func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	out := *c
	if out.Addr == "" {
		out.Addr = d.Addr
	}
	if out.Port == 0 {
		out.Port = d.Port
	}
	if out.Store == "" {
		out.Store = d.Store
	}
	if out.JWTSecret == "" {
		out.JWTSecret = d.JWTSecret
	}
	if out.JWTTTL <= 0 {
		out.JWTTTL = d.JWTTTL
	}
	if out.CORSOrigins == nil {
		out.CORSOrigins = d.CORSOrigins
	}
	return &out
}

func (c *Config) warn(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

type fileConfig struct {
	Addr             string   `json:"addr"`
	Port             int      `json:"port"`
	Store            string   `json:"store"`
	DBStr            string   `json:"db_str"`
	MigratePath      string   `json:"migrate_path"`
	MongoURI         string   `json:"mongo_uri"`
	MongoDB          string   `json:"mongo_db"`
	JWTSecret        string   `json:"jwt_secret"`
	JWTTTL           string   `json:"jwt_ttl"`
	AdminInviteToken string   `json:"admin_invite_token"`
	CORSOrigins      []string `json:"cors_origins"`
	LogLevel         string   `json:"log_level"`
	LogFile          string   `json:"log_file"`
}

type flagValues struct {
	addr        string
	port        int
	store       string
	dbStr       string
	migratePath string
	mongoURI    string
	mongoDB     string
	jwtSecret   string
	jwtTTL      time.Duration
	logLevel    string
	logFile     string
	configFile  string
	envFile     string
}

// ReadConfig layers defaults, an optional JSON file, the environment (plus
// an optional .env file) and finally explicitly set flags.
func ReadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	var fv flagValues
	fs.StringVar(&fv.addr, "addr", defaultAddr, "server address")
	fs.IntVar(&fv.port, "port", defaultPort, "server port")
	fs.StringVar(&fv.store, "store", defaultStore, "store backend: memory, postgres or mongo")
	fs.StringVar(&fv.dbStr, "dbstr", defaultDBStr, "PostgreSQL connection string")
	fs.StringVar(&fv.migratePath, "migratepath", defaultMigratePath, "path to the migrations directory")
	fs.StringVar(&fv.mongoURI, "mongouri", defaultMongoURI, "MongoDB connection URI")
	fs.StringVar(&fv.mongoDB, "mongodb", defaultMongoDB, "MongoDB database name")
	fs.StringVar(&fv.jwtSecret, "jwtsecret", "", "token signing secret")
	fs.DurationVar(&fv.jwtTTL, "jwtttl", defaultJWTTTL, "token lifetime")
	fs.StringVar(&fv.logLevel, "loglevel", defaultLogLevel, "log level")
	fs.StringVar(&fv.logFile, "logfile", "", "log file path, stdout when empty")
	fs.StringVar(&fv.configFile, "c", "", "path to a JSON config file")
	fs.StringVar(&fv.envFile, "env", defaultEnvFile, "path to a .env file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	configPath := fv.configFile
	if configPath == "" {
		configPath = os.Getenv("CONFIG")
	}
	if configPath != "" {
		loadJSONConfig(cfg, configPath)
	}

	if _, err := os.Stat(fv.envFile); err == nil {
		if err := godotenv.Load(fv.envFile); err != nil {
			cfg.warn("%s %s: %v", errors.ErrConfigFileReadFailed.Error(), fv.envFile, err)
		}
	}
	applyEnvOverrides(cfg)
	applyFlagOverrides(cfg, fs, &fv)

	if cfg.JWTSecret == defaultJWTSecret {
		cfg.warn("JWT_SECRET is not set, using the built-in development secret")
	}
	return cfg, nil
}

func loadJSONConfig(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		cfg.warn("%s %s: %v", errors.ErrConfigFileReadFailed.Error(), path, err)
		return
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		cfg.warn("%s: %v", errors.ErrConfigParseFailed.Error(), err)
		return
	}

	setString(&cfg.Addr, fc.Addr)
	setString(&cfg.Store, fc.Store)
	setString(&cfg.DBStr, fc.DBStr)
	setString(&cfg.MigratePath, fc.MigratePath)
	setString(&cfg.MongoURI, fc.MongoURI)
	setString(&cfg.MongoDB, fc.MongoDB)
	setString(&cfg.JWTSecret, fc.JWTSecret)
	setString(&cfg.AdminInviteToken, fc.AdminInviteToken)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFile, fc.LogFile)
	if fc.Port != 0 {
		cfg.setPort(strconv.Itoa(fc.Port), "port")
	}
	if fc.JWTTTL != "" {
		cfg.setTTL(fc.JWTTTL, "jwt_ttl")
	}
	if len(fc.CORSOrigins) > 0 {
		cfg.CORSOrigins = fc.CORSOrigins
	}
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.Addr, os.Getenv("ADDR"))
	if port := os.Getenv("PORT"); port != "" {
		cfg.setPort(port, "PORT")
	}
	setString(&cfg.Store, os.Getenv("STORE"))
	setString(&cfg.MigratePath, os.Getenv("MIGRATE_PATH"))
	setString(&cfg.MongoURI, os.Getenv("MONGO_URI"))
	setString(&cfg.MongoDB, os.Getenv("MONGO_DB"))
	setString(&cfg.JWTSecret, os.Getenv("JWT_SECRET"))
	if ttl := os.Getenv("JWT_TTL"); ttl != "" {
		cfg.setTTL(ttl, "JWT_TTL")
	}
	setString(&cfg.AdminInviteToken, os.Getenv("ADMIN_INVITE_TOKEN"))
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}
	setString(&cfg.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&cfg.LogFile, os.Getenv("LOG_FILE"))

	if dbStr := os.Getenv("DB_STR"); dbStr != "" {
		cfg.DBStr = dbStr
	} else if cfg.DBStr == defaultDBStr {
		dbUser := os.Getenv("DB_USER")
		dbPassword := os.Getenv("DB_PASSWORD")
		dbName := os.Getenv("DB_NAME")
		dbHost := os.Getenv("DB_HOST")
		dbPort := os.Getenv("DB_PORT")
		if dbUser != "" && dbPassword != "" && dbName != "" && dbHost != "" && dbPort != "" {
			cfg.DBStr = fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPassword, dbHost, dbPort, dbName)
		}
	}
}

// applyFlagOverrides applies only flags given on the command line so that
// flag defaults never mask file or environment values.
func applyFlagOverrides(cfg *Config, fs *flag.FlagSet, fv *flagValues) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = fv.addr
		case "port":
			cfg.setPort(strconv.Itoa(fv.port), "-port")
		case "store":
			cfg.Store = fv.store
		case "dbstr":
			cfg.DBStr = fv.dbStr
		case "migratepath":
			cfg.MigratePath = fv.migratePath
		case "mongouri":
			cfg.MongoURI = fv.mongoURI
		case "mongodb":
			cfg.MongoDB = fv.mongoDB
		case "jwtsecret":
			setString(&cfg.JWTSecret, fv.jwtSecret)
		case "jwtttl":
			cfg.setTTL(fv.jwtTTL.String(), "-jwtttl")
		case "loglevel":
			cfg.LogLevel = fv.logLevel
		case "logfile":
			cfg.LogFile = fv.logFile
		}
	})
}

func (c *Config) setPort(value, source string) {
	p, err := strconv.Atoi(value)
	if err != nil {
		c.warn("%s in %s: %s", errors.ErrConfigInvalidFormat.Error(), source, value)
		return
	}
	if p < 1 || p > 65535 {
		c.warn("%s in %s: port must be between 1 and 65535, got %d", errors.ErrConfigInvalidFormat.Error(), source, p)
		return
	}
	c.Port = p
}

func (c *Config) setTTL(value, source string) {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		c.warn("%s in %s: %s", errors.ErrConfigInvalidFormat.Error(), source, value)
		return
	}
	c.JWTTTL = d
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
