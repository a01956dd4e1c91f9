package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testConfigContent = `
server:
  host: "localhost"
  port: 8080
  mode: "test"
  read_timeout: 30s
  write_timeout: 30s
  idle_timeout: 60s
  max_header_bytes: 1048576

database:
  mysql:
    host: "localhost"
    port: 3306
    username: "test_user"
    password: "test_password"
    database: "test_db"
    charset: "utf8mb4"
    parse_time: true
    loc: "Local"
    max_idle_conns: 10
    max_open_conns: 100
    conn_max_lifetime: 3600s
    conn_max_idle_time: 1800s
    log_level: "info"
  redis:
    host: "localhost"
    port: 6379
    password: ""
    database: 0
    pool_size: 10
    min_idle_conns: 5
    dial_timeout: 5s
    read_timeout: 3s
    write_timeout: 3s
    pool_timeout: 4s
    idle_timeout: 300s

log:
  level: "info"
  format: "json"
  output: "stdout"
  file_path: "logs/app.log"
  max_size: 100
  max_backups: 5
  max_age: 30
  compress: true
  caller: true
  stack_trace: true

security:
  jwt:
    secret: "test_jwt_secret_key_at_least_32_chars"
    issuer: "chainmaster-test"
    access_token_expire: 24h
    algorithm: "HS256"
  cors:
    enabled: true
    allow_origins: ["*"]
    allow_methods: ["GET", "POST", "PUT", "DELETE", "OPTIONS"]
    allow_headers: ["*"]
    expose_headers: ["Content-Length"]
    allow_credentials: true
    max_age: 12h
  rate_limit:
    enabled: true
    requests_per_second: 100
    burst_size: 200

app:
  name: "ChainMaster Test"
  version: "1.0.0"
  environment: "test"
  debug: true
  timezone: "Asia/Shanghai"
  pipeline:
    cycle_cache_ttl: 30m
    decision_history: 50
    simulate_default: 500
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configFile, []byte(testConfigContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return tempDir
}

// TestLoadConfig 测试配置加载功能
func TestLoadConfig(t *testing.T) {
	tempDir := writeTestConfig(t)

	config, err := LoadConfig(tempDir, "test")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Server.Host != "localhost" {
		t.Errorf("Expected server host 'localhost', got '%s'", config.Server.Host)
	}

	if config.Server.Port != 8080 {
		t.Errorf("Expected server port 8080, got %d", config.Server.Port)
	}

	if config.Database.MySQL.Database != "test_db" {
		t.Errorf("Expected database name 'test_db', got '%s'", config.Database.MySQL.Database)
	}

	if config.Security.JWT.Secret != "test_jwt_secret_key_at_least_32_chars" {
		t.Errorf("Expected JWT secret, got '%s'", config.Security.JWT.Secret)
	}

	if config.App.Environment != "test" {
		t.Errorf("Expected environment 'test', got '%s'", config.App.Environment)
	}

	if config.App.Pipeline.CycleCacheTTL != 30*time.Minute {
		t.Errorf("Expected cycle cache TTL 30m, got %v", config.App.Pipeline.CycleCacheTTL)
	}

	if config.App.Pipeline.DecisionHistory != 50 {
		t.Errorf("Expected decision history 50, got %d", config.App.Pipeline.DecisionHistory)
	}
}

// TestLoadConfigWithEnvVars 测试环境变量覆盖配置
func TestLoadConfigWithEnvVars(t *testing.T) {
	os.Setenv("CHAINMASTER_SERVER_PORT", "9090")
	os.Setenv("CHAINMASTER_MYSQL_HOST", "env_mysql_host")
	os.Setenv("CHAINMASTER_JWT_SECRET", "env_jwt_secret_key_at_least_32_chars")
	defer func() {
		os.Unsetenv("CHAINMASTER_SERVER_PORT")
		os.Unsetenv("CHAINMASTER_MYSQL_HOST")
		os.Unsetenv("CHAINMASTER_JWT_SECRET")
	}()

	tempDir := writeTestConfig(t)

	config, err := LoadConfig(tempDir, "test")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// 验证环境变量覆盖了配置文件的值
	if config.Server.Port != 9090 {
		t.Errorf("Expected server port 9090 (from env), got %d", config.Server.Port)
	}

	if config.Database.MySQL.Host != "env_mysql_host" {
		t.Errorf("Expected mysql host 'env_mysql_host' (from env), got '%s'", config.Database.MySQL.Host)
	}

	if config.Security.JWT.Secret != "env_jwt_secret_key_at_least_32_chars" {
		t.Errorf("Expected JWT secret from env, got '%s'", config.Security.JWT.Secret)
	}
}

// TestPipelineDefaults 测试管线配置默认值填充
func TestPipelineDefaults(t *testing.T) {
	config := &Config{}
	applyDefaultPipelineConfig(config)

	if config.App.Pipeline.CycleCacheTTL != defaultCycleCacheTTL {
		t.Errorf("Expected default cycle cache TTL %v, got %v", defaultCycleCacheTTL, config.App.Pipeline.CycleCacheTTL)
	}
	if config.App.Pipeline.DecisionHistory != defaultDecisionHistory {
		t.Errorf("Expected default decision history %d, got %d", defaultDecisionHistory, config.App.Pipeline.DecisionHistory)
	}
	if config.App.Pipeline.SimulateDefault != defaultSimulateChange {
		t.Errorf("Expected default simulate change %d, got %d", defaultSimulateChange, config.App.Pipeline.SimulateDefault)
	}
}

// TestConfigValidation 测试配置验证
func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name        string
		config      *Config
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid config",
			config: &Config{
				Server: ServerConfig{
					Host: "localhost",
					Port: 8080,
					Mode: "debug",
				},
				Database: DatabaseConfig{
					MySQL: MySQLConfig{
						Host:     "localhost",
						Database: "test_db",
					},
					Redis: RedisConfig{
						Host: "localhost",
					},
				},
				Security: SecurityConfig{
					JWT: JWTConfig{
						Secret: "test_jwt_secret_key_at_least_32_chars",
					},
				},
				Log: LogConfig{
					Level:  "info",
					Format: "json",
					Output: "stdout",
				},
			},
			expectError: false,
		},
		{
			name: "invalid port",
			config: &Config{
				Server: ServerConfig{
					Port: -1,
				},
			},
			expectError: true,
			errorMsg:    "invalid server port",
		},
		{
			name: "short jwt secret",
			config: &Config{
				Server: ServerConfig{
					Port: 8080,
					Mode: "debug",
				},
				Database: DatabaseConfig{
					MySQL: MySQLConfig{
						Host:     "localhost",
						Database: "test_db",
					},
					Redis: RedisConfig{
						Host: "localhost",
					},
				},
				Security: SecurityConfig{
					JWT: JWTConfig{
						Secret: "short", // 太短的密钥
					},
				},
				Log: LogConfig{
					Level:  "info",
					Format: "json",
					Output: "stdout",
				},
			},
			expectError: true,
			errorMsg:    "jwt secret must be at least 32 characters long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(tt.config)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				} else if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error message to contain '%s', got '%s'", tt.errorMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("Expected no error but got: %v", err)
				}
			}
		})
	}
}

// TestEnvManager_GetString 测试带前缀的环境变量读取
func TestEnvManager_GetString(t *testing.T) {
	em := NewEnvManager("TEST")

	os.Setenv("TEST_STRING_VAL", "test_value")
	defer os.Unsetenv("TEST_STRING_VAL")

	// 键名自动拼接前缀并转大写
	if val := em.GetString("string_val", "default"); val != "test_value" {
		t.Errorf("Expected 'test_value', got '%s'", val)
	}

	// 不存在的环境变量返回默认值
	if val := em.GetString("NON_EXISTENT", "default"); val != "default" {
		t.Errorf("Expected 'default', got '%s'", val)
	}

	// 默认管理器使用CHAINMASTER前缀
	os.Setenv("CHAINMASTER_CONFIG_PATH", "/tmp/chainmaster-configs")
	defer os.Unsetenv("CHAINMASTER_CONFIG_PATH")
	if val := GetEnvString("CONFIG_PATH", "configs"); val != "/tmp/chainmaster-configs" {
		t.Errorf("Expected '/tmp/chainmaster-configs', got '%s'", val)
	}
}

// TestLoadEnvFile 测试.env文件加载
func TestLoadEnvFile(t *testing.T) {
	tempDir := t.TempDir()
	envFile := filepath.Join(tempDir, ".env")

	content := strings.Join([]string{
		"# 注释行",
		"",
		"CHAINMASTER_TEST_PLAIN=plain_value",
		`CHAINMASTER_TEST_QUOTED="quoted value"`,
		"CHAINMASTER_TEST_SINGLE='single value'",
	}, "\n")
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	defer func() {
		os.Unsetenv("CHAINMASTER_TEST_PLAIN")
		os.Unsetenv("CHAINMASTER_TEST_QUOTED")
		os.Unsetenv("CHAINMASTER_TEST_SINGLE")
	}()

	if err := LoadEnvFile(envFile); err != nil {
		t.Fatalf("Failed to load env file: %v", err)
	}

	if val := os.Getenv("CHAINMASTER_TEST_PLAIN"); val != "plain_value" {
		t.Errorf("Expected 'plain_value', got '%s'", val)
	}
	// 成对引号被剥离
	if val := os.Getenv("CHAINMASTER_TEST_QUOTED"); val != "quoted value" {
		t.Errorf("Expected 'quoted value', got '%s'", val)
	}
	if val := os.Getenv("CHAINMASTER_TEST_SINGLE"); val != "single value" {
		t.Errorf("Expected 'single value', got '%s'", val)
	}

	// 文件不存在时静默返回
	if err := LoadEnvFile(filepath.Join(tempDir, "missing.env")); err != nil {
		t.Errorf("Expected no error for missing env file, got: %v", err)
	}

	// 非法行报错并带行号
	badFile := filepath.Join(tempDir, "bad.env")
	if err := os.WriteFile(badFile, []byte("NOT_A_KV_LINE\n"), 0644); err != nil {
		t.Fatalf("Failed to write bad env file: %v", err)
	}
	if err := LoadEnvFile(badFile); err == nil {
		t.Error("Expected error for malformed env line")
	}
}

// TestConfigHelperMethods 测试配置辅助方法
func TestConfigHelperMethods(t *testing.T) {
	config := &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		App: AppConfig{
			Environment: "development",
		},
		Database: DatabaseConfig{
			MySQL: MySQLConfig{
				Host:      "localhost",
				Port:      3306,
				Username:  "user",
				Password:  "pass",
				Database:  "test",
				Charset:   "utf8mb4",
				ParseTime: true,
				Loc:       "Local",
			},
			Redis: RedisConfig{
				Host: "localhost",
				Port: 6379,
			},
		},
	}

	expectedAddr := "localhost:8080"
	if addr := config.Server.GetAddress(); addr != expectedAddr {
		t.Errorf("Expected address '%s', got '%s'", expectedAddr, addr)
	}

	if !config.App.IsDevelopment() {
		t.Error("Expected to be development environment")
	}

	if config.App.IsProduction() {
		t.Error("Expected not to be production environment")
	}

	expectedDSN := "user:pass@tcp(localhost:3306)/test?charset=utf8mb4&parseTime=true&loc=Local"
	if dsn := config.Database.MySQL.GetMySQLDSN(); dsn != expectedDSN {
		t.Errorf("Expected DSN '%s', got '%s'", expectedDSN, dsn)
	}

	expectedRedisAddr := "localhost:6379"
	if addr := config.Database.Redis.GetRedisAddress(); addr != expectedRedisAddr {
		t.Errorf("Expected Redis address '%s', got '%s'", expectedRedisAddr, addr)
	}
}
