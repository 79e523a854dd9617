package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Media    MediaConfig    `mapstructure:"media"`
	Upload   UploadConfig   `mapstructure:"upload" validate:"required"`
}

// Runtime environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int      `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string   `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	Environment            string   `mapstructure:"environment" validate:"required,oneof=development production test"`
	AllowedOrigins         []string `mapstructure:"allowed_origins" validate:"required,min=1"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// IsDevelopment reports whether error responses may include stack traces.
func (c ServerConfig) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gt=0"`
}

// MediaConfig holds Cloudinary credentials. Either all three credentials are
// set or none; with none, image uploads are disabled.
type MediaConfig struct {
	CloudName string `mapstructure:"cloud_name" validate:"required_with=APIKey APISecret"`
	APIKey    string `mapstructure:"api_key" validate:"required_with=CloudName APISecret"`
	APISecret string `mapstructure:"api_secret" validate:"required_with=CloudName APIKey"`
	Folder    string `mapstructure:"folder" validate:"required"`
}

// Enabled reports whether credentials are configured.
func (c MediaConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// UploadConfig controls how multipart image uploads are staged.
type UploadConfig struct {
	MaxFileSizeMB int    `mapstructure:"max_file_size_mb" validate:"gt=0"`
	TempDir       string `mapstructure:"temp_dir" validate:"required"`
}

// MaxFileSizeBytes returns the upload limit in bytes.
func (c UploadConfig) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) << 20
}
