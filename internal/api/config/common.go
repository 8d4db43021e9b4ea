package config

// Config 配置主体
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	Feed    FeedConfig    `mapstructure:"feed"`
	Admin   AdminConfig   `mapstructure:"admin"`
}

// ServerConfig 本地联调后端（devserver）配置
type ServerConfig struct {
	Port       int    `mapstructure:"port"`
	AdminToken string `mapstructure:"admin_token"`
}

// BackendConfig 评论后端服务配置
type BackendConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Token          string `mapstructure:"token"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// FeedConfig 评论流客户端配置
type FeedConfig struct {
	PageSize      int    `mapstructure:"page_size"`
	ReplyPageSize int    `mapstructure:"reply_page_size"`
	RecountSpec   string `mapstructure:"recount_spec"`
}

// AdminConfig 管理端配置
type AdminConfig struct {
	PageSize int `mapstructure:"page_size"`
}
