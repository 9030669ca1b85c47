package config

// Config 配置主体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	LLM       LLMConfig       `mapstructure:"llm"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	Media     MediaConfig     `mapstructure:"media"`
	Instagram InstagramConfig `mapstructure:"instagram"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Workflow  WorkflowConfig  `mapstructure:"workflow"`
	Trends    TrendsConfig    `mapstructure:"trends"`
	Security  SecurityConfig  `mapstructure:"security"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// MongoConfig 文档库配置
type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type LLMConfig struct {
	URL         string           `mapstructure:"url"`
	TextModel   string           `mapstructure:"text_model"`
	ApiKey      string           `mapstructure:"api_key"`
	PromptsPath PromptPathConfig `mapstructure:"prompts_path"`
}

type PromptPathConfig struct {
	ContentIdea      string `mapstructure:"content_idea"`
	InteractionReply string `mapstructure:"interaction_reply"`
	TrendSummary     string `mapstructure:"trend_summary"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	MediaBucket string `mapstructure:"media_bucket"`
	UseSSL      bool   `mapstructure:"use_ssl"`
}

// MediaConfig 生成式媒体管线配置
type MediaConfig struct {
	URL          string `mapstructure:"url"`
	ApiKey       string `mapstructure:"api_key"`
	PollInterval int    `mapstructure:"poll_interval"` // 秒
	PollTimeout  int    `mapstructure:"poll_timeout"`  // 秒
}

// InstagramConfig Instagram Graph API 配置
type InstagramConfig struct {
	GraphURL           string `mapstructure:"graph_url"`
	BusinessAccountID  string `mapstructure:"business_account_id"`
	AccessToken        string `mapstructure:"access_token"`
	WebhookVerifyToken string `mapstructure:"webhook_verify_token"`
}

// TelegramConfig Telegram Bot API 配置
type TelegramConfig struct {
	APIURL        string `mapstructure:"api_url"`
	BotToken      string `mapstructure:"bot_token"`
	ChannelID     string `mapstructure:"channel_id"`
	WebhookSecret string `mapstructure:"webhook_secret"`
}

// WorkflowConfig 审批与发布工作流配置
type WorkflowConfig struct {
	PublishHour  int    `mapstructure:"publish_hour"` // UTC，默认发布小时
	PublishBatch int    `mapstructure:"publish_batch"`
	ReplyBatch   int    `mapstructure:"reply_batch"`
	PublishCron  string `mapstructure:"publish_cron"`
	ReplyCron    string `mapstructure:"reply_cron"`
	TrendCron    string `mapstructure:"trend_cron"`
	ContentCron  string `mapstructure:"content_cron"`
}

// TrendsConfig 趋势采集配置
type TrendsConfig struct {
	Sources []string `mapstructure:"sources"`
}

// SecurityConfig 运营账号与签名配置
type SecurityConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"`
	TokenTTLHours        int    `mapstructure:"token_ttl_hours"`
	OperatorUsername     string `mapstructure:"operator_username"`
	OperatorPasswordHash string `mapstructure:"operator_password_hash"`
}
