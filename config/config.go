package config

type Config struct {
	HttpPort        int
	PostgresDSN     string
	RedisConfig     RedisConfig
	WorkflowURL     string
	DiscordBotToken string
}

type RedisConfig struct {
	Addrs     []string
	Namespace string
}
