package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the full client configuration.
type Config struct {
	Chain  ChainConfig  `mapstructure:"chain"`
	Wallet WalletConfig `mapstructure:"wallet"`
	Trade  TradeConfig  `mapstructure:"trade"`
	Redis  RedisConfig  `mapstructure:"redis"`
	App    AppConfig    `mapstructure:"app"`
}

// ChainConfig pins the RPC endpoint and the contract deployment.
type ChainConfig struct {
	RPCURL  string `mapstructure:"rpc_url"`
	Router  string `mapstructure:"router"`
	Factory string `mapstructure:"factory"`
	WBNB    string `mapstructure:"wbnb"`
}

// WalletConfig holds the signing account.
type WalletConfig struct {
	PrivateKey string `mapstructure:"private_key"`
}

// TradeConfig holds per-client trade parameters.
type TradeConfig struct {
	MaxSlippage        float64 `mapstructure:"max_slippage"`         // fraction in [0,1)
	GasLimit           uint64  `mapstructure:"gas_limit"`            // default per-call gas limit
	GasPriceGwei       float64 `mapstructure:"gas_price_gwei"`       // default when a request carries none
	ApprovalTimeoutSec int     `mapstructure:"approval_timeout_sec"` // receipt wait bound for approvals
}

// RedisConfig is optional; an empty addr falls back to the in-memory cache.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AppConfig struct {
	Port string `mapstructure:"port"`
}

// Load reads configuration in ascending priority: defaults, config.yaml,
// .env file, environment variables, command-line flags.
func Load() (*Config, error) {
	godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.ReadInConfig() // optional file

	v.AutomaticEnv()
	setupEnvAliases(v)
	setupFlags(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Chain.RPCURL == "" {
		return fmt.Errorf("chain.rpc_url is required")
	}
	if cfg.Trade.MaxSlippage < 0 || cfg.Trade.MaxSlippage >= 1 {
		return fmt.Errorf("trade.max_slippage must be in [0,1), got %v", cfg.Trade.MaxSlippage)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("chain.rpc_url", "https://bsc-dataseed.binance.org")
	v.SetDefault("chain.router", "0x10ED43C718714eb63d5aA57B78B54704E256024E")
	v.SetDefault("chain.factory", "0xcA143Ce32Fe78f1f7019d7d551a6402fC5350c73")
	v.SetDefault("chain.wbnb", "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c")
	v.SetDefault("trade.max_slippage", 0.1)
	v.SetDefault("trade.gas_limit", 250000)
	v.SetDefault("trade.gas_price_gwei", 5)
	v.SetDefault("trade.approval_timeout_sec", 6000)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("app.port", "8080")
}

func setupEnvAliases(v *viper.Viper) {
	v.BindEnv("chain.rpc_url", "RPC_URL", "BSC_RPC_URL")
	v.BindEnv("chain.router", "ROUTER_ADDRESS")
	v.BindEnv("chain.factory", "FACTORY_ADDRESS")
	v.BindEnv("chain.wbnb", "WBNB_ADDRESS")
	v.BindEnv("wallet.private_key", "PRIVATE_KEY")
	v.BindEnv("trade.max_slippage", "MAX_SLIPPAGE")
	v.BindEnv("trade.gas_limit", "GAS_LIMIT")
	v.BindEnv("trade.gas_price_gwei", "GAS_PRICE_GWEI")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("app.port", "PORT")
}

func setupFlags(v *viper.Viper) {
	if pflag.Parsed() {
		return
	}
	pflag.String("port", "", "HTTP listen port")
	pflag.String("rpc-url", "", "BSC RPC endpoint")
	pflag.Float64("max-slippage", 0, "max slippage fraction in [0,1)")
	pflag.Parse()

	if f := pflag.Lookup("port"); f != nil && f.Changed {
		v.Set("app.port", f.Value.String())
	}
	if f := pflag.Lookup("rpc-url"); f != nil && f.Changed {
		v.Set("chain.rpc_url", f.Value.String())
	}
	if f := pflag.Lookup("max-slippage"); f != nil && f.Changed {
		v.Set("trade.max_slippage", f.Value.String())
	}
}
