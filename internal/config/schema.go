package config

// Config holds goms configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Oracle  OracleCfg  `mapstructure:"oracle" yaml:"oracle"`
	Split   SplitCfg   `mapstructure:"split" yaml:"split"`
	Convert ConvertCfg `mapstructure:"convert" yaml:"convert"`
	OCR     OCRCfg     `mapstructure:"ocr" yaml:"ocr"`
}

// OracleCfg configures the structured extraction oracle.
type OracleCfg struct {
	// BaseURL is the OpenAI-compatible endpoint of the oracle service.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// Model is the model name used for extraction calls.
	Model string `mapstructure:"model" yaml:"model"`
	// APIKey supports ${ENV_VAR} syntax.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	// RateLimit is requests per minute.
	RateLimit int `mapstructure:"rate_limit" yaml:"rate_limit"`
	// MaxRetries bounds transient-error retries per call.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`
}

// SplitCfg configures boundary detection and slicing.
type SplitCfg struct {
	// Strategy selects the page classifier: "regex" or "oracle".
	Strategy string `mapstructure:"strategy" yaml:"strategy"`
	// BatchSize is the pages-per-call batch for the oracle strategy.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
	// BatchDelaySeconds is the fixed wait between oracle batches.
	BatchDelaySeconds int `mapstructure:"batch_delay_seconds" yaml:"batch_delay_seconds"`
}

// ConvertCfg configures the markdown conversion batch.
type ConvertCfg struct {
	// MaxWorkers is the worker pool size for slice conversion.
	MaxWorkers int `mapstructure:"max_workers" yaml:"max_workers"`
}

// OCRCfg configures the ocrmypdf pre-pass.
type OCRCfg struct {
	// Binary is the ocrmypdf executable name or path.
	Binary string `mapstructure:"binary" yaml:"binary"`
	// Jobs is the ocrmypdf worker count (--jobs).
	Jobs int `mapstructure:"jobs" yaml:"jobs"`
}
