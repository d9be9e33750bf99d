package config

// StrategyRegex selects the deterministic header-regex page classifier.
const StrategyRegex = "regex"

// StrategyOracle selects the oracle-assisted batch page classifier.
const StrategyOracle = "oracle"

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Oracle: OracleCfg{
			BaseURL:    "https://generativelanguage.googleapis.com/v1beta/openai/",
			Model:      "gemini-2.5-flash",
			APIKey:     "${GEMINI_API_KEY}",
			RateLimit:  60,
			MaxRetries: 3,
		},
		Split: SplitCfg{
			Strategy:          StrategyRegex,
			BatchSize:         10,
			BatchDelaySeconds: 2,
		},
		Convert: ConvertCfg{
			MaxWorkers: 4,
		},
		OCR: OCRCfg{
			Binary: "ocrmypdf",
			Jobs:   4,
		},
	}
}
