package config

const (
	defaultConfigPath             = "~/.config/scribe/config.toml"
	defaultDataDir                = "~/.local/share/scribe"
	defaultLogDir                 = "~/.local/share/scribe/logs"
	defaultLLMBaseURL             = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel               = "google/gemini-2.5-flash"
	defaultLLMReferer             = "https://github.com/scribe-tools/scribe"
	defaultLLMTitle               = "Scribe Chapter Pipeline"
	defaultLLMTimeoutSeconds      = 120
	defaultLLMRetryAttempts       = 3
	defaultAcquisitionUserAgent   = "Scribe/dev (+https://github.com/scribe-tools/scribe)"
	defaultAcquisitionTimeout     = 30
	defaultAcquisitionMaxBytes    = 8 << 20
	defaultEditorCommand          = "vi"
	defaultDiffContextLines       = 3
	defaultPreviewChars           = 1000
	defaultNtfyTimeout            = 10
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultAcquisitionContentRoot = "#mw-content-text"
	sampleAPIKeyPlaceholder       = "your_llm_api_key_here"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			RetryAttempts:  defaultLLMRetryAttempts,
		},
		Acquisition: Acquisition{
			UserAgent:       defaultAcquisitionUserAgent,
			TimeoutSeconds:  defaultAcquisitionTimeout,
			ContentSelector: defaultAcquisitionContentRoot,
			MaxBytes:        defaultAcquisitionMaxBytes,
		},
		Editor: Editor{
			Command: defaultEditorCommand,
		},
		Workflow: Workflow{
			ShowDiffs:        true,
			DiffContextLines: defaultDiffContextLines,
			PreviewChars:     defaultPreviewChars,
		},
		Notifications: Notifications{
			TimeoutSeconds: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
