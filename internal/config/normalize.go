package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLLM()
	c.normalizeAcquisition()
	c.normalizeEditor()
	c.normalizeWorkflow()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == sampleAPIKeyPlaceholder {
		c.LLM.APIKey = ""
	}
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("SCRIBE_LLM_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.ReviewModel = strings.TrimSpace(c.LLM.ReviewModel)
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	if c.LLM.Referer == "" {
		c.LLM.Referer = defaultLLMReferer
	}
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.Title == "" {
		c.LLM.Title = defaultLLMTitle
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if c.LLM.RetryAttempts <= 0 {
		c.LLM.RetryAttempts = defaultLLMRetryAttempts
	}
	if c.LLM.MaxTokens < 0 {
		c.LLM.MaxTokens = 0
	}
}

func (c *Config) normalizeAcquisition() {
	c.Acquisition.UserAgent = strings.TrimSpace(c.Acquisition.UserAgent)
	if c.Acquisition.UserAgent == "" {
		c.Acquisition.UserAgent = defaultAcquisitionUserAgent
	}
	if c.Acquisition.TimeoutSeconds <= 0 {
		c.Acquisition.TimeoutSeconds = defaultAcquisitionTimeout
	}
	c.Acquisition.ContentSelector = strings.TrimSpace(c.Acquisition.ContentSelector)
	if c.Acquisition.MaxBytes <= 0 {
		c.Acquisition.MaxBytes = defaultAcquisitionMaxBytes
	}
}

func (c *Config) normalizeEditor() {
	c.Editor.Command = strings.TrimSpace(c.Editor.Command)
	if value, ok := os.LookupEnv("VISUAL"); ok && strings.TrimSpace(value) != "" && c.Editor.Command == defaultEditorCommand {
		c.Editor.Command = strings.TrimSpace(value)
	} else if value, ok := os.LookupEnv("EDITOR"); ok && strings.TrimSpace(value) != "" && c.Editor.Command == defaultEditorCommand {
		c.Editor.Command = strings.TrimSpace(value)
	}
	if c.Editor.Command == "" {
		c.Editor.Command = defaultEditorCommand
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.DiffContextLines < 0 {
		c.Workflow.DiffContextLines = 0
	}
	if c.Workflow.PreviewChars <= 0 {
		c.Workflow.PreviewChars = defaultPreviewChars
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.TimeoutSeconds <= 0 {
		c.Notifications.TimeoutSeconds = defaultNtfyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
