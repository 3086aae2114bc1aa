package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
	openrouterx "github.com/tanpawarit/Chative-Support-Dispatch/pkg/openrouter"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	RouterModel        string  `envconfig:"ROUTER_MODEL" split_words:"true"`
	OrderModel         string  `envconfig:"ORDER_MODEL" split_words:"true"`
	BillingModel       string  `envconfig:"BILLING_MODEL" split_words:"true"`
	SupportModel       string  `envconfig:"SUPPORT_MODEL" split_words:"true"`
	OrderTemperature   float32 `envconfig:"ORDER_TEMPERATURE" split_words:"true" default:"-1"`
	BillingTemperature float32 `envconfig:"BILLING_TEMPERATURE" split_words:"true" default:"-1"`
	SupportTemperature float32 `envconfig:"SUPPORT_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// OpenRouterFor resolves the model settings for one agent, falling back to
// the defaults when no override is configured.
func (c Config) OpenRouterFor(label contractx.AgentLabel) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	override := func(model string, temperature float32) {
		if v := strings.TrimSpace(model); v != "" {
			modelName = v
		}
		if temperature >= 0 {
			temp = temperature
		}
	}

	switch label {
	case contractx.AgentOrder:
		override(c.OrderModel, c.OrderTemperature)
	case contractx.AgentBilling:
		override(c.BillingModel, c.BillingTemperature)
	case contractx.AgentSupport:
		override(c.SupportModel, c.SupportTemperature)
	}

	return c.openRouter(modelName, temp)
}

// Router returns the settings for the intent classification call.
func (c Config) Router() openrouterx.Config {
	modelName := strings.TrimSpace(c.RouterModel)
	if modelName == "" {
		modelName = strings.TrimSpace(c.Model)
	}
	return c.openRouter(modelName, 0)
}

func (c Config) openRouter(modelName string, temp float32) openrouterx.Config {
	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
