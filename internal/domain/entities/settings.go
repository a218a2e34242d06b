package entities

// Text-generation providers
const (
	ProviderOpenAI    = "openai"
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Settings selects and configures the text-generation provider for one run
type Settings struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
	APIKey   string `json:"-"`
	BaseURL  string `json:"base_url,omitempty"`
	Language string `json:"language,omitempty"`
}
