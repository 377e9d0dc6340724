package chatmodel

// Api names the wire protocol a Model speaks.
type Api string

const (
	ApiOpenAiCompletions Api = "openai_completions"
	ApiOpenAiResponses   Api = "openai_responses"
	ApiAnthropicMessages Api = "anthropic_messages"
	ApiGoogleGenerativeAi Api = "google_generative_ai"
)

// InputModality names a kind of input a Model can accept.
type InputModality string

const (
	InputText  InputModality = "text"
	InputImage InputModality = "image"
	InputAudio InputModality = "audio"
)

// Model is an immutable descriptor of an available model, independent of
// any concrete provider wiring.
type Model struct {
	ID            ModelId
	Name          string
	Api           Api
	Provider      ProviderId
	BaseURL       string // empty means the provider's default
	Reasoning     bool
	Input         []InputModality
	Cost          TokenCost
	ContextWindow int
	MaxTokens     int
}
