package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldQuestion   = "question"
	FieldIntentKind = "intent_kind"
	FieldMonth      = "month"
	FieldLookback   = "lookback"
	FieldBackend    = "backend"
	FieldTable      = "table"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentStorage = "storage"
	ComponentSheets  = "sheets"
	ComponentBackend = "backend"
	ComponentCopilot = "copilot"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpImport   = "import"
	OpAnswer   = "answer"
	OpParse    = "parse"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithQuestion adds question answering fields
func (f LogFields) WithQuestion(intentKind, month string, lookback int) LogFields {
	f[FieldIntentKind] = intentKind
	if month != "" {
		f[FieldMonth] = month
	}
	if lookback > 0 {
		f[FieldLookback] = lookback
	}
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
