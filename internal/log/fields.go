package log

// Common field names for structured logging.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldSnapshot    = "snapshot_path"
	FieldRecordCount = "record_count"
	FieldUpdatedAt   = "updated_at"
	FieldSheetsRef   = "sheets_ref"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
)

// Components defines standard component names.
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentExporter = "exporter"
	ComponentSheets   = "sheets"
	ComponentArchive  = "archive"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
)

// Operations defines standard operation names.
const (
	OpExport    = "export"
	OpNormalize = "normalize"
	OpArchive   = "archive"
	OpPublish   = "publish"
	OpRead      = "read"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
