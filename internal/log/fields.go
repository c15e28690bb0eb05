package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldUserID      = "user_id"
	FieldPurchaseID  = "purchase_id"
	FieldEntryID     = "entry_id"
	FieldAccountID   = "account_id"
	FieldCardID      = "card_id"
	FieldCategoryID  = "category_id"
	FieldAmountCents = "amount_cents"
	FieldDirection   = "direction"
	FieldPayMethod   = "payment_method"
	FieldExportKind  = "export_kind"
	FieldExportRef   = "export_ref"
)

// Standard component names.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLedger    = "ledger"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentCache     = "cache"
	ComponentSecurity  = "security"
	ComponentRateLimit = "rate_limit"
	ComponentTrace     = "trace"
)

// Standard operation names.
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpDebit    = "debit"
	OpCredit   = "credit"
	OpExport   = "export"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
