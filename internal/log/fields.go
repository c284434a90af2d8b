package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldOperation     = "operation"
	FieldError         = "error"
	FieldCurrency      = "currency"
	FieldCurrencyName  = "currency_name"
	FieldRate          = "rate"
	FieldQuoteDate     = "quote_date"
	FieldReferenceDate = "reference_date"
	FieldLookupDate    = "lookup_date"
	FieldAmount        = "amount"
	FieldValueBRL      = "value_brl"
	FieldRecordCount   = "record_count"
	FieldFileName      = "file_name"
	FieldFileSizeMB    = "file_size_mb"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentIngest  = "ingest"
	ComponentPTAX    = "ptax"
	ComponentRates   = "rates"
	ComponentSummary = "summary"
	ComponentReport  = "report"
	ComponentCache   = "cache"
)

// Operations defines standard operation names
const (
	OpParse    = "parse"
	OpValidate = "validate"
	OpLookup   = "lookup"
	OpConvert  = "convert"
	OpRender   = "render"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
