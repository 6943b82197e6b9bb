package context

// Visibility is the per-record privacy tag controlling how much of a record
// the engine may expose.
type Visibility string

const (
	// FullAccess passes structural and sensitive fields through unchanged.
	FullAccess Visibility = "FULL_ACCESS"
	// MetricsOnly passes structural fields through; sensitive fields are
	// replaced with the explicit absence marker.
	MetricsOnly Visibility = "METRICS_ONLY"
	// Hidden drops the record entirely, structural fields included.
	Hidden Visibility = "HIDDEN"
)

// Redact applies the visibility policy to one raw record. It is the single
// place redaction happens; adapters and callers must not re-implement any
// part of it. The second return value is false when the record must not
// appear in output at all.
//
// An unrecognized tag fails closed and drops the record. Defaulting to
// FullAccess here would silently leak sensitive fields for any tag value
// added by a newer writer, so it must never be done.
func Redact(record *RawRecord) (*RedactedRecord, bool) {
	switch record.Visibility {
	case FullAccess:
		redacted := &RedactedRecord{
			Name:       record.Name,
			Timestamp:  record.Timestamp,
			Structural: record.Structural,
		}
		if len(record.Sensitive) > 0 {
			redacted.Sensitive = make(map[string]SensitiveValue, len(record.Sensitive))
			for key, value := range record.Sensitive {
				redacted.Sensitive[key] = PresentValue(value)
			}
		}
		return redacted, true

	case MetricsOnly:
		redacted := &RedactedRecord{
			Name:       record.Name,
			Timestamp:  record.Timestamp,
			Structural: record.Structural,
		}
		if len(record.Sensitive) > 0 {
			redacted.Sensitive = make(map[string]SensitiveValue, len(record.Sensitive))
			for key := range record.Sensitive {
				redacted.Sensitive[key] = AbsentValue()
			}
		}
		return redacted, true

	case Hidden:
		return nil, false

	default:
		// Fail closed: unknown tags are treated as HIDDEN.
		return nil, false
	}
}
