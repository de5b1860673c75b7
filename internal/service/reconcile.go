package service

import (
	"encoding/json"

	"edms/internal/model"
)

// ReconcileAttachments merges the caller-declared keep list with newly
// uploaded attachments into the document's final ordered list: all kept
// entries first, in declared order, then the new uploads in upload order.
// This is a pure concatenation; an attachment present in both lists appears
// twice, which is accepted behavior.
func ReconcileAttachments(keep, uploaded []model.Attachment) []model.Attachment {
	final := make([]model.Attachment, 0, len(keep)+len(uploaded))
	final = append(final, keep...)
	final = append(final, uploaded...)
	return final
}

// ParseKeepList decodes the existing-attachment declaration from an edit form:
// two JSON string arrays, paired positionally. The field is auxiliary to the
// upload, so recovery is lenient: malformed JSON, non-array payloads, or a
// name/URL cardinality mismatch all degrade to "no existing attachments kept"
// rather than failing the request.
func ParseKeepList(namesJSON, urlsJSON string) []model.Attachment {
	names, ok := decodeStringArray(namesJSON)
	if !ok {
		return nil
	}
	urls, ok := decodeStringArray(urlsJSON)
	if !ok {
		return nil
	}
	if len(names) != len(urls) {
		return nil
	}

	keep := make([]model.Attachment, len(urls))
	for i := range urls {
		keep[i] = model.Attachment{Name: names[i], URL: urls[i]}
	}
	return keep
}

func decodeStringArray(raw string) ([]string, bool) {
	if raw == "" {
		return nil, false
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, false
	}
	return out, true
}
